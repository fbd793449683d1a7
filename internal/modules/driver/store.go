// README: Driver store on top of the document store.
package driver

import (
	"context"
	"errors"

	"ridehail/internal/docstore"
	"ridehail/internal/types"
)

type Store struct {
	docs docstore.Store
}

func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

func (s *Store) Create(ctx context.Context, d Driver) (types.ID, error) {
	return s.docs.Create(ctx, Collection, d)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Driver, error) {
	var d Driver
	err := s.docs.FindOne(ctx, Collection, id, &d)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) List(ctx context.Context, filter docstore.Filter, limit int) ([]Driver, error) {
	var out []Driver
	if err := s.docs.Find(ctx, Collection, filter, limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.docs.Count(ctx, Collection, nil)
}

// Claim flips available true -> false; false means someone else holds the driver.
func (s *Store) Claim(ctx context.Context, id types.ID) (bool, error) {
	ok, err := s.docs.UpdateIf(ctx, Collection, id,
		docstore.Filter{"available": true},
		docstore.Fields{"available": false},
	)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, ErrNotFound
	}
	return ok, err
}

func (s *Store) SetAvailable(ctx context.Context, id types.ID, available bool) error {
	err := s.docs.UpdateFields(ctx, Collection, id, docstore.Fields{"available": available})
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
