// README: Ride store on top of the document store.
package ride

import (
	"context"
	"errors"
	"fmt"

	"ridehail/internal/docstore"
	"ridehail/internal/types"
)

type Store struct {
	docs docstore.Store
}

func NewStore(docs docstore.Store) *Store {
	return &Store{docs: docs}
}

func (s *Store) Create(ctx context.Context, r Ride) (types.ID, error) {
	id, err := s.docs.Create(ctx, Collection, r)
	if err != nil {
		return "", fmt.Errorf("create ride: %w", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	var r Ride
	err := s.docs.FindOne(ctx, Collection, id, &r)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get ride %s: %w", id, err)
	}
	return &r, nil
}

func (s *Store) Update(ctx context.Context, id types.ID, fields docstore.Fields) error {
	err := s.docs.UpdateFields(ctx, Collection, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update ride %s: %w", id, err)
	}
	return nil
}

func (s *Store) CreateScheduled(ctx context.Context, sr ScheduledRide) (types.ID, error) {
	id, err := s.docs.Create(ctx, ScheduledCollection, sr)
	if err != nil {
		return "", fmt.Errorf("create scheduled ride: %w", err)
	}
	return id, nil
}

func (s *Store) GetScheduled(ctx context.Context, id types.ID) (*ScheduledRide, error) {
	var sr ScheduledRide
	err := s.docs.FindOne(ctx, ScheduledCollection, id, &sr)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sr, nil
}
