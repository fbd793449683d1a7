// README: Booth store; queue counters use the document store's atomic increment.
package booth

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

func (s *Store) Create(ctx context.Context, b Booth) (types.ID, error) {
	return s.docs.Create(ctx, Collection, b)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Booth, error) {
	var b Booth
	err := s.docs.FindOne(ctx, Collection, id, &b)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]Booth, error) {
	var out []Booth
	if err := s.docs.Find(ctx, Collection, nil, limit, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.docs.Count(ctx, Collection, nil)
}

// NextNumber atomically bumps the booth's queue_count and returns the new value.
func (s *Store) NextNumber(ctx context.Context, id types.ID) (int64, error) {
	n, err := s.docs.Increment(ctx, Collection, id, "queue_count", 1)
	if errors.Is(err, docstore.ErrNotFound) {
		return 0, ErrNotFound
	}
	return n, err
}

func (s *Store) CreateTicket(ctx context.Context, t QueueTicket) (types.ID, error) {
	return s.docs.Create(ctx, TicketCollection, t)
}

func (s *Store) Tickets(ctx context.Context, boothID types.ID) ([]QueueTicket, error) {
	var out []QueueTicket
	if err := s.docs.Find(ctx, TicketCollection, docstore.Filter{"booth_id": boothID}, 0, &out); err != nil {
		return nil, err
	}
	return out, nil
}
