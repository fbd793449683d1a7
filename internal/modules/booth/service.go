// README: Booth service issues sequential queue tickets.
package booth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ridehail/internal/types"
)

const ListLimit = 100

var ErrNotFound = errors.New("booth not found")

type Service struct {
	store *Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store *Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log, now: func() time.Time { return time.Now().UTC() }}
}

type IssueTicketCommand struct {
	BoothID types.ID
	Phone   *string
}

// IssueTicket hands out the booth's next queue number. Numbers are unique per booth
// even under concurrent issuance.
func (s *Service) IssueTicket(ctx context.Context, cmd IssueTicketCommand) (int64, error) {
	n, err := s.store.NextNumber(ctx, cmd.BoothID)
	if err != nil {
		return 0, err
	}
	_, err = s.store.CreateTicket(ctx, QueueTicket{
		BoothID:  cmd.BoothID,
		Number:   n,
		IssuedAt: s.now(),
		Phone:    cmd.Phone,
	})
	if err != nil {
		return 0, fmt.Errorf("record ticket %d for booth %s: %w", n, cmd.BoothID, err)
	}
	s.log.Info("queue ticket issued", "booth_id", cmd.BoothID, "number", n)
	return n, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Booth, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Booth, error) {
	return s.store.List(ctx, ListLimit)
}

func (s *Service) Tickets(ctx context.Context, boothID types.ID) ([]QueueTicket, error) {
	return s.store.Tickets(ctx, boothID)
}

func (s *Service) Create(ctx context.Context, b Booth) (types.ID, error) {
	return s.store.Create(ctx, b)
}

// SeedSamples inserts the sample booths when none exist.
func (s *Service) SeedSamples(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, b := range sampleBooths() {
		if _, err := s.store.Create(ctx, b); err != nil {
			return created, fmt.Errorf("seed booth %s: %w", b.Name, err)
		}
		created++
	}
	s.log.Info("seeded booths", "count", created)
	return created, nil
}
