// README: Driver service: listing, seeding and availability accounting.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ridehail/internal/docstore"
	"ridehail/internal/types"
)

// ListLimit caps list responses.
const ListLimit = 50

var ErrNotFound = errors.New("driver not found")

type Service struct {
	store *Store
	log   *slog.Logger
}

func NewService(store *Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// List returns drivers, optionally restricted to one vehicle type. The type is not validated.
func (s *Service) List(ctx context.Context, vt types.VehicleType) ([]Driver, error) {
	filter := docstore.Filter{}
	if vt != "" {
		filter["vehicle_type"] = vt
	}
	return s.store.List(ctx, filter, ListLimit)
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Driver, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, d Driver) (types.ID, error) {
	return s.store.Create(ctx, d)
}

// Available returns available drivers of a vehicle type in store order.
func (s *Service) Available(ctx context.Context, vt types.VehicleType, limit int) ([]Driver, error) {
	return s.store.List(ctx, docstore.Filter{"vehicle_type": vt, "available": true}, limit)
}

func (s *Service) Claim(ctx context.Context, id types.ID) (bool, error) {
	return s.store.Claim(ctx, id)
}

func (s *Service) Release(ctx context.Context, id types.ID) error {
	return s.store.SetAvailable(ctx, id, true)
}

// SeedSamples inserts the sample fleet when no drivers exist and returns how many were created.
func (s *Service) SeedSamples(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, d := range sampleDrivers() {
		if _, err := s.store.Create(ctx, d); err != nil {
			return created, fmt.Errorf("seed driver %s: %w", d.Name, err)
		}
		created++
	}
	s.log.Info("seeded drivers", "count", created)
	return created, nil
}
