// README: Matching service claims an available driver and assigns it to a ride.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ridehail/internal/modules/driver"
	"ridehail/internal/modules/ride"
	"ridehail/internal/types"
)

var ErrNoDriversAvailable = errors.New("no drivers available")

type RideAssigner interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
	Assign(ctx context.Context, cmd ride.AssignCommand) (ride.Status, error)
}

type DriverPool interface {
	Available(ctx context.Context, vt types.VehicleType, limit int) ([]driver.Driver, error)
	Claim(ctx context.Context, id types.ID) (bool, error)
	Release(ctx context.Context, id types.ID) error
}

type Service struct {
	rides   RideAssigner
	drivers DriverPool
	policy  Policy
	log     *slog.Logger
}

func NewService(rides RideAssigner, drivers DriverPool, log *slog.Logger) *Service {
	return &Service{rides: rides, drivers: drivers, policy: FirstAvailable, log: log}
}

// MatchDriver claims an available driver of the ride's vehicle type and attaches it to the ride.
// A driver is held by at most one ride: the claim is a conditional available true -> false update.
func (s *Service) MatchDriver(ctx context.Context, rideID types.ID) (ride.Status, error) {
	r, err := s.rides.Get(ctx, rideID)
	if err != nil {
		return "", err
	}
	if r.Status != ride.StatusRequested {
		return "", ride.ErrInvalidState
	}

	d, err := s.claim(ctx, r.VehicleType)
	if err != nil {
		return "", err
	}

	status, err := s.rides.Assign(ctx, ride.AssignCommand{
		RideID: r.ID,
		Driver: ride.DriverSnapshot{
			ID:            d.ID,
			Name:          d.Name,
			Phone:         d.Phone,
			VehicleNumber: d.VehicleNumber,
		},
	})
	if err != nil {
		if rerr := s.drivers.Release(ctx, d.ID); rerr != nil {
			s.log.Error("release driver after failed assign", "ride_id", rideID, "driver_id", d.ID, "err", rerr)
		}
		return "", err
	}
	s.log.Info("ride matched", "ride_id", rideID, "driver_id", d.ID)
	return status, nil
}

func (s *Service) claim(ctx context.Context, vt types.VehicleType) (*driver.Driver, error) {
	for round := 0; round < maxClaimRounds; round++ {
		pool, err := s.drivers.Available(ctx, vt, candidatePoolSize)
		if err != nil {
			return nil, fmt.Errorf("list available drivers: %w", err)
		}
		if len(pool) == 0 {
			return nil, ErrNoDriversAvailable
		}
		for _, d := range s.policy(pool) {
			ok, err := s.drivers.Claim(ctx, d.ID)
			if errors.Is(err, driver.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("claim driver %s: %w", d.ID, err)
			}
			if ok {
				return &d, nil
			}
		}
		s.log.Debug("all candidates taken, re-reading pool", "vehicle_type", vt, "round", round+1)
	}
	return nil, ErrNoDriversAvailable
}
