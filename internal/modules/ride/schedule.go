// README: Scheduled pickups. Records are immutable; nothing consumes them yet.
package ride

import (
	"context"
	"time"

	"ridehail/internal/types"
)

const ScheduledCollection = "scheduledride"

type ScheduledRide struct {
	ID           types.ID          `json:"id"`
	RiderPhone   string            `json:"rider_phone"`
	BoothID      types.ID          `json:"booth_id"`
	VehicleType  types.VehicleType `json:"vehicle_type"`
	ScheduledFor time.Time         `json:"scheduled_for"`
	CreatedAt    time.Time         `json:"created_at"`
}

type ScheduleCommand struct {
	RiderPhone   string
	BoothID      types.ID
	VehicleType  types.VehicleType
	ScheduledFor time.Time
}

// Schedule stores a pickup request for later. The booth reference is not checked.
func (s *Service) Schedule(ctx context.Context, cmd ScheduleCommand) (types.ID, error) {
	if cmd.RiderPhone == "" || cmd.BoothID == "" || cmd.VehicleType == "" || cmd.ScheduledFor.IsZero() {
		return "", ErrBadRequest
	}
	id, err := s.store.CreateScheduled(ctx, ScheduledRide{
		RiderPhone:   cmd.RiderPhone,
		BoothID:      cmd.BoothID,
		VehicleType:  cmd.VehicleType,
		ScheduledFor: cmd.ScheduledFor.UTC(),
		CreatedAt:    s.now(),
	})
	if err != nil {
		return "", err
	}
	s.log.Info("ride scheduled", "scheduled_ride_id", id, "booth_id", cmd.BoothID)
	return id, nil
}

func (s *Service) GetScheduled(ctx context.Context, id types.ID) (*ScheduledRide, error) {
	return s.store.GetScheduled(ctx, id)
}
