// README: Ride lifecycle events and the publisher contract.
package events

import (
	"context"
	"errors"
	"time"

	"ridehail/internal/types"
)

const (
	RideRequested      = "ride.requested"
	RideMatched        = "ride.matched"
	RideRouteSimulated = "ride.route_simulated"
	RideProgressed     = "ride.progressed"
	RideCompleted      = "ride.completed"
)

type Event struct {
	Type     string       `json:"type"`
	RideID   types.ID     `json:"ride_id"`
	Status   string       `json:"status"`
	DriverID types.ID     `json:"driver_id,omitempty"`
	Position *types.Point `json:"position,omitempty"`
	Progress *float64     `json:"progress,omitempty"`
	At       time.Time    `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
