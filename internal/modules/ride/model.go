// README: Ride aggregate and status definitions.
package ride

import (
	"time"

	"ridehail/internal/modules/pricing"
	"ridehail/internal/types"
)

const Collection = "ride"

type Status string

const (
	StatusRequested     Status = "requested"
	StatusDriverEnRoute Status = "driver_en_route"
	StatusOngoing       Status = "ongoing"
	StatusCompleted     Status = "completed"
	StatusCancelled     Status = "cancelled"
)

// DriverSnapshot is a copy of the driver taken at match time, not a live reference.
type DriverSnapshot struct {
	ID            types.ID  `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	VehicleNumber string    `json:"vehicle_number"`
	TakenAt       time.Time `json:"taken_at"`
}

type Ride struct {
	ID           types.ID               `json:"id"`
	RiderName    string                 `json:"rider_name"`
	RiderPhone   string                 `json:"rider_phone"`
	Pickup       types.Location         `json:"pickup"`
	Drop         types.Location         `json:"drop"`
	VehicleType  types.VehicleType      `json:"vehicle_type"`
	FixedBoothID *types.ID              `json:"fixed_booth_id"`
	Status       Status                 `json:"status"`
	Driver       *DriverSnapshot        `json:"driver"`
	Fare         *pricing.FareBreakdown `json:"fare"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	RoutePoints  []types.Point          `json:"route_points"`
	RouteIndex   int                    `json:"route_index"`
}

// AllowedTransitions represents the ride state flow as code.
// Rides progressed without a match may move from requested straight to ongoing or completed.
var AllowedTransitions = map[Status][]Status{
	StatusRequested:     {StatusDriverEnRoute, StatusOngoing, StatusCompleted, StatusCancelled},
	StatusDriverEnRoute: {StatusOngoing, StatusCompleted, StatusCancelled},
	StatusOngoing:       {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
