// README: Pricing service computes fares from distance and duration.
package pricing

import (
	"errors"
	"math"

	"ridehail/internal/modules/location"
	"ridehail/internal/types"
)

var ErrInvalidVehicleType = errors.New("invalid vehicle type")

// Compute prices a trip. Totals are rounded half away from zero to 2 decimals.
// Negative distance or time is not rejected.
func Compute(vt types.VehicleType, distanceKm, timeMin float64) (FareBreakdown, error) {
	r, ok := Rates[vt]
	if !ok {
		return FareBreakdown{}, ErrInvalidVehicleType
	}
	total := r.BaseFare + distanceKm*r.PerKm + timeMin*r.PerMin
	return FareBreakdown{
		BaseFare:   r.BaseFare,
		DistanceKm: distanceKm,
		PerKmRate:  r.PerKm,
		TimeMin:    timeMin,
		PerMinRate: r.PerMin,
		Total:      round2(total),
	}, nil
}

type Service struct {
	avgSpeedKmh float64
}

func NewService(avgSpeedKmh float64) *Service {
	return &Service{avgSpeedKmh: avgSpeedKmh}
}

func (s *Service) Compute(vt types.VehicleType, distanceKm, timeMin float64) (FareBreakdown, error) {
	return Compute(vt, distanceKm, timeMin)
}

// Estimate prices the straight-line trip between two points at the configured average speed.
func (s *Service) Estimate(pickup, drop types.Point, vt types.VehicleType) (FareBreakdown, error) {
	dist := round2(location.DistanceKm(pickup, drop))
	var minutes float64
	if s.avgSpeedKmh > 0 {
		minutes = round2(dist / s.avgSpeedKmh * 60)
	}
	return Compute(vt, dist, minutes)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
