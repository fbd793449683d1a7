// README: Pricing rate definition for each vehicle type and the fare breakdown returned to callers.
package pricing

import "ridehail/internal/types"

type Rate struct {
	VehicleType types.VehicleType
	BaseFare    float64
	PerKm       float64
	PerMin      float64
}

// No surge: rates are flat per vehicle type.
var Rates = map[types.VehicleType]Rate{
	types.VehicleAuto: {VehicleType: types.VehicleAuto, BaseFare: 20.0, PerKm: 12.0, PerMin: 1.5},
	types.VehicleTaxi: {VehicleType: types.VehicleTaxi, BaseFare: 40.0, PerKm: 20.0, PerMin: 2.0},
}

type FareBreakdown struct {
	BaseFare   float64 `json:"base_fare"`
	DistanceKm float64 `json:"distance_km"`
	PerKmRate  float64 `json:"per_km_rate"`
	TimeMin    float64 `json:"time_min"`
	PerMinRate float64 `json:"per_min_rate"`
	Total      float64 `json:"total"`
}
