// README: Driver record and sample fleet.
package driver

import "ridehail/internal/types"

const Collection = "driver"

type Driver struct {
	ID              types.ID          `json:"id"`
	Name            string            `json:"name"`
	Phone           string            `json:"phone"`
	VehicleType     types.VehicleType `json:"vehicle_type"`
	VehicleNumber   string            `json:"vehicle_number"`
	Verified        bool              `json:"verified"`
	Rating          float64           `json:"rating"`
	TotalRides      int               `json:"total_rides"`
	Earnings        float64           `json:"earnings"`
	CurrentLocation types.Point       `json:"current_location"`
	Available       bool              `json:"available"`
}

// New returns a verified, available driver with the default rating.
func New(name, phone string, vt types.VehicleType, vehicleNumber string, at types.Point) Driver {
	return Driver{
		Name:            name,
		Phone:           phone,
		VehicleType:     vt,
		VehicleNumber:   vehicleNumber,
		Verified:        true,
		Rating:          4.8,
		CurrentLocation: at,
		Available:       true,
	}
}

func sampleDrivers() []Driver {
	return []Driver{
		New("Ravi", "9000000001", types.VehicleAuto, "KA-01-AR-1234", types.Point{Lat: 12.9716, Lng: 77.5946}),
		New("Sunita", "9000000002", types.VehicleTaxi, "KA-02-TC-9876", types.Point{Lat: 12.975, Lng: 77.59}),
		New("Imran", "9000000003", types.VehicleAuto, "KA-05-AR-4567", types.Point{Lat: 12.969, Lng: 77.6}),
	}
}
