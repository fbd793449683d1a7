// README: Vehicle type enumeration.
package types

type VehicleType string

const (
	VehicleAuto VehicleType = "auto"
	VehicleTaxi VehicleType = "taxi"
)

var VehicleTypes = []VehicleType{VehicleAuto, VehicleTaxi}

func (v VehicleType) Valid() bool {
	for _, t := range VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (v VehicleType) String() string {
	return string(v)
}
