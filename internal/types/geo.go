// README: Coordinate and named location value objects.
package types

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within WGS84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

type Location struct {
	Name       *string `json:"name,omitempty"`
	Coordinate Point   `json:"coordinate"`
}

func NamedLocation(name string, lat, lng float64) Location {
	return Location{Name: &name, Coordinate: Point{Lat: lat, Lng: lng}}
}
