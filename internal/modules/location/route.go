// README: Straight-line route interpolation used by ride simulation.
package location

import "ridehail/internal/types"

// DefaultRouteSteps is the number of segments in a simulated route.
const DefaultRouteSteps = 30

const coordinateDecimals = 6

// InterpolateRoute returns steps+1 points on the straight line from start to end,
// each coordinate rounded to 6 decimals. Non-positive steps fall back to DefaultRouteSteps.
func InterpolateRoute(start, end types.Point, steps int) []types.Point {
	if steps <= 0 {
		steps = DefaultRouteSteps
	}
	points := make([]types.Point, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		points[i] = types.Point{
			Lat: roundTo(start.Lat*(1-t)+end.Lat*t, coordinateDecimals),
			Lng: roundTo(start.Lng*(1-t)+end.Lng*t, coordinateDecimals),
		}
	}
	return points
}
