package pricing

import (
	"errors"
	"math"
	"testing"

	"ridehail/internal/types"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		vt        types.VehicleType
		distance  float64
		minutes   float64
		wantTotal float64
	}{
		{name: "auto base only", vt: types.VehicleAuto, wantTotal: 20},
		{name: "taxi base only", vt: types.VehicleTaxi, wantTotal: 40},
		// 20 + 5*12 + 10*1.5 = 95
		{name: "auto distance and time", vt: types.VehicleAuto, distance: 5, minutes: 10, wantTotal: 95},
		// 40 + 5*20 + 10*2 = 160
		{name: "taxi distance and time", vt: types.VehicleTaxi, distance: 5, minutes: 10, wantTotal: 160},
		// 20 + 1.234*12 = 34.808 -> 34.81
		{name: "auto rounds to cents", vt: types.VehicleAuto, distance: 1.234, wantTotal: 34.81},
		// 40 + 0.001*20 = 40.02
		{name: "taxi tiny distance", vt: types.VehicleTaxi, distance: 0.001, wantTotal: 40.02},
		// Negative inputs are accepted: 20 - 1*12 = 8
		{name: "negative distance is not rejected", vt: types.VehicleAuto, distance: -1, wantTotal: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.vt, tt.distance, tt.minutes)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if math.Abs(got.Total-tt.wantTotal) > 1e-9 {
				t.Errorf("Compute() total = %v, want %v", got.Total, tt.wantTotal)
			}
			r := Rates[tt.vt]
			if got.BaseFare != r.BaseFare || got.PerKmRate != r.PerKm || got.PerMinRate != r.PerMin {
				t.Errorf("breakdown rates %+v do not match %+v", got, r)
			}
			if got.DistanceKm != tt.distance || got.TimeMin != tt.minutes {
				t.Errorf("breakdown inputs not echoed: %+v", got)
			}
		})
	}
}

func TestComputeMatchesFormulaForAllTypes(t *testing.T) {
	for _, vt := range types.VehicleTypes {
		r := Rates[vt]
		for _, d := range []float64{0, 0.5, 2, 7.25, 13} {
			for _, m := range []float64{0, 1, 4.5, 30} {
				got, err := Compute(vt, d, m)
				if err != nil {
					t.Fatalf("Compute(%s): %v", vt, err)
				}
				want := math.Round((r.BaseFare+d*r.PerKm+m*r.PerMin)*100) / 100
				if got.Total != want {
					t.Errorf("Compute(%s, %v, %v) = %v, want %v", vt, d, m, got.Total, want)
				}
			}
		}
	}
}

func TestComputeInvalidVehicleType(t *testing.T) {
	for _, vt := range []types.VehicleType{"", "bike", "TAXI", "suv"} {
		if _, err := Compute(vt, 1, 1); !errors.Is(err, ErrInvalidVehicleType) {
			t.Errorf("Compute(%q) error = %v, want ErrInvalidVehicleType", vt, err)
		}
	}
}

func TestEstimate(t *testing.T) {
	s := NewService(30)
	pickup := types.Point{Lat: 12.9716, Lng: 77.5946}
	drop := types.Point{Lat: 12.9750, Lng: 77.5900}

	got, err := s.Estimate(pickup, drop, types.VehicleTaxi)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if got.DistanceKm <= 0.5 || got.DistanceKm >= 0.7 {
		t.Errorf("distance = %v, want roughly 0.62km", got.DistanceKm)
	}
	wantMinutes := math.Round(got.DistanceKm/30*60*100) / 100
	if got.TimeMin != wantMinutes {
		t.Errorf("minutes = %v, want %v", got.TimeMin, wantMinutes)
	}
	if got.Total <= 40 {
		t.Errorf("total = %v, want above base fare", got.Total)
	}

	if _, err := s.Estimate(pickup, drop, "bike"); !errors.Is(err, ErrInvalidVehicleType) {
		t.Errorf("Estimate(bike) error = %v, want ErrInvalidVehicleType", err)
	}
}
