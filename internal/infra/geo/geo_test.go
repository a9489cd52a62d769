package geo

import (
	"math"
	"testing"
)

func TestHaversine_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude at the equator is ~111.19 km.
	got := Haversine(0, 0, 0, 1)
	if math.Abs(got-111.19) > 0.05 {
		t.Errorf("Haversine(0,0,0,1) = %.2f km, want ~111.19", got)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	if got := Haversine(51.5, -0.12, 51.5, -0.12); got != 0 {
		t.Errorf("distance to self = %v, want 0", got)
	}
}

func TestHaversine_KnownDistances(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{"London to Paris", 51.5074, -0.1278, 48.8566, 2.3522, 343.5, 2},
		{"New York to Los Angeles", 40.7128, -74.0060, 34.0522, -118.2437, 3936, 10},
		{"Sydney to Melbourne", -33.8688, 151.2093, -37.8136, 144.9631, 713.4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("Haversine() = %.1f km, want %.1f ± %.1f", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestHaversine_Symmetric(t *testing.T) {
	a := Haversine(10, 20, 30, 40)
	b := Haversine(30, 40, 10, 20)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("Haversine not symmetric: %v vs %v", a, b)
	}
}
