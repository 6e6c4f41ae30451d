package geo

import (
	"math"
	"testing"
)

func TestDistanceKm_Identity(t *testing.T) {
	points := [][2]float64{
		{-19.9191, -43.9386},
		{0, 0},
		{89.9, 179.9},
		{-33.4489, -70.6693},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceKm(%v, %v, same point) = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{-19.9191, -43.9386, -19.9245, -43.9352},
		{-19.9191, -43.9386, -20.5, -44.5},
		{10, 20, -30, 140},
	}
	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKm_KnownValues(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		tolKm                  float64
	}{
		{
			// Savassi to the Belo Horizonte zone center, under a kilometer.
			name: "downtown BH",
			lat1: -19.9191, lng1: -43.9386,
			lat2: -19.9245, lng2: -43.9352,
			wantKm: 0.7, tolKm: 0.3,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			wantKm: 111.19, tolKm: 0.5,
		},
		{
			name: "BH to Contagem",
			lat1: -19.9191, lng1: -43.9386,
			lat2: -19.9317, lng2: -44.0536,
			wantKm: 12.1, tolKm: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.wantKm) > tt.tolKm {
				t.Errorf("DistanceKm = %v, want %v ± %v", got, tt.wantKm, tt.tolKm)
			}
		})
	}
}

func TestDistanceKm_NonNegative(t *testing.T) {
	got := DistanceKm(-19.9, -43.9, 45.0, 120.0)
	if got < 0 {
		t.Errorf("DistanceKm returned negative distance %v", got)
	}
}
