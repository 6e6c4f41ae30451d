package services

import (
	"testing"

	"brilho-bknd/internal/models"
)

func zone(id int64, name string, lat, lng, radiusKm float64) models.CoverageZone {
	return models.CoverageZone{
		ID:        id,
		Name:      name,
		Status:    models.ZoneStatusActive,
		Latitude:  lat,
		Longitude: lng,
		RadiusKm:  radiusKm,
	}
}

func TestMatchZone_PointInsideZone(t *testing.T) {
	zones := []models.CoverageZone{
		zone(1, "Belo Horizonte", -19.9191, -43.9386, 20),
	}

	matched, distance, ok := matchZone(zones, -19.9245, -43.9352)
	if !ok {
		t.Fatal("expected point to be covered")
	}
	if matched.Name != "Belo Horizonte" {
		t.Errorf("matched zone = %q, want Belo Horizonte", matched.Name)
	}
	if distance > 1.0 {
		t.Errorf("distance = %v km, want under 1 km", distance)
	}
}

func TestMatchZone_PointOutsideAllZones(t *testing.T) {
	zones := []models.CoverageZone{
		zone(1, "Belo Horizonte", -19.9191, -43.9386, 20),
	}

	if _, _, ok := matchZone(zones, -20.5, -44.5); ok {
		t.Fatal("expected point outside every zone to be uncovered")
	}
}

func TestMatchZone_FirstZoneWinsOnOverlap(t *testing.T) {
	// Both zones contain the point; the one earlier in id order wins.
	zones := []models.CoverageZone{
		zone(1, "Centro", -19.9191, -43.9386, 30),
		zone(2, "Pampulha", -19.8519, -43.9695, 30),
	}

	matched, _, ok := matchZone(zones, -19.90, -43.95)
	if !ok {
		t.Fatal("expected coverage")
	}
	if matched.ID != 1 {
		t.Errorf("matched zone id = %d, want 1 (first in iteration order)", matched.ID)
	}
}

func TestMatchZone_RadiusMonotonicity(t *testing.T) {
	// One degree of latitude at the equator is ~111.19 km.
	inside := zone(1, "Wide", 0, 0, 111.5)
	if _, _, ok := matchZone([]models.CoverageZone{inside}, 1.0, 0); !ok {
		t.Error("point within radius should be covered")
	}

	outside := zone(1, "Narrow", 0, 0, 111.0)
	if _, _, ok := matchZone([]models.CoverageZone{outside}, 1.0, 0); ok {
		t.Error("point beyond radius should not be covered")
	}
}

func TestCheckCEP(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		covered  bool
		wantCity string
	}{
		{"covered BH prefix", "31990000", true, "Belo Horizonte"},
		{"covered with mask", "30.130-010", true, "Belo Horizonte"},
		{"uncovered prefix", "99999999", false, ""},
		{"neighboring city is not covered", "32010000", false, ""},
		{"too short", "301", false, ""},
		{"empty", "", false, ""},
		{"letters only", "abcdef", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkCEP(tt.code)
			if got.Covered != tt.covered {
				t.Errorf("checkCEP(%q).Covered = %v, want %v", tt.code, got.Covered, tt.covered)
			}
			if got.City != tt.wantCity {
				t.Errorf("checkCEP(%q).City = %q, want %q", tt.code, got.City, tt.wantCity)
			}
		})
	}
}

func TestCityForCEP_ResolvesUncoveredNeighbors(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"32010-000", "Contagem"},
		{"32650000", "Betim"},
		{"34000000", "Nova Lima"},
		{"31990000", "Belo Horizonte"},
		{"99999999", ""},
	}
	for _, tt := range tests {
		if got := cityForCEP(tt.code); got != tt.want {
			t.Errorf("cityForCEP(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestSuggestCity(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"Rua das Flores 100, Contagem MG", "Contagem"},
		{"Av. Amazonas, 500 - betim", "Betim"},
		{"Rua A, Belo Horizonte", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := suggestCity(tt.address); got != tt.want {
			t.Errorf("suggestCity(%q) = %q, want %q", tt.address, got, tt.want)
		}
	}
}
