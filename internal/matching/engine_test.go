package matching

import (
	"math"
	"testing"

	"brilho-bknd/internal/models"
)

func staffAt(id int64, lat, lng float64, specialty string, rating float64, completed int) models.StaffMember {
	return models.StaffMember{
		ID:                id,
		Name:              "staff",
		Specialties:       []string{specialty},
		Status:            models.StaffStatusActive,
		Latitude:          lat,
		Longitude:         lng,
		Rating:            rating,
		CompletedServices: completed,
	}
}

func TestRank_PrefersCloseExperiencedStaff(t *testing.T) {
	// Staff A roughly 2 km away, rating 4.8, 145 completed.
	// Staff B roughly 15 km away, rating 5.0, 10 completed.
	// Expected: A ≈ 8.255, B ≈ 3.15 (proximity capped at 0 past 10 km).
	client := Request{
		ServiceType:   "Limpeza Residencial",
		Latitude:      -19.9191,
		Longitude:     -43.9386,
		MaxDistanceKm: 20,
	}
	a := staffAt(1, -19.9191, -43.9195, "Limpeza Residencial", 4.8, 145)
	b := staffAt(2, -19.9191, -43.7953, "Limpeza Residencial", 5.0, 10)

	engine := NewEngine(DefaultWeights())
	ranked := engine.Rank(client, []models.StaffMember{b, a})

	if len(ranked) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(ranked))
	}
	if ranked[0].Staff.ID != a.ID {
		t.Fatalf("expected staff A first, got staff %d", ranked[0].Staff.ID)
	}
	if math.Abs(ranked[0].Score-8.255) > 0.15 {
		t.Errorf("staff A score = %v, want ≈ 8.255", ranked[0].Score)
	}
	if math.Abs(ranked[1].Score-3.15) > 0.15 {
		t.Errorf("staff B score = %v, want ≈ 3.15", ranked[1].Score)
	}
}

func TestRank_EmptyRosterIsNoMatch(t *testing.T) {
	engine := NewEngine(DefaultWeights())
	ranked := engine.Rank(Request{ServiceType: "Limpeza Residencial", MaxDistanceKm: 10}, nil)
	if len(ranked) != 0 {
		t.Fatalf("expected no candidates, got %d", len(ranked))
	}
}

func TestRank_FiltersInactiveAndWrongSpecialty(t *testing.T) {
	req := Request{ServiceType: "Limpeza Comercial", Latitude: -19.9, Longitude: -43.9, MaxDistanceKm: 50}

	inactive := staffAt(1, -19.9, -43.9, "Limpeza Comercial", 5, 100)
	inactive.Status = models.StaffStatusInactive
	wrongSpecialty := staffAt(2, -19.9, -43.9, "Limpeza Residencial", 5, 100)
	ok := staffAt(3, -19.9, -43.9, "limpeza comercial", 4, 40) // specialty match is case-insensitive

	engine := NewEngine(DefaultWeights())
	ranked := engine.Rank(req, []models.StaffMember{inactive, wrongSpecialty, ok})

	if len(ranked) != 1 || ranked[0].Staff.ID != 3 {
		t.Fatalf("expected only staff 3, got %+v", ranked)
	}
}

func TestRank_RespectsDistanceCaps(t *testing.T) {
	req := Request{ServiceType: "Limpeza Residencial", Latitude: -19.9191, Longitude: -43.9386, MaxDistanceKm: 10}

	// ~12 km out: beyond the request cap.
	tooFar := staffAt(1, -19.9317, -44.0536, "Limpeza Residencial", 5, 100)
	// ~2 km out but the provider only travels 1 km.
	radius := 1.0
	cappedProvider := staffAt(2, -19.9191, -43.9195, "Limpeza Residencial", 5, 100)
	cappedProvider.ServiceRadiusKm = &radius
	near := staffAt(3, -19.9245, -43.9352, "Limpeza Residencial", 4, 20)

	engine := NewEngine(DefaultWeights())
	ranked := engine.Rank(req, []models.StaffMember{tooFar, cappedProvider, near})

	if len(ranked) != 1 || ranked[0].Staff.ID != 3 {
		t.Fatalf("expected only staff 3 to survive the caps, got %+v", ranked)
	}
}

func TestRank_SortedNonIncreasingWithIDTieBreak(t *testing.T) {
	req := Request{ServiceType: "Limpeza Residencial", Latitude: -19.9, Longitude: -43.9, MaxDistanceKm: 50}

	// Two identical candidates at the same spot: equal scores, lower id first.
	twinA := staffAt(7, -19.9, -43.9, "Limpeza Residencial", 4, 60)
	twinB := staffAt(4, -19.9, -43.9, "Limpeza Residencial", 4, 60)
	far := staffAt(9, -19.93, -44.05, "Limpeza Residencial", 3, 10)

	engine := NewEngine(DefaultWeights())
	ranked := engine.Rank(req, []models.StaffMember{twinA, far, twinB})

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("ranking not sorted: %v before %v", ranked[i-1].Score, ranked[i].Score)
		}
	}
	if ranked[0].Staff.ID != 4 || ranked[1].Staff.ID != 7 {
		t.Errorf("tie-break by id broken: got order %d, %d", ranked[0].Staff.ID, ranked[1].Staff.ID)
	}
}

func TestScoreFactors_Bounds(t *testing.T) {
	tests := []struct {
		distance  float64
		rating    float64
		completed int
	}{
		{0, 0, 0},
		{0, 5, 1000},
		{5, 2.5, 50},
		{100, 5, 200},
		{3, 4.8, 145},
	}

	engine := NewEngine(DefaultWeights())
	for _, tt := range tests {
		p := proximityScore(tt.distance)
		r := ratingScore(tt.rating)
		e := experienceScore(tt.completed)
		for name, v := range map[string]float64{"proximity": p, "rating": r, "experience": e} {
			if v < 0 || v > 10 {
				t.Errorf("%s score %v out of [0,10] for %+v", name, v, tt)
			}
		}

		s := staffAt(1, 0, 0, "x", tt.rating, tt.completed)
		if got := engine.scoreOne(tt.distance, s); got < 0 || got > 10 {
			t.Errorf("composite score %v out of [0,10] for %+v", got, tt)
		}
	}
}

func TestExperienceScore_CapsAtTen(t *testing.T) {
	if got := experienceScore(145); math.Abs(got-7.25) > 1e-9 {
		t.Errorf("experienceScore(145) = %v, want 7.25", got)
	}
	if got := experienceScore(500); got != 10 {
		t.Errorf("experienceScore(500) = %v, want 10", got)
	}
}
