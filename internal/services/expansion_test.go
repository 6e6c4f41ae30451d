package services

import (
	"math"
	"testing"

	"brilho-bknd/internal/models"
)

func TestPriorityForCity(t *testing.T) {
	tests := []struct {
		city string
		want int
	}{
		{"Contagem", 1},
		{"contagem", 1},
		{"  Betim  ", 1},
		{"Nova Lima", 2},
		{"Florestal", 3},
		{"Uberlândia", 4},
		{"", 4},
	}
	for _, tt := range tests {
		if got := priorityForCity(tt.city); got != tt.want {
			t.Errorf("priorityForCity(%q) = %d, want %d", tt.city, got, tt.want)
		}
	}
}

func entryFor(city string) models.WaitlistEntry {
	return models.WaitlistEntry{
		Email:    "someone@example.com",
		City:     city,
		Priority: priorityForCity(city),
	}
}

func TestAggregateDemand(t *testing.T) {
	entries := []models.WaitlistEntry{
		entryFor("Contagem"),
		entryFor("Contagem"),
		entryFor("contagem"), // same city, different casing
		entryFor("Florestal"),
	}

	demand := aggregateDemand(entries)
	if len(demand) != 2 {
		t.Fatalf("expected 2 cities, got %d: %+v", len(demand), demand)
	}

	byCity := map[string]models.CityDemand{}
	for _, d := range demand {
		byCity[d.City] = d
	}

	contagem, ok := byCity["Contagem"]
	if !ok {
		t.Fatalf("missing Contagem in %+v", demand)
	}
	if contagem.Count != 3 || contagem.AveragePriority != 1 {
		t.Errorf("Contagem = %+v, want count 3 avg priority 1", contagem)
	}

	florestal := byCity["Florestal"]
	if florestal.Count != 1 || florestal.AveragePriority != 3 {
		t.Errorf("Florestal = %+v, want count 1 avg priority 3", florestal)
	}
}

func TestRankTargets_OrdersByScore(t *testing.T) {
	// 3 entries for Contagem (priority 1) vs 1 for Florestal (priority 3):
	// scores 3.0 vs ~0.33.
	demand := aggregateDemand([]models.WaitlistEntry{
		entryFor("Florestal"),
		entryFor("Contagem"),
		entryFor("Contagem"),
		entryFor("Contagem"),
	})

	targets := rankTargets(demand, 5)
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].City != "Contagem" {
		t.Errorf("top target = %q, want Contagem", targets[0].City)
	}
	if math.Abs(targets[0].Score-3.0) > 1e-9 {
		t.Errorf("Contagem score = %v, want 3.0", targets[0].Score)
	}
	if math.Abs(targets[1].Score-1.0/3.0) > 1e-9 {
		t.Errorf("Florestal score = %v, want 1/3", targets[1].Score)
	}
}

func TestRankTargets_LimitAndDefault(t *testing.T) {
	var entries []models.WaitlistEntry
	for _, city := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		entries = append(entries, entryFor(city))
	}
	demand := aggregateDemand(entries)

	if got := rankTargets(demand, 2); len(got) != 2 {
		t.Errorf("rankTargets(n=2) returned %d targets", len(got))
	}
	// Non-positive n falls back to the default of 5.
	if got := rankTargets(demand, 0); len(got) != 5 {
		t.Errorf("rankTargets(n=0) returned %d targets, want 5", len(got))
	}
}

func TestRankTargets_TieBreakByCityName(t *testing.T) {
	demand := aggregateDemand([]models.WaitlistEntry{
		entryFor("Vespasiano"), // priority 3
		entryFor("Ibirité"),    // priority 3
	})

	targets := rankTargets(demand, 5)
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
	if targets[0].City != "Ibirité" {
		t.Errorf("equal scores should order by city name; got %q first", targets[0].City)
	}
}

func TestValidPhaseStatus(t *testing.T) {
	for _, ok := range []string{"research", "planned", "active", "delayed"} {
		if !validPhaseStatus(ok) {
			t.Errorf("validPhaseStatus(%q) = false, want true", ok)
		}
	}
	for _, bad := range []string{"", "done", "ACTIVE", "paused"} {
		if validPhaseStatus(bad) {
			t.Errorf("validPhaseStatus(%q) = true, want false", bad)
		}
	}
}
