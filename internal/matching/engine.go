package matching

import (
	"math"
	"sort"
	"strings"

	"brilho-bknd/internal/geo"
	"brilho-bknd/internal/models"
)

// Weights defines the coefficients of the composite match score.
type Weights struct {
	Proximity  float64 `json:"proximity"`
	Rating     float64 `json:"rating"`
	Experience float64 `json:"experience"`
}

// DefaultWeights returns the production baseline.
func DefaultWeights() Weights {
	return Weights{
		Proximity:  0.4,
		Rating:     0.3,
		Experience: 0.3,
	}
}

// Candidate is one ranked staff member with the computed distance and score.
type Candidate struct {
	Staff      models.StaffMember `json:"staff"`
	DistanceKm float64            `json:"distance_km"`
	Score      float64            `json:"score"`
}

// Request describes what the booking flow needs matched.
type Request struct {
	ServiceType   string  `json:"service_type"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	MaxDistanceKm float64 `json:"max_distance_km"`
}

type Engine struct {
	weights Weights
}

func NewEngine(w Weights) *Engine {
	return &Engine{weights: w}
}

// Rank applies hard filters (active status, specialty, distance caps), scores
// the survivors, and returns them best first. An empty slice is the normal
// no-match result. The engine only reads the roster; reserving the winner is
// the caller's problem.
func (e *Engine) Rank(req Request, staff []models.StaffMember) []Candidate {
	var out []Candidate

	for _, s := range staff {
		if s.Status != models.StaffStatusActive {
			continue
		}
		if !hasSpecialty(s.Specialties, req.ServiceType) {
			continue
		}

		distance := geo.DistanceKm(req.Latitude, req.Longitude, s.Latitude, s.Longitude)
		if req.MaxDistanceKm > 0 && distance > req.MaxDistanceKm {
			continue
		}
		// Providers can cap their own travel radius.
		if s.ServiceRadiusKm != nil && distance > *s.ServiceRadiusKm {
			continue
		}

		out = append(out, Candidate{
			Staff:      s,
			DistanceKm: distance,
			Score:      e.scoreOne(distance, s),
		})
	}

	// Score descending; ties broken by staff id ascending so the ordering is
	// stable regardless of how the roster was loaded.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Staff.ID < out[j].Staff.ID
	})

	return out
}

// scoreOne combines three 0..10 factors into a weighted 0..10 score.
func (e *Engine) scoreOne(distanceKm float64, s models.StaffMember) float64 {
	proximity := proximityScore(distanceKm)
	rating := ratingScore(s.Rating)
	experience := experienceScore(s.CompletedServices)

	return proximity*e.weights.Proximity +
		rating*e.weights.Rating +
		experience*e.weights.Experience
}

// proximityScore decays linearly from 10 at the client's door to 0 at 10 km.
func proximityScore(distanceKm float64) float64 {
	return math.Max(0, 10-distanceKm)
}

// ratingScore stretches the 0..5 star rating to 0..10.
func ratingScore(rating float64) float64 {
	return clamp(rating*2, 0, 10)
}

// experienceScore grants half a point per ten completed services, capped at 10.
func experienceScore(completed int) float64 {
	return math.Min(10, float64(completed)/20)
}

func hasSpecialty(specialties []string, serviceType string) bool {
	want := strings.ToLower(strings.TrimSpace(serviceType))
	if want == "" {
		return false
	}
	for _, sp := range specialties {
		if strings.ToLower(strings.TrimSpace(sp)) == want {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
