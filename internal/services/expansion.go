package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"brilho-bknd/internal/models"

	"github.com/uptrace/bun"
)

var (
	// ErrEmailRequired rejects waitlist opt-ins without an email.
	ErrEmailRequired = errors.New("email is required")

	// ErrInvalidPhaseStatus rejects unknown expansion phase statuses.
	ErrInvalidPhaseStatus = errors.New("invalid phase status")
)

const defaultTargetLimit = 5

// Waitlist priority tiers by city, 1 (most urgent) through 4. Unknown cities
// land in the default tier.
var cityPriorityTiers = map[string]int{
	"contagem":           1,
	"betim":              1,
	"nova lima":          2,
	"sabará":             2,
	"santa luzia":        3,
	"ribeirão das neves": 3,
	"ibirité":            3,
	"vespasiano":         3,
	"lagoa santa":        3,
	"florestal":          3,
}

const defaultPriorityTier = 4

type ExpansionService struct {
	db *bun.DB
}

func NewExpansionService(db *bun.DB) *ExpansionService {
	return &ExpansionService{db: db}
}

// JoinWaitlist appends an out-of-coverage request to the waitlist. The city
// is inferred from the CEP when left blank; priority comes from the static
// tier table. Entries are never deleted.
func (s *ExpansionService) JoinWaitlist(ctx context.Context, req models.JoinWaitlistRequest) (*models.WaitlistEntry, error) {
	if strings.TrimSpace(req.Email) == "" {
		return nil, ErrEmailRequired
	}

	city := strings.TrimSpace(req.City)
	if city == "" && req.CEP != "" {
		city = cityForCEP(req.CEP)
	}

	entry := &models.WaitlistEntry{
		Email:       strings.TrimSpace(req.Email),
		City:        city,
		Priority:    priorityForCity(city),
		RequestedAt: time.Now().UTC(),
	}
	if req.Name != "" {
		entry.Name = &req.Name
	}
	if req.Phone != "" {
		entry.Phone = &req.Phone
	}
	if req.CEP != "" {
		entry.CEP = &req.CEP
	}

	if _, err := s.db.NewInsert().Model(entry).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListWaitlist returns the full waitlist, newest first.
func (s *ExpansionService) ListWaitlist(ctx context.Context) ([]models.WaitlistEntry, error) {
	var entries []models.WaitlistEntry
	err := s.db.NewSelect().Model(&entries).Order("requested_at DESC").Scan(ctx)
	return entries, err
}

// DemandByCity aggregates waitlist entries into per-city counts and average
// priority, sorted by city name.
func (s *ExpansionService) DemandByCity(ctx context.Context) ([]models.CityDemand, error) {
	var entries []models.WaitlistEntry
	if err := s.db.NewSelect().Model(&entries).Scan(ctx); err != nil {
		return nil, err
	}
	return aggregateDemand(entries), nil
}

// NextExpansionTargets ranks cities by demand score and returns the top n.
func (s *ExpansionService) NextExpansionTargets(ctx context.Context, n int) ([]models.ExpansionTarget, error) {
	demand, err := s.DemandByCity(ctx)
	if err != nil {
		return nil, err
	}
	return rankTargets(demand, n), nil
}

// NotifyWaitlistForCity marks every un-notified entry for the city as
// notified and returns the number of rows touched. Idempotent: a second call
// finds nothing left to mark. Actual message delivery belongs to the email
// collaborator, not here.
func (s *ExpansionService) NotifyWaitlistForCity(ctx context.Context, city string) (int, error) {
	res, err := s.db.NewUpdate().
		Model((*models.WaitlistEntry)(nil)).
		Set("notified = true").
		Set("notified_at = ?", time.Now().UTC()).
		Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(city))).
		Where("notified = false").
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// defaultPhases is the initial rollout roadmap; existing rows are left alone.
var defaultPhases = []models.ExpansionPhase{
	{Key: "phase-1", Name: "Grande BH", Cities: []string{"Contagem", "Betim"}, ETA: "Q1 2026", Status: models.PhaseStatusPlanned},
	{Key: "phase-2", Name: "Vetor Sul", Cities: []string{"Nova Lima", "Sabará"}, ETA: "Q3 2026", Status: models.PhaseStatusResearch},
	{Key: "phase-3", Name: "Vetor Norte", Cities: []string{"Santa Luzia", "Vespasiano", "Lagoa Santa"}, ETA: "2027", Status: models.PhaseStatusResearch},
}

// SeedDefaultPhases inserts the roadmap rows if they are not there yet.
func (s *ExpansionService) SeedDefaultPhases(ctx context.Context) error {
	now := time.Now().UTC()
	phases := make([]models.ExpansionPhase, len(defaultPhases))
	copy(phases, defaultPhases)
	for i := range phases {
		phases[i].UpdatedAt = now
	}

	_, err := s.db.NewInsert().
		Model(&phases).
		On("CONFLICT (key) DO NOTHING").
		Exec(ctx)
	return err
}

// ListPhases returns the expansion roadmap in key order.
func (s *ExpansionService) ListPhases(ctx context.Context) ([]models.ExpansionPhase, error) {
	var phases []models.ExpansionPhase
	err := s.db.NewSelect().Model(&phases).Order("key ASC").Scan(ctx)
	return phases, err
}

// UpdatePhaseStatus overwrites a phase status. Any transition is allowed,
// including backward ones; only the status value itself is validated.
func (s *ExpansionService) UpdatePhaseStatus(ctx context.Context, key, status string) (*models.ExpansionPhase, error) {
	if !validPhaseStatus(status) {
		return nil, ErrInvalidPhaseStatus
	}

	res, err := s.db.NewUpdate().
		Model((*models.ExpansionPhase)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrNotFound
	}

	phase := new(models.ExpansionPhase)
	if err := s.db.NewSelect().Model(phase).Where("ep.key = ?", key).Scan(ctx); err != nil {
		return nil, err
	}
	return phase, nil
}

func validPhaseStatus(status string) bool {
	switch status {
	case models.PhaseStatusResearch, models.PhaseStatusPlanned,
		models.PhaseStatusActive, models.PhaseStatusDelayed:
		return true
	}
	return false
}

// priorityForCity looks up the static tier table, case-insensitively.
func priorityForCity(city string) int {
	if tier, ok := cityPriorityTiers[strings.ToLower(strings.TrimSpace(city))]; ok {
		return tier
	}
	return defaultPriorityTier
}

// aggregateDemand groups entries by city (case-insensitive, first-seen label
// wins) and computes count plus average priority per city.
func aggregateDemand(entries []models.WaitlistEntry) []models.CityDemand {
	type bucket struct {
		label string
		count int
		sum   int
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, e := range entries {
		city := strings.TrimSpace(e.City)
		if city == "" {
			city = "Desconhecida"
		}
		key := strings.ToLower(city)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: city}
			buckets[key] = b
			order = append(order, key)
		}
		b.count++
		b.sum += e.Priority
	}

	out := make([]models.CityDemand, 0, len(buckets))
	for _, key := range order {
		b := buckets[key]
		out = append(out, models.CityDemand{
			City:            b.label,
			Count:           b.count,
			AveragePriority: float64(b.sum) / float64(b.count),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].City < out[j].City })
	return out
}

// rankTargets scores each city as count/averagePriority (more demand and a
// more urgent tier rank higher) and returns the top n, score descending with
// a city-name tie-break. Priorities are ≥ 1 by construction, so the division
// is safe.
func rankTargets(demand []models.CityDemand, n int) []models.ExpansionTarget {
	if n <= 0 {
		n = defaultTargetLimit
	}

	out := make([]models.ExpansionTarget, 0, len(demand))
	for _, d := range demand {
		if d.AveragePriority <= 0 {
			// Cannot happen with tiered priorities; skip rather than divide by zero.
			continue
		}
		out = append(out, models.ExpansionTarget{
			City:            d.City,
			Count:           d.Count,
			AveragePriority: d.AveragePriority,
			Score:           float64(d.Count) / d.AveragePriority,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].City < out[j].City
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
