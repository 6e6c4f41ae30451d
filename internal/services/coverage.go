package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"brilho-bknd/internal/geo"
	"brilho-bknd/internal/models"

	"github.com/uptrace/bun"
)

var (
	// ErrInvalidZone rejects zone writes with missing coordinates or a
	// non-positive radius at the admin boundary.
	ErrInvalidZone = errors.New("zone requires coordinates and a positive radius_km")

	// ErrNotFound is the generic missing-row sentinel for service lookups.
	ErrNotFound = errors.New("not found")
)

// cepRange maps an inclusive range of 5-digit CEP prefixes to a city.
type cepRange struct {
	from, to int
	city     string
}

// Static table of covered CEP prefixes. First matching range wins; ranges
// are curated and assumed non-overlapping.
var coveredCEPRanges = []cepRange{
	{30000, 30999, "Belo Horizonte"},
	{31000, 31999, "Belo Horizonte"},
}

// CEP prefixes for neighboring cities we do not cover yet. Only used to infer
// a waitlist city when the visitor left the city field blank.
var uncoveredCEPHints = []cepRange{
	{32000, 32399, "Contagem"},
	{32600, 32699, "Betim"},
	{33200, 33299, "Vespasiano"},
	{34000, 34099, "Nova Lima"},
	{34505, 34599, "Sabará"},
}

// Cities we know about but do not cover yet, used to suggest a waitlist city
// from a free-text address.
var knownUncoveredCities = []string{
	"Contagem",
	"Betim",
	"Nova Lima",
	"Sabará",
	"Ribeirão das Neves",
	"Santa Luzia",
	"Ibirité",
	"Vespasiano",
	"Lagoa Santa",
	"Florestal",
}

type CoverageService struct {
	db *bun.DB
}

func NewCoverageService(db *bun.DB) *CoverageService {
	return &CoverageService{db: db}
}

// ListZones returns zones filtered by status/region, ordered by id so that
// coverage checks and listings iterate in a stable, documented order.
func (s *CoverageService) ListZones(ctx context.Context, params models.ZoneQueryParams) ([]models.CoverageZone, error) {
	var zones []models.CoverageZone

	q := s.db.NewSelect().Model(&zones)

	if len(params.Statuses) > 0 {
		lowered := make([]string, len(params.Statuses))
		for i, st := range params.Statuses {
			lowered[i] = strings.ToLower(st)
		}
		q = q.Where("LOWER(cz.status) IN (?)", bun.In(lowered))
	}
	if len(params.Regions) > 0 {
		lowered := make([]string, len(params.Regions))
		for i, r := range params.Regions {
			lowered[i] = strings.ToLower(r)
		}
		q = q.Where("LOWER(cz.region) IN (?)", bun.In(lowered))
	}

	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return zones, nil
}

// ListActiveZones returns active zones in id order.
func (s *CoverageService) ListActiveZones(ctx context.Context) ([]models.CoverageZone, error) {
	return s.ListZones(ctx, models.ZoneQueryParams{Statuses: []string{models.ZoneStatusActive}})
}

// CreateZone validates and inserts a new zone.
func (s *CoverageService) CreateZone(ctx context.Context, req models.CreateZoneRequest) (*models.CoverageZone, error) {
	if req.Name == "" || req.Latitude == nil || req.Longitude == nil ||
		req.RadiusKm == nil || *req.RadiusKm <= 0 {
		return nil, ErrInvalidZone
	}

	status := req.Status
	if status == "" {
		status = models.ZoneStatusActive
	}
	if status != models.ZoneStatusActive && status != models.ZoneStatusInactive {
		return nil, ErrInvalidZone
	}

	zone := &models.CoverageZone{
		Name:          req.Name,
		Region:        req.Region,
		Status:        status,
		Latitude:      *req.Latitude,
		Longitude:     *req.Longitude,
		RadiusKm:      *req.RadiusKm,
		Neighborhoods: req.Neighborhoods,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}

	if _, err := s.db.NewInsert().Model(zone).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return zone, nil
}

// UpdateZone shallow-merges the patch into the stored zone. The merged result
// must still satisfy the zone invariants.
func (s *CoverageService) UpdateZone(ctx context.Context, id int64, patch models.CreateZoneRequest) (*models.CoverageZone, error) {
	zone := new(models.CoverageZone)
	err := s.db.NewSelect().Model(zone).Where("cz.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if patch.Name != "" {
		zone.Name = patch.Name
	}
	if patch.Region != "" {
		zone.Region = patch.Region
	}
	if patch.Status != "" {
		if patch.Status != models.ZoneStatusActive && patch.Status != models.ZoneStatusInactive {
			return nil, ErrInvalidZone
		}
		zone.Status = patch.Status
	}
	if patch.Latitude != nil {
		zone.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		zone.Longitude = *patch.Longitude
	}
	if patch.RadiusKm != nil {
		zone.RadiusKm = *patch.RadiusKm
	}
	if patch.Neighborhoods != nil {
		zone.Neighborhoods = patch.Neighborhoods
	}

	if zone.RadiusKm <= 0 {
		return nil, ErrInvalidZone
	}
	zone.UpdatedAt = time.Now().UTC()

	if _, err := s.db.NewUpdate().Model(zone).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return zone, nil
}

// DeleteZone removes a zone. Idempotent: deleting an absent id is not an error.
func (s *CoverageService) DeleteZone(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().Model((*models.CoverageZone)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// CheckByCoordinates reports whether a point is inside any active zone. The
// first matching zone in ascending id order wins. When nothing matches, the
// free-text address may yield a suggested waitlist city.
func (s *CoverageService) CheckByCoordinates(ctx context.Context, lat, lng float64, address string) (*models.CoverageCheckResult, error) {
	zones, err := s.ListActiveZones(ctx)
	if err != nil {
		return nil, err
	}

	if zone, distance, ok := matchZone(zones, lat, lng); ok {
		return &models.CoverageCheckResult{
			Covered:    true,
			Zone:       zone,
			DistanceKm: &distance,
		}, nil
	}

	return &models.CoverageCheckResult{
		Covered:       false,
		SuggestedCity: suggestCity(address),
	}, nil
}

// CheckByPostalCode tests a CEP against the static range table. Malformed
// input is simply not covered, never an error.
func (s *CoverageService) CheckByPostalCode(code string) models.PostalCheckResult {
	return checkCEP(code)
}

// matchZone returns the first zone (in slice order) whose center is within
// radius of the point, plus the distance to that center.
func matchZone(zones []models.CoverageZone, lat, lng float64) (*models.CoverageZone, float64, bool) {
	for i := range zones {
		zone := &zones[i]
		distance := geo.DistanceKm(lat, lng, zone.Latitude, zone.Longitude)
		if distance <= zone.RadiusKm {
			return zone, distance, true
		}
	}
	return nil, 0, false
}

// suggestCity substring-matches known uncovered city names against a
// free-text address. Empty when nothing matches.
func suggestCity(address string) string {
	if address == "" {
		return ""
	}
	lowered := strings.ToLower(address)
	for _, city := range knownUncoveredCities {
		if strings.Contains(lowered, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

// checkCEP strips non-digits, reads the first five digits as a prefix, and
// tests it against the covered range table. First matching range wins;
// malformed input is simply not covered.
func checkCEP(code string) models.PostalCheckResult {
	prefix, ok := cepPrefix(code)
	if !ok {
		return models.PostalCheckResult{Covered: false}
	}

	for _, rng := range coveredCEPRanges {
		if prefix >= rng.from && prefix <= rng.to {
			return models.PostalCheckResult{Covered: true, City: rng.city}
		}
	}
	return models.PostalCheckResult{Covered: false}
}

// cityForCEP resolves a CEP to a city label, looking at covered ranges first
// and then the uncovered neighbor hints. Empty when the prefix is unknown.
func cityForCEP(code string) string {
	prefix, ok := cepPrefix(code)
	if !ok {
		return ""
	}
	for _, rng := range coveredCEPRanges {
		if prefix >= rng.from && prefix <= rng.to {
			return rng.city
		}
	}
	for _, rng := range uncoveredCEPHints {
		if prefix >= rng.from && prefix <= rng.to {
			return rng.city
		}
	}
	return ""
}

// cepPrefix extracts the first five digits of a CEP as an integer.
func cepPrefix(code string) (int, bool) {
	var digits []rune
	for _, r := range code {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
			if len(digits) == 5 {
				break
			}
		}
	}
	if len(digits) < 5 {
		return 0, false
	}

	prefix := 0
	for _, r := range digits {
		prefix = prefix*10 + int(r-'0')
	}
	return prefix, true
}
