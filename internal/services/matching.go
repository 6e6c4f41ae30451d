package services

import (
	"context"
	"errors"
	"time"

	"brilho-bknd/internal/matching"
	"brilho-bknd/internal/models"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ErrInvalidAssignmentStatus rejects unknown assignment statuses.
var ErrInvalidAssignmentStatus = errors.New("invalid assignment status")

// MatchResult is what the booking flow gets back: either a ranked candidate
// list or an explicit no-match, never an error for "nobody fits".
type MatchResult struct {
	Matched    bool                 `json:"matched"`
	Candidates []matching.Candidate `json:"candidates,omitempty"`
}

type MatchingService struct {
	db           *bun.DB
	engine       *matching.Engine
	staff        *StaffService
	defaultMaxKm float64
	logr         *zap.Logger
}

func NewMatchingService(db *bun.DB, engine *matching.Engine, staff *StaffService, defaultMaxKm float64, logr *zap.Logger) *MatchingService {
	return &MatchingService{
		db:           db,
		engine:       engine,
		staff:        staff,
		defaultMaxKm: defaultMaxKm,
		logr:         logr,
	}
}

// FindBestMatch loads the active roster and ranks it for the request. The
// roster is small and admin-curated, so specialty filtering happens in the
// engine where it can be case-insensitive.
func (s *MatchingService) FindBestMatch(ctx context.Context, req matching.Request) (*MatchResult, error) {
	if req.MaxDistanceKm <= 0 {
		req.MaxDistanceKm = s.defaultMaxKm
	}

	roster, err := s.staff.ListActiveStaff(ctx)
	if err != nil {
		return nil, err
	}

	ranked := s.engine.Rank(req, roster)
	return &MatchResult{Matched: len(ranked) > 0, Candidates: ranked}, nil
}

// CreateAssignment runs the matcher and records exactly one assignment for
// the winning candidate. A no-match result creates nothing and is not an
// error; the back-office falls back to manual dispatch. The matcher is greedy
// and single-shot: the winner is not reserved, and a later decline is handled
// by manual re-dispatch.
func (s *MatchingService) CreateAssignment(ctx context.Context, serviceID string, req matching.Request) (*models.Assignment, *MatchResult, error) {
	result, err := s.FindBestMatch(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if !result.Matched {
		return nil, result, nil
	}

	best := result.Candidates[0]
	assignment := &models.Assignment{
		ServiceID:  serviceID,
		StaffID:    best.Staff.ID,
		Status:     models.AssignmentStatusAssigned,
		DistanceKm: best.DistanceKm,
		Score:      best.Score,
		AssignedAt: time.Now().UTC(),
	}

	if _, err := s.db.NewInsert().Model(assignment).Returning("*").Exec(ctx); err != nil {
		return nil, nil, err
	}

	// Candidate-selected event; delivery (email/SMS) is an external
	// collaborator listening on the logs/queue, not this service.
	s.logr.Info("candidate selected",
		zap.String("service_id", serviceID),
		zap.Int64("staff_id", best.Staff.ID),
		zap.String("service_type", req.ServiceType),
		zap.Float64("distance_km", best.DistanceKm),
		zap.Float64("score", best.Score),
	)

	return assignment, result, nil
}

// ListAssignments returns assignments with their staff, newest first.
func (s *MatchingService) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := s.db.NewSelect().
		Model(&assignments).
		Relation("Staff").
		Order("assigned_at DESC").
		Scan(ctx)
	return assignments, err
}

// UpdateAssignmentStatus records an external lifecycle event
// (completed/cancelled) against an assignment.
func (s *MatchingService) UpdateAssignmentStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case models.AssignmentStatusAssigned, models.AssignmentStatusCompleted, models.AssignmentStatusCancelled:
	default:
		return ErrInvalidAssignmentStatus
	}

	res, err := s.db.NewUpdate().
		Model((*models.Assignment)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
