package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"brilho-bknd/internal/models"

	"github.com/uptrace/bun"
)

// ErrInvalidStaff rejects staff writes missing the required fields.
var ErrInvalidStaff = errors.New("staff member requires name, email and at least one specialty, with rating in 0..5")

// ErrApplicationReviewed rejects a second review of a provider application.
var ErrApplicationReviewed = errors.New("application already reviewed")

type StaffService struct {
	db *bun.DB
}

func NewStaffService(db *bun.DB) *StaffService {
	return &StaffService{db: db}
}

// ListStaff returns staff filtered by specialty/active status, ordered by id.
func (s *StaffService) ListStaff(ctx context.Context, params models.StaffQueryParams) ([]models.StaffMember, error) {
	var staff []models.StaffMember

	q := s.db.NewSelect().Model(&staff)

	if params.ActiveOnly {
		q = q.Where("sm.status = ?", models.StaffStatusActive)
	}
	if len(params.Specialties) > 0 {
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, sp := range params.Specialties {
				q = q.WhereOr("? = ANY(sm.specialties)", sp)
			}
			return q
		})
	}

	if err := q.Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return staff, nil
}

// ListActiveStaff returns the active roster in id order.
func (s *StaffService) ListActiveStaff(ctx context.Context) ([]models.StaffMember, error) {
	return s.ListStaff(ctx, models.StaffQueryParams{ActiveOnly: true})
}

// GetStaffByID returns a single staff member.
func (s *StaffService) GetStaffByID(ctx context.Context, id int64) (*models.StaffMember, error) {
	member := new(models.StaffMember)
	err := s.db.NewSelect().Model(member).Where("sm.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return member, nil
}

// CreateStaff validates and inserts an internal staff member.
func (s *StaffService) CreateStaff(ctx context.Context, member *models.StaffMember) (*models.StaffMember, error) {
	if err := validateStaff(member); err != nil {
		return nil, err
	}
	if member.Status == "" {
		member.Status = models.StaffStatusActive
	}
	member.CreatedAt = time.Now().UTC()
	member.UpdatedAt = member.CreatedAt

	if _, err := s.db.NewInsert().Model(member).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return member, nil
}

// UpdateStaff shallow-merges the patch into the stored member.
func (s *StaffService) UpdateStaff(ctx context.Context, id int64, patch models.UpdateStaffRequest) (*models.StaffMember, error) {
	member, err := s.GetStaffByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		member.Name = *patch.Name
	}
	if patch.Email != nil {
		member.Email = *patch.Email
	}
	if patch.Phone != nil {
		member.Phone = *patch.Phone
	}
	if patch.Specialties != nil {
		member.Specialties = patch.Specialties
	}
	if patch.Status != nil {
		if *patch.Status != models.StaffStatusActive && *patch.Status != models.StaffStatusInactive {
			return nil, ErrInvalidStaff
		}
		member.Status = *patch.Status
	}
	if patch.Latitude != nil {
		member.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		member.Longitude = *patch.Longitude
	}
	if patch.Rating != nil {
		member.Rating = *patch.Rating
	}
	if patch.CompletedServices != nil {
		member.CompletedServices = *patch.CompletedServices
	}
	if patch.Available != nil {
		member.Available = *patch.Available
	}
	if patch.ServiceRadiusKm != nil {
		member.ServiceRadiusKm = patch.ServiceRadiusKm
	}
	if patch.OwnTools != nil {
		member.OwnTools = patch.OwnTools
	}
	if patch.OwnTransport != nil {
		member.OwnTransport = patch.OwnTransport
	}
	if patch.ExpectedHourlyPrice != nil {
		member.ExpectedHourlyPrice = patch.ExpectedHourlyPrice
	}

	if err := validateStaff(member); err != nil {
		return nil, err
	}
	member.UpdatedAt = time.Now().UTC()

	if _, err := s.db.NewUpdate().Model(member).WherePK().Exec(ctx); err != nil {
		return nil, err
	}
	return member, nil
}

// DeleteStaff removes a staff member. Idempotent.
func (s *StaffService) DeleteStaff(ctx context.Context, id int64) error {
	_, err := s.db.NewDelete().Model((*models.StaffMember)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

// ApplyAsProvider records a pending provider application.
func (s *StaffService) ApplyAsProvider(ctx context.Context, app *models.ProviderApplication) (*models.ProviderApplication, error) {
	if strings.TrimSpace(app.Name) == "" || strings.TrimSpace(app.Email) == "" || len(app.Specialties) == 0 {
		return nil, ErrInvalidStaff
	}
	app.Status = models.ApplicationStatusPending
	app.CreatedAt = time.Now().UTC()
	app.ReviewedAt = nil

	if _, err := s.db.NewInsert().Model(app).Returning("*").Exec(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// ListApplications returns provider applications, optionally filtered by status.
func (s *StaffService) ListApplications(ctx context.Context, status string) ([]models.ProviderApplication, error) {
	var apps []models.ProviderApplication
	q := s.db.NewSelect().Model(&apps)
	if status != "" {
		q = q.Where("pa.status = ?", strings.ToLower(status))
	}
	err := q.Order("created_at DESC").Scan(ctx)
	return apps, err
}

// ApproveApplication promotes a pending application into a StaffMember and
// marks it approved, in one transaction.
func (s *StaffService) ApproveApplication(ctx context.Context, id int64) (*models.StaffMember, error) {
	var member *models.StaffMember

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		app := new(models.ProviderApplication)
		if err := tx.NewSelect().Model(app).Where("pa.id = ?", id).Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if app.Status != models.ApplicationStatusPending {
			return ErrApplicationReviewed
		}

		now := time.Now().UTC()
		member = &models.StaffMember{
			Name:                app.Name,
			Email:               app.Email,
			Phone:               app.Phone,
			Specialties:         app.Specialties,
			Status:              models.StaffStatusActive,
			Latitude:            app.Latitude,
			Longitude:           app.Longitude,
			Available:           true,
			ServiceRadiusKm:     app.ServiceRadiusKm,
			OwnTools:            app.OwnTools,
			OwnTransport:        app.OwnTransport,
			ExpectedHourlyPrice: app.ExpectedHourlyPrice,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if _, err := tx.NewInsert().Model(member).Returning("*").Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewUpdate().
			Model((*models.ProviderApplication)(nil)).
			Set("status = ?", models.ApplicationStatusApproved).
			Set("reviewed_at = ?", now).
			Where("id = ?", id).
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// RejectApplication marks a pending application rejected.
func (s *StaffService) RejectApplication(ctx context.Context, id int64) error {
	res, err := s.db.NewUpdate().
		Model((*models.ProviderApplication)(nil)).
		Set("status = ?", models.ApplicationStatusRejected).
		Set("reviewed_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Where("status = ?", models.ApplicationStatusPending).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func validateStaff(member *models.StaffMember) error {
	if strings.TrimSpace(member.Name) == "" || strings.TrimSpace(member.Email) == "" ||
		len(member.Specialties) == 0 {
		return ErrInvalidStaff
	}
	if member.Rating < 0 || member.Rating > 5 {
		return ErrInvalidStaff
	}
	if member.CompletedServices < 0 {
		return ErrInvalidStaff
	}
	return nil
}
