package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	StaffStatusActive   = "active"
	StaffStatusInactive = "inactive"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

const (
	AssignmentStatusAssigned  = "assigned"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusCancelled = "cancelled"
)

// StaffMember is an internal cleaner or an approved external provider.
// Provider-specific fields are nil for internal staff.
type StaffMember struct {
	bun.BaseModel `bun:"table:staff_members,alias:sm"`

	ID                int64    `bun:"id,pk,autoincrement" json:"id"`
	Name              string   `bun:"name,notnull" json:"name"`
	Email             string   `bun:"email,notnull" json:"email"`
	Phone             string   `bun:"phone" json:"phone"`
	Specialties       []string `bun:"specialties,type:text[]" json:"specialties"`
	Status            string   `bun:"status,notnull,default:'active'" json:"status"`
	Latitude          float64  `bun:"latitude,notnull" json:"latitude"`
	Longitude         float64  `bun:"longitude,notnull" json:"longitude"`
	Rating            float64  `bun:"rating,notnull,default:0" json:"rating"`
	CompletedServices int      `bun:"completed_services,notnull,default:0" json:"completed_services"`
	Available         bool     `bun:"available,notnull,default:true" json:"available"`

	ServiceRadiusKm     *float64 `bun:"service_radius_km" json:"service_radius_km,omitempty"`
	OwnTools            *bool    `bun:"own_tools" json:"own_tools,omitempty"`
	OwnTransport        *bool    `bun:"own_transport" json:"own_transport,omitempty"`
	ExpectedHourlyPrice *float64 `bun:"expected_hourly_price" json:"expected_hourly_price,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ProviderApplication is a self-service signup from an external cleaner.
// Approval promotes it into a StaffMember.
type ProviderApplication struct {
	bun.BaseModel `bun:"table:provider_applications,alias:pa"`

	ID                  int64      `bun:"id,pk,autoincrement" json:"id"`
	Name                string     `bun:"name,notnull" json:"name"`
	Email               string     `bun:"email,notnull" json:"email"`
	Phone               string     `bun:"phone" json:"phone"`
	Specialties         []string   `bun:"specialties,type:text[]" json:"specialties"`
	Latitude            float64    `bun:"latitude" json:"latitude"`
	Longitude           float64    `bun:"longitude" json:"longitude"`
	ServiceRadiusKm     *float64   `bun:"service_radius_km" json:"service_radius_km,omitempty"`
	OwnTools            *bool      `bun:"own_tools" json:"own_tools,omitempty"`
	OwnTransport        *bool      `bun:"own_transport" json:"own_transport,omitempty"`
	ExpectedHourlyPrice *float64   `bun:"expected_hourly_price" json:"expected_hourly_price,omitempty"`
	Status              string     `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt           time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	ReviewedAt          *time.Time `bun:"reviewed_at" json:"reviewed_at,omitempty"`
}

// Assignment links a booked service to the staff member picked by the match
// engine. Created exactly once per successful match; status changes come from
// the back-office afterwards.
type Assignment struct {
	bun.BaseModel `bun:"table:assignments,alias:asg"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	ServiceID  string    `bun:"service_id,notnull" json:"service_id"`
	StaffID    int64     `bun:"staff_id,notnull" json:"staff_id"`
	Status     string    `bun:"status,notnull,default:'assigned'" json:"status"`
	DistanceKm float64   `bun:"distance_km,notnull" json:"distance_km"`
	Score      float64   `bun:"score,notnull" json:"score"`
	AssignedAt time.Time `bun:"assigned_at,notnull,default:current_timestamp" json:"assigned_at"`

	Staff *StaffMember `bun:"rel:belongs-to,join:staff_id=id" json:"staff,omitempty"`
}

// UpdateStaffRequest is an admin patch; nil fields are left unchanged.
type UpdateStaffRequest struct {
	Name                *string  `json:"name"`
	Email               *string  `json:"email"`
	Phone               *string  `json:"phone"`
	Specialties         []string `json:"specialties"`
	Status              *string  `json:"status"`
	Latitude            *float64 `json:"latitude"`
	Longitude           *float64 `json:"longitude"`
	Rating              *float64 `json:"rating"`
	CompletedServices   *int     `json:"completed_services"`
	Available           *bool    `json:"available"`
	ServiceRadiusKm     *float64 `json:"service_radius_km"`
	OwnTools            *bool    `json:"own_tools"`
	OwnTransport        *bool    `json:"own_transport"`
	ExpectedHourlyPrice *float64 `json:"expected_hourly_price"`
}

// StaffQueryParams filters staff listings.
type StaffQueryParams struct {
	Specialties []string
	ActiveOnly  bool
}
