package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	ZoneStatusActive   = "active"
	ZoneStatusInactive = "inactive"
)

// CoverageZone is a circular service area: a city/region label plus a center
// point and radius in kilometers.
type CoverageZone struct {
	bun.BaseModel `bun:"table:coverage_zones,alias:cz"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	Region        string    `bun:"region" json:"region"`
	Status        string    `bun:"status,notnull,default:'active'" json:"status"`
	Latitude      float64   `bun:"latitude,notnull" json:"latitude"`
	Longitude     float64   `bun:"longitude,notnull" json:"longitude"`
	RadiusKm      float64   `bun:"radius_km,notnull" json:"radius_km"`
	Neighborhoods []string  `bun:"neighborhoods,type:text[]" json:"neighborhoods,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// CreateZoneRequest is the admin request body for creating/updating a zone.
type CreateZoneRequest struct {
	Name          string   `json:"name"`
	Region        string   `json:"region"`
	Status        string   `json:"status"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	RadiusKm      *float64 `json:"radius_km"`
	Neighborhoods []string `json:"neighborhoods"`
}

// CoverageCheckResult is the outcome of a coordinate coverage check.
// Not covered is a normal result, never an error.
type CoverageCheckResult struct {
	Covered       bool          `json:"covered"`
	Zone          *CoverageZone `json:"zone,omitempty"`
	DistanceKm    *float64      `json:"distance_km,omitempty"`
	SuggestedCity string        `json:"suggested_city,omitempty"`
}

// PostalCheckResult is the outcome of a CEP coverage check.
type PostalCheckResult struct {
	Covered bool   `json:"covered"`
	City    string `json:"city,omitempty"`
}

// ZoneQueryParams filters zone listings.
type ZoneQueryParams struct {
	Statuses []string
	Regions  []string
}
