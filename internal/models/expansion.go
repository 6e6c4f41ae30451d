package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	PhaseStatusResearch = "research"
	PhaseStatusPlanned  = "planned"
	PhaseStatusActive   = "active"
	PhaseStatusDelayed  = "delayed"
)

// WaitlistEntry records an out-of-coverage request where the visitor opted in
// to be notified when their city opens. Append-only: entries are never
// deleted, only flipped to notified.
type WaitlistEntry struct {
	bun.BaseModel `bun:"table:expansion_waitlist,alias:wl"`

	ID          int64      `bun:"id,pk,autoincrement" json:"id"`
	Email       string     `bun:"email,notnull" json:"email"`
	Name        *string    `bun:"name" json:"name,omitempty"`
	Phone       *string    `bun:"phone" json:"phone,omitempty"`
	CEP         *string    `bun:"cep" json:"cep,omitempty"`
	City        string     `bun:"city" json:"city"`
	Priority    int        `bun:"priority,notnull" json:"priority"`
	RequestedAt time.Time  `bun:"requested_at,notnull,default:current_timestamp" json:"requested_at"`
	Notified    bool       `bun:"notified,notnull,default:false" json:"notified"`
	NotifiedAt  *time.Time `bun:"notified_at" json:"notified_at,omitempty"`
}

// ExpansionPhase is one step of the rollout roadmap. Status transitions are
// admin-triggered and unconstrained.
type ExpansionPhase struct {
	bun.BaseModel `bun:"table:expansion_phases,alias:ep"`

	Key       string    `bun:"key,pk" json:"key"`
	Name      string    `bun:"name,notnull" json:"name"`
	Cities    []string  `bun:"cities,type:text[]" json:"cities"`
	ETA       string    `bun:"eta" json:"eta"`
	Status    string    `bun:"status,notnull,default:'research'" json:"status"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// JoinWaitlistRequest is the public opt-in body.
type JoinWaitlistRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	CEP   string `json:"cep"`
	City  string `json:"city"`
}

// CityDemand aggregates waitlist pressure for one city.
type CityDemand struct {
	City            string  `json:"city"`
	Count           int     `json:"count"`
	AveragePriority float64 `json:"average_priority"`
}

// ExpansionTarget is a city ranked by demand score.
type ExpansionTarget struct {
	City            string  `json:"city"`
	Count           int     `json:"count"`
	AveragePriority float64 `json:"average_priority"`
	Score           float64 `json:"score"`
}
