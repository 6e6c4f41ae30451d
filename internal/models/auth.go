package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RoleAdmin unlocks the back-office write routes.
const RoleAdmin = "admin"

// User is a back-office account (admin or client-dashboard user).
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID           uuid.UUID  `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `bun:"password_hash" json:"-"`
	TokenVersion int        `bun:"token_version" json:"token_version"`
	Roles        []string   `bun:"type:text[]" json:"roles"`
	Provider     string     `json:"provider"`
	Name         string     `json:"name"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// RefreshToken is a stored, hashed refresh token; rotation revokes the old row.
type RefreshToken struct {
	bun.BaseModel `bun:"table:refresh_tokens"`

	ID         uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID `bun:"user_id,type:uuid" json:"user_id"`
	JTI        string    `json:"jti"`
	TokenHash  string    `bun:"token_hash" json:"-"`
	DeviceInfo *string   `json:"device_info"`
	Revoked    bool      `json:"revoked"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}
