package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Role is the user's role
type Role string

const (
	// RoleUser is a regular account (JSON API access only)
	RoleUser Role = "user"
	// RoleAdmin is an administrator (dashboard and live log access)
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a Role
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsValid()
}

// User is the principal model. The password hash and the current refresh
// token never leave the process through a response payload.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	Role          Role      `bun:"user_role,notnull" json:"role,omitempty"`
	RefreshToken  string    `bun:"refresh_token,nullzero" json:"-"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Summary is the outward-facing shape of a user in auth responses
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Summarize returns the response payload view of the user
func (u *User) Summarize() Summary {
	return Summary{ID: u.ID, Email: u.Email}
}

// NormalizeEmail lower-cases and trims an email so uniqueness holds
// regardless of the casing the client sent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
