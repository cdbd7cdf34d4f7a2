package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the user's privilege level. Registered users are promoted to Farmer
// when they list their first product; Admin and Moderator are only ever
// assigned out of band.
type Role int

const (
	RoleRegistered Role = iota + 1
	RoleFarmer
	RoleAdmin
	RoleModerator
)

func (r Role) String() string {
	switch r {
	case RoleRegistered:
		return "registered"
	case RoleFarmer:
		return "farmer"
	case RoleAdmin:
		return "admin"
	case RoleModerator:
		return "moderator"
	}
	return "unknown"
}

// Privileged reports whether the role may only be granted out of band, never
// through the generic update path.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserUpdate enumerates the fields the generic update path may touch. A nil
// field is left unchanged. Password and created_at deliberately have no slot
// here.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *Role   `json:"role,omitempty"`
}

func (u *UserUpdate) Empty() bool {
	return u.Username == nil && u.Email == nil && u.Role == nil
}
