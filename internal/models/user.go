package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole maps API callers to their permission set.
type UserRole string

const (
	RoleGASpecialist UserRole = "GA_specialist"
	RoleTeacher      UserRole = "teacher"
)

// User is an authenticated API caller (administrator or teacher).
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         UserRole  `db:"role" json:"role"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}

// JWTClaims carries the authenticated identity through request handling.
type JWTClaims struct {
	UserID int64    `json:"uid"`
	Role   UserRole `json:"role"`
	Name   string   `json:"name"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the caller holds the administrative role.
func (c *JWTClaims) IsAdmin() bool {
	return c != nil && c.Role == RoleGASpecialist
}

// LoginRequest is the credential payload for /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse returns the issued token and caller profile.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}
