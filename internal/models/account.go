package models

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Account roles
const (
	RoleUser  = "user"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

// AccountStatus represents the state of a portal account
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
)

// Account represents a portal login account. Credential storage and token
// issuance are the authentication boundary; everything downstream only
// sees the resolved principal.
type Account struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	Email        string        `json:"email" db:"email"`
	PasswordHash string        `json:"-" db:"password_hash"`
	FullName     string        `json:"full_name" db:"full_name"`
	Roles        StringArray   `json:"roles" db:"roles"`
	Status       AccountStatus `json:"status" db:"status"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// HasRole reports whether the account holds the given role
func (a *Account) HasRole(role string) bool {
	return a.Roles.Contains(role)
}

// RegisterRequest represents the request to create a portal account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// Validate validates the registration request
func (r *RegisterRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return NewValidationError("email", "must be a valid email address")
	}
	if len(r.Password) < 8 {
		return NewValidationError("password", "must be at least 8 characters")
	}
	if r.FullName == "" {
		return NewValidationError("full_name", "full name is required")
	}
	return nil
}

// LoginRequest represents an email/password sign-in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
