package models

import (
	"time"

	"github.com/google/uuid"
)

// Permission capability strings gating team member operations
const (
	PermissionViewAvailability   = "availability:view"
	PermissionManageAvailability = "availability:manage"
	PermissionViewEarnings       = "earnings:view"
	PermissionManagePayouts      = "payouts:manage"
	PermissionManageTeam         = "team:manage"
	PermissionManageBookings     = "bookings:manage"
	PermissionViewDashboard      = "dashboard:view"
)

// TeamRole represents a team member's role within a host profile
type TeamRole string

const (
	TeamRoleCaptain    TeamRole = "captain"
	TeamRoleInstructor TeamRole = "instructor"
	TeamRoleCrew       TeamRole = "crew"
	TeamRoleAdmin      TeamRole = "admin"
	TeamRoleAssistant  TeamRole = "assistant"
)

// roleDefaultPermissions maps each role to the permission set it implies
// when a member is added without explicit permissions
var roleDefaultPermissions = map[TeamRole]StringArray{
	TeamRoleCaptain: {
		PermissionViewAvailability,
		PermissionManageAvailability,
		PermissionManageBookings,
		PermissionViewDashboard,
	},
	TeamRoleInstructor: {
		PermissionViewAvailability,
		PermissionManageAvailability,
	},
	TeamRoleCrew: {
		PermissionViewAvailability,
	},
	TeamRoleAdmin: {
		PermissionViewAvailability,
		PermissionManageAvailability,
		PermissionViewEarnings,
		PermissionManagePayouts,
		PermissionManageTeam,
		PermissionManageBookings,
		PermissionViewDashboard,
	},
	TeamRoleAssistant: {
		PermissionViewAvailability,
		PermissionViewDashboard,
	},
}

// IsValid reports whether the role is one of the known team roles
func (r TeamRole) IsValid() bool {
	switch r {
	case TeamRoleCaptain, TeamRoleInstructor, TeamRoleCrew, TeamRoleAdmin, TeamRoleAssistant:
		return true
	}
	return false
}

// DefaultPermissions returns the permission set implied by the role
func (r TeamRole) DefaultPermissions() StringArray {
	perms, ok := roleDefaultPermissions[r]
	if !ok {
		return StringArray{}
	}
	// Copy so callers can't mutate the defaults
	out := make(StringArray, len(perms))
	copy(out, perms)
	return out
}

// TeamMember represents a person acting on behalf of a host profile.
// Members are deactivated on removal, never deleted, to preserve the
// earnings and audit history they are referenced from.
type TeamMember struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	HostProfileID  uuid.UUID   `json:"host_profile_id" db:"host_profile_id"`
	UserID         uuid.UUID   `json:"user_id" db:"user_id"`
	Role           TeamRole    `json:"role" db:"role"`
	Permissions    StringArray `json:"permissions" db:"permissions"`
	HourlyRate     *float64    `json:"hourly_rate,omitempty" db:"hourly_rate"`
	CommissionRate *float64    `json:"commission_rate,omitempty" db:"commission_rate"`
	Certifications StringArray `json:"certifications,omitempty" db:"certifications"`
	HireDate       time.Time   `json:"hire_date" db:"hire_date"`
	IsActive       bool        `json:"is_active" db:"is_active"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// HasPermission reports whether the member's permission set contains perm.
// Inactive members hold no permissions.
func (m *TeamMember) HasPermission(perm string) bool {
	if !m.IsActive {
		return false
	}
	return m.Permissions.Contains(perm)
}

// AddTeamMemberRequest represents the request to add a team member
type AddTeamMemberRequest struct {
	UserID         string   `json:"user_id" binding:"required"`
	Role           string   `json:"role" binding:"required"`
	Permissions    []string `json:"permissions,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	HireDate       *string  `json:"hire_date,omitempty"` // YYYY-MM-DD, defaults to today
}

// Validate validates the add team member request
func (r *AddTeamMemberRequest) Validate() error {
	if _, err := uuid.Parse(r.UserID); err != nil {
		return NewValidationError("user_id", "must be a valid UUID")
	}
	if !TeamRole(r.Role).IsValid() {
		return NewValidationError("role", "must be captain, instructor, crew, admin or assistant")
	}
	if r.HourlyRate != nil && *r.HourlyRate < 0 {
		return NewValidationError("hourly_rate", "cannot be negative")
	}
	if r.CommissionRate != nil && (*r.CommissionRate < 0 || *r.CommissionRate > 100) {
		return NewValidationError("commission_rate", "must be between 0 and 100")
	}
	if r.HireDate != nil {
		if _, err := time.Parse("2006-01-02", *r.HireDate); err != nil {
			return NewValidationError("hire_date", "must be in YYYY-MM-DD format")
		}
	}
	return nil
}

// UpdateTeamPermissionsRequest represents a permission set update
type UpdateTeamPermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// UpdateTeamStatusRequest represents an activate/deactivate request
type UpdateTeamStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
