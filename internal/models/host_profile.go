package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier represents the plan a host profile is on.
// The tier fixes the capability set the profile may grant to team members.
type SubscriptionTier string

const (
	TierStarter SubscriptionTier = "starter"
	TierPro     SubscriptionTier = "pro"
	TierFleet   SubscriptionTier = "fleet"
)

// tierCapabilities maps each subscription tier to the capabilities the
// host profile holds. A team member can never be granted a permission
// outside this set.
var tierCapabilities = map[SubscriptionTier]StringArray{
	TierStarter: {
		PermissionViewAvailability,
		PermissionManageAvailability,
		PermissionViewEarnings,
		PermissionViewDashboard,
	},
	TierPro: {
		PermissionViewAvailability,
		PermissionManageAvailability,
		PermissionViewEarnings,
		PermissionViewDashboard,
		PermissionManageBookings,
		PermissionManageTeam,
	},
	TierFleet: {
		PermissionViewAvailability,
		PermissionManageAvailability,
		PermissionViewEarnings,
		PermissionViewDashboard,
		PermissionManageBookings,
		PermissionManageTeam,
		PermissionManagePayouts,
	},
}

// HostProfile represents a water-sports business account. It is the root
// aggregate: availability, earnings and team members all belong to exactly
// one host profile. Profiles are soft-disabled, never hard-deleted.
type HostProfile struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	OwnerUserID      uuid.UUID        `json:"owner_user_id" db:"owner_user_id"`
	DisplayName      string           `json:"display_name" db:"display_name"`
	BusinessName     string           `json:"business_name" db:"business_name"`
	ContactEmail     *string          `json:"contact_email,omitempty" db:"contact_email"`
	ContactPhone     *string          `json:"contact_phone,omitempty" db:"contact_phone"`
	SubscriptionTier SubscriptionTier `json:"subscription_tier" db:"subscription_tier"`
	IsActive         bool             `json:"is_active" db:"is_active"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
}

// Capabilities returns the capability set fixed by the profile's tier
func (p *HostProfile) Capabilities() StringArray {
	caps, ok := tierCapabilities[p.SubscriptionTier]
	if !ok {
		return tierCapabilities[TierStarter]
	}
	return caps
}

// HoldsAll reports whether the profile's capability set covers every
// permission in the given list
func (p *HostProfile) HoldsAll(permissions []string) bool {
	caps := p.Capabilities()
	for _, perm := range permissions {
		if !caps.Contains(perm) {
			return false
		}
	}
	return true
}

// OnboardHostRequest represents the request to create a host profile
type OnboardHostRequest struct {
	DisplayName      string  `json:"display_name" binding:"required"`
	BusinessName     string  `json:"business_name" binding:"required"`
	ContactEmail     *string `json:"contact_email,omitempty"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
	SubscriptionTier string  `json:"subscription_tier,omitempty"`
}

// Validate validates the onboarding request
func (r *OnboardHostRequest) Validate() error {
	if r.DisplayName == "" {
		return NewValidationError("display_name", "display name is required")
	}
	if r.BusinessName == "" {
		return NewValidationError("business_name", "business name is required")
	}
	if r.SubscriptionTier != "" {
		switch SubscriptionTier(r.SubscriptionTier) {
		case TierStarter, TierPro, TierFleet:
		default:
			return NewValidationError("subscription_tier", "must be starter, pro or fleet")
		}
	}
	return nil
}

// UpdateHostProfileRequest represents a settings update on a host profile
type UpdateHostProfileRequest struct {
	DisplayName  *string `json:"display_name,omitempty"`
	BusinessName *string `json:"business_name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
}
