package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// HostProfileService manages host profile lifecycle
type HostProfileService struct {
	profileRepo *database.HostProfileRepository
	accountRepo *database.AccountRepository
	logger      *logrus.Logger
}

// NewHostProfileService creates a new host profile service
func NewHostProfileService(
	profileRepo *database.HostProfileRepository,
	accountRepo *database.AccountRepository,
	logger *logrus.Logger,
) *HostProfileService {
	return &HostProfileService{
		profileRepo: profileRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Onboard creates a host profile for the principal and grants the host
// role on their account. A principal can own at most one profile.
func (s *HostProfileService) Onboard(identity *Identity, req *models.OnboardHostRequest) (*models.HostProfile, error) {
	if identity == nil {
		return nil, models.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.profileRepo.GetByOwnerUserID(identity.PrincipalID); err == nil {
		return nil, models.NewValidationError("owner_user_id", "account already owns a host profile")
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	tier := models.SubscriptionTier(req.SubscriptionTier)
	if req.SubscriptionTier == "" {
		tier = models.TierStarter
	}

	profile := &models.HostProfile{
		OwnerUserID:      identity.PrincipalID,
		DisplayName:      req.DisplayName,
		BusinessName:     req.BusinessName,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		SubscriptionTier: tier,
		IsActive:         true,
	}

	if err := s.profileRepo.Create(profile); err != nil {
		return nil, err
	}

	if err := s.accountRepo.AddRole(identity.PrincipalID, models.RoleHost); err != nil {
		s.logger.WithError(err).WithField("account_id", identity.PrincipalID).Warn("Failed to grant host role")
	}

	s.logger.WithFields(logrus.Fields{
		"host_profile_id": profile.ID,
		"owner_user_id":   identity.PrincipalID,
		"tier":            tier,
	}).Info("Host profile onboarded")

	return profile, nil
}

// GetOwn returns the principal's own host profile
func (s *HostProfileService) GetOwn(identity *Identity) (*models.HostProfile, error) {
	if identity == nil {
		return nil, models.ErrUnauthenticated
	}
	profile, err := s.profileRepo.GetByOwnerUserID(identity.PrincipalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Get returns a host profile by ID
func (s *HostProfileService) Get(profileID uuid.UUID) (*models.HostProfile, error) {
	return s.profileRepo.GetByID(profileID)
}

// UpdateSettings updates the profile's contact and display settings.
// Only the owner may change settings.
func (s *HostProfileService) UpdateSettings(identity *Identity, profileID uuid.UUID, req *models.UpdateHostProfileRequest) (*models.HostProfile, error) {
	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return nil, err
	}
	if !identity.IsAdmin() && profile.OwnerUserID != identity.PrincipalID {
		return nil, models.ErrNotAuthorized
	}

	if req.DisplayName != nil && *req.DisplayName == "" {
		return nil, models.NewValidationError("display_name", "display name cannot be empty")
	}
	if req.BusinessName != nil && *req.BusinessName == "" {
		return nil, models.NewValidationError("business_name", "business name cannot be empty")
	}

	if err := s.profileRepo.UpdateSettings(profileID, req); err != nil {
		return nil, err
	}

	return s.profileRepo.GetByID(profileID)
}

// Deactivate soft-disables the profile. Availability, earnings and team
// rows are kept; the profile simply stops authorizing operations.
func (s *HostProfileService) Deactivate(identity *Identity, profileID uuid.UUID) error {
	profile, err := s.profileRepo.GetByID(profileID)
	if err != nil {
		return err
	}
	if !identity.IsAdmin() && profile.OwnerUserID != identity.PrincipalID {
		return models.ErrNotAuthorized
	}

	if err := s.profileRepo.Deactivate(profileID); err != nil {
		return err
	}

	s.logger.WithField("host_profile_id", profileID).Info("Host profile deactivated")
	return nil
}

// ChangeTier moves the profile to a different subscription tier.
// Admin-only: tier changes ride on billing events, not self-service.
func (s *HostProfileService) ChangeTier(identity *Identity, profileID uuid.UUID, tier models.SubscriptionTier) (*models.HostProfile, error) {
	if !identity.IsAdmin() {
		return nil, models.ErrNotAuthorized
	}

	switch tier {
	case models.TierStarter, models.TierPro, models.TierFleet:
	default:
		return nil, models.NewValidationError("subscription_tier", "must be starter, pro or fleet")
	}

	if err := s.profileRepo.UpdateSubscriptionTier(profileID, tier); err != nil {
		return nil, err
	}

	return s.profileRepo.GetByID(profileID)
}
