package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/pkg/jwt"
)

// Identity is the resolved principal a request acts as. HostProfileID is
// set only for principals that own or belong to a host profile.
type Identity struct {
	PrincipalID   uuid.UUID
	Email         string
	Roles         []string
	HostProfileID *uuid.UUID
}

// IsAdmin reports whether the principal carries the admin role
func (i *Identity) IsAdmin() bool {
	for _, r := range i.Roles {
		if r == models.RoleAdmin {
			return true
		}
	}
	return false
}

// IdentityService resolves bearer tokens into principals with their
// host profile attachment
type IdentityService struct {
	jwtService  *jwt.Service
	accountRepo *database.AccountRepository
	profileRepo *database.HostProfileRepository
	logger      *logrus.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(
	jwtService *jwt.Service,
	accountRepo *database.AccountRepository,
	profileRepo *database.HostProfileRepository,
	logger *logrus.Logger,
) *IdentityService {
	return &IdentityService{
		jwtService:  jwtService,
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Resolve validates a bearer token and returns the principal it names.
// An empty or invalid token resolves to ErrUnauthenticated; a host-role
// principal without a host profile resolves to ErrProfileNotFound so the
// caller can route them to onboarding.
func (s *IdentityService) Resolve(token string) (*Identity, error) {
	if token == "" {
		return nil, models.ErrUnauthenticated
	}

	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}

	identity := &Identity{
		PrincipalID: claims.UserID,
		Email:       claims.Email,
		Roles:       claims.Roles,
	}

	profileID, err := s.resolveProfile(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if identity.hasRole(models.RoleHost) {
				return nil, models.ErrProfileNotFound
			}
			return identity, nil
		}
		return nil, err
	}

	identity.HostProfileID = profileID
	return identity, nil
}

// ResolveUser resolves an already-authenticated user ID into an identity.
// Used by handlers that run behind the auth middleware, where the token
// has already been validated.
func (s *IdentityService) ResolveUser(userID uuid.UUID, email string, roles []string) (*Identity, error) {
	identity := &Identity{
		PrincipalID: userID,
		Email:       email,
		Roles:       roles,
	}

	profileID, err := s.resolveProfile(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			if identity.hasRole(models.RoleHost) {
				return nil, models.ErrProfileNotFound
			}
			return identity, nil
		}
		return nil, err
	}

	identity.HostProfileID = profileID
	return identity, nil
}

func (s *IdentityService) resolveProfile(userID uuid.UUID) (*uuid.UUID, error) {
	profile, err := s.profileRepo.GetByOwnerUserID(userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsActive {
		return nil, models.ErrNotFound
	}
	return &profile.ID, nil
}

func (i *Identity) hasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}
