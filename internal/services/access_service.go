package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// AccessService decides whether a principal may act on a host profile and
// manages the profile's team roster
type AccessService struct {
	profileRepo *database.HostProfileRepository
	teamRepo    *database.TeamMemberRepository
	auditSvc    *AuditService
	logger      *logrus.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	profileRepo *database.HostProfileRepository,
	teamRepo *database.TeamMemberRepository,
	auditSvc *AuditService,
	logger *logrus.Logger,
) *AccessService {
	return &AccessService{
		profileRepo: profileRepo,
		teamRepo:    teamRepo,
		auditSvc:    auditSvc,
		logger:      logger,
	}
}

// Authorize checks that the identity may perform the operation gated by
// permission on the host profile. The profile owner passes every check;
// anyone else must be an active team member holding the permission.
// Denials are audited and returned as ErrNotAuthorized.
func (s *AccessService) Authorize(identity *Identity, hostProfileID uuid.UUID, permission string) (*models.HostProfile, error) {
	if identity == nil {
		return nil, models.ErrUnauthenticated
	}

	profile, err := s.profileRepo.GetByID(hostProfileID)
	if err != nil {
		return nil, err
	}

	if !profile.IsActive {
		s.deny(identity, hostProfileID, permission, "profile_inactive")
		return nil, models.ErrNotAuthorized
	}

	if identity.IsAdmin() || profile.OwnerUserID == identity.PrincipalID {
		return profile, nil
	}

	member, err := s.teamRepo.GetActiveByHostAndUser(hostProfileID, identity.PrincipalID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.deny(identity, hostProfileID, permission, "not_a_member")
			return nil, models.ErrNotAuthorized
		}
		return nil, err
	}

	if !member.HasPermission(permission) {
		s.deny(identity, hostProfileID, permission, "permission_missing")
		return nil, models.ErrNotAuthorized
	}

	return profile, nil
}

func (s *AccessService) deny(identity *Identity, hostProfileID uuid.UUID, permission, reason string) {
	if err := s.auditSvc.LogAuthorizationDenied(identity.PrincipalID, hostProfileID, permission, reason); err != nil {
		s.logger.WithError(err).Warn("Failed to audit authorization denial")
	}
	s.logger.WithFields(logrus.Fields{
		"principal_id":    identity.PrincipalID,
		"host_profile_id": hostProfileID,
		"permission":      permission,
		"reason":          reason,
	}).Warn("Authorization denied")
}

// AddTeamMember adds a member to the host profile's roster. Requested
// permissions must be a subset of the profile's tier capabilities; when no
// permissions are given the role's defaults apply.
func (s *AccessService) AddTeamMember(identity *Identity, hostProfileID uuid.UUID, req *models.AddTeamMemberRequest) (*models.TeamMember, error) {
	profile, err := s.Authorize(identity, hostProfileID, models.PermissionManageTeam)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, models.NewValidationError("user_id", "must be a valid UUID")
	}

	role := models.TeamRole(req.Role)
	permissions := models.StringArray(req.Permissions)
	if len(permissions) == 0 {
		permissions = role.DefaultPermissions()
	}

	if !profile.HoldsAll(permissions) {
		return nil, models.ErrPermissionExceedsGrant
	}

	var hireDate time.Time
	if req.HireDate != nil {
		hireDate, _ = time.Parse("2006-01-02", *req.HireDate)
	}

	member := &models.TeamMember{
		HostProfileID:  hostProfileID,
		UserID:         userID,
		Role:           role,
		Permissions:    permissions,
		HourlyRate:     req.HourlyRate,
		CommissionRate: req.CommissionRate,
		Certifications: models.StringArray(req.Certifications),
		HireDate:       hireDate,
		IsActive:       true,
	}

	if err := s.teamRepo.Add(member); err != nil {
		return nil, err
	}

	if err := s.auditSvc.LogTeamChange(identity.PrincipalID, hostProfileID, "team_member_added", map[string]interface{}{
		"member_id": member.ID,
		"user_id":   userID,
		"role":      role,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to audit team change")
	}

	return member, nil
}

// ListTeam returns the active roster of the host profile
func (s *AccessService) ListTeam(identity *Identity, hostProfileID uuid.UUID) ([]models.TeamMember, error) {
	if _, err := s.Authorize(identity, hostProfileID, models.PermissionManageTeam); err != nil {
		return nil, err
	}
	return s.teamRepo.ListActive(hostProfileID)
}

// UpdateMemberPermissions replaces a member's permission set. The new set
// must stay inside the profile's tier capabilities.
func (s *AccessService) UpdateMemberPermissions(identity *Identity, hostProfileID, memberID uuid.UUID, permissions []string) (*models.TeamMember, error) {
	profile, err := s.Authorize(identity, hostProfileID, models.PermissionManageTeam)
	if err != nil {
		return nil, err
	}

	member, err := s.teamRepo.GetByID(memberID)
	if err != nil {
		return nil, err
	}
	if member.HostProfileID != hostProfileID {
		return nil, models.ErrNotFound
	}

	if !profile.HoldsAll(permissions) {
		return nil, models.ErrPermissionExceedsGrant
	}

	if err := s.teamRepo.UpdatePermissions(memberID, models.StringArray(permissions)); err != nil {
		return nil, err
	}

	if err := s.auditSvc.LogTeamChange(identity.PrincipalID, hostProfileID, "team_permissions_updated", map[string]interface{}{
		"member_id":   memberID,
		"permissions": permissions,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to audit team change")
	}

	member.Permissions = models.StringArray(permissions)
	return member, nil
}

// SetMemberActive activates or deactivates a roster member. Deactivation
// is the removal path; rows are never deleted.
func (s *AccessService) SetMemberActive(identity *Identity, hostProfileID, memberID uuid.UUID, active bool) error {
	if _, err := s.Authorize(identity, hostProfileID, models.PermissionManageTeam); err != nil {
		return err
	}

	member, err := s.teamRepo.GetByID(memberID)
	if err != nil {
		return err
	}
	if member.HostProfileID != hostProfileID {
		return models.ErrNotFound
	}

	if err := s.teamRepo.SetActive(memberID, active); err != nil {
		return err
	}

	action := "team_member_deactivated"
	if active {
		action = "team_member_activated"
	}
	if err := s.auditSvc.LogTeamChange(identity.PrincipalID, hostProfileID, action, map[string]interface{}{
		"member_id": memberID,
	}); err != nil {
		s.logger.WithError(err).Warn("Failed to audit team change")
	}

	return nil
}
