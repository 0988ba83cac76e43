package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
)

// TeamHandler handles team roster requests
type TeamHandler struct {
	accessService   *services.AccessService
	identityService *services.IdentityService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(
	accessService *services.AccessService,
	identityService *services.IdentityService,
) *TeamHandler {
	return &TeamHandler{
		accessService:   accessService,
		identityService: identityService,
	}
}

// List returns the active roster of a host profile
// GET /api/v1/host-profiles/:id/team
func (h *TeamHandler) List(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	members, err := h.accessService.ListTeam(identity, hostProfileID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"host_profile_id": hostProfileID,
		"members":         members,
		"count":           len(members),
	})
}

// Add adds a member to the roster
// POST /api/v1/host-profiles/:id/team
func (h *TeamHandler) Add(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	var req models.AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.accessService.AddTeamMember(identity, hostProfileID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, member)
}

// UpdatePermissions replaces a member's permission set
// PUT /api/v1/host-profiles/:id/team/:memberId/permissions
func (h *TeamHandler) UpdatePermissions(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		respondError(c, models.NewValidationError("memberId", "must be a valid UUID"))
		return
	}

	var req models.UpdateTeamPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.accessService.UpdateMemberPermissions(identity, hostProfileID, memberID, req.Permissions)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, member)
}

// UpdateStatus activates or deactivates a roster member
// PUT /api/v1/host-profiles/:id/team/:memberId/status
func (h *TeamHandler) UpdateStatus(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		respondError(c, models.NewValidationError("memberId", "must be a valid UUID"))
		return
	}

	var req models.UpdateTeamStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.accessService.SetMemberActive(identity, hostProfileID, memberID, *req.IsActive); err != nil {
		respondError(c, err)
		return
	}

	message := "Team member deactivated"
	if *req.IsActive {
		message = "Team member activated"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
