package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
)

// HostProfileHandler handles host profile lifecycle requests
type HostProfileHandler struct {
	profileService  *services.HostProfileService
	identityService *services.IdentityService
}

// NewHostProfileHandler creates a new HostProfileHandler
func NewHostProfileHandler(
	profileService *services.HostProfileService,
	identityService *services.IdentityService,
) *HostProfileHandler {
	return &HostProfileHandler{
		profileService:  profileService,
		identityService: identityService,
	}
}

// Onboard creates a host profile for the authenticated account
// POST /api/v1/host-profiles
func (h *HostProfileHandler) Onboard(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	var req models.OnboardHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.Onboard(identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetMine returns the authenticated account's host profile
// GET /api/v1/host-profiles/me
func (h *HostProfileHandler) GetMine(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	profile, err := h.profileService.GetOwn(identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Update changes the profile's display and contact settings
// PATCH /api/v1/host-profiles/:id
func (h *HostProfileHandler) Update(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	var req models.UpdateHostProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateSettings(identity, profileID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Deactivate soft-disables a host profile
// DELETE /api/v1/host-profiles/:id
func (h *HostProfileHandler) Deactivate(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	if err := h.profileService.Deactivate(identity, profileID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Host profile deactivated"})
}

// ChangeTierRequest represents an admin tier change
type ChangeTierRequest struct {
	SubscriptionTier string `json:"subscription_tier" binding:"required"`
}

// ChangeTier moves a profile to a different subscription tier
// PUT /api/v1/admin/host-profiles/:id/tier
func (h *HostProfileHandler) ChangeTier(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	var req ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.ChangeTier(identity, profileID, models.SubscriptionTier(req.SubscriptionTier))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
