package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
)

// AvailabilityHandler handles availability calendar requests
type AvailabilityHandler struct {
	availabilityService *services.AvailabilityService
	identityService     *services.IdentityService
	defaultWindowDays   int
	maxWindowDays       int
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(
	availabilityService *services.AvailabilityService,
	identityService *services.IdentityService,
	defaultWindowDays, maxWindowDays int,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		identityService:     identityService,
		defaultWindowDays:   defaultWindowDays,
		maxWindowDays:       maxWindowDays,
	}
}

// Get returns availability for a host profile in a date range
// GET /api/v1/host-profiles/:id/availability?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *AvailabilityHandler) Get(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	from, err := parseDateQuery(c, "from", today)
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to", from.AddDate(0, 0, h.defaultWindowDays))
	if err != nil {
		respondError(c, err)
		return
	}

	if int(to.Sub(from).Hours()/24) > h.maxWindowDays {
		respondError(c, models.NewValidationError("to", "date range is too wide"))
		return
	}

	slots, err := h.availabilityService.Get(identity, hostProfileID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"host_profile_id": hostProfileID,
		"from":            from.Format("2006-01-02"),
		"to":              to.Format("2006-01-02"),
		"slots":           slots,
	})
}

// Set replaces availability for the dates in the request body
// PUT /api/v1/host-profiles/:id/availability
func (h *AvailabilityHandler) Set(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	var req models.SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slots, err := h.availabilityService.Set(identity, hostProfileID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Availability updated",
		"slots":   slots,
	})
}
