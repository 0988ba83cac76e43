package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
)

// EarningsHandler handles earnings ledger requests
type EarningsHandler struct {
	earningsService *services.EarningsService
	identityService *services.IdentityService
}

// NewEarningsHandler creates a new EarningsHandler
func NewEarningsHandler(
	earningsService *services.EarningsService,
	identityService *services.IdentityService,
) *EarningsHandler {
	return &EarningsHandler{
		earningsService: earningsService,
		identityService: identityService,
	}
}

// List returns a host profile's earnings, newest first
// GET /api/v1/host-profiles/:id/earnings?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *EarningsHandler) List(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	var from, to *time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, models.NewValidationError("from", "must be in YYYY-MM-DD format"))
			return
		}
		from = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, models.NewValidationError("to", "must be in YYYY-MM-DD format"))
			return
		}
		// Inclusive end date
		end := parsed.AddDate(0, 0, 1)
		to = &end
	}

	earnings, err := h.earningsService.List(identity, hostProfileID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"host_profile_id": hostProfileID,
		"earnings":        earnings,
		"count":           len(earnings),
	})
}

// Summary returns window totals for a host profile's earnings
// GET /api/v1/host-profiles/:id/earnings/summary?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *EarningsHandler) Summary(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	now := time.Now().UTC()

	from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -30))
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.earningsService.Summary(identity, hostProfileID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Create records a settlement as an earnings row
// POST /api/v1/admin/earnings
func (h *EarningsHandler) Create(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	var req models.CreateEarningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	earnings, err := h.earningsService.Record(identity, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, earnings)
}

// TransitionPayout moves an earnings row along the payout state machine
// POST /api/v1/earnings/:earningsId/payout
func (h *EarningsHandler) TransitionPayout(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	earningsID, err := uuid.Parse(c.Param("earningsId"))
	if err != nil {
		respondError(c, models.NewValidationError("earningsId", "must be a valid UUID"))
		return
	}

	var req models.PayoutTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	earnings, err := h.earningsService.TransitionPayout(identity, earningsID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, earnings)
}
