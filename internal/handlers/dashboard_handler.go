package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
)

// DashboardHandler handles dashboard and analytics requests
type DashboardHandler struct {
	dashboardService  *services.DashboardService
	identityService   *services.IdentityService
	defaultWindowDays int
	maxWindowDays     int
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(
	dashboardService *services.DashboardService,
	identityService *services.IdentityService,
	defaultWindowDays, maxWindowDays int,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:  dashboardService,
		identityService:   identityService,
		defaultWindowDays: defaultWindowDays,
		maxWindowDays:     maxWindowDays,
	}
}

// Summary returns the dashboard rollup for a trailing window
// GET /api/v1/host-profiles/:id/dashboard?window_days=30
func (h *DashboardHandler) Summary(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	hostProfileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "must be a valid UUID"))
		return
	}

	windowDays := h.defaultWindowDays
	if raw := c.Query("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(c, models.NewValidationError("window_days", "must be a positive integer"))
			return
		}
		windowDays = parsed
	}
	if windowDays > h.maxWindowDays {
		respondError(c, models.NewValidationError("window_days", "window is too wide"))
		return
	}

	summary, err := h.dashboardService.Summary(identity, hostProfileID, windowDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Analytics returns stored daily rollups for a date range
// GET /api/v1/host-profiles/:id/analytics?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *DashboardHandler) Analytics(c *gin.Context) {
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

	from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -h.defaultWindowDays))
	if err != nil {
		respondError(c, err)
		return
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		respondError(c, err)
		return
	}

	rollups, err := h.dashboardService.AnalyticsRange(identity, hostProfileID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"host_profile_id": hostProfileID,
		"rollups":         rollups,
		"count":           len(rollups),
	})
}

// RecomputeRequest represents a manual rollup recompute
type RecomputeRequest struct {
	HostProfileID string `json:"host_profile_id" binding:"required"`
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
}

// Recompute rebuilds one day's analytics rollup from source data
// POST /api/v1/admin/analytics/recompute
func (h *DashboardHandler) Recompute(c *gin.Context) {
	identity, ok := resolveIdentity(c, h.identityService)
	if !ok {
		return
	}

	var req RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hostProfileID, err := uuid.Parse(req.HostProfileID)
	if err != nil {
		respondError(c, models.NewValidationError("host_profile_id", "must be a valid UUID"))
		return
	}

	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(c, models.NewValidationError("date", "must be in YYYY-MM-DD format"))
		return
	}

	rollup, err := h.dashboardService.RecomputeDaily(identity, hostProfileID, day)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rollup)
}
