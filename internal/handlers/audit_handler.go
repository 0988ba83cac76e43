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

const defaultAuditLimit = 50

// AuditHandler exposes the audit trail to administrators
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Recent returns the newest audit events for a principal
// GET /api/v1/admin/audit?user_id=<uuid>&limit=50
func (h *AuditHandler) Recent(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		respondError(c, models.NewValidationError("user_id", "must be a valid UUID"))
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(c, models.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = parsed
	}

	events, err := h.auditService.GetRecentEvents(userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"events":  events,
		"count":   len(events),
	})
}

// PruneRequest sets the audit retention window in days
type PruneRequest struct {
	RetentionDays int `json:"retention_days" binding:"required,min=1"`
}

// Prune deletes audit events older than the retention window
// POST /api/v1/admin/audit/prune
func (h *AuditHandler) Prune(c *gin.Context) {
	var req PruneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	removed, err := h.auditService.PruneOlderThan(time.Duration(req.RetentionDays) * 24 * time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "audit logs pruned",
		"removed":        removed,
		"retention_days": req.RetentionDays,
	})
}
