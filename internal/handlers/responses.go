package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wavehaven/host-portal-backend/internal/middleware"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/internal/services"
)

// ErrorResponse is the uniform error body returned by every endpoint
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// respondError maps service errors onto HTTP status codes. Unrecognized
// errors become a 500 with a generic body so internals never leak.
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: ve.Error(),
			Code:    "VALIDATION_ERROR",
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Authentication required",
			Code:    "UNAUTHENTICATED",
		})
	case errors.Is(err, models.ErrPermissionExceedsGrant):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "permission_exceeds_grant",
			Message: "Requested permissions exceed what the host profile's plan allows",
			Code:    "PERMISSION_EXCEEDS_GRANT",
		})
	case errors.Is(err, models.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: "You don't have permission to perform this operation",
			Code:    "NOT_AUTHORIZED",
		})
	case errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_transition",
			Message: "The payout status change is not allowed from the current state",
			Code:    "INVALID_TRANSITION",
		})
	case errors.Is(err, models.ErrProfileNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "profile_not_found",
			Message: "No host profile exists for this account",
			Code:    "PROFILE_NOT_FOUND",
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "The requested record does not exist",
			Code:    "NOT_FOUND",
		})
	case errors.Is(err, models.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "unavailable",
			Message: "The service is temporarily unavailable, please retry",
			Code:    "UNAVAILABLE",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
			Code:    "INTERNAL_ERROR",
		})
	}
}

// respondBindError returns a 400 for malformed request bodies
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
		Code:    "VALIDATION_ERROR",
	})
}

// resolveIdentity turns the middleware user context into a full identity
// with host profile attachment. Writes the error response itself on
// failure so callers can just return.
func resolveIdentity(c *gin.Context, identitySvc *services.IdentityService) (*services.Identity, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		respondError(c, models.ErrUnauthenticated)
		return nil, false
	}

	identity, err := identitySvc.ResolveUser(userCtx.UserID, userCtx.Email, userCtx.Roles)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return identity, true
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter, falling
// back to def when absent
func parseDateQuery(c *gin.Context, name string, def time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, models.NewValidationError(name, "must be in YYYY-MM-DD format")
	}
	return parsed, nil
}
