package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and handlers. Handlers map these
// to HTTP status codes with errors.Is.
var (
	// ErrUnauthenticated indicates the request carried no valid principal
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotAuthorized indicates the principal lacks rights on the target host profile
	ErrNotAuthorized = errors.New("not authorized")

	// ErrPermissionExceedsGrant indicates a team member was given a permission
	// the host profile's subscription tier does not hold
	ErrPermissionExceedsGrant = errors.New("permission exceeds host grant")

	// ErrInvalidTransition indicates a payout status change outside the allowed edges
	ErrInvalidTransition = errors.New("invalid payout status transition")

	// ErrNotFound indicates the referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrProfileNotFound indicates a host-role principal has no host profile
	ErrProfileNotFound = errors.New("host profile not found")

	// ErrUnavailable indicates the data store was unreachable or timed out
	ErrUnavailable = errors.New("storage unavailable")
)

// ValidationError carries the offending field so callers can surface it
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a specific field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
