package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/utils"
)

// AuditService handles audit logging for security events. When disabled via
// config, writes become no-ops while reads keep working.
type AuditService struct {
	db      database.DB
	enabled bool
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
	}
}

// AuditEvent represents a security event to be logged
type AuditEvent struct {
	UserID     *uuid.UUID             // Can be nil for pre-authentication events
	Action     string                 // Action type (e.g., "login", "payout_transition")
	EntityType string                 // Type of entity affected (e.g., "account", "earnings")
	EntityID   *uuid.UUID             // ID of the affected entity (can be nil)
	IPAddress  string                 // Client IP address
	UserAgent  string                 // Client user agent
	Details    map[string]interface{} // Additional details as JSONB
}

// LogLogin logs a login attempt
func (s *AuditService) LogLogin(userID *uuid.UUID, email, ipAddress, userAgent string, success bool, failureReason string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": deviceInfo,
	}

	if !success && failureReason != "" {
		details["failure_reason"] = failureReason
	}

	action := "login_failed"
	if success {
		action = "login"
	}

	return s.logEvent(AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "account",
		EntityID:   userID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogTokenRefresh logs a refresh token usage event
func (s *AuditService) LogTokenRefresh(userID uuid.UUID, ipAddress, userAgent string, success bool) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	action := "token_refresh_success"
	if !success {
		action = "token_refresh_failed"
	}

	details := map[string]interface{}{
		"success":     success,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     action,
		EntityType: "token",
		EntityID:   nil,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogAuthorizationDenied logs a denied access attempt against a host profile
func (s *AuditService) LogAuthorizationDenied(userID uuid.UUID, hostProfileID uuid.UUID, permission, reason string) error {
	details := map[string]interface{}{
		"permission": permission,
		"reason":     reason,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "authorization_denied",
		EntityType: "host_profile",
		EntityID:   &hostProfileID,
		IPAddress:  "",
		UserAgent:  "",
		Details:    details,
	})
}

// LogPayoutTransition logs a payout status change on an earnings record
func (s *AuditService) LogPayoutTransition(userID uuid.UUID, earningsID uuid.UUID, fromStatus, toStatus string) error {
	details := map[string]interface{}{
		"from_status": fromStatus,
		"to_status":   toStatus,
	}

	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "payout_transition",
		EntityType: "earnings",
		EntityID:   &earningsID,
		IPAddress:  "",
		UserAgent:  "",
		Details:    details,
	})
}

// LogTeamChange logs a team membership mutation (add, permission update, status change)
func (s *AuditService) LogTeamChange(userID uuid.UUID, hostProfileID uuid.UUID, action string, details map[string]interface{}) error {
	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     action,
		EntityType: "team_member",
		EntityID:   &hostProfileID,
		IPAddress:  "",
		UserAgent:  "",
		Details:    details,
	})
}

// logEvent is the internal method that writes to the audit_logs table
func (s *AuditService) logEvent(event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	_, err = s.db.Exec(
		query,
		event.UserID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.IPAddress,
		event.UserAgent,
		detailsJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// AuditLogEntry is a stored audit event as read back for review
type AuditLogEntry struct {
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
	Details    map[string]interface{} `json:"details"`
	CreatedAt  time.Time              `json:"created_at"`
}

// GetRecentEvents returns the newest audit events recorded for a principal
func (s *AuditService) GetRecentEvents(userID uuid.UUID, limit int) ([]AuditLogEntry, error) {
	query := `
		SELECT action, entity_type, ip_address, user_agent, details, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audit events: %w", err)
	}
	defer rows.Close()

	entries := []AuditLogEntry{}
	for rows.Next() {
		var entry AuditLogEntry
		var detailsRaw []byte

		err := rows.Scan(&entry.Action, &entry.EntityType, &entry.IPAddress,
			&entry.UserAgent, &detailsRaw, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}

		entry.Details = map[string]interface{}{}
		if len(detailsRaw) > 0 {
			_ = json.Unmarshal(detailsRaw, &entry.Details)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// PruneOlderThan deletes audit events older than the retention window and
// returns how many rows were removed
func (s *AuditService) PruneOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	result, err := s.db.Exec(`DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit logs: %w", err)
	}

	return result.RowsAffected()
}
