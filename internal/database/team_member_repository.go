package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// TeamMemberRepository handles database operations for the team_members table
type TeamMemberRepository struct {
	db DB
}

// NewTeamMemberRepository creates a new TeamMemberRepository
func NewTeamMemberRepository(db DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

// Add inserts a new team member
func (r *TeamMemberRepository) Add(member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (
			id, host_profile_id, user_id, role, permissions,
			hourly_rate, commission_rate, certifications, hire_date, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING created_at, updated_at
	`

	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if member.HireDate.IsZero() {
		member.HireDate = time.Now()
	}

	err := r.db.QueryRow(
		query,
		member.ID, member.HostProfileID, member.UserID, member.Role, member.Permissions,
		member.HourlyRate, member.CommissionRate, member.Certifications, member.HireDate, member.IsActive,
	).Scan(&member.CreatedAt, &member.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to add team member: %w", err)
	}

	return nil
}

// ListActive retrieves active team members for a host profile ordered by
// hire date descending
func (r *TeamMemberRepository) ListActive(hostProfileID uuid.UUID) ([]models.TeamMember, error) {
	query := `
		SELECT id, host_profile_id, user_id, role, permissions,
			   hourly_rate, commission_rate, certifications, hire_date,
			   is_active, created_at, updated_at
		FROM team_members
		WHERE host_profile_id = $1
		  AND is_active = true
		ORDER BY hire_date DESC
	`

	rows, err := r.db.Query(query, hostProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	return r.scanMembers(rows)
}

// GetByID retrieves a team member by ID
func (r *TeamMemberRepository) GetByID(memberID uuid.UUID) (*models.TeamMember, error) {
	query := `
		SELECT id, host_profile_id, user_id, role, permissions,
			   hourly_rate, commission_rate, certifications, hire_date,
			   is_active, created_at, updated_at
		FROM team_members
		WHERE id = $1
	`

	return r.scanMember(r.db.QueryRow(query, memberID))
}

// GetActiveByHostAndUser retrieves the active membership a user holds on a
// host profile, if any
func (r *TeamMemberRepository) GetActiveByHostAndUser(hostProfileID, userID uuid.UUID) (*models.TeamMember, error) {
	query := `
		SELECT id, host_profile_id, user_id, role, permissions,
			   hourly_rate, commission_rate, certifications, hire_date,
			   is_active, created_at, updated_at
		FROM team_members
		WHERE host_profile_id = $1
		  AND user_id = $2
		  AND is_active = true
	`

	return r.scanMember(r.db.QueryRow(query, hostProfileID, userID))
}

// UpdatePermissions replaces a member's permission set
func (r *TeamMemberRepository) UpdatePermissions(memberID uuid.UUID, permissions models.StringArray) error {
	query := `
		UPDATE team_members
		SET permissions = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, memberID, permissions)
	if err != nil {
		return fmt.Errorf("failed to update team member permissions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// SetActive flips the active flag. Deactivation is the removal path; rows
// are kept for earnings and audit history.
func (r *TeamMemberRepository) SetActive(memberID uuid.UUID, active bool) error {
	query := `
		UPDATE team_members
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, memberID, active)
	if err != nil {
		return fmt.Errorf("failed to update team member status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return models.ErrNotFound
	}

	return nil
}

// scanMember scans a single team member
func (r *TeamMemberRepository) scanMember(row scanner) (*models.TeamMember, error) {
	member := &models.TeamMember{}
	var hourlyRate sql.NullFloat64
	var commissionRate sql.NullFloat64

	err := row.Scan(
		&member.ID, &member.HostProfileID, &member.UserID, &member.Role, &member.Permissions,
		&hourlyRate, &commissionRate, &member.Certifications, &member.HireDate,
		&member.IsActive, &member.CreatedAt, &member.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch team member: %w", err)
	}

	if hourlyRate.Valid {
		member.HourlyRate = &hourlyRate.Float64
	}
	if commissionRate.Valid {
		member.CommissionRate = &commissionRate.Float64
	}

	return member, nil
}

// scanMembers scans multiple team members from rows
func (r *TeamMemberRepository) scanMembers(rows *sql.Rows) ([]models.TeamMember, error) {
	members := []models.TeamMember{}

	for rows.Next() {
		var member models.TeamMember
		var hourlyRate sql.NullFloat64
		var commissionRate sql.NullFloat64

		err := rows.Scan(
			&member.ID, &member.HostProfileID, &member.UserID, &member.Role, &member.Permissions,
			&hourlyRate, &commissionRate, &member.Certifications, &member.HireDate,
			&member.IsActive, &member.CreatedAt, &member.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}

		if hourlyRate.Valid {
			member.HourlyRate = &hourlyRate.Float64
		}
		if commissionRate.Valid {
			member.CommissionRate = &commissionRate.Float64
		}

		members = append(members, member)
	}

	return members, rows.Err()
}
