package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// HostProfileRepository handles database operations for host_profiles table
type HostProfileRepository struct {
	db DB
}

// NewHostProfileRepository creates a new HostProfileRepository
func NewHostProfileRepository(db DB) *HostProfileRepository {
	return &HostProfileRepository{db: db}
}

// Create creates a new host profile
func (r *HostProfileRepository) Create(profile *models.HostProfile) error {
	query := `
		INSERT INTO host_profiles (
			id, owner_user_id, display_name, business_name,
			contact_email, contact_phone, subscription_tier, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		RETURNING created_at, updated_at
	`

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		profile.ID, profile.OwnerUserID, profile.DisplayName, profile.BusinessName,
		profile.ContactEmail, profile.ContactPhone, profile.SubscriptionTier, profile.IsActive,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create host profile: %w", err)
	}

	return nil
}

// GetByID retrieves a host profile by ID
func (r *HostProfileRepository) GetByID(profileID uuid.UUID) (*models.HostProfile, error) {
	query := `
		SELECT id, owner_user_id, display_name, business_name,
			   contact_email, contact_phone, subscription_tier, is_active,
			   created_at, updated_at
		FROM host_profiles
		WHERE id = $1
	`

	return r.scanProfile(r.db.QueryRow(query, profileID))
}

// GetByOwnerUserID retrieves the host profile owned by a user
func (r *HostProfileRepository) GetByOwnerUserID(ownerUserID uuid.UUID) (*models.HostProfile, error) {
	query := `
		SELECT id, owner_user_id, display_name, business_name,
			   contact_email, contact_phone, subscription_tier, is_active,
			   created_at, updated_at
		FROM host_profiles
		WHERE owner_user_id = $1
	`

	return r.scanProfile(r.db.QueryRow(query, ownerUserID))
}

// UpdateSettings applies a settings update. Nil request fields are left
// untouched.
func (r *HostProfileRepository) UpdateSettings(profileID uuid.UUID, req *models.UpdateHostProfileRequest) error {
	query := `
		UPDATE host_profiles
		SET display_name = COALESCE($2, display_name),
			business_name = COALESCE($3, business_name),
			contact_email = COALESCE($4, contact_email),
			contact_phone = COALESCE($5, contact_phone),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, profileID, req.DisplayName, req.BusinessName, req.ContactEmail, req.ContactPhone)
	if err != nil {
		return fmt.Errorf("failed to update host profile: %w", err)
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

// Deactivate soft-disables a host profile. Profiles are never hard-deleted.
func (r *HostProfileRepository) Deactivate(profileID uuid.UUID) error {
	query := `
		UPDATE host_profiles
		SET is_active = false, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, profileID)
	if err != nil {
		return fmt.Errorf("failed to deactivate host profile: %w", err)
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

// UpdateSubscriptionTier changes the profile's tier
func (r *HostProfileRepository) UpdateSubscriptionTier(profileID uuid.UUID, tier models.SubscriptionTier) error {
	query := `
		UPDATE host_profiles
		SET subscription_tier = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, profileID, tier)
	if err != nil {
		return fmt.Errorf("failed to update subscription tier: %w", err)
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

// scanProfile scans a single host profile
func (r *HostProfileRepository) scanProfile(row scanner) (*models.HostProfile, error) {
	profile := &models.HostProfile{}
	var contactEmail sql.NullString
	var contactPhone sql.NullString

	err := row.Scan(
		&profile.ID, &profile.OwnerUserID, &profile.DisplayName, &profile.BusinessName,
		&contactEmail, &contactPhone, &profile.SubscriptionTier, &profile.IsActive,
		&profile.CreatedAt, &profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch host profile: %w", err)
	}

	if contactEmail.Valid {
		profile.ContactEmail = &contactEmail.String
	}
	if contactPhone.Valid {
		profile.ContactPhone = &contactPhone.String
	}

	return profile, nil
}
