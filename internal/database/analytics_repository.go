package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// AnalyticsRepository handles database operations for the business_analytics
// daily rollup table
type AnalyticsRepository struct {
	db DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// UpsertDaily writes a recomputed rollup for one host profile and day.
// Rollups are derived data; a recompute always overwrites the previous row.
func (r *AnalyticsRepository) UpsertDaily(rollup *models.BusinessAnalytics) error {
	query := `
		INSERT INTO business_analytics (
			id, host_profile_id, date, total_bookings, marketplace_bookings,
			direct_bookings, revenue, guest_count, average_rating,
			cancellation_rate, repeat_guest_rate
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		ON CONFLICT (host_profile_id, date) DO UPDATE SET
			total_bookings = EXCLUDED.total_bookings,
			marketplace_bookings = EXCLUDED.marketplace_bookings,
			direct_bookings = EXCLUDED.direct_bookings,
			revenue = EXCLUDED.revenue,
			guest_count = EXCLUDED.guest_count,
			average_rating = EXCLUDED.average_rating,
			cancellation_rate = EXCLUDED.cancellation_rate,
			repeat_guest_rate = EXCLUDED.repeat_guest_rate,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if rollup.ID == uuid.Nil {
		rollup.ID = uuid.New()
	}

	err := r.db.QueryRow(
		query,
		rollup.ID, rollup.HostProfileID, rollup.Date, rollup.TotalBookings, rollup.MarketplaceBookings,
		rollup.DirectBookings, rollup.Revenue, rollup.GuestCount, rollup.AverageRating,
		rollup.CancellationRate, rollup.RepeatGuestRate,
	).Scan(&rollup.ID, &rollup.CreatedAt, &rollup.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert analytics rollup: %w", err)
	}

	return nil
}

// GetRange retrieves rollups for a host profile between from and to
// (inclusive), ordered by date ascending
func (r *AnalyticsRepository) GetRange(hostProfileID uuid.UUID, from, to time.Time) ([]models.BusinessAnalytics, error) {
	query := `
		SELECT id, host_profile_id, date, total_bookings, marketplace_bookings,
			   direct_bookings, revenue, guest_count, average_rating,
			   cancellation_rate, repeat_guest_rate, created_at, updated_at
		FROM business_analytics
		WHERE host_profile_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, hostProfileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analytics: %w", err)
	}
	defer rows.Close()

	rollups := []models.BusinessAnalytics{}
	for rows.Next() {
		var rollup models.BusinessAnalytics
		var rating sql.NullFloat64

		err := rows.Scan(
			&rollup.ID, &rollup.HostProfileID, &rollup.Date, &rollup.TotalBookings, &rollup.MarketplaceBookings,
			&rollup.DirectBookings, &rollup.Revenue, &rollup.GuestCount, &rating,
			&rollup.CancellationRate, &rollup.RepeatGuestRate, &rollup.CreatedAt, &rollup.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analytics row: %w", err)
		}

		if rating.Valid {
			rollup.AverageRating = &rating.Float64
		}

		rollups = append(rollups, rollup)
	}

	return rollups, rows.Err()
}
