package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingSummaryRepository reads the bookings tables owned by the bookings/
// experiences service. It is strictly read-only here: bookings are written
// elsewhere and this service only consumes counts, ratings and per-day
// aggregates for dashboards and rollups.
type BookingSummaryRepository struct {
	db DB
}

// NewBookingSummaryRepository creates a new BookingSummaryRepository
func NewBookingSummaryRepository(db DB) *BookingSummaryRepository {
	return &BookingSummaryRepository{db: db}
}

// CountActive returns the number of non-cancelled bookings for a host
// profile with a booking date inside the window
func (r *BookingSummaryRepository) CountActive(hostProfileID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE host_profile_id = $1
		  AND booking_date >= $2
		  AND booking_date < $3
		  AND status NOT IN ('cancelled', 'no_show')
	`

	var count int
	err := r.db.QueryRow(query, hostProfileID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// AverageRating returns the mean review rating for a host profile's bookings
// in the window, or nil when no rated bookings exist
func (r *BookingSummaryRepository) AverageRating(hostProfileID uuid.UUID, from, to time.Time) (*float64, error) {
	query := `
		SELECT AVG(rating)
		FROM bookings
		WHERE host_profile_id = $1
		  AND booking_date >= $2
		  AND booking_date < $3
		  AND rating IS NOT NULL
	`

	var rating sql.NullFloat64
	err := r.db.QueryRow(query, hostProfileID, from, to).Scan(&rating)
	if err != nil {
		return nil, fmt.Errorf("failed to average booking ratings: %w", err)
	}

	if !rating.Valid {
		return nil, nil
	}
	return &rating.Float64, nil
}

// DayStats holds the per-day booking aggregates consumed by the analytics
// rollup recompute
type DayStats struct {
	TotalBookings       int
	MarketplaceBookings int
	DirectBookings      int
	GuestCount          int
	CancelledBookings   int
	RepeatGuestBookings int
	AverageRating       *float64
}

// StatsForDay aggregates a host profile's bookings for one calendar day
func (r *BookingSummaryRepository) StatsForDay(hostProfileID uuid.UUID, day time.Time) (*DayStats, error) {
	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE source = 'marketplace'),
			   COUNT(*) FILTER (WHERE source = 'direct'),
			   COALESCE(SUM(guest_count), 0),
			   COUNT(*) FILTER (WHERE status = 'cancelled'),
			   COUNT(*) FILTER (WHERE is_repeat_guest),
			   AVG(rating)
		FROM bookings
		WHERE host_profile_id = $1
		  AND booking_date = $2
	`

	stats := &DayStats{}
	var rating sql.NullFloat64

	err := r.db.QueryRow(query, hostProfileID, day).Scan(
		&stats.TotalBookings, &stats.MarketplaceBookings, &stats.DirectBookings,
		&stats.GuestCount, &stats.CancelledBookings, &stats.RepeatGuestBookings, &rating,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate booking stats: %w", err)
	}

	if rating.Valid {
		stats.AverageRating = &rating.Float64
	}

	return stats, nil
}
