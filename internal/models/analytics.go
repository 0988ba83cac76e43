package models

import (
	"time"

	"github.com/google/uuid"
)

// BusinessAnalytics is a derived daily rollup per host profile. Rows are
// recomputed by the aggregation job, never hand-edited.
type BusinessAnalytics struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	HostProfileID       uuid.UUID `json:"host_profile_id" db:"host_profile_id"`
	Date                time.Time `json:"date" db:"date"`
	TotalBookings       int       `json:"total_bookings" db:"total_bookings"`
	MarketplaceBookings int       `json:"marketplace_bookings" db:"marketplace_bookings"`
	DirectBookings      int       `json:"direct_bookings" db:"direct_bookings"`
	Revenue             float64   `json:"revenue" db:"revenue"`
	GuestCount          int       `json:"guest_count" db:"guest_count"`
	AverageRating       *float64  `json:"average_rating,omitempty" db:"average_rating"`
	CancellationRate    float64   `json:"cancellation_rate" db:"cancellation_rate"`
	RepeatGuestRate     float64   `json:"repeat_guest_rate" db:"repeat_guest_rate"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// DashboardSummary is the read-side rollup for the business dashboard.
// Growth figures are percentage deltas versus the immediately preceding
// equal-length window; nil means the preceding window had zero base and
// no growth figure is reported.
type DashboardSummary struct {
	HostProfileID      uuid.UUID `json:"host_profile_id"`
	WindowDays         int       `json:"window_days"`
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	TotalRevenue       float64   `json:"total_revenue"`
	ActiveBookingCount *int      `json:"active_booking_count,omitempty"`
	AverageRating      *float64  `json:"average_rating,omitempty"`
	RevenueGrowth      *float64  `json:"revenue_growth,omitempty"`
	BookingGrowth      *float64  `json:"booking_growth,omitempty"`
}
