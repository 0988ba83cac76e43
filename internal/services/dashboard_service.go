package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// DashboardService aggregates the read-side dashboard and the daily
// analytics rollups
type DashboardService struct {
	earningsRepo  *database.EarningsRepository
	bookingRepo   *database.BookingSummaryRepository
	analyticsRepo *database.AnalyticsRepository
	accessSvc     *AccessService
	logger        *logrus.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	earningsRepo *database.EarningsRepository,
	bookingRepo *database.BookingSummaryRepository,
	analyticsRepo *database.AnalyticsRepository,
	accessSvc *AccessService,
	logger *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		earningsRepo:  earningsRepo,
		bookingRepo:   bookingRepo,
		analyticsRepo: analyticsRepo,
		accessSvc:     accessSvc,
		logger:        logger,
	}
}

// Summary builds the dashboard rollup for the trailing windowDays window
// ending now. Revenue comes from the earnings ledger; booking count and
// rating come from the bookings collaborator and degrade to absent fields
// when that source is unreachable. Growth figures compare against the
// immediately preceding window of equal length and are absent when that
// window's base is zero.
func (s *DashboardService) Summary(identity *Identity, hostProfileID uuid.UUID, windowDays int) (*models.DashboardSummary, error) {
	if _, err := s.accessSvc.Authorize(identity, hostProfileID, models.PermissionViewDashboard); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -windowDays)
	prevFrom := from.AddDate(0, 0, -windowDays)

	summary := &models.DashboardSummary{
		HostProfileID: hostProfileID,
		WindowDays:    windowDays,
		From:          from,
		To:            now,
	}

	revenue, err := s.earningsRepo.SumRevenue(hostProfileID, from, now)
	if err != nil {
		return nil, err
	}
	summary.TotalRevenue = revenue

	prevRevenue, err := s.earningsRepo.SumRevenue(hostProfileID, prevFrom, from)
	if err != nil {
		return nil, err
	}
	summary.RevenueGrowth = growth(revenue, prevRevenue)

	bookingCount, err := s.bookingRepo.CountActive(hostProfileID, from, now)
	if err != nil {
		s.logger.WithError(err).WithField("host_profile_id", hostProfileID).Warn("Booking count unavailable, degrading")
	} else {
		summary.ActiveBookingCount = &bookingCount

		prevCount, err := s.bookingRepo.CountActive(hostProfileID, prevFrom, from)
		if err != nil {
			s.logger.WithError(err).Warn("Previous booking count unavailable, degrading")
		} else {
			summary.BookingGrowth = growth(float64(bookingCount), float64(prevCount))
		}
	}

	rating, err := s.bookingRepo.AverageRating(hostProfileID, from, now)
	if err != nil {
		s.logger.WithError(err).WithField("host_profile_id", hostProfileID).Warn("Average rating unavailable, degrading")
	} else {
		summary.AverageRating = rating
	}

	return summary, nil
}

// growth returns the percentage delta of current versus previous, or nil
// when the previous base is zero
func growth(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}

// AnalyticsRange returns the stored daily rollups for the window
func (s *DashboardService) AnalyticsRange(identity *Identity, hostProfileID uuid.UUID, from, to time.Time) ([]models.BusinessAnalytics, error) {
	if _, err := s.accessSvc.Authorize(identity, hostProfileID, models.PermissionViewDashboard); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, models.NewValidationError("to", "must not be before from")
	}
	return s.analyticsRepo.GetRange(hostProfileID, from, to)
}

// RecomputeDaily rebuilds the analytics rollup for one calendar day from
// the bookings and earnings sources. Admin-only: recomputes ride on the
// nightly aggregation job.
func (s *DashboardService) RecomputeDaily(identity *Identity, hostProfileID uuid.UUID, day time.Time) (*models.BusinessAnalytics, error) {
	if identity == nil {
		return nil, models.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, models.ErrNotAuthorized
	}

	day = day.Truncate(24 * time.Hour)

	stats, err := s.bookingRepo.StatsForDay(hostProfileID, day)
	if err != nil {
		return nil, err
	}

	revenue, err := s.earningsRepo.SumRevenue(hostProfileID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	rollup := &models.BusinessAnalytics{
		HostProfileID:       hostProfileID,
		Date:                day,
		TotalBookings:       stats.TotalBookings,
		MarketplaceBookings: stats.MarketplaceBookings,
		DirectBookings:      stats.DirectBookings,
		Revenue:             revenue,
		GuestCount:          stats.GuestCount,
		AverageRating:       stats.AverageRating,
	}

	if stats.TotalBookings > 0 {
		rollup.CancellationRate = float64(stats.CancelledBookings) / float64(stats.TotalBookings) * 100
		rollup.RepeatGuestRate = float64(stats.RepeatGuestBookings) / float64(stats.TotalBookings) * 100
	}

	if err := s.analyticsRepo.UpsertDaily(rollup); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"host_profile_id": hostProfileID,
		"date":            day.Format("2006-01-02"),
	}).Info("Daily analytics recomputed")

	return rollup, nil
}
