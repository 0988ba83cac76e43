package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// EarningsRepository handles database operations for the earnings table
type EarningsRepository struct {
	db DB
}

// NewEarningsRepository creates a new EarningsRepository
func NewEarningsRepository(db DB) *EarningsRepository {
	return &EarningsRepository{db: db}
}

// Create records a new settlement row. Amounts are immutable after this.
func (r *EarningsRepository) Create(earnings *models.Earnings) error {
	query := `
		INSERT INTO earnings (
			id, host_profile_id, booking_id, gross_amount, platform_fee,
			processing_fee, net_amount, currency, payout_status, transfer_ref
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		RETURNING created_at, updated_at
	`

	if earnings.ID == uuid.Nil {
		earnings.ID = uuid.New()
	}
	if earnings.PayoutStatus == "" {
		earnings.PayoutStatus = models.PayoutStatusPending
	}

	err := r.db.QueryRow(
		query,
		earnings.ID, earnings.HostProfileID, earnings.BookingID, earnings.GrossAmount, earnings.PlatformFee,
		earnings.ProcessingFee, earnings.NetAmount, earnings.Currency, earnings.PayoutStatus, earnings.TransferRef,
	).Scan(&earnings.CreatedAt, &earnings.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create earnings row: %w", err)
	}

	return nil
}

// GetByID retrieves an earnings row by ID (no enrichment)
func (r *EarningsRepository) GetByID(earningsID uuid.UUID) (*models.Earnings, error) {
	query := `
		SELECT id, host_profile_id, booking_id, gross_amount, platform_fee,
			   processing_fee, net_amount, currency, payout_status, payout_date,
			   transfer_ref, created_at, updated_at
		FROM earnings
		WHERE id = $1
	`

	earnings := &models.Earnings{}
	var payoutDate sql.NullTime
	var transferRef sql.NullString

	err := r.db.QueryRow(query, earningsID).Scan(
		&earnings.ID, &earnings.HostProfileID, &earnings.BookingID, &earnings.GrossAmount, &earnings.PlatformFee,
		&earnings.ProcessingFee, &earnings.NetAmount, &earnings.Currency, &earnings.PayoutStatus, &payoutDate,
		&transferRef, &earnings.CreatedAt, &earnings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch earnings: %w", err)
	}

	if payoutDate.Valid {
		earnings.PayoutDate = &payoutDate.Time
	}
	if transferRef.Valid {
		earnings.TransferRef = &transferRef.String
	}

	return earnings, nil
}

// GetByHostProfile retrieves earnings for a host profile ordered by creation
// time descending, optionally restricted to a date range. Each row is
// enriched with booking and experience summary fields via LEFT JOIN; when the
// collaborator rows are absent the enrichment fields stay unset and the read
// still succeeds.
func (r *EarningsRepository) GetByHostProfile(hostProfileID uuid.UUID, from, to *time.Time) ([]models.Earnings, error) {
	query := `
		SELECT e.id, e.host_profile_id, e.booking_id, e.gross_amount, e.platform_fee,
			   e.processing_fee, e.net_amount, e.currency, e.payout_status, e.payout_date,
			   e.transfer_ref, e.created_at, e.updated_at,
			   x.title, b.guest_name, b.guest_count, b.booking_date
		FROM earnings e
		LEFT JOIN bookings b ON b.id = e.booking_id
		LEFT JOIN experiences x ON x.id = b.experience_id
		WHERE e.host_profile_id = $1
		  AND ($2::timestamptz IS NULL OR e.created_at >= $2)
		  AND ($3::timestamptz IS NULL OR e.created_at < $3)
		ORDER BY e.created_at DESC
	`

	rows, err := r.db.Query(query, hostProfileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earnings: %w", err)
	}
	defer rows.Close()

	return r.scanEnriched(rows)
}

// TransitionPayoutStatus performs a compare-and-swap status update: the row
// only changes when its stored status still equals from. Zero rows affected
// means a concurrent transition won the race (or the row vanished); callers
// re-validate. Amounts are never touched.
func (r *EarningsRepository) TransitionPayoutStatus(earningsID uuid.UUID, from, to models.PayoutStatus, transferRef *string) error {
	query := `
		UPDATE earnings
		SET payout_status = $3,
			payout_date = CASE WHEN $3 = 'completed' THEN NOW() ELSE payout_date END,
			transfer_ref = COALESCE($4, transfer_ref),
			updated_at = NOW()
		WHERE id = $1
		  AND payout_status = $2
	`

	result, err := r.db.Exec(query, earningsID, from, to, transferRef)
	if err != nil {
		return fmt.Errorf("failed to transition payout status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return models.ErrInvalidTransition
	}

	return nil
}

// SumRevenue returns the net revenue recognized for a host profile in the
// window. Cancelled and failed payouts do not count.
func (r *EarningsRepository) SumRevenue(hostProfileID uuid.UUID, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(net_amount), 0)
		FROM earnings
		WHERE host_profile_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		  AND payout_status NOT IN ('cancelled', 'failed')
	`

	var total float64
	err := r.db.QueryRow(query, hostProfileID, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return total, nil
}

// Summarize returns window totals per fee component and payout bucket
func (r *EarningsRepository) Summarize(hostProfileID uuid.UUID, from, to time.Time) (*models.EarningsSummary, error) {
	query := `
		SELECT COALESCE(SUM(gross_amount), 0),
			   COALESCE(SUM(platform_fee + processing_fee), 0),
			   COALESCE(SUM(net_amount), 0),
			   COALESCE(SUM(net_amount) FILTER (WHERE payout_status IN ('pending', 'processing')), 0),
			   COALESCE(SUM(net_amount) FILTER (WHERE payout_status = 'completed'), 0),
			   COUNT(*)
		FROM earnings
		WHERE host_profile_id = $1
		  AND created_at >= $2
		  AND created_at < $3
		  AND payout_status NOT IN ('cancelled', 'failed')
	`

	summary := &models.EarningsSummary{
		HostProfileID: hostProfileID,
		From:          from,
		To:            to,
	}

	err := r.db.QueryRow(query, hostProfileID, from, to).Scan(
		&summary.TotalGross, &summary.TotalFees, &summary.TotalNet,
		&summary.PendingNet, &summary.CompletedNet, &summary.Count,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize earnings: %w", err)
	}

	return summary, nil
}

// scanEnriched scans earnings rows joined with booking/experience summaries
func (r *EarningsRepository) scanEnriched(rows *sql.Rows) ([]models.Earnings, error) {
	earnings := []models.Earnings{}

	for rows.Next() {
		var e models.Earnings
		var payoutDate sql.NullTime
		var transferRef sql.NullString
		var experienceTitle sql.NullString
		var guestName sql.NullString
		var guestCount sql.NullInt64
		var bookingDate sql.NullTime

		err := rows.Scan(
			&e.ID, &e.HostProfileID, &e.BookingID, &e.GrossAmount, &e.PlatformFee,
			&e.ProcessingFee, &e.NetAmount, &e.Currency, &e.PayoutStatus, &payoutDate,
			&transferRef, &e.CreatedAt, &e.UpdatedAt,
			&experienceTitle, &guestName, &guestCount, &bookingDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan earnings row: %w", err)
		}

		if payoutDate.Valid {
			e.PayoutDate = &payoutDate.Time
		}
		if transferRef.Valid {
			e.TransferRef = &transferRef.String
		}
		if experienceTitle.Valid {
			e.ExperienceTitle = &experienceTitle.String
		}
		if guestName.Valid {
			e.GuestName = &guestName.String
		}
		if guestCount.Valid {
			count := int(guestCount.Int64)
			e.GuestCount = &count
		}
		if bookingDate.Valid {
			e.BookingDate = &bookingDate.Time
		}

		earnings = append(earnings, e)
	}

	return earnings, rows.Err()
}
