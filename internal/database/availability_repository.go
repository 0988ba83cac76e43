package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// AvailabilityRepository handles database operations for the availability table.
// It takes *sqlx.DB directly because the per-date replace runs in a transaction.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetByDateRange retrieves availability for a host profile between from and to
// (inclusive), ordered by date then start time ascending. An empty result is
// not an error.
func (r *AvailabilityRepository) GetByDateRange(hostProfileID uuid.UUID, from, to time.Time) ([]models.Availability, error) {
	query := `
		SELECT id, host_profile_id, date, start_time, end_time, capacity,
			   price_override, weather_dependent, recurrence_type,
			   recurrence_days, recurrence_end_date, created_at, updated_at
		FROM availability
		WHERE host_profile_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC, start_time ASC
	`

	rows, err := r.db.Query(query, hostProfileID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability: %w", err)
	}
	defer rows.Close()

	return r.scanSlots(rows)
}

// ReplaceForDates atomically replaces availability for every date present in
// records: existing rows for those dates are deleted, then the new rows are
// inserted, all in one transaction. An advisory lock keyed on the host profile
// serializes concurrent replaces for the same host so the delete/insert pair
// can never interleave (last-write-wins per date).
func (r *AvailabilityRepository) ReplaceForDates(hostProfileID uuid.UUID, records []models.Availability) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, hostProfileID.String()); err != nil {
		return fmt.Errorf("failed to acquire host availability lock: %w", err)
	}

	dates := distinctDates(records)

	deleteQuery := `
		DELETE FROM availability
		WHERE host_profile_id = $1
		  AND date = ANY($2)
	`
	if _, err := tx.Exec(deleteQuery, hostProfileID, pq.Array(dates)); err != nil {
		return fmt.Errorf("failed to clear availability for dates: %w", err)
	}

	insertQuery := `
		INSERT INTO availability (
			id, host_profile_id, date, start_time, end_time, capacity,
			price_override, weather_dependent, recurrence_type,
			recurrence_days, recurrence_end_date
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
		RETURNING created_at, updated_at
	`

	for i := range records {
		if records[i].ID == uuid.Nil {
			records[i].ID = uuid.New()
		}
		records[i].HostProfileID = hostProfileID

		err := tx.QueryRowx(insertQuery,
			records[i].ID, hostProfileID, records[i].Date,
			records[i].StartTime, records[i].EndTime, records[i].Capacity,
			records[i].PriceOverride, records[i].WeatherDependent, records[i].RecurrenceType,
			records[i].RecurrenceDays, records[i].RecurrenceEndDate,
		).Scan(&records[i].CreatedAt, &records[i].UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert availability slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit availability replace: %w", err)
	}

	return nil
}

// distinctDates extracts the unique dates in submission order
func distinctDates(records []models.Availability) []time.Time {
	seen := make(map[time.Time]bool, len(records))
	dates := make([]time.Time, 0, len(records))
	for _, rec := range records {
		day := rec.Date.Truncate(24 * time.Hour)
		if !seen[day] {
			seen[day] = true
			dates = append(dates, day)
		}
	}
	return dates
}

// scanSlots scans availability rows
func (r *AvailabilityRepository) scanSlots(rows *sql.Rows) ([]models.Availability, error) {
	slots := []models.Availability{}

	for rows.Next() {
		var slot models.Availability
		var priceOverride sql.NullFloat64
		var recurrenceEnd sql.NullTime

		err := rows.Scan(
			&slot.ID, &slot.HostProfileID, &slot.Date, &slot.StartTime, &slot.EndTime, &slot.Capacity,
			&priceOverride, &slot.WeatherDependent, &slot.RecurrenceType,
			&slot.RecurrenceDays, &recurrenceEnd, &slot.CreatedAt, &slot.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}

		if priceOverride.Valid {
			slot.PriceOverride = &priceOverride.Float64
		}
		if recurrenceEnd.Valid {
			slot.RecurrenceEndDate = &recurrenceEnd.Time
		}

		slots = append(slots, slot)
	}

	return slots, rows.Err()
}
