package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

func setupAvailabilityTest(t *testing.T) (*AvailabilityRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewAvailabilityRepository(sqlxDB)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func availabilityRecord(date time.Time, start, end string, capacity int) models.Availability {
	return models.Availability{
		Date:           date,
		StartTime:      start,
		EndTime:        end,
		Capacity:       capacity,
		RecurrenceType: models.RecurrenceNone,
	}
}

func TestReplaceForDates(t *testing.T) {
	repo, mock, cleanup := setupAvailabilityTest(t)
	defer cleanup()

	hostProfileID := uuid.New()
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	records := []models.Availability{
		availabilityRecord(day, "09:00:00", "12:00:00", 8),
		availabilityRecord(day, "13:00:00", "17:00:00", 6),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(hostProfileID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM availability`).
		WithArgs(hostProfileID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO availability`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectQuery(`INSERT INTO availability`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	err := repo.ReplaceForDates(hostProfileID, records)
	require.NoError(t, err)

	// Rows get identities and host attribution inside the transaction
	assert.NotEqual(t, uuid.Nil, records[0].ID)
	assert.Equal(t, hostProfileID, records[0].HostProfileID)
	assert.Equal(t, hostProfileID, records[1].HostProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceForDates_InsertFailureRollsBack(t *testing.T) {
	repo, mock, cleanup := setupAvailabilityTest(t)
	defer cleanup()

	hostProfileID := uuid.New()
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	records := []models.Availability{
		availabilityRecord(day, "09:00:00", "12:00:00", 8),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WithArgs(hostProfileID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM availability`).
		WithArgs(hostProfileID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO availability`).
		WillReturnError(fmt.Errorf("constraint violation"))
	mock.ExpectRollback()

	err := repo.ReplaceForDates(hostProfileID, records)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert availability slot")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByDateRange(t *testing.T) {
	repo, mock, cleanup := setupAvailabilityTest(t)
	defer cleanup()

	hostProfileID := uuid.New()
	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM availability`).
		WithArgs(hostProfileID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "host_profile_id", "date", "start_time", "end_time", "capacity",
			"price_override", "weather_dependent", "recurrence_type",
			"recurrence_days", "recurrence_end_date", "created_at", "updated_at",
		}).
			AddRow(
				uuid.New(), hostProfileID, from.AddDate(0, 0, 14), "09:00:00", "12:00:00", 8,
				150.0, true, "weekly",
				[]byte(`{6,0}`), to, now, now,
			).
			AddRow(
				uuid.New(), hostProfileID, from.AddDate(0, 0, 14), "13:00:00", "17:00:00", 0,
				nil, false, "none",
				[]byte(`{}`), nil, now, now,
			))

	slots, err := repo.GetByDateRange(hostProfileID, from, to)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	require.NotNil(t, slots[0].PriceOverride)
	assert.InDelta(t, 150.0, *slots[0].PriceOverride, 0.001)
	assert.True(t, slots[0].WeatherDependent)
	assert.Equal(t, models.RecurrenceWeekly, slots[0].RecurrenceType)
	assert.Equal(t, models.IntArray{6, 0}, slots[0].RecurrenceDays)

	// Zero-capacity slot survives as a blocked date
	assert.Equal(t, 0, slots[1].Capacity)
	assert.Nil(t, slots[1].PriceOverride)
	assert.Nil(t, slots[1].RecurrenceEndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDistinctDates(t *testing.T) {
	day1 := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)

	records := []models.Availability{
		availabilityRecord(day1, "09:00:00", "12:00:00", 8),
		availabilityRecord(day1, "13:00:00", "17:00:00", 6),
		availabilityRecord(day2, "09:00:00", "12:00:00", 8),
	}

	dates := distinctDates(records)
	assert.Equal(t, []time.Time{day1, day2}, dates)
}
