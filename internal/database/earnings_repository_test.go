package database

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

func TestCreateEarnings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	t.Run("Success", func(t *testing.T) {
		now := time.Now()

		mock.ExpectQuery(`INSERT INTO earnings`).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		earnings := &models.Earnings{
			HostProfileID: uuid.New(),
			BookingID:     uuid.New(),
			GrossAmount:   100,
			PlatformFee:   15,
			ProcessingFee: 3,
			NetAmount:     82,
			Currency:      "USD",
		}

		err := repo.Create(earnings)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, earnings.ID)
		assert.Equal(t, models.PayoutStatusPending, earnings.PayoutStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO earnings`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(&models.Earnings{HostProfileID: uuid.New(), BookingID: uuid.New()})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create earnings row")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetEarningsByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	t.Run("Success", func(t *testing.T) {
		earningsID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM earnings`).
			WithArgs(earningsID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "host_profile_id", "booking_id", "gross_amount", "platform_fee",
				"processing_fee", "net_amount", "currency", "payout_status", "payout_date",
				"transfer_ref", "created_at", "updated_at",
			}).AddRow(
				earningsID, uuid.New(), uuid.New(), 100.0, 15.0,
				3.0, 82.0, "USD", "pending", nil,
				nil, now, now,
			))

		earnings, err := repo.GetByID(earningsID)
		require.NoError(t, err)
		assert.Equal(t, earningsID, earnings.ID)
		assert.Equal(t, models.PayoutStatusPending, earnings.PayoutStatus)
		assert.Nil(t, earnings.PayoutDate)
		assert.Nil(t, earnings.TransferRef)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		earningsID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM earnings`).
			WithArgs(earningsID).
			WillReturnError(sql.ErrNoRows)

		earnings, err := repo.GetByID(earningsID)
		assert.Nil(t, earnings)
		assert.ErrorIs(t, err, models.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetEarningsByHostProfile_Enrichment(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	hostProfileID := uuid.New()
	now := time.Now()

	columns := []string{
		"id", "host_profile_id", "booking_id", "gross_amount", "platform_fee",
		"processing_fee", "net_amount", "currency", "payout_status", "payout_date",
		"transfer_ref", "created_at", "updated_at",
		"title", "guest_name", "guest_count", "booking_date",
	}

	// One enriched row, one row whose booking was purged
	mock.ExpectQuery(`SELECT (.+) FROM earnings e`).
		WithArgs(hostProfileID, nil, nil).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(
				uuid.New(), hostProfileID, uuid.New(), 200.0, 30.0,
				6.0, 164.0, "USD", "completed", now,
				"tr_123", now, now,
				"Sunset Jet Ski Tour", "Dana Reef", 4, now,
			).
			AddRow(
				uuid.New(), hostProfileID, uuid.New(), 100.0, 15.0,
				3.0, 82.0, "USD", "pending", nil,
				nil, now, now,
				nil, nil, nil, nil,
			))

	earnings, err := repo.GetByHostProfile(hostProfileID, nil, nil)
	require.NoError(t, err)
	require.Len(t, earnings, 2)

	require.NotNil(t, earnings[0].ExperienceTitle)
	assert.Equal(t, "Sunset Jet Ski Tour", *earnings[0].ExperienceTitle)
	require.NotNil(t, earnings[0].GuestCount)
	assert.Equal(t, 4, *earnings[0].GuestCount)

	// Missing collaborator rows degrade to unset fields, not errors
	assert.Nil(t, earnings[1].ExperienceTitle)
	assert.Nil(t, earnings[1].GuestName)
	assert.Nil(t, earnings[1].GuestCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEarningsByHostProfile_DateBounds(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	hostProfileID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	columns := []string{
		"id", "host_profile_id", "booking_id", "gross_amount", "platform_fee",
		"processing_fee", "net_amount", "currency", "payout_status", "payout_date",
		"transfer_ref", "created_at", "updated_at",
		"title", "guest_name", "guest_count", "booking_date",
	}

	// Lower bound inclusive, upper bound exclusive; a row stamped exactly at
	// the upper bound must not come back
	mock.ExpectQuery(`e\.created_at >= \$2(.+)e\.created_at < \$3`).
		WithArgs(hostProfileID, from, to).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			uuid.New(), hostProfileID, uuid.New(), 100.0, 15.0,
			3.0, 82.0, "USD", "pending", nil,
			nil, from, from,
			nil, nil, nil, nil,
		))

	earnings, err := repo.GetByHostProfile(hostProfileID, &from, &to)
	require.NoError(t, err)
	assert.Len(t, earnings, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionPayoutStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	t.Run("Success", func(t *testing.T) {
		earningsID := uuid.New()

		mock.ExpectExec(`UPDATE earnings`).
			WithArgs(earningsID, models.PayoutStatusPending, models.PayoutStatusProcessing, nil).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.TransitionPayoutStatus(earningsID, models.PayoutStatusPending, models.PayoutStatusProcessing, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lost CAS Race", func(t *testing.T) {
		earningsID := uuid.New()

		// Zero rows affected: the stored status no longer matches
		mock.ExpectExec(`UPDATE earnings`).
			WithArgs(earningsID, models.PayoutStatusPending, models.PayoutStatusProcessing, nil).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.TransitionPayoutStatus(earningsID, models.PayoutStatusPending, models.PayoutStatusProcessing, nil)
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSumRevenue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	hostProfileID := uuid.New()
	from := time.Now().AddDate(0, 0, -30)
	to := time.Now()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(net_amount\), 0\)`).
		WithArgs(hostProfileID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(1234.56))

	total, err := repo.SumRevenue(hostProfileID, from, to)
	require.NoError(t, err)
	assert.InDelta(t, 1234.56, total, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummarizeEarnings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEarningsRepository(&mockDatabase{db: db})

	hostProfileID := uuid.New()
	from := time.Now().AddDate(0, 0, -30)
	to := time.Now()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(gross_amount\), 0\)`).
		WithArgs(hostProfileID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{
			"gross", "fees", "net", "pending_net", "completed_net", "count",
		}).AddRow(1000.0, 180.0, 820.0, 320.0, 500.0, 10))

	summary, err := repo.Summarize(hostProfileID, from, to)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, summary.TotalGross, 0.001)
	assert.InDelta(t, 180.0, summary.TotalFees, 0.001)
	assert.InDelta(t, 820.0, summary.TotalNet, 0.001)
	assert.InDelta(t, 320.0, summary.PendingNet, 0.001)
	assert.InDelta(t, 500.0, summary.CompletedNet, 0.001)
	assert.Equal(t, 10, summary.Count)
	assert.Equal(t, hostProfileID, summary.HostProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Mock database implementation for testing
type mockDatabase struct {
	db *sql.DB
}

func (m *mockDatabase) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *mockDatabase) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *mockDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *mockDatabase) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *mockDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *mockDatabase) Close() error {
	return m.db.Close()
}

func (m *mockDatabase) Ping() error {
	return m.db.Ping()
}
