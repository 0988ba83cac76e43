package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

var earningsColumns = []string{
	"id", "host_profile_id", "booking_id", "gross_amount", "platform_fee",
	"processing_fee", "net_amount", "currency", "payout_status", "payout_date",
	"transfer_ref", "created_at", "updated_at",
}

func setupEarningsTest(t *testing.T) (*EarningsService, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	postgresDB := &database.PostgresDB{DB: sqlxDB}

	profileRepo := database.NewHostProfileRepository(postgresDB)
	teamRepo := database.NewTeamMemberRepository(postgresDB)
	earningsRepo := database.NewEarningsRepository(postgresDB)
	auditSvc := NewAuditService(postgresDB, true)
	accessSvc := NewAccessService(profileRepo, teamRepo, auditSvc, testLogger())
	service := NewEarningsService(earningsRepo, accessSvc, auditSvc, testLogger())

	cleanup := func() {
		db.Close()
	}

	return service, mock, cleanup
}

func expectEarningsRow(mock sqlmock.Sqlmock, earningsID, hostProfileID uuid.UUID, status string) {
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM earnings`).
		WithArgs(earningsID).
		WillReturnRows(sqlmock.NewRows(earningsColumns).AddRow(
			earningsID, hostProfileID, uuid.New(), 100.0, 15.0,
			3.0, 82.0, "USD", status, nil,
			nil, now, now,
		))
}

func TestRecordEarnings_AdminOnly(t *testing.T) {
	service, _, cleanup := setupEarningsTest(t)
	defer cleanup()

	req := &models.CreateEarningsRequest{
		HostProfileID: uuid.New().String(),
		BookingID:     uuid.New().String(),
		GrossAmount:   100,
		PlatformFee:   15,
		ProcessingFee: 3,
	}

	_, err := service.Record(identityFor(uuid.New()), req)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	_, err = service.Record(nil, req)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestRecordEarnings_DerivesNet(t *testing.T) {
	service, mock, cleanup := setupEarningsTest(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO earnings`).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	req := &models.CreateEarningsRequest{
		HostProfileID: uuid.New().String(),
		BookingID:     uuid.New().String(),
		GrossAmount:   100,
		PlatformFee:   15,
		ProcessingFee: 3,
	}

	earnings, err := service.Record(identityFor(uuid.New(), models.RoleAdmin), req)
	require.NoError(t, err)
	assert.InDelta(t, 82.0, earnings.NetAmount, 0.001)
	assert.Equal(t, models.PayoutStatusPending, earnings.PayoutStatus)
	assert.Equal(t, "USD", earnings.Currency)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionPayout_Valid(t *testing.T) {
	service, mock, cleanup := setupEarningsTest(t)
	defer cleanup()

	ownerID := uuid.New()
	profileID := uuid.New()
	earningsID := uuid.New()

	expectEarningsRow(mock, earningsID, profileID, "pending")
	expectProfileRow(mock, profileID, ownerID, "fleet", true)

	mock.ExpectExec(`UPDATE earnings`).
		WithArgs(earningsID, models.PayoutStatusPending, models.PayoutStatusProcessing, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	expectEarningsRow(mock, earningsID, profileID, "processing")

	earnings, err := service.TransitionPayout(identityFor(ownerID), earningsID, &models.PayoutTransitionRequest{Status: "processing"})
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, earnings.PayoutStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionPayout_InvalidEdge(t *testing.T) {
	service, mock, cleanup := setupEarningsTest(t)
	defer cleanup()

	ownerID := uuid.New()
	profileID := uuid.New()
	earningsID := uuid.New()

	// pending -> completed skips processing
	expectEarningsRow(mock, earningsID, profileID, "pending")
	expectProfileRow(mock, profileID, ownerID, "fleet", true)

	_, err := service.TransitionPayout(identityFor(ownerID), earningsID, &models.PayoutTransitionRequest{Status: "completed"})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionPayout_TerminalState(t *testing.T) {
	service, mock, cleanup := setupEarningsTest(t)
	defer cleanup()

	ownerID := uuid.New()
	profileID := uuid.New()
	earningsID := uuid.New()

	expectEarningsRow(mock, earningsID, profileID, "completed")
	expectProfileRow(mock, profileID, ownerID, "fleet", true)

	_, err := service.TransitionPayout(identityFor(ownerID), earningsID, &models.PayoutTransitionRequest{Status: "failed"})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransitionPayout_UnknownStatus(t *testing.T) {
	service, _, cleanup := setupEarningsTest(t)
	defer cleanup()

	_, err := service.TransitionPayout(identityFor(uuid.New()), uuid.New(), &models.PayoutTransitionRequest{Status: "refunded"})
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestTransitionPayout_NotFound(t *testing.T) {
	service, mock, cleanup := setupEarningsTest(t)
	defer cleanup()

	earningsID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM earnings`).
		WithArgs(earningsID).
		WillReturnRows(sqlmock.NewRows(earningsColumns))

	_, err := service.TransitionPayout(identityFor(uuid.New()), earningsID, &models.PayoutTransitionRequest{Status: "processing"})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListEarnings_RequiresViewPermission(t *testing.T) {
	service, mock, cleanup := setupEarningsTest(t)
	defer cleanup()

	profileID := uuid.New()
	memberUserID := uuid.New()
	now := time.Now()

	expectProfileRow(mock, profileID, uuid.New(), "pro", true)

	// Crew member without earnings:view
	mock.ExpectQuery(`SELECT (.+) FROM team_members`).
		WithArgs(profileID, memberUserID).
		WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(
			uuid.New(), profileID, memberUserID, "crew", []byte(`{availability:view}`),
			nil, nil, []byte(`{}`), now,
			true, now, now,
		))

	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := service.List(identityFor(memberUserID), profileID, nil, nil)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}
