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
	"github.com/wavehaven/host-portal-backend/pkg/jwt"
)

func setupIdentityTest(t *testing.T) (*IdentityService, *jwt.Service, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	postgresDB := &database.PostgresDB{DB: sqlxDB}

	accountRepo := database.NewAccountRepository(postgresDB)
	profileRepo := database.NewHostProfileRepository(postgresDB)
	jwtService := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	service := NewIdentityService(jwtService, accountRepo, profileRepo, testLogger())

	cleanup := func() {
		db.Close()
	}

	return service, jwtService, mock, cleanup
}

func expectOwnedProfileRow(mock sqlmock.Sqlmock, profileID, ownerID uuid.UUID, active bool) {
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM host_profiles`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			profileID, ownerID, "Reef Riders", "Reef Riders LLC",
			nil, nil, string(models.TierPro), active,
			now, now,
		))
}

func TestResolve_EmptyToken(t *testing.T) {
	service, _, _, cleanup := setupIdentityTest(t)
	defer cleanup()

	_, err := service.Resolve("")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestResolve_InvalidToken(t *testing.T) {
	service, _, _, cleanup := setupIdentityTest(t)
	defer cleanup()

	_, err := service.Resolve("not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestResolve_AttachesProfile(t *testing.T) {
	service, jwtService, mock, cleanup := setupIdentityTest(t)
	defer cleanup()

	userID := uuid.New()
	profileID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "owner@wavehaven.test", []string{models.RoleUser, models.RoleHost})
	require.NoError(t, err)

	expectOwnedProfileRow(mock, profileID, userID, true)

	identity, err := service.Resolve(token)
	require.NoError(t, err)

	assert.Equal(t, userID, identity.PrincipalID)
	assert.Equal(t, "owner@wavehaven.test", identity.Email)
	require.NotNil(t, identity.HostProfileID)
	assert.Equal(t, profileID, *identity.HostProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_HostWithoutProfile(t *testing.T) {
	service, jwtService, mock, cleanup := setupIdentityTest(t)
	defer cleanup()

	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "owner@wavehaven.test", []string{models.RoleUser, models.RoleHost})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM host_profiles`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(profileColumns))

	_, err = service.Resolve(token)
	assert.ErrorIs(t, err, models.ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_PlainUserWithoutProfile(t *testing.T) {
	service, jwtService, mock, cleanup := setupIdentityTest(t)
	defer cleanup()

	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "guest@wavehaven.test", []string{models.RoleUser})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM host_profiles`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(profileColumns))

	identity, err := service.Resolve(token)
	require.NoError(t, err)
	assert.Nil(t, identity.HostProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_InactiveProfileNotAttached(t *testing.T) {
	service, jwtService, mock, cleanup := setupIdentityTest(t)
	defer cleanup()

	userID := uuid.New()
	token, err := jwtService.GenerateAccessToken(userID, "guest@wavehaven.test", []string{models.RoleUser})
	require.NoError(t, err)

	// A deactivated profile reads the same as no profile at all
	expectOwnedProfileRow(mock, uuid.New(), userID, false)

	identity, err := service.Resolve(token)
	require.NoError(t, err)
	assert.Nil(t, identity.HostProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUser_AttachesProfile(t *testing.T) {
	service, _, mock, cleanup := setupIdentityTest(t)
	defer cleanup()

	userID := uuid.New()
	profileID := uuid.New()
	expectOwnedProfileRow(mock, profileID, userID, true)

	identity, err := service.ResolveUser(userID, "owner@wavehaven.test", []string{models.RoleUser, models.RoleHost})
	require.NoError(t, err)
	require.NotNil(t, identity.HostProfileID)
	assert.Equal(t, profileID, *identity.HostProfileID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentity_IsAdmin(t *testing.T) {
	admin := &Identity{Roles: []string{models.RoleUser, models.RoleAdmin}}
	assert.True(t, admin.IsAdmin())

	host := &Identity{Roles: []string{models.RoleUser, models.RoleHost}}
	assert.False(t, host.IsAdmin())
}
