package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService()
	userID := uuid.New()

	token, err := service.GenerateAccessToken(userID, "owner@wavehaven.test", []string{"user", "host"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@wavehaven.test", claims.Email)
	assert.Equal(t, []string{"user", "host"}, claims.Roles)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestGenerateAndValidateRefreshToken(t *testing.T) {
	service := newTestService()
	userID := uuid.New()

	token, err := service.GenerateRefreshToken(userID, "owner@wavehaven.test")
	require.NoError(t, err)

	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateAccessToken_RejectsRefreshToken(t *testing.T) {
	service := newTestService()

	refresh, err := service.GenerateRefreshToken(uuid.New(), "owner@wavehaven.test")
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	service := newTestService()
	other := NewService("different-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)

	token, err := service.GenerateAccessToken(uuid.New(), "owner@wavehaven.test", []string{"user"})
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	service := newTestService()

	_, err := service.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestIsTokenExpired(t *testing.T) {
	expired := NewService("access-secret", "refresh-secret", -time.Minute, 7*24*time.Hour)

	token, err := expired.GenerateAccessToken(uuid.New(), "owner@wavehaven.test", []string{"user"})
	require.NoError(t, err)

	assert.True(t, expired.IsTokenExpired(token))
	assert.True(t, expired.IsTokenExpired("garbage"))

	service := newTestService()
	fresh, err := service.GenerateAccessToken(uuid.New(), "owner@wavehaven.test", []string{"user"})
	require.NoError(t, err)
	assert.False(t, service.IsTokenExpired(fresh))
}
