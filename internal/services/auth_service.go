package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresIn    int64           `json:"expires_in"`
	Account      *models.Account `json:"account"`
}

// AuthService handles portal account authentication
type AuthService struct {
	accountRepo         *database.AccountRepository
	jwtService          *jwt.Service
	auditService        *AuditService
	accessTokenDuration time.Duration
	bcryptCost          int
	logger              *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo *database.AccountRepository,
	jwtService *jwt.Service,
	auditService *AuditService,
	accessTokenDuration time.Duration,
	bcryptCost int,
	logger *logrus.Logger,
) *AuthService {
	return &AuthService{
		accountRepo:         accountRepo,
		jwtService:          jwtService,
		auditService:        auditService,
		accessTokenDuration: accessTokenDuration,
		bcryptCost:          bcryptCost,
		logger:              logger,
	}
}

// Register creates a new portal account with a bcrypt-hashed password
func (s *AuthService) Register(req *models.RegisterRequest) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &models.Account{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Roles:        models.StringArray{models.RoleUser},
		Status:       models.AccountStatusActive,
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"account_id": account.ID,
	}).Info("Account registered")

	return account, nil
}

// Login authenticates an account and returns a token pair. Failures are
// audited; the caller gets a uniform error that does not distinguish
// unknown email from wrong password.
func (s *AuthService) Login(req *models.LoginRequest, ipAddress, userAgent string) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accountRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			_ = s.auditService.LogLogin(nil, email, ipAddress, userAgent, false, "unknown_email")
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}

	if account.Status != models.AccountStatusActive {
		_ = s.auditService.LogLogin(&account.ID, email, ipAddress, userAgent, false, "account_suspended")
		return nil, models.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		_ = s.auditService.LogLogin(&account.ID, email, ipAddress, userAgent, false, "bad_password")
		return nil, models.ErrUnauthenticated
	}

	accessToken, err := s.jwtService.GenerateAccessToken(account.ID, account.Email, account.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.accountRepo.TouchLastLogin(account.ID); err != nil {
		s.logger.WithError(err).WithField("account_id", account.ID).Warn("Failed to update last login")
	}

	_ = s.auditService.LogLogin(&account.ID, email, ipAddress, userAgent, true, "")

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenDuration.Seconds()),
		Account:      account,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *AuthService) Refresh(refreshToken, ipAddress, userAgent string) (*LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, models.ErrUnauthenticated
	}

	account, err := s.accountRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthenticated
		}
		return nil, err
	}

	if account.Status != models.AccountStatusActive {
		_ = s.auditService.LogTokenRefresh(account.ID, ipAddress, userAgent, false)
		return nil, models.ErrUnauthenticated
	}

	accessToken, err := s.jwtService.GenerateAccessToken(account.ID, account.Email, account.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, err := s.jwtService.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	_ = s.auditService.LogTokenRefresh(account.ID, ipAddress, userAgent, true)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.accessTokenDuration.Seconds()),
		Account:      account,
	}, nil
}

// GetAccount fetches an account by ID
func (s *AuthService) GetAccount(accountID uuid.UUID) (*models.Account, error) {
	return s.accountRepo.GetByID(accountID)
}
