package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
)

// EarningsService manages the host earnings ledger and its payout lifecycle
type EarningsService struct {
	earningsRepo *database.EarningsRepository
	accessSvc    *AccessService
	auditSvc     *AuditService
	logger       *logrus.Logger
}

// NewEarningsService creates a new earnings service
func NewEarningsService(
	earningsRepo *database.EarningsRepository,
	accessSvc *AccessService,
	auditSvc *AuditService,
	logger *logrus.Logger,
) *EarningsService {
	return &EarningsService{
		earningsRepo: earningsRepo,
		accessSvc:    accessSvc,
		auditSvc:     auditSvc,
		logger:       logger,
	}
}

// Record creates an earnings row for a settled booking. Amounts are fixed
// at creation: net is always gross minus fees and the row starts in the
// pending payout state. Settlement feeds arrive from the booking pipeline,
// so only admin principals may call this.
func (s *EarningsService) Record(identity *Identity, req *models.CreateEarningsRequest) (*models.Earnings, error) {
	if identity == nil {
		return nil, models.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, models.ErrNotAuthorized
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	hostProfileID, _ := uuid.Parse(req.HostProfileID)
	bookingID, _ := uuid.Parse(req.BookingID)

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	earnings := &models.Earnings{
		HostProfileID: hostProfileID,
		BookingID:     bookingID,
		GrossAmount:   req.GrossAmount,
		PlatformFee:   req.PlatformFee,
		ProcessingFee: req.ProcessingFee,
		NetAmount:     req.Net(),
		Currency:      currency,
		PayoutStatus:  models.PayoutStatusPending,
		TransferRef:   req.TransferRef,
	}

	if err := s.earningsRepo.Create(earnings); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"earnings_id":     earnings.ID,
		"host_profile_id": hostProfileID,
		"net_amount":      earnings.NetAmount,
	}).Info("Earnings recorded")

	return earnings, nil
}

// List returns the host profile's earnings, newest first, enriched with
// booking context where the collaborator rows exist. A nil bound leaves
// that side of the window open.
func (s *EarningsService) List(identity *Identity, hostProfileID uuid.UUID, from, to *time.Time) ([]models.Earnings, error) {
	if _, err := s.accessSvc.Authorize(identity, hostProfileID, models.PermissionViewEarnings); err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, models.NewValidationError("to", "must not be before from")
	}
	return s.earningsRepo.GetByHostProfile(hostProfileID, from, to)
}

// Get returns one earnings row after an earnings-view authorization check
// against the row's host profile
func (s *EarningsService) Get(identity *Identity, earningsID uuid.UUID) (*models.Earnings, error) {
	earnings, err := s.earningsRepo.GetByID(earningsID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accessSvc.Authorize(identity, earnings.HostProfileID, models.PermissionViewEarnings); err != nil {
		return nil, err
	}
	return earnings, nil
}

// TransitionPayout moves an earnings row along the payout state machine.
// The transition is validated against the current state, then applied with
// a compare-and-set so a concurrent transition loses cleanly instead of
// overwriting.
func (s *EarningsService) TransitionPayout(identity *Identity, earningsID uuid.UUID, req *models.PayoutTransitionRequest) (*models.Earnings, error) {
	next := models.PayoutStatus(req.Status)
	if !next.IsValid() {
		return nil, models.NewValidationError("status", "must be pending, processing, completed, failed or cancelled")
	}

	earnings, err := s.earningsRepo.GetByID(earningsID)
	if err != nil {
		return nil, err
	}

	if _, err := s.accessSvc.Authorize(identity, earnings.HostProfileID, models.PermissionManagePayouts); err != nil {
		return nil, err
	}

	current := earnings.PayoutStatus
	if !current.CanTransitionTo(next) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.earningsRepo.TransitionPayoutStatus(earningsID, current, next, req.TransferRef); err != nil {
		return nil, err
	}

	if err := s.auditSvc.LogPayoutTransition(identity.PrincipalID, earningsID, string(current), string(next)); err != nil {
		s.logger.WithError(err).Warn("Failed to audit payout transition")
	}

	s.logger.WithFields(logrus.Fields{
		"earnings_id": earningsID,
		"from":        current,
		"to":          next,
	}).Info("Payout status transitioned")

	return s.earningsRepo.GetByID(earningsID)
}

// Summary returns window totals for the host profile's earnings
func (s *EarningsService) Summary(identity *Identity, hostProfileID uuid.UUID, from, to time.Time) (*models.EarningsSummary, error) {
	if _, err := s.accessSvc.Authorize(identity, hostProfileID, models.PermissionViewEarnings); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, models.NewValidationError("to", "must not be before from")
	}
	return s.earningsRepo.Summarize(hostProfileID, from, to)
}
