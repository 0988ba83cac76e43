package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wavehaven/host-portal-backend/internal/database"
	"github.com/wavehaven/host-portal-backend/internal/models"
	"github.com/wavehaven/host-portal-backend/pkg/validator"
)

// AvailabilityService manages a host profile's bookable calendar
type AvailabilityService struct {
	availabilityRepo *database.AvailabilityRepository
	accessSvc        *AccessService
	clock            *validator.ClockValidator
	logger           *logrus.Logger
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	availabilityRepo *database.AvailabilityRepository,
	accessSvc *AccessService,
	logger *logrus.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		availabilityRepo: availabilityRepo,
		accessSvc:        accessSvc,
		clock:            validator.NewClockValidator(),
		logger:           logger,
	}
}

// Get returns availability for the host profile inside [from, to]
func (s *AvailabilityService) Get(identity *Identity, hostProfileID uuid.UUID, from, to time.Time) ([]models.Availability, error) {
	if _, err := s.accessSvc.Authorize(identity, hostProfileID, models.PermissionViewAvailability); err != nil {
		return nil, err
	}

	if to.Before(from) {
		return nil, models.NewValidationError("to", "must not be before from")
	}

	return s.availabilityRepo.GetByDateRange(hostProfileID, from, to)
}

// Set replaces availability for every date present in the request. All
// submitted dates are swapped in one transaction: existing rows for those
// dates are removed and the submitted slots inserted, so the last writer
// for a date wins wholesale. Dates absent from the request are untouched.
func (s *AvailabilityService) Set(identity *Identity, hostProfileID uuid.UUID, req *models.SetAvailabilityRequest) ([]models.Availability, error) {
	if _, err := s.accessSvc.Authorize(identity, hostProfileID, models.PermissionManageAvailability); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	records := make([]models.Availability, 0, len(req.Slots))
	for i := range req.Slots {
		slot := &req.Slots[i]

		start, end, err := s.clock.ValidateWindow(slot.StartTime, slot.EndTime)
		if err != nil {
			return nil, models.NewValidationError("slots", err.Error())
		}

		record, err := slot.ToAvailability(hostProfileID, start, end)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := s.availabilityRepo.ReplaceForDates(hostProfileID, records); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"host_profile_id": hostProfileID,
		"slot_count":      len(records),
	}).Info("Availability replaced")

	return records, nil
}
