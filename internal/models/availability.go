package models

import (
	"time"

	"github.com/google/uuid"
)

// RecurrenceType represents how an availability slot repeats
type RecurrenceType string

const (
	RecurrenceNone    RecurrenceType = "none"
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// IsValid reports whether the recurrence type is known
func (r RecurrenceType) IsValid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Availability represents bookable capacity for a host profile on a
// specific date and time window. Writes replace all rows for the submitted
// dates (last-write-wins per date, not merge).
type Availability struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	HostProfileID     uuid.UUID      `json:"host_profile_id" db:"host_profile_id"`
	Date              time.Time      `json:"date" db:"date"`
	StartTime         string         `json:"start_time" db:"start_time"` // TIME stored as HH:MM:SS
	EndTime           string         `json:"end_time" db:"end_time"`     // TIME stored as HH:MM:SS
	Capacity          int            `json:"capacity" db:"capacity"`
	PriceOverride     *float64       `json:"price_override,omitempty" db:"price_override"`
	WeatherDependent  bool           `json:"weather_dependent" db:"weather_dependent"`
	RecurrenceType    RecurrenceType `json:"recurrence_type" db:"recurrence_type"`
	RecurrenceDays    IntArray       `json:"recurrence_days,omitempty" db:"recurrence_days"` // 0=Sunday .. 6=Saturday
	RecurrenceEndDate *time.Time     `json:"recurrence_end_date,omitempty" db:"recurrence_end_date"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// AvailabilitySlotInput is one slot in a set-availability request
type AvailabilitySlotInput struct {
	Date              string   `json:"date" binding:"required"` // YYYY-MM-DD
	StartTime         string   `json:"start_time" binding:"required"`
	EndTime           string   `json:"end_time" binding:"required"`
	Capacity          int      `json:"capacity"`
	PriceOverride     *float64 `json:"price_override,omitempty"`
	WeatherDependent  bool     `json:"weather_dependent"`
	RecurrenceType    string   `json:"recurrence_type,omitempty"`
	RecurrenceDays    []int    `json:"recurrence_days,omitempty"`
	RecurrenceEndDate *string  `json:"recurrence_end_date,omitempty"` // YYYY-MM-DD
}

// SetAvailabilityRequest represents the request to replace availability
// for the dates present in the slot list
type SetAvailabilityRequest struct {
	Slots []AvailabilitySlotInput `json:"slots" binding:"required"`
}

// Validate validates every slot in the request
func (r *SetAvailabilityRequest) Validate() error {
	if len(r.Slots) == 0 {
		return NewValidationError("slots", "at least one slot is required")
	}
	for i := range r.Slots {
		if err := r.Slots[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates a single slot input
func (s *AvailabilitySlotInput) Validate() error {
	if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		return NewValidationError("date", "must be in YYYY-MM-DD format")
	}
	if s.Capacity < 0 {
		return NewValidationError("capacity", "cannot be negative")
	}
	if s.PriceOverride != nil && *s.PriceOverride < 0 {
		return NewValidationError("price_override", "cannot be negative")
	}
	if s.RecurrenceType != "" {
		rt := RecurrenceType(s.RecurrenceType)
		if !rt.IsValid() {
			return NewValidationError("recurrence_type", "must be none, daily, weekly or monthly")
		}
		for _, day := range s.RecurrenceDays {
			if day < 0 || day > 6 {
				return NewValidationError("recurrence_days", "days must be between 0 (Sunday) and 6 (Saturday)")
			}
		}
		if s.RecurrenceEndDate != nil {
			if _, err := time.Parse("2006-01-02", *s.RecurrenceEndDate); err != nil {
				return NewValidationError("recurrence_end_date", "must be in YYYY-MM-DD format")
			}
		}
	}
	// Time window order is checked by the clock validator at the service
	// boundary so the error carries the normalized values.
	return nil
}

// ToAvailability converts a validated slot input into an entity
func (s *AvailabilitySlotInput) ToAvailability(hostProfileID uuid.UUID, startTime, endTime string) (Availability, error) {
	date, err := time.Parse("2006-01-02", s.Date)
	if err != nil {
		return Availability{}, NewValidationError("date", "must be in YYYY-MM-DD format")
	}

	recurrence := RecurrenceType(s.RecurrenceType)
	if s.RecurrenceType == "" {
		recurrence = RecurrenceNone
	}

	var recurrenceEnd *time.Time
	if s.RecurrenceEndDate != nil {
		end, err := time.Parse("2006-01-02", *s.RecurrenceEndDate)
		if err != nil {
			return Availability{}, NewValidationError("recurrence_end_date", "must be in YYYY-MM-DD format")
		}
		recurrenceEnd = &end
	}

	return Availability{
		HostProfileID:     hostProfileID,
		Date:              date,
		StartTime:         startTime,
		EndTime:           endTime,
		Capacity:          s.Capacity,
		PriceOverride:     s.PriceOverride,
		WeatherDependent:  s.WeatherDependent,
		RecurrenceType:    recurrence,
		RecurrenceDays:    IntArray(s.RecurrenceDays),
		RecurrenceEndDate: recurrenceEnd,
	}, nil
}
