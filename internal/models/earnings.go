package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PayoutStatus represents the payout lifecycle state of an earnings row
type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
	PayoutStatusCancelled  PayoutStatus = "cancelled"
)

// IsValid reports whether the status is a known payout status
func (s PayoutStatus) IsValid() bool {
	switch s {
	case PayoutStatusPending, PayoutStatusProcessing, PayoutStatusCompleted,
		PayoutStatusFailed, PayoutStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s
func (s PayoutStatus) IsTerminal() bool {
	switch s {
	case PayoutStatusCompleted, PayoutStatusFailed, PayoutStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the payout state machine permits the
// transition s -> next:
//
//	pending    -> processing, cancelled
//	processing -> completed, failed, cancelled
//
// completed, failed and cancelled are terminal.
func (s PayoutStatus) CanTransitionTo(next PayoutStatus) bool {
	switch s {
	case PayoutStatusPending:
		return next == PayoutStatusProcessing || next == PayoutStatusCancelled
	case PayoutStatusProcessing:
		return next == PayoutStatusCompleted || next == PayoutStatusFailed || next == PayoutStatusCancelled
	}
	return false
}

// Earnings represents one booking settlement for a host profile.
// Amounts are fixed at creation; only the payout status and its
// timestamps change afterwards.
type Earnings struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	HostProfileID uuid.UUID    `json:"host_profile_id" db:"host_profile_id"`
	BookingID     uuid.UUID    `json:"booking_id" db:"booking_id"`
	GrossAmount   float64      `json:"gross_amount" db:"gross_amount"`
	PlatformFee   float64      `json:"platform_fee" db:"platform_fee"`
	ProcessingFee float64      `json:"processing_fee" db:"processing_fee"`
	NetAmount     float64      `json:"net_amount" db:"net_amount"`
	Currency      string       `json:"currency" db:"currency"`
	PayoutStatus  PayoutStatus `json:"payout_status" db:"payout_status"`
	PayoutDate    *time.Time   `json:"payout_date,omitempty" db:"payout_date"`
	TransferRef   *string      `json:"transfer_ref,omitempty" db:"transfer_ref"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" db:"updated_at"`

	// Read-time enrichment from the bookings/experiences collaborator.
	// Unset when the collaborator rows are absent; never required for
	// correctness of the earnings row itself.
	ExperienceTitle *string    `json:"experience_title,omitempty" db:"-"`
	GuestName       *string    `json:"guest_name,omitempty" db:"-"`
	GuestCount      *int       `json:"guest_count,omitempty" db:"-"`
	BookingDate     *time.Time `json:"booking_date,omitempty" db:"-"`
}

// amountEpsilon absorbs float rounding when comparing money amounts
const amountEpsilon = 0.005

// CreateEarningsRequest represents the request to record a settlement
type CreateEarningsRequest struct {
	HostProfileID string   `json:"host_profile_id" binding:"required"`
	BookingID     string   `json:"booking_id" binding:"required"`
	GrossAmount   float64  `json:"gross_amount" binding:"required"`
	PlatformFee   float64  `json:"platform_fee"`
	ProcessingFee float64  `json:"processing_fee"`
	NetAmount     *float64 `json:"net_amount,omitempty"` // derived when omitted, verified when present
	Currency      string   `json:"currency,omitempty"`
	TransferRef   *string  `json:"transfer_ref,omitempty"`
}

// Validate validates the create earnings request. The net amount is
// always gross minus fees; a caller-supplied net that disagrees with the
// fee components is rejected rather than silently corrected.
func (r *CreateEarningsRequest) Validate() error {
	if _, err := uuid.Parse(r.HostProfileID); err != nil {
		return NewValidationError("host_profile_id", "must be a valid UUID")
	}
	if _, err := uuid.Parse(r.BookingID); err != nil {
		return NewValidationError("booking_id", "must be a valid UUID")
	}
	if r.GrossAmount < 0 {
		return NewValidationError("gross_amount", "cannot be negative")
	}
	if r.PlatformFee < 0 {
		return NewValidationError("platform_fee", "cannot be negative")
	}
	if r.ProcessingFee < 0 {
		return NewValidationError("processing_fee", "cannot be negative")
	}
	if r.PlatformFee+r.ProcessingFee > r.GrossAmount+amountEpsilon {
		return NewValidationError("platform_fee", "fees cannot exceed the gross amount")
	}
	if r.NetAmount != nil {
		expected := r.GrossAmount - r.PlatformFee - r.ProcessingFee
		if math.Abs(*r.NetAmount-expected) > amountEpsilon {
			return NewValidationError("net_amount", "must equal gross_amount minus platform_fee and processing_fee")
		}
	}
	return nil
}

// Net returns the derived net amount
func (r *CreateEarningsRequest) Net() float64 {
	return r.GrossAmount - r.PlatformFee - r.ProcessingFee
}

// PayoutTransitionRequest represents a payout status change
type PayoutTransitionRequest struct {
	Status      string  `json:"status" binding:"required"`
	TransferRef *string `json:"transfer_ref,omitempty"`
}

// EarningsSummary holds window totals for a host profile
type EarningsSummary struct {
	HostProfileID uuid.UUID `json:"host_profile_id"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalGross    float64   `json:"total_gross"`
	TotalFees     float64   `json:"total_fees"`
	TotalNet      float64   `json:"total_net"`
	PendingNet    float64   `json:"pending_net"`
	CompletedNet  float64   `json:"completed_net"`
	Count         int       `json:"count"`
}
