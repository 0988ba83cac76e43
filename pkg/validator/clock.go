package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrEmptyTime indicates a time value was not provided
	ErrEmptyTime = errors.New("time cannot be empty")

	// ErrInvalidTimeFormat indicates a time is not HH:MM or HH:MM:SS
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM or HH:MM:SS format")

	// ErrTimeOutOfRange indicates hours/minutes/seconds outside clock bounds
	ErrTimeOutOfRange = errors.New("time components out of range")

	// ErrWindowOrder indicates the start time is not before the end time
	ErrWindowOrder = errors.New("start time must be before end time")
)

// clockRegex matches HH:MM with an optional :SS component
var clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ClockValidator validates wall-clock time strings and windows
type ClockValidator struct{}

// NewClockValidator creates a new clock validator instance
func NewClockValidator() *ClockValidator {
	return &ClockValidator{}
}

// Normalize validates a clock time and returns it in canonical HH:MM:SS form.
// Accepts "9:00", "09:00" or "09:00:00".
func (v *ClockValidator) Normalize(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrEmptyTime
	}

	matches := clockRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return "", ErrInvalidTimeFormat
	}

	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds := 0
	if matches[3] != "" {
		seconds, _ = strconv.Atoi(matches[3])
	}

	if hours > 23 || minutes > 59 || seconds > 59 {
		return "", ErrTimeOutOfRange
	}

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds), nil
}

// ValidateWindow validates a start/end pair and returns both in canonical
// form. The start must be strictly before the end; zero-length and inverted
// windows are rejected.
func (v *ClockValidator) ValidateWindow(start, end string) (string, string, error) {
	normStart, err := v.Normalize(start)
	if err != nil {
		return "", "", fmt.Errorf("invalid start time: %w", err)
	}

	normEnd, err := v.Normalize(end)
	if err != nil {
		return "", "", fmt.Errorf("invalid end time: %w", err)
	}

	// Canonical HH:MM:SS strings compare correctly lexicographically
	if normStart >= normEnd {
		return "", "", ErrWindowOrder
	}

	return normStart, normEnd, nil
}
