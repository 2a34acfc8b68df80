package core

import (
	"time"
)

const (
	DefaultMaxDurationDays  = 30
	DefaultMaxAdvanceDays   = 90
	DefaultMinTrustScore    = 3.0
	DefaultActivationWindow = 24 * time.Hour
)

// Policy holds the configurable booking rules.
type Policy struct {
	MaxDurationDays  int
	MaxAdvanceDays   int
	MinTrustScore    float64
	ActivationWindow time.Duration
}

// DefaultPolicy returns the policy with the observed defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxDurationDays:  DefaultMaxDurationDays,
		MaxAdvanceDays:   DefaultMaxAdvanceDays,
		MinTrustScore:    DefaultMinTrustScore,
		ActivationWindow: DefaultActivationWindow,
	}
}

// ValidateBooking runs the input checks of a booking request in order, first failure wins:
// a well-formed period, no start in the past, the maximum duration and the maximum advance window.
func (p Policy) ValidateBooking(start, end, now time.Time) (Period, error) {
	period, err := NewPeriod(start, end)
	if err != nil {
		return Period{}, err
	}

	if period.Start.Before(ToTimestamp(now)) {
		return Period{}, NewValidationError(CodeInvalidPeriod, "start must not lie in the past")
	}

	if period.DurationDays() > p.MaxDurationDays {
		return Period{}, NewValidationError(CodeInvalidPeriod, "duration exceeds the maximum of days")
	}

	if period.Start.Sub(now) > time.Duration(p.MaxAdvanceDays)*day {
		return Period{}, NewValidationError(CodeInvalidPeriod, "start lies beyond the advance booking window")
	}

	return period, nil
}

// ActivationWindowOf is [start, start+ActivationWindow], both ends inclusive.
func (p Policy) ActivationWindowOf(period Period) (time.Time, time.Time) {
	return period.Start, period.Start.Add(p.ActivationWindow)
}
