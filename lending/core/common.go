package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// ReservationIDString represents a reservation identifier
type ReservationIDString = string

// ItemIDString represents an item identifier
type ItemIDString = string

// UserIDString represents a user identifier (borrower or owner)
type UserIDString = string

// OccurredAt represents when an event occurred
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}

// ToTimestamp applies the same normalization as ToOccurredAt to any other point in time stored in events.
func ToTimestamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}

	return t.UTC().Truncate(time.Microsecond)
}
