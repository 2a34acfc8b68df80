package core

import (
	"time"
)

// ReservationRequestedEventType is the event type identifier.
const ReservationRequestedEventType = "ReservationRequested"

// ReservationRequested represents when a borrower requests an item for a period.
type ReservationRequested struct {
	ReservationID  ReservationIDString
	ItemID         ItemIDString
	BorrowerID     UserIDString
	OwnerID        UserIDString
	RequestedStart time.Time
	RequestedEnd   time.Time
	DurationDays   int
	DepositAmount  float64
	BorrowerNotes  string
	OccurredAt     OccurredAt
}

// BuildReservationRequested creates a new ReservationRequested event.
func BuildReservationRequested(
	reservationID ReservationIDString,
	itemID ItemIDString,
	borrowerID UserIDString,
	ownerID UserIDString,
	period Period,
	depositAmount float64,
	borrowerNotes string,
	occurredAt time.Time,
) ReservationRequested {

	return ReservationRequested{
		ReservationID:  reservationID,
		ItemID:         itemID,
		BorrowerID:     borrowerID,
		OwnerID:        ownerID,
		RequestedStart: ToTimestamp(period.Start),
		RequestedEnd:   ToTimestamp(period.End),
		DurationDays:   period.DurationDays(),
		DepositAmount:  depositAmount,
		BorrowerNotes:  borrowerNotes,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e ReservationRequested) EventType() string {
	return ReservationRequestedEventType
}

func (e ReservationRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationRequested) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationRequested) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationRequested) ActedBy() string {
	return e.BorrowerID
}
