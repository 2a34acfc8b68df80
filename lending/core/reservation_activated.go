package core

import (
	"time"
)

// ReservationActivatedEventType is the event type identifier.
const ReservationActivatedEventType = "ReservationActivated"

// ReservationActivated represents when the borrower picks up the item.
type ReservationActivated struct {
	ReservationID      ReservationIDString
	ItemID             ItemIDString
	BorrowerID         UserIDString
	ActualStart        time.Time
	DepositPaid        bool
	ItemMarkedBorrowed bool
	OccurredAt         OccurredAt
}

// BuildReservationActivated creates a new ReservationActivated event.
func BuildReservationActivated(
	reservationID ReservationIDString,
	itemID ItemIDString,
	borrowerID UserIDString,
	actualStart time.Time,
	depositPaid bool,
	occurredAt time.Time,
) ReservationActivated {

	return ReservationActivated{
		ReservationID:      reservationID,
		ItemID:             itemID,
		BorrowerID:         borrowerID,
		ActualStart:        ToTimestamp(actualStart),
		DepositPaid:        depositPaid,
		ItemMarkedBorrowed: true,
		OccurredAt:         ToOccurredAt(occurredAt),
	}
}

func (e ReservationActivated) EventType() string {
	return ReservationActivatedEventType
}

func (e ReservationActivated) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationActivated) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationActivated) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationActivated) ActedBy() string {
	return e.BorrowerID
}
