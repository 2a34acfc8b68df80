package core

import (
	"time"
)

// ReservationCompletedEventType is the event type identifier.
const ReservationCompletedEventType = "ReservationCompleted"

// ReservationCompleted represents when the borrower returns the item.
type ReservationCompleted struct {
	ReservationID   ReservationIDString
	ItemID          ItemIDString
	BorrowerID      UserIDString
	ActualEnd       time.Time
	ReturnCondition string
	WasOverdue      bool
	DaysOverdue     int
	OccurredAt      OccurredAt
}

// BuildReservationCompleted creates a new ReservationCompleted event.
func BuildReservationCompleted(
	reservationID ReservationIDString,
	itemID ItemIDString,
	borrowerID UserIDString,
	actualEnd time.Time,
	returnCondition string,
	wasOverdue bool,
	daysOverdue int,
	occurredAt time.Time,
) ReservationCompleted {

	return ReservationCompleted{
		ReservationID:   reservationID,
		ItemID:          itemID,
		BorrowerID:      borrowerID,
		ActualEnd:       ToTimestamp(actualEnd),
		ReturnCondition: returnCondition,
		WasOverdue:      wasOverdue,
		DaysOverdue:     daysOverdue,
		OccurredAt:      ToOccurredAt(occurredAt),
	}
}

func (e ReservationCompleted) EventType() string {
	return ReservationCompletedEventType
}

func (e ReservationCompleted) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationCompleted) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationCompleted) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationCompleted) ActedBy() string {
	return e.BorrowerID
}
