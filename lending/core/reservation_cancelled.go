package core

import (
	"time"
)

// ReservationCancelledEventType is the event type identifier.
const ReservationCancelledEventType = "ReservationCancelled"

// ReservationCancelled represents when the borrower or the owner withdraws a reservation.
// ItemReleased is set when the cancellation flipped the item back to available.
type ReservationCancelled struct {
	ReservationID ReservationIDString
	ItemID        ItemIDString
	CancelledBy   UserIDString
	Reason        string
	ItemReleased  bool
	OccurredAt    OccurredAt
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(
	reservationID ReservationIDString,
	itemID ItemIDString,
	cancelledBy UserIDString,
	reason string,
	itemReleased bool,
	occurredAt time.Time,
) ReservationCancelled {

	return ReservationCancelled{
		ReservationID: reservationID,
		ItemID:        itemID,
		CancelledBy:   cancelledBy,
		Reason:        reason,
		ItemReleased:  itemReleased,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationCancelled) EventType() string {
	return ReservationCancelledEventType
}

func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationCancelled) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationCancelled) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationCancelled) ActedBy() string {
	return e.CancelledBy
}
