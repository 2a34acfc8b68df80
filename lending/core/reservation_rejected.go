package core

import (
	"time"
)

// ReservationRejectedEventType is the event type identifier.
const ReservationRejectedEventType = "ReservationRejected"

// ReservationRejected represents when the owner declines a pending reservation.
type ReservationRejected struct {
	ReservationID ReservationIDString
	ItemID        ItemIDString
	OwnerID       UserIDString
	Reason        string
	OccurredAt    OccurredAt
}

// BuildReservationRejected creates a new ReservationRejected event.
func BuildReservationRejected(
	reservationID ReservationIDString,
	itemID ItemIDString,
	ownerID UserIDString,
	reason string,
	occurredAt time.Time,
) ReservationRejected {

	return ReservationRejected{
		ReservationID: reservationID,
		ItemID:        itemID,
		OwnerID:       ownerID,
		Reason:        reason,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationRejected) EventType() string {
	return ReservationRejectedEventType
}

func (e ReservationRejected) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationRejected) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationRejected) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationRejected) ActedBy() string {
	return e.OwnerID
}
