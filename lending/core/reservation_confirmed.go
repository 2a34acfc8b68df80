package core

import (
	"time"
)

// ReservationConfirmedEventType is the event type identifier.
const ReservationConfirmedEventType = "ReservationConfirmed"

// ReservationConfirmed represents when the owner accepts a pending reservation.
type ReservationConfirmed struct {
	ReservationID ReservationIDString
	ItemID        ItemIDString
	OwnerID       UserIDString
	OwnerNotes    string
	OccurredAt    OccurredAt
}

// BuildReservationConfirmed creates a new ReservationConfirmed event.
func BuildReservationConfirmed(
	reservationID ReservationIDString,
	itemID ItemIDString,
	ownerID UserIDString,
	ownerNotes string,
	occurredAt time.Time,
) ReservationConfirmed {

	return ReservationConfirmed{
		ReservationID: reservationID,
		ItemID:        itemID,
		OwnerID:       ownerID,
		OwnerNotes:    ownerNotes,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationConfirmed) EventType() string {
	return ReservationConfirmedEventType
}

func (e ReservationConfirmed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationConfirmed) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationConfirmed) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationConfirmed) ActedBy() string {
	return e.OwnerID
}
