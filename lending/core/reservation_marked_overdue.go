package core

import (
	"time"
)

// ReservationMarkedOverdueEventType is the event type identifier.
const ReservationMarkedOverdueEventType = "ReservationMarkedOverdue"

// ReservationMarkedOverdue represents when the sweep finds an active reservation past its end.
type ReservationMarkedOverdue struct {
	ReservationID ReservationIDString
	ItemID        ItemIDString
	DaysOverdue   int
	OccurredAt    OccurredAt
}

// BuildReservationMarkedOverdue creates a new ReservationMarkedOverdue event.
func BuildReservationMarkedOverdue(
	reservationID ReservationIDString,
	itemID ItemIDString,
	daysOverdue int,
	occurredAt time.Time,
) ReservationMarkedOverdue {

	return ReservationMarkedOverdue{
		ReservationID: reservationID,
		ItemID:        itemID,
		DaysOverdue:   daysOverdue,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationMarkedOverdue) EventType() string {
	return ReservationMarkedOverdueEventType
}

func (e ReservationMarkedOverdue) HasOccurredAt() time.Time {
	return e.OccurredAt
}

func (e ReservationMarkedOverdue) HasReservationID() ReservationIDString {
	return e.ReservationID
}

func (e ReservationMarkedOverdue) HasItemID() ItemIDString {
	return e.ItemID
}

func (e ReservationMarkedOverdue) ActedBy() string {
	return SystemActorName
}
