package core

import (
	"time"
)

// TransitionEvent is the immutable notice of one status change, produced for external subscribers.
// From is empty for the creation of a reservation.
type TransitionEvent struct {
	ReservationID ReservationIDString `json:"reservationId"`
	ItemID        ItemIDString        `json:"itemId"`
	From          Status              `json:"from"`
	To            Status              `json:"to"`
	Actor         string              `json:"actor"`
	Reason        string              `json:"reason,omitempty"`
	WasOverdue    bool                `json:"wasOverdue"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// BuildTransitionEvent describes the change the event makes to the reservation as it was before.
func BuildTransitionEvent(before Reservation, event DomainEvent) TransitionEvent {
	after := before.Apply(event)

	return TransitionEvent{
		ReservationID: after.ID,
		ItemID:        after.ItemID,
		From:          before.Status,
		To:            after.Status,
		Actor:         event.ActedBy(),
		Reason:        reasonOf(event),
		WasOverdue:    after.WasOverdue,
		OccurredAt:    event.HasOccurredAt(),
	}
}

func reasonOf(event DomainEvent) string {
	switch e := event.(type) {
	case ReservationCancelled:
		return e.Reason
	case ReservationRejected:
		return e.Reason
	default:
		return ""
	}
}
