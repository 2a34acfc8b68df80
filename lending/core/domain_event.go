package core

import (
	"time"
)

// DomainEvents is a slice of DomainEvent instances.
type DomainEvents = []DomainEvent

// DomainEvent represents a business event that has occurred in the domain.
// Every reservation event carries the ids of its reservation and item,
// which are the keys of the concurrency scopes.
type DomainEvent interface {
	// EventType returns the string identifier for this event type.
	EventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time

	// HasReservationID returns the id of the reservation this event belongs to.
	HasReservationID() ReservationIDString

	// HasItemID returns the id of the reserved item.
	HasItemID() ItemIDString

	// ActedBy returns the user that caused the event, or SystemActorName.
	ActedBy() string
}

// ReservationEventTypes lists the type identifiers of all reservation events.
func ReservationEventTypes() []string {
	return []string{
		ReservationRequestedEventType,
		ReservationConfirmedEventType,
		ReservationActivatedEventType,
		ReservationCompletedEventType,
		ReservationCancelledEventType,
		ReservationRejectedEventType,
		ReservationMarkedOverdueEventType,
	}
}
