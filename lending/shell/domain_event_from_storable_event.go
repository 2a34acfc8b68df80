package shell

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	switch storableEvent.EventType {
	case core.ReservationRequestedEventType:
		return unmarshalPayload[core.ReservationRequested](storableEvent.PayloadJSON)

	case core.ReservationConfirmedEventType:
		return unmarshalPayload[core.ReservationConfirmed](storableEvent.PayloadJSON)

	case core.ReservationActivatedEventType:
		return unmarshalPayload[core.ReservationActivated](storableEvent.PayloadJSON)

	case core.ReservationCompletedEventType:
		return unmarshalPayload[core.ReservationCompleted](storableEvent.PayloadJSON)

	case core.ReservationCancelledEventType:
		return unmarshalPayload[core.ReservationCancelled](storableEvent.PayloadJSON)

	case core.ReservationRejectedEventType:
		return unmarshalPayload[core.ReservationRejected](storableEvent.PayloadJSON)

	case core.ReservationMarkedOverdueEventType:
		return unmarshalPayload[core.ReservationMarkedOverdue](storableEvent.PayloadJSON)
	}

	return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
}

func unmarshalPayload[E core.DomainEvent](payloadJSON []byte) (core.DomainEvent, error) {
	var event E

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return event, nil
}
