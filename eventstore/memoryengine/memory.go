package memoryengine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/internal/instrument"
)

const engineName = "memory"

type storedEvent struct {
	event   eventstore.StorableEvent
	payload map[string]any
}

func (se storedEvent) payloadValue(key string) (string, bool) {
	raw, found := se.payload[key]
	if !found {
		return "", false
	}

	val, isString := raw.(string)

	return val, isString
}

// EventStore is an in-memory event store. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu       sync.RWMutex
	events   []storedEvent
	observer instrument.Observer
}

// NewEventStore creates an empty in-memory EventStore with optional configuration.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		observer: instrument.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events selected by the filter in sequence order
// and the MaxSequenceNumberUint of this "dynamic event stream".
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	observation, ctx := es.observer.StartQuery(ctx, filter)

	if err := ctx.Err(); err != nil {
		observation.Failed(instrument.ErrorTypeDatabaseQuery)
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	eventStream, maxSequenceNumber := es.selectEvents(filter)
	es.mu.RUnlock()

	observation.QuerySucceeded(eventStream, maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// Append appends the events if the max sequence number of the filtered stream still equals
// expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	observation, ctx := es.observer.StartAppend(ctx, allEvents, expectedMaxSequenceNumber)

	if err := ctx.Err(); err != nil {
		observation.Failed(instrument.ErrorTypeDatabaseExec)
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	toStore := make([]storedEvent, 0, len(allEvents))
	for _, e := range allEvents {
		payload := make(map[string]any)
		if err := jsoniter.ConfigFastest.Unmarshal(e.PayloadJSON, &payload); err != nil {
			observation.Failed(instrument.ErrorTypeBuildEvent)
			es.observer.LogError(ctx, "failed to decode event payload", err, instrument.LogAttrEventType, e.EventType)

			return errors.Join(eventstore.ErrAppendingEventFailed, fmt.Errorf("decode payload of %s: %w", e.EventType, err))
		}

		toStore = append(toStore, storedEvent{event: cloneEvent(e), payload: payload})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	if _, currentMax := es.selectEvents(filter); currentMax != expectedMaxSequenceNumber {
		observation.Conflict(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	for _, se := range toStore {
		se.event.SequenceNumber = eventstore.MaxSequenceNumberUint(len(es.events) + 1)
		es.events = append(es.events, se)
	}

	observation.AppendSucceeded(len(allEvents))

	return nil
}

// selectEvents must be called with at least a read lock held.
func (es *EventStore) selectEvents(filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint) {
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, se := range es.events {
		if !filter.Matches(se.event.EventType, se.payloadValue) {
			continue
		}

		eventStream = append(eventStream, cloneEvent(se.event))
		maxSequenceNumber = se.event.SequenceNumber
	}

	return eventStream, maxSequenceNumber
}

func cloneEvent(e eventstore.StorableEvent) eventstore.StorableEvent {
	e.PayloadJSON = slices.Clone(e.PayloadJSON)
	e.MetadataJSON = slices.Clone(e.MetadataJSON)

	return e
}
