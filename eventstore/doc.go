// Package eventstore provides core abstractions and types for event sourcing
// with dynamic event streams.
//
// This package defines the fundamental types shared by the engines
// (memoryengine, sqliteengine, postgresengine): filters, storable events,
// consistency levels, observability interfaces and common error definitions.
//
// A "dynamic event stream" is whatever a Filter selects. Query returns the
// selected events together with the highest sequence number of that stream.
// Append only succeeds if that highest sequence number is still the expected one,
// so a Filter doubles as a consistency boundary: two writers that decided on
// overlapping streams cannot both succeed.
//
// Common usage pattern:
//
//	filter := BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.ReservationRequestedEventType,
//			core.ReservationConfirmedEventType).
//		AndAnyPredicateOf(P("ItemID", itemID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	newEvent, _ := eventstore.BuildStorableEvent(eventType, time.Now(), payload, metadata)
//	err = store.Append(ctx, filter, maxSeq, newEvent)
package eventstore
