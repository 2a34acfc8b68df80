// Package memoryengine provides an in-process implementation of the eventstore Query/Append contract.
//
// It keeps all events in a slice guarded by a mutex, so Append checks the expected sequence number and
// writes under the same lock. It has the same semantics as the SQL engines and is the default engine for
// tests and single-process setups. Nothing is persisted.
//
//	store, _ := memoryengine.NewEventStore(memoryengine.WithLogger(slog.Default()))
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package memoryengine
