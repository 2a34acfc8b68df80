package shell

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// QueriesEvents is the read side of the event store.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}

// EventStore defines the interface needed by the command handlers for event store operations.
type EventStore interface {
	QueriesEvents
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvent eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Command represents the contract for all command types.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CommandHandler defines the contract for components that process commands.
// Handlers return HandlerResult containing the resulting reservation, the business outcome
// (idempotency) and execution metadata (retry info).
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// OwnerLookup resolves the owner of a catalog item. The bool is false for unknown items.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, itemID string) (string, bool, error)
}

// ItemStatusUpdater flips the lending status of catalog items.
type ItemStatusUpdater interface {
	MarkBorrowed(ctx context.Context, itemID string) error
	MarkAvailable(ctx context.Context, itemID string) error
}

// TransitionPublisher delivers transition events to external subscribers.
type TransitionPublisher interface {
	Publish(ctx context.Context, event core.TransitionEvent) error
}
