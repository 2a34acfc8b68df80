package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// History is what a command handler reads before deciding.
type History struct {
	Events            core.DomainEvents
	MaxSequenceNumber eventstore.MaxSequenceNumberUint
}

// LoadHistory queries the filter with strong consistency and maps the result to domain events.
func LoadHistory(ctx context.Context, es QueriesEvents, filter eventstore.Filter) (History, error) {
	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := es.Query(ctx, filter)
	if err != nil {
		return History{}, err
	}

	events, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return History{}, err
	}

	return History{Events: events, MaxSequenceNumber: maxSequenceNumber}, nil
}

// LoadReservation loads the history of one reservation and projects it.
// Unknown reservations yield a *core.NotFoundError.
func LoadReservation(ctx context.Context, es QueriesEvents, reservationID core.ReservationIDString) (History, core.Reservation, error) {
	history, err := LoadHistory(ctx, es, ReservationFilter(reservationID))
	if err != nil {
		return History{}, core.Reservation{}, err
	}

	reservation, found := core.ProjectReservation(history.Events, reservationID)
	if !found {
		return History{}, core.Reservation{}, &core.NotFoundError{Kind: "reservation", ID: reservationID}
	}

	return history, reservation, nil
}

// AppendDecision applies the item side effect, then appends the decided event under the filter,
// conditional on the expected max sequence number. If the append fails the side effect is reverted,
// so a failed command leaves the item as it was.
func AppendDecision(
	ctx context.Context,
	es EventStore,
	items ItemStatusUpdater,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.DomainEvent,
	effect ItemSideEffect,
) error {

	storableEvent, err := StorableEventFrom(event, NewEventMetadata())
	if err != nil {
		return err
	}

	if err = effect.Apply(ctx, items, event.HasItemID()); err != nil {
		return errors.Join(ErrChangingItemStatusFailed, err)
	}

	appendErr := es.Append(eventstore.WithStrongConsistency(ctx), filter, expectedMaxSequenceNumber, storableEvent)
	if appendErr == nil {
		return nil
	}

	if revertErr := effect.Revert(context.WithoutCancel(ctx), items, event.HasItemID()); revertErr != nil {
		return errors.Join(appendErr, ErrRevertingItemStatusFailed, revertErr)
	}

	return appendErr
}
