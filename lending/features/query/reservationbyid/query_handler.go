package reservationbyid

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// QueryHandler reads one reservation with strong consistency, so a caller sees its own writes.
type QueryHandler struct {
	eventStore shell.QueriesEvents
	observer   shell.QueryObserver
}

// NewQueryHandler creates a new QueryHandler with the provided event store and options.
func NewQueryHandler(eventStore shell.QueriesEvents, opts ...shell.QueryOption) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
		observer:   shell.BuildQueryObserver(opts...),
	}
}

// Handle returns the projected reservation or a *core.NotFoundError.
func (h QueryHandler) Handle(ctx context.Context, query Query) (core.Reservation, error) {
	ctx, finish := h.observer.Start(ctx, query.QueryType())

	_, reservation, err := shell.LoadReservation(ctx, h.eventStore, query.ReservationID)
	finish(err)

	return reservation, err
}
