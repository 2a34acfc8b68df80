package overduecandidates

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// QueryHandler runs Query -> Project over all reservation events.
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

// Handle finds the overdue candidates. Stale results are harmless: every candidate is
// re-checked by the mark overdue command against fresh history.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OverdueCandidates, error) {
	ctx, finish := h.observer.Start(ctx, query.QueryType())

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, shell.AllReservationsFilter())
	if err != nil {
		finish(err)
		return OverdueCandidates{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		finish(err)
		return OverdueCandidates{}, err
	}

	result := Project(history, query, maxSeq)
	finish(nil)

	return result, nil
}
