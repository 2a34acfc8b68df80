package itemcalendar

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// QueryHandler runs Query -> Project for the calendar of one item.
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

// Handle reads the item's history and projects its calendar.
// The consistency level of ctx is honored, the calendar may be slightly stale.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ItemCalendar, error) {
	ctx, finish := h.observer.Start(ctx, query.QueryType())

	storableEvents, maxSeq, err := h.eventStore.Query(ctx, shell.ItemFilter(query.ItemID))
	if err != nil {
		finish(err)
		return ItemCalendar{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		finish(err)
		return ItemCalendar{}, err
	}

	result := Project(history, query, maxSeq)
	finish(nil)

	return result, nil
}
