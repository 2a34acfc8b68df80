package itemcalendar_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/itemcalendar"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/enginewrapper"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

func Test_QueryHandler_Handle_ReadsOnlyTheItemsEvents(t *testing.T) {
	// arrange
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	fixtures.Given(t, es, booking("a", "item-1", 5).Events(t, core.StatusConfirmed)...)
	fixtures.Given(t, es, booking("b", "item-2", 1).Events(t, core.StatusConfirmed)...)
	fixtures.Given(t, es, booking("c", "item-1", 1).Events(t, core.StatusActive)...)
	handler := itemcalendar.NewQueryHandler(es)
	ctx := eventstore.WithEventualConsistency(context.Background())

	// act
	calendar, err := handler.Handle(ctx, itemcalendar.BuildQuery("item-1"))

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, calendar.Count)
	assert.Equal(t, "c", calendar.Entries[0].ReservationID)
	assert.Equal(t, "a", calendar.Entries[1].ReservationID)
	assert.NotZero(t, calendar.SequenceNumber)
}

func Test_QueryHandler_Handle_UnknownItem_ReturnsAnEmptyCalendar(t *testing.T) {
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	handler := itemcalendar.NewQueryHandler(es)

	calendar, err := handler.Handle(context.Background(), itemcalendar.BuildQuery("nothing-here"))

	require.NoError(t, err)
	assert.Equal(t, 0, calendar.Count)
}
