package completereservation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/completereservation"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/collaborators"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/enginewrapper"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

func Test_CommandHandler_Handle_Success_ReleasesTheItem(t *testing.T) {
	// arrange
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	catalog := collaborators.NewCatalog().AddItem("item-1", "owner-1")
	require.NoError(t, catalog.MarkBorrowed(context.Background(), "item-1"))
	publisher := collaborators.NewPublisherSpy()
	handler := completereservation.NewCommandHandler(es, shell.WithItemStatusUpdater(catalog), shell.WithPublisher(publisher))
	fixtures.Given(t, es, lent.Events(t, core.StatusOverdue)...)
	returnedAt := lent.End.Add(5 * time.Hour)

	// act
	result, err := handler.Handle(context.Background(), completereservation.BuildCommand("r-1", "borrower-1", time.Time{}, "fine", returnedAt))

	// assert
	require.NoError(t, err)
	r := result.Reservation
	assert.Equal(t, core.StatusCompleted, r.Status)
	assert.True(t, r.WasOverdue)
	assert.False(t, r.IsRated)
	assert.False(t, r.ItemMarkedBorrowed)
	assert.Equal(t, returnedAt, r.ReturnedAt)
	assert.Equal(t, collaborators.ItemAvailable, catalog.StatusOf("item-1"))

	events := publisher.EventsFor("r-1")
	require.Len(t, events, 1)
	assert.Equal(t, core.StatusOverdue, events[0].From)
	assert.True(t, events[0].WasOverdue)
}

func Test_CommandHandler_Handle_TerminalRecord_IsImmutable(t *testing.T) {
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	handler := completereservation.NewCommandHandler(es)
	fixtures.Given(t, es, lent.Events(t, core.StatusCompleted)...)
	_, before, err := shell.LoadReservation(context.Background(), es, "r-1")
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), completereservation.BuildCommand("r-1", "borrower-1", time.Time{}, "", lent.End))

	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	_, after, err := shell.LoadReservation(context.Background(), es, "r-1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
