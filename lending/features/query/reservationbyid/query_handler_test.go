package reservationbyid_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/reservationbyid"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/enginewrapper"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/observability/testdoubles"
)

var fakeClock = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func booking(id core.ReservationIDString) fixtures.Booking {
	return fixtures.Booking{
		ReservationID: id,
		ItemID:        "item-1",
		BorrowerID:    "borrower-1",
		OwnerID:       "owner-1",
		Start:         fakeClock.Add(24 * time.Hour),
		End:           fakeClock.Add(72 * time.Hour),
		CreatedAt:     fakeClock,
	}
}

func Test_QueryHandler_Handle_ReturnsTheProjectedReservation(t *testing.T) {
	// arrange
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	fixtures.Given(t, es, booking("r-1").Events(t, core.StatusCancelled)...)
	fixtures.Given(t, es, booking("r-2").Events(t, core.StatusConfirmed)...)
	handler := reservationbyid.NewQueryHandler(es)

	// act
	reservation, err := handler.Handle(context.Background(), reservationbyid.BuildQuery("r-1"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "r-1", reservation.ID)
	assert.Equal(t, core.StatusCancelled, reservation.Status)
	assert.Equal(t, "plans changed", reservation.Reason)
	assert.False(t, reservation.CancelledAt.IsZero())
	assert.Equal(t, 2, reservation.DurationDays())
}

func Test_QueryHandler_Handle_UnknownReservation(t *testing.T) {
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	handler := reservationbyid.NewQueryHandler(es)

	_, err := handler.Handle(context.Background(), reservationbyid.BuildQuery("nope"))

	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, core.CodeNotFound, core.ErrorCode(err))
}

func Test_QueryHandler_Handle_IsInstrumented(t *testing.T) {
	// arrange
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	fixtures.Given(t, es, booking("r-1").Events(t, core.StatusPending)...)
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewLoggerSpy()
	handler := reservationbyid.NewQueryHandler(
		es,
		shell.WithQueryMetrics(metrics),
		shell.WithQueryTracing(tracing),
		shell.WithQueryContextualLogging(logger),
	)

	// act
	_, okErr := handler.Handle(context.Background(), reservationbyid.BuildQuery("r-1"))
	_, notFoundErr := handler.Handle(context.Background(), reservationbyid.BuildQuery("nope"))

	// assert
	require.NoError(t, okErr)
	require.Error(t, notFoundErr)

	assert.True(t, metrics.HasDurationRecord(shell.QueryHandlerDurationMetric, map[string]string{
		shell.LogAttrQueryType: "ReservationByID",
		shell.LogAttrStatus:    shell.StatusSuccess,
	}))
	assert.True(t, metrics.HasCounterRecord(shell.QueryHandlerCallsMetric, map[string]string{
		shell.LogAttrStatus: shell.StatusError,
	}))

	spans := tracing.SpansNamed(shell.SpanNameQueryHandle)
	require.Len(t, spans, 2)
	assert.True(t, spans[0].Finished)
	assert.Equal(t, shell.StatusSuccess, spans[0].Status)
	assert.Equal(t, shell.StatusError, spans[1].Status)

	assert.True(t, logger.HasRecord("info", shell.LogMsgQueryCompleted))
	assert.True(t, logger.HasRecord("error", shell.LogMsgQueryFailed))
}
