package overduecandidates_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/overduecandidates"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/enginewrapper"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/observability/testdoubles"
)

func Test_QueryHandler_Handle(t *testing.T) {
	// arrange
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	fixtures.Given(t, es, booking("late", -1).Events(t, core.StatusActive)...)
	fixtures.Given(t, es, booking("on-time", 1).Events(t, core.StatusActive)...)
	metrics := testdoubles.NewMetricsCollectorSpy()
	handler := overduecandidates.NewQueryHandler(es, shell.WithQueryMetrics(metrics))

	// act
	now, err := handler.Handle(context.Background(), overduecandidates.BuildQuery(fakeClock))
	later, laterErr := handler.Handle(context.Background(), overduecandidates.BuildQuery(fakeClock.Add(2*time.Hour)))

	// assert
	require.NoError(t, err)
	require.NoError(t, laterErr)
	require.Equal(t, 1, now.Count)
	assert.Equal(t, "late", now.Candidates[0].ReservationID)
	assert.Equal(t, 2, later.Count)
	assert.True(t, metrics.HasCounterRecord(shell.QueryHandlerCallsMetric, map[string]string{
		shell.LogAttrQueryType: "OverdueCandidates",
		shell.LogAttrStatus:    shell.StatusSuccess,
	}))
}

func Test_QueryHandler_Handle_CancelledContext(t *testing.T) {
	es := enginewrapper.CreateWrapperWithTestConfig(t).GetEventStore()
	handler := overduecandidates.NewQueryHandler(es)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Handle(ctx, overduecandidates.BuildQuery(fakeClock))

	assert.ErrorIs(t, err, context.Canceled)
}
