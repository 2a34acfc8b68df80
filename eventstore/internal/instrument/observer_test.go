package instrument_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/internal/instrument"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/observability/testdoubles"
)

func Test_Observer_ZeroValue_IsSilent(t *testing.T) {
	var o instrument.Observer

	observation, ctx := o.StartQuery(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())

	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() { observation.QuerySucceeded(nil, 0) })
	assert.NotPanics(t, func() { o.LogError(ctx, "boom", errors.New("x")) })
}

func Test_Observer_QuerySucceeded_RecordsMetricsSpanAndLog(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewLoggerSpy()
	o := instrument.Observer{Engine: "memory", ContextualLogger: logger, Metrics: metrics, Tracing: tracing}

	// act
	observation, _ := o.StartQuery(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	observation.QuerySucceeded(make(eventstore.StorableEvents, 3), 7)

	// assert
	assert.True(t, metrics.HasDurationRecord(instrument.MetricQueryDuration, map[string]string{
		instrument.AttrEngine: "memory",
		instrument.AttrStatus: instrument.StatusSuccess,
	}))
	assert.True(t, metrics.HasValueRecord(instrument.MetricEventsQueried, nil))

	spans := tracing.SpansNamed(instrument.SpanNameQuery)
	require.Len(t, spans, 1)
	assert.True(t, spans[0].Finished)
	assert.Equal(t, instrument.StatusSuccess, spans[0].Status)
	assert.Equal(t, "3", spans[0].EndAttributes[instrument.AttrEventCount])
	assert.Equal(t, "7", spans[0].EndAttributes[instrument.AttrMaxSequence])

	assert.True(t, logger.HasRecord("info", instrument.LogMsgQueryCompleted))
}

func Test_Observer_Conflict_IncrementsConflictCounter(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	o := instrument.Observer{Engine: "sqlite", Metrics: metrics, Tracing: tracing}
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("ReservationRequested", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	// act
	observation, _ := o.StartAppend(context.Background(), eventstore.StorableEvents{event}, 4)
	observation.Conflict(4)

	// assert
	assert.True(t, metrics.HasCounterRecord(instrument.MetricConcurrencyConflicts, map[string]string{
		instrument.AttrOperation: instrument.OperationAppend,
	}))

	spans := tracing.SpansNamed(instrument.SpanNameAppend)
	require.Len(t, spans, 1)
	assert.Equal(t, "ReservationRequested", spans[0].StartAttributes[instrument.AttrEventType])
	assert.Equal(t, "4", spans[0].StartAttributes[instrument.AttrExpectedSeq])
	assert.Equal(t, instrument.ErrorTypeConcurrency, spans[0].EndAttributes[instrument.AttrErrorType])
}

func Test_Observer_Failed_CountsDatabaseError(t *testing.T) {
	metrics := testdoubles.NewMetricsCollectorSpy()
	o := instrument.Observer{Engine: "postgres", Metrics: metrics}

	observation, _ := o.StartAppend(context.Background(), nil, 0)
	observation.Failed(instrument.ErrorTypeDatabaseExec)

	assert.True(t, metrics.HasCounterRecord(instrument.MetricDatabaseErrors, map[string]string{
		instrument.AttrErrorType: instrument.ErrorTypeDatabaseExec,
	}))
	assert.True(t, metrics.HasDurationRecord(instrument.MetricAppendDuration, map[string]string{
		instrument.AttrStatus: instrument.StatusError,
	}))
}

func Test_ToMilliseconds_RoundsToThreeDecimals(t *testing.T) {
	assert.Equal(t, 1.235, instrument.ToMilliseconds(1234567*time.Nanosecond))
}
