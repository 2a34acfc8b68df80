package instrument

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
)

// Observer bundles the optional observability collaborators of an engine.
type Observer struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// LogSQL logs an executed SQL statement with its duration at debug level.
func (o Observer) LogSQL(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{LogAttrDurationMS, ToMilliseconds(duration), LogAttrQuery, sqlQuery}

	if o.Logger != nil {
		o.Logger.Debug(LogMsgSQLExecuted+action, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.DebugContext(ctx, LogMsgSQLExecuted+action, args...)
	}
}

// LogOperation logs operational information at info level.
func (o Observer) LogOperation(ctx context.Context, action string, args ...any) {
	if o.Logger != nil {
		o.Logger.Info(LogMsgOperation+action, args...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.InfoContext(ctx, LogMsgOperation+action, args...)
	}
}

// LogWarn logs non-critical issues like cleanup failures.
func (o Observer) LogWarn(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{LogAttrError, err.Error()}, args...)

	if o.Logger != nil {
		o.Logger.Warn(message, allArgs...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.WarnContext(ctx, message, allArgs...)
	}
}

// LogError logs a failure that makes the operation fail.
func (o Observer) LogError(ctx context.Context, message string, err error, args ...any) {
	allArgs := append([]any{LogAttrError, err.Error()}, args...)

	if o.Logger != nil {
		o.Logger.Error(message, allArgs...)
	}

	if o.ContextualLogger != nil {
		o.ContextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

func (o Observer) labels(operation, status string) map[string]string {
	return map[string]string{
		AttrEngine:    o.Engine,
		AttrOperation: operation,
		AttrStatus:    status,
	}
}

func (o Observer) recordDuration(ctx context.Context, metric string, d time.Duration, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	o.Metrics.RecordDuration(metric, d, labels)
}

func (o Observer) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, value, labels)
		return
	}

	o.Metrics.RecordValue(metric, value, labels)
}

func (o Observer) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if o.Metrics == nil {
		return
	}

	if contextual, ok := o.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.IncrementCounterContext(ctx, metric, labels)
		return
	}

	o.Metrics.IncrementCounter(metric, labels)
}

func (o Observer) startSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	if o.Tracing == nil {
		return ctx, nil
	}

	return o.Tracing.StartSpan(ctx, name, attrs)
}

func (o Observer) finishSpan(span eventstore.SpanContext, status string, attrs map[string]string) {
	if o.Tracing == nil || span == nil {
		return
	}

	o.Tracing.FinishSpan(span, status, attrs)
}

// Observation tracks one Query or Append from start to finish.
type Observation struct {
	observer  Observer
	ctx       context.Context
	span      eventstore.SpanContext
	operation string
	started   time.Time
}

// StartQuery starts observing a Query. The returned context carries the span, if any.
func (o Observer) StartQuery(ctx context.Context, filter eventstore.Filter) (*Observation, context.Context) {
	spanCtx, span := o.startSpan(ctx, SpanNameQuery, map[string]string{
		AttrEngine:    o.Engine,
		AttrOperation: OperationQuery,
		LogAttrFilter: filter.String(),
	})

	return &Observation{observer: o, ctx: spanCtx, span: span, operation: OperationQuery, started: time.Now()}, spanCtx
}

// StartAppend starts observing an Append. The returned context carries the span, if any.
func (o Observer) StartAppend(
	ctx context.Context,
	events eventstore.StorableEvents,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (*Observation, context.Context) {

	attrs := map[string]string{
		AttrEngine:      o.Engine,
		AttrOperation:   OperationAppend,
		AttrEventCount:  strconv.Itoa(len(events)),
		AttrExpectedSeq: fmt.Sprintf("%d", expectedMaxSequenceNumber),
	}

	if len(events) > 0 {
		attrs[AttrEventType] = events[0].EventType
	}

	spanCtx, span := o.startSpan(ctx, SpanNameAppend, attrs)

	return &Observation{observer: o, ctx: spanCtx, span: span, operation: OperationAppend, started: time.Now()}, spanCtx
}

func (ob *Observation) durationMetric() string {
	if ob.operation == OperationQuery {
		return MetricQueryDuration
	}

	return MetricAppendDuration
}

// QuerySucceeded records metrics, span attributes and the summary log for a successful Query.
func (ob *Observation) QuerySucceeded(events eventstore.StorableEvents, maxSequenceNumber eventstore.MaxSequenceNumberUint) {
	duration := time.Since(ob.started)
	o := ob.observer

	o.recordDuration(ob.ctx, MetricQueryDuration, duration, o.labels(OperationQuery, StatusSuccess))
	o.recordValue(ob.ctx, MetricEventsQueried, float64(len(events)), o.labels(OperationQuery, StatusSuccess))

	if ob.span != nil {
		ob.span.SetStatus(StatusSuccess)
		ob.span.AddAttribute(AttrDurationMS, fmt.Sprintf("%.2f", ToMilliseconds(duration)))
	}

	o.finishSpan(ob.span, StatusSuccess, map[string]string{
		AttrEventCount:  strconv.Itoa(len(events)),
		AttrMaxSequence: fmt.Sprintf("%d", maxSequenceNumber),
	})

	o.LogOperation(ob.ctx, LogMsgQueryCompleted,
		LogAttrEventCount, len(events),
		LogAttrDurationMS, ToMilliseconds(duration))
}

// AppendSucceeded records metrics, span attributes and the summary log for a successful Append.
func (ob *Observation) AppendSucceeded(eventCount int) {
	duration := time.Since(ob.started)
	o := ob.observer

	o.recordDuration(ob.ctx, MetricAppendDuration, duration, o.labels(OperationAppend, StatusSuccess))
	o.recordValue(ob.ctx, MetricEventsAppended, float64(eventCount), o.labels(OperationAppend, StatusSuccess))

	if ob.span != nil {
		ob.span.SetStatus(StatusSuccess)
		ob.span.AddAttribute(AttrDurationMS, fmt.Sprintf("%.2f", ToMilliseconds(duration)))
	}

	o.finishSpan(ob.span, StatusSuccess, map[string]string{AttrEventCount: strconv.Itoa(eventCount)})

	o.LogOperation(ob.ctx, LogMsgEventsAppended,
		LogAttrEventCount, eventCount,
		LogAttrDurationMS, ToMilliseconds(duration))
}

// Conflict records a concurrency conflict of an Append.
func (ob *Observation) Conflict(expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint) {
	o := ob.observer

	o.incrementCounter(ob.ctx, MetricConcurrencyConflicts, map[string]string{
		AttrEngine:       o.Engine,
		AttrOperation:    ob.operation,
		AttrConflictType: "concurrency",
	})

	o.recordDuration(ob.ctx, ob.durationMetric(), time.Since(ob.started), o.labels(ob.operation, StatusError))

	if ob.span != nil {
		ob.span.SetStatus(StatusError)
		ob.span.AddAttribute(AttrErrorType, ErrorTypeConcurrency)
	}

	o.finishSpan(ob.span, StatusError, map[string]string{AttrErrorType: ErrorTypeConcurrency})

	o.LogOperation(ob.ctx, LogMsgConcurrencyConflict, LogAttrExpectedSequence, expectedMaxSequenceNumber)
}

// Failed records a failed operation. The error itself is logged by the caller where it has more context.
func (ob *Observation) Failed(errorType string) {
	o := ob.observer
	labels := o.labels(ob.operation, StatusError)

	o.recordDuration(ob.ctx, ob.durationMetric(), time.Since(ob.started), labels)

	errLabels := o.labels(ob.operation, StatusError)
	errLabels[AttrErrorType] = errorType
	o.incrementCounter(ob.ctx, MetricDatabaseErrors, errLabels)

	if ob.span != nil {
		ob.span.SetStatus(StatusError)
		ob.span.AddAttribute(AttrErrorType, errorType)
	}

	o.finishSpan(ob.span, StatusError, map[string]string{AttrErrorType: errorType})
}
