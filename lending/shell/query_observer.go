package shell

import (
	"context"
	"time"
)

// QueryObserver instruments query handlers. All collectors are optional.
type QueryObserver struct {
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
	contextualLogger ContextualLogger
	logger           Logger
}

// QueryOption configures a QueryObserver.
type QueryOption func(*QueryObserver)

// WithQueryMetrics sets the metrics collector.
func WithQueryMetrics(collector MetricsCollector) QueryOption {
	return func(o *QueryObserver) {
		o.metricsCollector = collector
	}
}

// WithQueryTracing sets the tracing collector.
func WithQueryTracing(collector TracingCollector) QueryOption {
	return func(o *QueryObserver) {
		o.tracingCollector = collector
	}
}

// WithQueryContextualLogging sets the contextual logger.
func WithQueryContextualLogging(logger ContextualLogger) QueryOption {
	return func(o *QueryObserver) {
		o.contextualLogger = logger
	}
}

// WithQueryLogging sets the basic logger.
func WithQueryLogging(logger Logger) QueryOption {
	return func(o *QueryObserver) {
		o.logger = logger
	}
}

// BuildQueryObserver applies the options to an observer without collectors.
func BuildQueryObserver(opts ...QueryOption) QueryObserver {
	o := QueryObserver{}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Start opens the span and logs the start of a query. The returned function records the outcome
// and must be called exactly once with the query's error.
func (o QueryObserver) Start(ctx context.Context, queryType string) (context.Context, func(err error)) {
	start := time.Now()

	spanCtx, span := o.startSpan(ctx, queryType)
	LogInfo(spanCtx, o.logger, o.contextualLogger, LogMsgQueryStarted, LogAttrQueryType, queryType)

	return spanCtx, func(err error) {
		duration := time.Since(start)
		status := queryStatusOf(err)
		labels := map[string]string{LogAttrQueryType: queryType, LogAttrStatus: status}

		RecordDuration(spanCtx, o.metricsCollector, QueryHandlerDurationMetric, duration, labels)
		IncrementCounter(spanCtx, o.metricsCollector, QueryHandlerCallsMetric, labels)
		FinishCommandSpan(o.tracingCollector, span, status, duration, err)

		if err != nil {
			LogError(spanCtx, o.logger, o.contextualLogger, LogMsgQueryFailed,
				LogAttrQueryType, queryType,
				LogAttrStatus, status,
				LogAttrError, err.Error(),
			)

			return
		}

		LogInfo(spanCtx, o.logger, o.contextualLogger, LogMsgQueryCompleted,
			LogAttrQueryType, queryType,
			LogAttrStatus, status,
			LogAttrDurationMS, ToMilliseconds(duration),
		)
	}
}

func (o QueryObserver) startSpan(ctx context.Context, queryType string) (context.Context, SpanContext) {
	if o.tracingCollector == nil {
		return ctx, nil
	}

	return o.tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{LogAttrQueryType: queryType})
}

func queryStatusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	default:
		return StatusError
	}
}
