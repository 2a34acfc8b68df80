package reservations

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

type options struct {
	policy           core.Policy
	retryOptions     []shell.RetryOption
	clock            func() time.Time
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures a Service.
type Option func(*options)

// WithPolicy replaces core.DefaultPolicy.
func WithPolicy(policy core.Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

// WithRetryOptions configures the concurrency conflict retry of all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(o *options) {
		o.retryOptions = opts
	}
}

// WithClock replaces time.Now as the source of the commands' OccurredAt.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithMetrics sets the metrics collector for commands, queries and the sweeper.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector for commands and queries.
func WithTracing(collector shell.TracingCollector) Option {
	return func(o *options) {
		o.tracingCollector = collector
	}
}

// WithContextualLogging sets the contextual logger.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(o *options) {
		o.contextualLogger = logger
	}
}

// WithLogging sets the basic logger.
func WithLogging(logger shell.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
