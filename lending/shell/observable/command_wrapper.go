package observable

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// ErrNilCoreHandler is returned when NewCommandWrapper gets no handler to wrap.
var ErrNilCoreHandler = errors.New("core handler must not be nil")

// CommandWrapper instruments any command handler with metrics, tracing and logging
// while delegating the business logic to the wrapped handler.
type CommandWrapper[C shell.Command] struct {
	coreHandler      shell.CommandHandler[C]
	commandType      string
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewCommandWrapper creates a new observable wrapper around the core command handler.
func NewCommandWrapper[C shell.Command](
	coreHandler shell.CommandHandler[C],
	opts ...CommandOption[C],
) (*CommandWrapper[C], error) {

	if coreHandler == nil {
		return nil, ErrNilCoreHandler
	}

	// Extract command type from a zero-value instance
	var zeroCommand C

	wrapper := &CommandWrapper[C]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
	}

	for _, opt := range opts {
		if err := opt(wrapper); err != nil {
			return nil, err
		}
	}

	return wrapper, nil
}

// Handle delegates to the core handler and translates its HandlerResult and error into
// metrics, a span and log records.
func (w *CommandWrapper[C]) Handle(ctx context.Context, command C) (shell.HandlerResult, error) {
	commandStart := time.Now()
	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType)
	shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandStarted, shell.LogAttrCommandType, w.commandType)

	result, err := w.coreHandler.Handle(ctx, command)

	w.recordRetryMetrics(ctx, result)

	if err != nil {
		w.recordCommandError(ctx, err, time.Since(commandStart), span)
		return result, err
	}

	if result.Idempotent {
		w.recordCommandSuccess(ctx, result, shell.StatusIdempotent, time.Since(commandStart), span)
	} else {
		w.recordCommandSuccess(ctx, result, shell.StatusSuccess, time.Since(commandStart), span)
	}

	return result, nil
}

// CommandOption defines a functional option for configuring CommandWrapper.
type CommandOption[C shell.Command] func(*CommandWrapper[C]) error

// WithCommandMetrics sets the metrics collector for the CommandWrapper.
func WithCommandMetrics[C shell.Command](collector shell.MetricsCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.metricsCollector = collector
		return nil
	}
}

// WithCommandTracing sets the tracing collector for the CommandWrapper.
func WithCommandTracing[C shell.Command](collector shell.TracingCollector) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.tracingCollector = collector
		return nil
	}
}

// WithCommandContextualLogging sets the contextual logger for the CommandWrapper.
func WithCommandContextualLogging[C shell.Command](logger shell.ContextualLogger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.contextualLogger = logger
		return nil
	}
}

// WithCommandLogging sets the basic logger for the CommandWrapper.
func WithCommandLogging[C shell.Command](logger shell.Logger) CommandOption[C] {
	return func(w *CommandWrapper[C]) error {
		w.logger = logger
		return nil
	}
}

func (w *CommandWrapper[C]) recordCommandSuccess(
	ctx context.Context,
	result shell.HandlerResult,
	businessOutcome string,
	duration time.Duration,
	span shell.SpanContext,
) {

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, businessOutcome, duration)
	shell.FinishCommandSpan(w.tracingCollector, span, businessOutcome, duration, nil)
	shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandCompleted,
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrBusinessOutcome, businessOutcome,
		shell.LogAttrReservationID, result.Reservation.ID,
		shell.LogAttrStatus, result.Reservation.Status.String(),
		shell.LogAttrRetryAttempts, result.RetryAttempts,
		shell.LogAttrDurationMS, shell.ToMilliseconds(duration),
	)
}

func (w *CommandWrapper[C]) recordCommandError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := statusOf(err)

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishCommandSpan(w.tracingCollector, span, status, duration, err)

	if status == shell.StatusRejected {
		shell.LogInfo(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandRejected,
			shell.LogAttrCommandType, w.commandType,
			shell.LogAttrErrorCode, core.ErrorCode(err),
			shell.LogAttrError, err.Error(),
		)

		return
	}

	shell.LogError(ctx, w.logger, w.contextualLogger, shell.LogMsgCommandFailed,
		shell.LogAttrCommandType, w.commandType,
		shell.LogAttrStatus, status,
		shell.LogAttrError, err.Error(),
	)
}

// statusOf checks exhausted conflicts before business rules, since they carry a ConflictError too.
func statusOf(err error) string {
	switch {
	case shell.IsCancellationError(err):
		return shell.StatusCanceled
	case shell.IsTimeoutError(err):
		return shell.StatusTimeout
	case shell.IsConcurrencyConflictError(err):
		return shell.StatusConcurrencyConflict
	case core.ErrorCode(err) != "":
		return shell.StatusRejected
	default:
		return shell.StatusError
	}
}

// recordRetryMetrics records the retry summary of one command.
func (w *CommandWrapper[C]) recordRetryMetrics(ctx context.Context, result shell.HandlerResult) {
	if w.metricsCollector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		retryLabels := shell.BuildRetryLabels(w.commandType, result.RetryAttempts-1, result.LastErrorType)
		shell.IncrementCounter(ctx, w.metricsCollector, shell.CommandHandlerRetriesMetric, retryLabels)

		delayLabels := map[string]string{
			shell.LogAttrCommandType: w.commandType,
		}
		shell.RecordDuration(ctx, w.metricsCollector, shell.CommandHandlerRetryDelayMetric, result.TotalRetryDelay, delayLabels)
	}

	if result.RetriesExhausted {
		exhaustedLabels := map[string]string{
			shell.LogAttrCommandType: w.commandType,
		}
		shell.IncrementCounter(ctx, w.metricsCollector, shell.CommandHandlerMaxRetriesReachedMetric, exhaustedLabels)
	}
}
