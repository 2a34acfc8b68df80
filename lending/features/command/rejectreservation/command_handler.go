package rejectreservation

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// CommandHandler runs Query -> Decide -> Append for rejections under the
// reservation's concurrency scope, retried on concurrency conflicts.
type CommandHandler struct {
	eventStore shell.EventStore
	config     shell.HandlerConfig
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, opts ...shell.HandlerOption) CommandHandler {
	return CommandHandler{
		eventStore: eventStore,
		config:     shell.BuildHandlerConfig(opts...),
	}
}

// Handle executes the command with retry logic and returns the rejected reservation.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var outcome shell.Outcome

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		outcome, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.config.RetryOptions...)

	return h.config.Conclude(ctx, outcome.Before.ItemID, outcome, retryMetrics, err)
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shell.Outcome, error) {
	history, r, err := shell.LoadReservation(ctx, h.eventStore, command.ReservationID)
	if err != nil {
		return shell.Outcome{}, err
	}

	result := Decide(history.Events, command)
	if err = result.HasError(); err != nil {
		return shell.Outcome{Before: r}, err
	}

	err = shell.AppendDecision(
		ctx,
		h.eventStore,
		h.config.Items,
		shell.ReservationFilter(command.ReservationID),
		history.MaxSequenceNumber,
		result.Event,
		shell.NoItemChange,
	)
	if err != nil {
		return shell.Outcome{Before: r}, err
	}

	return shell.AppliedOutcome(r, result.Event), nil
}
