package confirmreservation

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// CommandHandler runs Query -> Decide -> Append for confirmations under the item's
// concurrency scope, retried on concurrency conflicts.
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

// Handle executes the command with retry logic and returns the confirmed reservation.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var outcome shell.Outcome
	var itemID core.ItemIDString

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		outcome, itemID, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.config.RetryOptions...)

	return h.config.Conclude(ctx, itemID, outcome, retryMetrics, err)
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shell.Outcome, core.ItemIDString, error) {
	// the item of a reservation never changes, so it is safe to learn it outside the item scope
	_, r, err := shell.LoadReservation(ctx, h.eventStore, command.ReservationID)
	if err != nil {
		return shell.Outcome{}, "", err
	}

	filter := shell.ItemFilter(r.ItemID)

	history, err := shell.LoadHistory(ctx, h.eventStore, filter)
	if err != nil {
		return shell.Outcome{}, r.ItemID, err
	}

	before, _ := core.ProjectReservation(history.Events, command.ReservationID)

	result := Decide(history.Events, command)
	if err = result.HasError(); err != nil {
		return shell.Outcome{}, r.ItemID, err
	}

	err = shell.AppendDecision(ctx, h.eventStore, h.config.Items, filter, history.MaxSequenceNumber, result.Event, shell.NoItemChange)
	if err != nil {
		return shell.Outcome{}, r.ItemID, err
	}

	return shell.AppliedOutcome(before, result.Event), r.ItemID, nil
}
