package createreservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/eligibility"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

var (
	// ErrNilCollaborator is returned when NewCommandHandler gets a nil owner lookup or checker.
	ErrNilCollaborator = errors.New("create reservation collaborator must not be nil")

	// ErrOwnerLookupFailed wraps technical failures of the owner lookup.
	ErrOwnerLookupFailed = errors.New("owner lookup failed")
)

// EligibilityChecker validates a booking request, see eligibility.Checker.
type EligibilityChecker interface {
	Check(ctx context.Context, req eligibility.Request) (core.Period, error)
}

// CommandHandler runs Query -> Eligibility -> Decide -> Append for reservation requests,
// retried on concurrency conflicts.
type CommandHandler struct {
	eventStore shell.EventStore
	owners     shell.OwnerLookup
	checker    EligibilityChecker
	config     shell.HandlerConfig
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(
	eventStore shell.EventStore,
	owners shell.OwnerLookup,
	checker EligibilityChecker,
	opts ...shell.HandlerOption,
) (CommandHandler, error) {

	if eventStore == nil || owners == nil || checker == nil {
		return CommandHandler{}, ErrNilCollaborator
	}

	return CommandHandler{
		eventStore: eventStore,
		owners:     owners,
		checker:    checker,
		config:     shell.BuildHandlerConfig(opts...),
	}, nil
}

// Handle executes the command with retry logic and returns the requested reservation.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := ValidateInput(command); err != nil {
		return shell.NewErrorResult(shell.RetryMetrics{LastErrorType: shell.ErrorTypeDomain}), err
	}

	var outcome shell.Outcome

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		outcome, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.config.RetryOptions...)

	return h.config.Conclude(ctx, command.ItemID, outcome, retryMetrics, err)
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (shell.Outcome, error) {
	ownerID, found, err := h.owners.OwnerOf(ctx, command.ItemID)
	if err != nil {
		return shell.Outcome{}, errors.Join(ErrOwnerLookupFailed, fmt.Errorf("item %q: %w", command.ItemID, err))
	}

	if !found {
		return shell.Outcome{}, &core.NotFoundError{Kind: "item", ID: command.ItemID}
	}

	filter := shell.ItemOrReservationFilter(command.ItemID, command.ReservationID)

	history, err := shell.LoadHistory(ctx, h.eventStore, filter)
	if err != nil {
		return shell.Outcome{}, err
	}

	if IsResubmission(history.Events, command) {
		existing, _ := core.ProjectReservation(history.Events, command.ReservationID)
		return shell.IdempotentOutcome(existing), nil
	}

	period, err := h.checker.Check(ctx, eligibility.Request{
		BorrowerID: command.BorrowerID,
		OwnerID:    ownerID,
		ItemID:     command.ItemID,
		Start:      command.Start,
		End:        command.End,
		Now:        command.OccurredAt,
	})
	if err != nil {
		return shell.Outcome{}, err
	}

	result := Decide(history.Events, command, ownerID, period)

	if result.IsIdempotent() {
		existing, _ := core.ProjectReservation(history.Events, command.ReservationID)
		return shell.IdempotentOutcome(existing), nil
	}

	if err = result.HasError(); err != nil {
		return shell.Outcome{}, err
	}

	err = shell.AppendDecision(ctx, h.eventStore, nil, filter, history.MaxSequenceNumber, result.Event, shell.NoItemChange)
	if err != nil {
		return shell.Outcome{}, err
	}

	return shell.AppliedOutcome(core.Reservation{}, result.Event), nil
}
