package shell

import (
	"context"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Outcome is what one attempt of a command produced.
type Outcome struct {
	Before     core.Reservation
	After      core.Reservation
	Event      core.DomainEvent
	Idempotent bool
}

// IdempotentOutcome keeps the reservation as found.
func IdempotentOutcome(reservation core.Reservation) Outcome {
	return Outcome{Before: reservation, After: reservation, Idempotent: true}
}

// AppliedOutcome folds the appended event into the reservation.
func AppliedOutcome(before core.Reservation, event core.DomainEvent) Outcome {
	return Outcome{Before: before, After: before.Apply(event), Event: event}
}

// Conclude turns the last attempt into the HandlerResult. Successful state changes are published,
// an exhausted concurrency conflict becomes a *core.ConflictError for the item.
func (c HandlerConfig) Conclude(
	ctx context.Context,
	itemID core.ItemIDString,
	outcome Outcome,
	retryMetrics RetryMetrics,
	err error,
) (HandlerResult, error) {

	if err != nil {
		return NewErrorResult(retryMetrics), ConflictAfterRetries(err, itemID)
	}

	if outcome.Idempotent {
		return NewIdempotentResult(outcome.After, retryMetrics), nil
	}

	PublishTransition(ctx, c.Publisher, c.Logger, core.BuildTransitionEvent(outcome.Before, outcome.Event))

	return NewSuccessResult(outcome.After, retryMetrics), nil
}
