package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Error types used as metric labels and in HandlerResult.LastErrorType.
const (
	ErrorTypeNone                    = "none"
	ErrorTypeConcurrencyConflict     = "concurrency_conflict"
	ErrorTypeContextCanceled         = "context_canceled"
	ErrorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	ErrorTypeDomain                  = "domain"
	ErrorTypeOther                   = "other"
)

// ErrorTypeOf classifies an error for metrics labeling.
func ErrorTypeOf(err error) string {
	switch {
	case err == nil:
		return ErrorTypeNone
	case errors.Is(err, eventstore.ErrConcurrencyConflict):
		return ErrorTypeConcurrencyConflict
	case errors.Is(err, context.Canceled):
		return ErrorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeContextDeadlineExceeded
	case core.ErrorCode(err) != "":
		return ErrorTypeDomain
	default:
		return ErrorTypeOther
	}
}

// IsCancellationError checks if the error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if the error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if the error is a concurrency conflict that survived all retries.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, eventstore.ErrConcurrencyConflict)
}

// ConflictAfterRetries turns an exhausted concurrency conflict into a *core.ConflictError for the item.
// The eventstore sentinel stays in the chain. Other errors are returned unchanged.
func ConflictAfterRetries(err error, itemID core.ItemIDString) error {
	if !IsConcurrencyConflictError(err) {
		return err
	}

	return errors.Join(&core.ConflictError{ItemID: itemID}, err)
}
