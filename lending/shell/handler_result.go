package shell

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// HandlerResult represents the outcome of a command handler execution.
// It captures the resulting reservation, the business outcome (idempotency) and execution
// metadata (retry information) without coupling the handler to observability implementations.
type HandlerResult struct {
	// Reservation is the record after the command, or as found for idempotent commands.
	// It is the zero value for failed commands.
	Reservation core.Reservation

	// Idempotent indicates that no state change was needed.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries, 2+ for retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in retry backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the final error encountered, see ErrorTypeOf.
	LastErrorType string

	// RetriesExhausted is true only when all attempts failed with a retryable error.
	RetriesExhausted bool
}

// NewSuccessResult creates a HandlerResult for operations that changed state.
func NewSuccessResult(reservation core.Reservation, retryMetrics RetryMetrics) HandlerResult {
	return newHandlerResult(reservation, false, retryMetrics)
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(reservation core.Reservation, retryMetrics RetryMetrics) HandlerResult {
	return newHandlerResult(reservation, true, retryMetrics)
}

// NewErrorResult creates a HandlerResult for failed operations, keeping the retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return newHandlerResult(core.Reservation{}, false, retryMetrics)
}

func newHandlerResult(reservation core.Reservation, idempotent bool, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Reservation:      reservation,
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
