package core

import (
	"errors"
	"fmt"
)

// Error codes exposed by the typed errors.
const (
	CodeInvalidPeriod           = "INVALID_PERIOD"
	CodeDuplicateReservation    = "DUPLICATE_RESERVATION"
	CodeInvalidDeposit          = "INVALID_DEPOSIT"
	CodeOutsideActivationWindow = "OUTSIDE_ACTIVATION_WINDOW"
	CodeNotYetDue               = "NOT_YET_DUE"
	CodeAccountInactive         = "ACCOUNT_INACTIVE"
	CodeInsufficientTrust       = "INSUFFICIENT_TRUST"
	CodeNotOwnItem              = "NOT_OWN_ITEM"
	CodeItemNotAvailable        = "ITEM_NOT_AVAILABLE"
	CodeConflict                = "CONFLICT"
	CodeNotFound                = "NOT_FOUND"
	CodeUnauthorized            = "UNAUTHORIZED"
	CodeInvalidTransition       = "INVALID_TRANSITION"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrEligibility is matched by every EligibilityError.
	ErrEligibility = errors.New("not eligible")

	// ErrConflict is matched by every ConflictError.
	ErrConflict = errors.New("reservation conflict")

	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is matched by every AuthorizationError.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition is matched by every InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")
)

// CodedError is implemented by all domain errors.
type CodedError interface {
	error
	Code() string
}

// ErrorCode returns the code of the first CodedError in err's chain, or "" if there is none.
func ErrorCode(err error) string {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded.Code()
	}

	return ""
}

// ValidationError reports malformed or illegal input.
type ValidationError struct {
	code   string
	Reason string
}

// NewValidationError builds a ValidationError with the given code.
func NewValidationError(code, reason string) *ValidationError {
	return &ValidationError{code: code, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.code, e.Reason)
}

func (e *ValidationError) Code() string { return e.code }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// EligibilityError reports a requester or item that fails an eligibility rule.
type EligibilityError struct {
	code   string
	UserID UserIDString
	ItemID ItemIDString
	Reason string
}

// NewEligibilityError builds an EligibilityError with the given code.
func NewEligibilityError(code string, userID UserIDString, itemID ItemIDString, reason string) *EligibilityError {
	return &EligibilityError{code: code, UserID: userID, ItemID: itemID, Reason: reason}
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("%s: %s: user %q item %q: %s", ErrEligibility, e.code, e.UserID, e.ItemID, e.Reason)
}

func (e *EligibilityError) Code() string { return e.code }

func (e *EligibilityError) Is(target error) bool { return target == ErrEligibility }

// ConflictError reports an overlap with a blocking reservation.
// ConflictingReservationID is empty when the conflict is a lost concurrency race that retries could not resolve.
type ConflictError struct {
	ItemID                   ItemIDString
	ConflictingReservationID ReservationIDString
}

func (e *ConflictError) Error() string {
	if e.ConflictingReservationID == "" {
		return fmt.Sprintf("%s: item %q was modified concurrently", ErrConflict, e.ItemID)
	}

	return fmt.Sprintf("%s: item %q is blocked by reservation %q", ErrConflict, e.ItemID, e.ConflictingReservationID)
}

func (e *ConflictError) Code() string { return CodeConflict }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports an unknown reservation, item or user.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrNotFound, e.Kind, e.ID)
}

func (e *NotFoundError) Code() string { return CodeNotFound }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// AuthorizationError reports an actor that may not fire the trigger on this reservation.
type AuthorizationError struct {
	ReservationID ReservationIDString
	UserID        string
	Trigger       Trigger
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %q may not %s reservation %q", ErrUnauthorized, e.UserID, e.Trigger, e.ReservationID)
}

func (e *AuthorizationError) Code() string { return CodeUnauthorized }

func (e *AuthorizationError) Is(target error) bool { return target == ErrUnauthorized }

// InvalidTransitionError reports a trigger that has no edge from the current status.
type InvalidTransitionError struct {
	ReservationID ReservationIDString
	From          Status
	To            Status
	Trigger       Trigger
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf(
		"%s: cannot %s reservation %q from %s to %s",
		ErrInvalidTransition, e.Trigger, e.ReservationID, e.From, e.To,
	)
}

func (e *InvalidTransitionError) Code() string { return CodeInvalidTransition }

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }
