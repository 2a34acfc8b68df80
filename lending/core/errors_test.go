package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

func Test_TypedErrors_MatchTheirSentinelAndCode(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
		code     string
	}{
		{err: core.NewValidationError(core.CodeNotYetDue, "not due"), sentinel: core.ErrValidation, code: core.CodeNotYetDue},
		{err: core.NewEligibilityError(core.CodeInsufficientTrust, "u", "i", "low"), sentinel: core.ErrEligibility, code: core.CodeInsufficientTrust},
		{err: &core.ConflictError{ItemID: "i", ConflictingReservationID: "r"}, sentinel: core.ErrConflict, code: core.CodeConflict},
		{err: &core.NotFoundError{Kind: "reservation", ID: "r"}, sentinel: core.ErrNotFound, code: core.CodeNotFound},
		{err: &core.AuthorizationError{ReservationID: "r", UserID: "u", Trigger: core.TriggerConfirm}, sentinel: core.ErrUnauthorized, code: core.CodeUnauthorized},
		{err: &core.InvalidTransitionError{ReservationID: "r", From: core.StatusCompleted, To: core.StatusCancelled, Trigger: core.TriggerCancel}, sentinel: core.ErrInvalidTransition, code: core.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			wrapped := fmt.Errorf("handling command: %w", tt.err)

			assert.ErrorIs(t, wrapped, tt.sentinel)
			assert.Equal(t, tt.code, core.ErrorCode(wrapped))
		})
	}

	assert.Equal(t, "", core.ErrorCode(errors.New("plain")))
}

func Test_ErrorMessages_CarryTheContext(t *testing.T) {
	assert.Contains(t,
		(&core.ConflictError{ItemID: "item-1", ConflictingReservationID: "r-7"}).Error(),
		`blocked by reservation "r-7"`)
	assert.Contains(t,
		(&core.InvalidTransitionError{ReservationID: "r-1", From: core.StatusCompleted, To: core.StatusCancelled, Trigger: core.TriggerCancel}).Error(),
		"from COMPLETED to CANCELLED")
	assert.Contains(t, (&core.ConflictError{ItemID: "item-1"}).Error(), "modified concurrently")
}
