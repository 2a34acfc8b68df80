package rejectreservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/rejectreservation"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

var fakeClock = time.Date(2025, time.February, 3, 9, 0, 0, 0, time.UTC)

var b = fixtures.Booking{
	ReservationID: "r-1",
	ItemID:        "item-1",
	BorrowerID:    "borrower-1",
	OwnerID:       "owner-1",
	Start:         fakeClock.Add(48 * time.Hour),
	End:           fakeClock.Add(96 * time.Hour),
	CreatedAt:     fakeClock,
}

func Test_Decide_RejectsAPendingReservation(t *testing.T) {
	result := rejectreservation.Decide(b.Events(t, core.StatusPending), rejectreservation.BuildCommand("r-1", "owner-1", "on holiday", fakeClock.Add(time.Hour)))

	require.True(t, result.HasEventToAppend())
	assert.Equal(t, "on holiday", result.Event.(core.ReservationRejected).Reason)
}

func Test_Decide_Errors(t *testing.T) {
	command := rejectreservation.BuildCommand("r-1", "owner-1", "", fakeClock)

	assert.ErrorIs(t, rejectreservation.Decide(b.Events(t, core.StatusConfirmed), command).HasError(), core.ErrInvalidTransition)
	assert.ErrorIs(t, rejectreservation.Decide(b.Events(t, core.StatusRejected), command).HasError(), core.ErrInvalidTransition)
	assert.ErrorIs(t, rejectreservation.Decide(core.DomainEvents{}, command).HasError(), core.ErrNotFound)

	byBorrower := rejectreservation.BuildCommand("r-1", "borrower-1", "", fakeClock)
	assert.ErrorIs(t, rejectreservation.Decide(b.Events(t, core.StatusPending), byBorrower).HasError(), core.ErrUnauthorized)
}
