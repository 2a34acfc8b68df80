package confirmreservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/confirmreservation"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

var fakeClock = time.Date(2025, time.January, 5, 8, 0, 0, 0, time.UTC)

func booking(id string, startDay, endDay int) fixtures.Booking {
	return fixtures.Booking{
		ReservationID: id,
		ItemID:        "item-1",
		BorrowerID:    "borrower-" + id,
		OwnerID:       "owner-1",
		Start:         time.Date(2025, time.January, startDay, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2025, time.January, endDay, 0, 0, 0, 0, time.UTC),
		CreatedAt:     fakeClock,
	}
}

func Test_Decide_ConfirmsAPendingReservation(t *testing.T) {
	// arrange
	b := booking("r-1", 10, 15)
	command := confirmreservation.BuildCommand("r-1", "owner-1", "see you", fakeClock.Add(time.Hour))

	// act
	result := confirmreservation.Decide(b.Events(t, core.StatusPending), command)

	// assert
	require.True(t, result.HasEventToAppend())
	event, ok := result.Event.(core.ReservationConfirmed)
	require.True(t, ok)
	assert.Equal(t, "item-1", event.ItemID)
	assert.Equal(t, "see you", event.OwnerNotes)
}

func Test_Decide_Errors(t *testing.T) {
	pending := booking("r-1", 10, 15)

	tests := []struct {
		name        string
		history     func(t *testing.T) core.DomainEvents
		command     confirmreservation.Command
		expectedErr error
	}{
		{
			name:        "unknown reservation",
			history:     func(t *testing.T) core.DomainEvents { return pending.Events(t, core.StatusPending) },
			command:     confirmreservation.BuildCommand("r-9", "owner-1", "", fakeClock),
			expectedErr: core.ErrNotFound,
		},
		{
			name:        "borrower confirms",
			history:     func(t *testing.T) core.DomainEvents { return pending.Events(t, core.StatusPending) },
			command:     confirmreservation.BuildCommand("r-1", pending.BorrowerID, "", fakeClock),
			expectedErr: core.ErrUnauthorized,
		},
		{
			name:        "already confirmed",
			history:     func(t *testing.T) core.DomainEvents { return pending.Events(t, core.StatusConfirmed) },
			command:     confirmreservation.BuildCommand("r-1", "owner-1", "", fakeClock),
			expectedErr: core.ErrInvalidTransition,
		},
		{
			name: "overlaps a confirmed reservation",
			history: func(t *testing.T) core.DomainEvents {
				return append(booking("r-0", 14, 16).Events(t, core.StatusConfirmed), pending.Events(t, core.StatusPending)...)
			},
			command:     confirmreservation.BuildCommand("r-1", "owner-1", "", fakeClock),
			expectedErr: core.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := confirmreservation.Decide(tt.history(t), tt.command)

			assert.False(t, result.HasEventToAppend())
			assert.ErrorIs(t, result.HasError(), tt.expectedErr)
		})
	}
}

func Test_Decide_TouchingReservationsDoNotConflict(t *testing.T) {
	history := append(booking("r-0", 15, 20).Events(t, core.StatusActive), booking("r-1", 10, 15).Events(t, core.StatusPending)...)

	result := confirmreservation.Decide(history, confirmreservation.BuildCommand("r-1", "owner-1", "", fakeClock))

	assert.True(t, result.HasEventToAppend())
}
