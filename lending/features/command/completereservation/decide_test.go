package completereservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/command/completereservation"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

var fakeClock = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

var lent = fixtures.Booking{
	ReservationID: "r-1",
	ItemID:        "item-1",
	BorrowerID:    "borrower-1",
	OwnerID:       "owner-1",
	Start:         fakeClock.Add(time.Hour),
	End:           fakeClock.Add(72 * time.Hour),
	CreatedAt:     fakeClock,
}

func Test_Decide_Completion(t *testing.T) {
	tests := []struct {
		name                string
		status              core.Status
		actualEnd           time.Time
		occurredAt          time.Time
		expectedWasOverdue  bool
		expectedDaysOverdue int
		expectedActualEnd   time.Time
	}{
		{
			name:              "on time",
			status:            core.StatusActive,
			occurredAt:        lent.End.Add(-time.Hour),
			expectedActualEnd: lent.End.Add(-time.Hour),
		},
		{
			name:              "exactly at the end",
			status:            core.StatusActive,
			occurredAt:        lent.End,
			expectedActualEnd: lent.End,
		},
		{
			name:                "late but never swept",
			status:              core.StatusActive,
			occurredAt:          lent.End.Add(25 * time.Hour),
			expectedWasOverdue:  true,
			expectedDaysOverdue: 2,
			expectedActualEnd:   lent.End.Add(25 * time.Hour),
		},
		{
			name:                "from overdue",
			status:              core.StatusOverdue,
			occurredAt:          lent.End.Add(3 * time.Hour),
			expectedWasOverdue:  true,
			expectedDaysOverdue: 1,
			expectedActualEnd:   lent.End.Add(3 * time.Hour),
		},
		{
			name:                "from overdue with a backdated return",
			status:              core.StatusOverdue,
			actualEnd:           lent.End.Add(-time.Hour),
			occurredAt:          lent.End.Add(30 * time.Hour),
			expectedWasOverdue:  true,
			expectedDaysOverdue: 1,
			expectedActualEnd:   lent.End.Add(-time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			command := completereservation.BuildCommand("r-1", "borrower-1", tt.actualEnd, "scratched", tt.occurredAt)

			result := completereservation.Decide(lent.Events(t, tt.status), command)

			require.True(t, result.HasEventToAppend())
			event := result.Event.(core.ReservationCompleted)
			assert.Equal(t, tt.expectedWasOverdue, event.WasOverdue)
			assert.Equal(t, tt.expectedDaysOverdue, event.DaysOverdue)
			assert.Equal(t, tt.expectedActualEnd, event.ActualEnd)
			assert.Equal(t, "scratched", event.ReturnCondition)
		})
	}
}

func Test_Decide_StateMachineErrors(t *testing.T) {
	command := completereservation.BuildCommand("r-1", "borrower-1", time.Time{}, "", lent.End)

	assert.ErrorIs(t, completereservation.Decide(lent.Events(t, core.StatusConfirmed), command).HasError(), core.ErrInvalidTransition)
	assert.ErrorIs(t, completereservation.Decide(lent.Events(t, core.StatusCompleted), command).HasError(), core.ErrInvalidTransition)

	byOwner := completereservation.BuildCommand("r-1", "owner-1", time.Time{}, "", lent.End)
	assert.ErrorIs(t, completereservation.Decide(lent.Events(t, core.StatusActive), byOwner).HasError(), core.ErrUnauthorized)
}
