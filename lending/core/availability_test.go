package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

func date(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

func period(t *testing.T, startDay, endDay int) core.Period {
	t.Helper()

	p, err := core.NewPeriod(date(startDay), date(endDay))
	require.NoError(t, err)

	return p
}

func blocking(id string, status core.Status, p core.Period, createdAt time.Time) core.Reservation {
	return core.Reservation{
		ID:        id,
		ItemID:    "item-1",
		Status:    status,
		Start:     p.Start,
		End:       p.End,
		CreatedAt: createdAt,
	}
}

func Test_CheckAvailability_TouchingBoundariesDoNotConflict(t *testing.T) {
	// arrange
	first := blocking("r-first", core.StatusConfirmed, period(t, 10, 15), date(1))
	existing := []core.Reservation{first}

	// act
	err := core.CheckAvailability("item-1", period(t, 15, 20), existing, "")

	// assert
	assert.NoError(t, err)
}

func Test_CheckAvailability_WindowOverlappingBothNeighboursConflicts(t *testing.T) {
	// arrange
	first := blocking("r-first", core.StatusConfirmed, period(t, 10, 15), date(2))
	second := blocking("r-second", core.StatusActive, period(t, 15, 20), date(1))
	existing := []core.Reservation{first, second}

	// act
	err := core.CheckAvailability("item-1", period(t, 14, 16), existing, "")

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	conflict, ok := err.(*core.ConflictError)
	require.True(t, ok)
	assert.Equal(t, "item-1", conflict.ItemID)
	assert.Equal(t, "r-second", conflict.ConflictingReservationID, "the earliest created conflict is reported")

	assert.True(t, period(t, 14, 16).Overlaps(first.Period()))
	assert.True(t, period(t, 14, 16).Overlaps(second.Period()))
}

func Test_CheckAvailability_OnlyBlockingStatusesOfTheSameItemCount(t *testing.T) {
	candidate := period(t, 10, 12)

	for _, status := range core.AllStatuses() {
		t.Run(string(status), func(t *testing.T) {
			existing := []core.Reservation{blocking("r-1", status, period(t, 9, 13), date(1))}

			err := core.CheckAvailability("item-1", candidate, existing, "")

			if status == core.StatusConfirmed || status == core.StatusActive {
				assert.ErrorIs(t, err, core.ErrConflict)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	otherItem := blocking("r-2", core.StatusConfirmed, period(t, 9, 13), date(1))
	otherItem.ItemID = "item-2"
	assert.NoError(t, core.CheckAvailability("item-1", candidate, []core.Reservation{otherItem}, ""))
}

func Test_CheckAvailability_ExcludesTheGivenReservation(t *testing.T) {
	existing := []core.Reservation{blocking("r-self", core.StatusConfirmed, period(t, 10, 12), date(1))}

	assert.NoError(t, core.CheckAvailability("item-1", period(t, 10, 12), existing, "r-self"))
}

func Test_BlockingCalendar_OrdersByStart(t *testing.T) {
	existing := []core.Reservation{
		blocking("r-late", core.StatusActive, period(t, 20, 22), date(1)),
		blocking("r-pending", core.StatusPending, period(t, 5, 6), date(1)),
		blocking("r-early", core.StatusConfirmed, period(t, 3, 4), date(2)),
	}

	calendar := core.BlockingCalendar("item-1", existing)

	require.Len(t, calendar, 2)
	assert.Equal(t, "r-early", calendar[0].ID)
	assert.Equal(t, "r-late", calendar[1].ID)
}

func Test_Period_Overlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     core.Period
		expected bool
	}{
		{name: "disjoint", a: period(t, 1, 3), b: period(t, 5, 7), expected: false},
		{name: "touching", a: period(t, 1, 3), b: period(t, 3, 7), expected: false},
		{name: "partial", a: period(t, 1, 4), b: period(t, 3, 7), expected: true},
		{name: "contained", a: period(t, 1, 10), b: period(t, 3, 7), expected: true},
		{name: "equal", a: period(t, 3, 7), b: period(t, 3, 7), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.expected, tt.b.Overlaps(tt.a))
		})
	}
}
