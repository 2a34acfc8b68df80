package itemcalendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/itemcalendar"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

var fakeClock = time.Date(2025, time.May, 5, 10, 0, 0, 0, time.UTC)

func booking(id core.ReservationIDString, item core.ItemIDString, startInDays int) fixtures.Booking {
	start := fakeClock.Add(time.Duration(startInDays) * 24 * time.Hour)

	return fixtures.Booking{
		ReservationID: id,
		ItemID:        item,
		BorrowerID:    "borrower-" + id,
		OwnerID:       "owner-1",
		Start:         start,
		End:           start.Add(48 * time.Hour),
		CreatedAt:     fakeClock,
	}
}

func Test_Project_ReturnsBlockingReservationsOrderedByStart(t *testing.T) {
	// arrange
	var history core.DomainEvents
	history = append(history, booking("late", "item-1", 10).Events(t, core.StatusConfirmed)...)
	history = append(history, booking("early", "item-1", 1).Events(t, core.StatusActive)...)
	history = append(history, booking("pending", "item-1", 4).Events(t, core.StatusPending)...)
	history = append(history, booking("cancelled", "item-1", 6).Events(t, core.StatusCancelled)...)
	history = append(history, booking("overdue", "item-1", 2).Events(t, core.StatusOverdue)...)
	history = append(history, booking("other-item", "item-2", 3).Events(t, core.StatusConfirmed)...)

	// act
	calendar := itemcalendar.Project(history, itemcalendar.BuildQuery("item-1"), 42)

	// assert
	require.Equal(t, 2, calendar.Count)
	assert.Equal(t, "early", calendar.Entries[0].ReservationID)
	assert.Equal(t, core.StatusActive, calendar.Entries[0].Status)
	assert.Equal(t, "late", calendar.Entries[1].ReservationID)
	assert.Equal(t, "item-1", calendar.ItemID)
	assert.Equal(t, uint(42), calendar.SequenceNumber)
}

func Test_Project_EmptyHistory(t *testing.T) {
	calendar := itemcalendar.Project(core.DomainEvents{}, itemcalendar.BuildQuery("item-1"), 0)

	assert.Equal(t, 0, calendar.Count)
	assert.NotNil(t, calendar.Entries)
}
