package itemcalendar

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Project builds the calendar of the queried item from its history.
//
// Query Logic:
//
//	GIVEN: all reservation events of the item
//	WHEN: ItemCalendar is executed
//	THEN: the blocking reservations are returned ordered by start
//	INCLUDES: CONFIRMED and ACTIVE reservations
//	EXCLUDES: PENDING, OVERDUE and terminal reservations
func Project(history core.DomainEvents, query Query, maxSequence uint) ItemCalendar {
	calendar := core.BlockingCalendar(query.ItemID, core.ProjectReservations(history))

	entries := make([]Entry, 0, len(calendar))
	for _, r := range calendar {
		entries = append(entries, Entry{
			ReservationID: r.ID,
			BorrowerID:    r.BorrowerID,
			Status:        r.Status,
			Start:         r.Start,
			End:           r.End,
		})
	}

	return ItemCalendar{
		ItemID:         query.ItemID,
		Entries:        entries,
		Count:          len(entries),
		SequenceNumber: maxSequence,
	}
}
