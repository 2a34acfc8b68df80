package core

import (
	"sort"
)

// CheckAvailability admits the candidate window for the item unless it overlaps a blocking
// reservation of the same item. The reservation with id excludeID is ignored, so a PENDING
// reservation can be checked against the calendar it is about to join.
//
// If several reservations conflict, the earliest created one is reported.
func CheckAvailability(
	itemID ItemIDString,
	candidate Period,
	reservations []Reservation,
	excludeID ReservationIDString,
) error {

	var conflicting *Reservation

	for i := range reservations {
		r := &reservations[i]

		if r.ItemID != itemID || r.ID == excludeID || !r.Status.IsBlocking() {
			continue
		}

		if !candidate.Overlaps(r.Period()) {
			continue
		}

		if conflicting == nil || createdBefore(*r, *conflicting) {
			conflicting = r
		}
	}

	if conflicting != nil {
		return &ConflictError{ItemID: itemID, ConflictingReservationID: conflicting.ID}
	}

	return nil
}

// BlockingCalendar returns the item's blocking reservations ordered by start.
func BlockingCalendar(itemID ItemIDString, reservations []Reservation) []Reservation {
	calendar := make([]Reservation, 0)

	for _, r := range reservations {
		if r.ItemID == itemID && r.Status.IsBlocking() {
			calendar = append(calendar, r)
		}
	}

	sort.SliceStable(calendar, func(i, j int) bool {
		if calendar[i].Start.Equal(calendar[j].Start) {
			return createdBefore(calendar[i], calendar[j])
		}

		return calendar[i].Start.Before(calendar[j].Start)
	})

	return calendar
}

func createdBefore(a, b Reservation) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}

	return a.CreatedAt.Before(b.CreatedAt)
}
