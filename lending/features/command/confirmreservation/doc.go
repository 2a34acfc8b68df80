// Package confirmreservation implements the Confirm Reservation use case.
//
// The owner accepts a PENDING reservation, which then blocks the item's calendar. Since
// PENDING requests may overlap each other, the availability check runs again against the item's
// current CONFIRMED and ACTIVE reservations, under the item's concurrency scope. Of several
// overlapping requests at most one can be confirmed.
package confirmreservation
