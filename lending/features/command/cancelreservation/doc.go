// Package cancelreservation implements the Cancel Reservation use case: the borrower or the owner
// withdraws a PENDING or CONFIRMED reservation. If the reservation had flagged the item as
// borrowed, the catalog marks it AVAILABLE again.
package cancelreservation
