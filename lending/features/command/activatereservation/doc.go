// Package activatereservation implements the Activate Reservation use case: the borrower picks
// up the item of a CONFIRMED reservation within the activation window after its start. The
// catalog marks the item BORROWED.
package activatereservation
