// Package createreservation implements the Create Reservation use case.
//
// A borrower requests an item for a period. The request is validated against the booking policy,
// the borrower's eligibility and the item's blocking calendar, then recorded as a PENDING
// reservation. Reading the calendar and appending the request happen under the item's
// concurrency scope, so two overlapping requests cannot both pass the availability check.
//
// Resubmitting a command with an id that already exists for the same item and borrower is an
// idempotent success returning the existing reservation.
package createreservation
