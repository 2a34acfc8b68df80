// Package rejectreservation implements the Reject Reservation use case: the owner declines a
// PENDING reservation request.
package rejectreservation
