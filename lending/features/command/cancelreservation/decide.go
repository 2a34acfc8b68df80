package cancelreservation

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Decide implements the business logic of a cancellation.
//
// Business Rules:
//
//	GIVEN: a PENDING or CONFIRMED reservation
//	WHEN: CancelReservation is received from its borrower or owner
//	THEN: ReservationCancelled is generated, the reservation is CANCELLED
//	      the item is released if this reservation flagged it borrowed
//	ERROR: NOT_FOUND, UNAUTHORIZED, INVALID_TRANSITION as decided by the state machine
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	r, found := core.ProjectReservation(history, command.ReservationID)
	if !found {
		return core.ErrorDecision(&core.NotFoundError{Kind: "reservation", ID: command.ReservationID})
	}

	if _, err := core.Transition(r, core.TriggerCancel, core.UserActor(command.UserID)); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildReservationCancelled(r.ID, r.ItemID, command.UserID, command.Reason, r.ItemMarkedBorrowed, command.OccurredAt),
	)
}
