package rejectreservation

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Decide implements the business logic of a rejection.
//
// Business Rules:
//
//	GIVEN: a PENDING reservation
//	WHEN: RejectReservation is received from the item's owner
//	THEN: ReservationRejected is generated, the reservation is REJECTED
//	ERROR: NOT_FOUND, UNAUTHORIZED, INVALID_TRANSITION as decided by the state machine
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	r, found := core.ProjectReservation(history, command.ReservationID)
	if !found {
		return core.ErrorDecision(&core.NotFoundError{Kind: "reservation", ID: command.ReservationID})
	}

	if _, err := core.Transition(r, core.TriggerReject, core.UserActor(command.OwnerID)); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildReservationRejected(r.ID, r.ItemID, command.OwnerID, command.Reason, command.OccurredAt),
	)
}
