package confirmreservation

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Decide implements the business logic of a confirmation.
// history holds all events of the reservation's item.
//
// Business Rules:
//
//	GIVEN: a PENDING reservation
//	WHEN: ConfirmReservation is received from the item's owner
//	THEN: ReservationConfirmed is generated, the reservation is CONFIRMED
//	ERROR: NOT_FOUND if the history holds no such reservation
//	ERROR: UNAUTHORIZED if the actor is not the owner
//	ERROR: INVALID_TRANSITION if the reservation is not PENDING
//	ERROR: CONFLICT if the period overlaps another CONFIRMED or ACTIVE reservation of the item
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	r, found := core.ProjectReservation(history, command.ReservationID)
	if !found {
		return core.ErrorDecision(&core.NotFoundError{Kind: "reservation", ID: command.ReservationID})
	}

	if _, err := core.Transition(r, core.TriggerConfirm, core.UserActor(command.OwnerID)); err != nil {
		return core.ErrorDecision(err)
	}

	if err := core.CheckAvailability(r.ItemID, r.Period(), core.ProjectReservations(history), r.ID); err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildReservationConfirmed(r.ID, r.ItemID, command.OwnerID, command.OwnerNotes, command.OccurredAt),
	)
}
