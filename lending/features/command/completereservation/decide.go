package completereservation

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Decide implements the business logic of a return.
//
// Business Rules:
//
//	GIVEN: an ACTIVE or OVERDUE reservation
//	WHEN: CompleteReservation is received from its borrower
//	THEN: ReservationCompleted is generated, the reservation is COMPLETED and not yet rated
//	      wasOverdue is set if the reservation was OVERDUE or the return lies after the end
//	ERROR: NOT_FOUND, UNAUTHORIZED, INVALID_TRANSITION as decided by the state machine
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	r, found := core.ProjectReservation(history, command.ReservationID)
	if !found {
		return core.ErrorDecision(&core.NotFoundError{Kind: "reservation", ID: command.ReservationID})
	}

	if _, err := core.Transition(r, core.TriggerComplete, core.UserActor(command.BorrowerID)); err != nil {
		return core.ErrorDecision(err)
	}

	actualEnd := command.ActualEnd
	if actualEnd.IsZero() {
		actualEnd = command.OccurredAt
	}

	wasOverdue := r.Status == core.StatusOverdue || actualEnd.After(r.End)
	daysOverdue := max(core.DaysPast(r.End, actualEnd), r.DaysOverdue)

	return core.SuccessDecision(
		core.BuildReservationCompleted(
			r.ID,
			r.ItemID,
			command.BorrowerID,
			actualEnd,
			command.ReturnCondition,
			wasOverdue,
			daysOverdue,
			command.OccurredAt,
		),
	)
}
