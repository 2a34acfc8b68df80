package markoverdue

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Decide implements the business logic of overdue detection.
//
// Business Rules:
//
//	GIVEN: an ACTIVE reservation whose end lies before OccurredAt
//	WHEN: MarkReservationOverdue is received from the system actor
//	THEN: ReservationMarkedOverdue is generated, the reservation is OVERDUE
//	ERROR: UNAUTHORIZED if a user fires it
//	ERROR: INVALID_TRANSITION if the reservation is neither ACTIVE nor OVERDUE
//	ERROR: NOT_YET_DUE if the end has not passed
//	IDEMPOTENCY: if the reservation is already OVERDUE, no event is generated
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	r, found := core.ProjectReservation(history, command.ReservationID)
	if !found {
		return core.ErrorDecision(&core.NotFoundError{Kind: "reservation", ID: command.ReservationID})
	}

	if !command.Actor.IsSystem() {
		return core.ErrorDecision(&core.AuthorizationError{
			ReservationID: r.ID,
			UserID:        command.Actor.String(),
			Trigger:       core.TriggerMarkOverdue,
		})
	}

	if r.Status == core.StatusOverdue {
		return core.IdempotentDecision()
	}

	if _, err := core.Transition(r, core.TriggerMarkOverdue, command.Actor); err != nil {
		return core.ErrorDecision(err)
	}

	if !command.OccurredAt.After(r.End) {
		return core.ErrorDecision(core.NewValidationError(
			core.CodeNotYetDue,
			fmt.Sprintf("reservation ends at %s", r.End.Format(time.RFC3339)),
		))
	}

	return core.SuccessDecision(
		core.BuildReservationMarkedOverdue(r.ID, r.ItemID, core.DaysPast(r.End, command.OccurredAt), command.OccurredAt),
	)
}
