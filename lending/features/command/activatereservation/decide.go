package activatereservation

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Decide implements the business logic of a pickup.
//
// Business Rules:
//
//	GIVEN: a CONFIRMED reservation
//	WHEN: ActivateReservation is received from its borrower within [start, start + activation window]
//	THEN: ReservationActivated is generated, the reservation is ACTIVE and the item is flagged borrowed
//	ERROR: NOT_FOUND, UNAUTHORIZED, INVALID_TRANSITION as decided by the state machine
//	ERROR: OUTSIDE_ACTIVATION_WINDOW if the pickup is too early or too late
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	r, found := core.ProjectReservation(history, command.ReservationID)
	if !found {
		return core.ErrorDecision(&core.NotFoundError{Kind: "reservation", ID: command.ReservationID})
	}

	if _, err := core.Transition(r, core.TriggerActivate, core.UserActor(command.BorrowerID)); err != nil {
		return core.ErrorDecision(err)
	}

	from, until := policy.ActivationWindowOf(r.Period())
	if command.OccurredAt.Before(from) || command.OccurredAt.After(until) {
		return core.ErrorDecision(core.NewValidationError(
			core.CodeOutsideActivationWindow,
			fmt.Sprintf("pickup is possible from %s until %s", from.Format(time.RFC3339), until.Format(time.RFC3339)),
		))
	}

	actualStart := command.ActualStart
	if actualStart.IsZero() {
		actualStart = command.OccurredAt
	}

	return core.SuccessDecision(
		core.BuildReservationActivated(r.ID, r.ItemID, command.BorrowerID, actualStart, command.DepositPaid, command.OccurredAt),
	)
}
