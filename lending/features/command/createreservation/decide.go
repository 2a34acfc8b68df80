package createreservation

import (
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// ValidateInput checks what can be checked without any lookup.
func ValidateInput(command Command) error {
	if command.DepositAmount < 0 {
		return core.NewValidationError(core.CodeInvalidDeposit, "deposit amount must not be negative")
	}

	return nil
}

// Decide implements the business logic of a reservation request.
// history holds the events of the item plus those of the requested reservation id,
// period is the window the eligibility check validated.
//
// Business Rules:
//
//	GIVEN: an item with its blocking calendar and an eligible borrower
//	WHEN: CreateReservation is received
//	THEN: ReservationRequested is generated, the reservation is PENDING
//	ERROR: DUPLICATE_RESERVATION if the id is taken by a different request
//	ERROR: CONFLICT if the period overlaps a CONFIRMED or ACTIVE reservation of the item
//	IDEMPOTENCY: if the id already holds the identical request, no event is generated
func Decide(history core.DomainEvents, command Command, ownerID core.UserIDString, period core.Period) core.DecisionResult {
	if existing, found := core.ProjectReservation(history, command.ReservationID); found {
		if isResubmission(existing, command) {
			return core.IdempotentDecision()
		}

		return core.ErrorDecision(core.NewValidationError(core.CodeDuplicateReservation, "reservation id "+command.ReservationID+" is already taken"))
	}

	err := core.CheckAvailability(command.ItemID, period, core.ProjectReservations(history), "")
	if err != nil {
		return core.ErrorDecision(err)
	}

	return core.SuccessDecision(
		core.BuildReservationRequested(
			command.ReservationID,
			command.ItemID,
			command.BorrowerID,
			ownerID,
			period,
			command.DepositAmount,
			command.BorrowerNotes,
			command.OccurredAt,
		),
	)
}

// IsResubmission reports whether the history already holds this request.
func IsResubmission(history core.DomainEvents, command Command) bool {
	existing, found := core.ProjectReservation(history, command.ReservationID)

	return found && isResubmission(existing, command)
}

// isResubmission requires the whole request to match, a reused id with a different request is a duplicate.
func isResubmission(existing core.Reservation, command Command) bool {
	return existing.ItemID == command.ItemID &&
		existing.BorrowerID == command.BorrowerID &&
		existing.Start.Equal(core.ToTimestamp(command.Start)) &&
		existing.End.Equal(core.ToTimestamp(command.End)) &&
		existing.DepositAmount == command.DepositAmount &&
		existing.BorrowerNotes == command.BorrowerNotes
}
