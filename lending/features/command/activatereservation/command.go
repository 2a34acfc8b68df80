package activatereservation

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	commandType = "ActivateReservation"
)

// Command represents the pickup of a reserved item by its borrower.
// A zero ActualStart means the pickup happens at OccurredAt.
type Command struct {
	ReservationID core.ReservationIDString
	BorrowerID    core.UserIDString
	ActualStart   time.Time
	DepositPaid   bool
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	reservationID core.ReservationIDString,
	borrowerID core.UserIDString,
	actualStart time.Time,
	depositPaid bool,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID: reservationID,
		BorrowerID:    borrowerID,
		ActualStart:   core.ToTimestamp(actualStart),
		DepositPaid:   depositPaid,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
