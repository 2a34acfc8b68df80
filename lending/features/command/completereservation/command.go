package completereservation

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	commandType = "CompleteReservation"
)

// Command represents the return of a borrowed item.
// A zero ActualEnd means the return happens at OccurredAt.
type Command struct {
	ReservationID   core.ReservationIDString
	BorrowerID      core.UserIDString
	ActualEnd       time.Time
	ReturnCondition string
	OccurredAt      core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	reservationID core.ReservationIDString,
	borrowerID core.UserIDString,
	actualEnd time.Time,
	returnCondition string,
	occurredAt time.Time,
) Command {

	return Command{
		ReservationID:   reservationID,
		BorrowerID:      borrowerID,
		ActualEnd:       core.ToTimestamp(actualEnd),
		ReturnCondition: returnCondition,
		OccurredAt:      core.ToOccurredAt(occurredAt),
	}
}
