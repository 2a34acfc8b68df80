package markoverdue

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	commandType = "MarkReservationOverdue"
)

// Command represents the detection of a late return.
type Command struct {
	ReservationID core.ReservationIDString
	Actor         core.Actor
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command fired by the system actor.
func BuildCommand(reservationID core.ReservationIDString, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		Actor:         core.SystemActor(),
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
