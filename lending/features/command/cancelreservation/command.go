package cancelreservation

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the withdrawal of a reservation by one of its parties.
type Command struct {
	ReservationID core.ReservationIDString
	UserID        core.UserIDString
	Reason        string
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID core.ReservationIDString, userID core.UserIDString, reason string, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		UserID:        userID,
		Reason:        reason,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
