package confirmreservation

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	commandType = "ConfirmReservation"
)

// Command represents the intent of an owner to accept a reservation request.
type Command struct {
	ReservationID core.ReservationIDString
	OwnerID       core.UserIDString
	OwnerNotes    string
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID core.ReservationIDString, ownerID core.UserIDString, ownerNotes string, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		OwnerID:       ownerID,
		OwnerNotes:    ownerNotes,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
