package createreservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

const (
	commandType = "CreateReservation"
)

// Command represents the intent of a borrower to reserve an item for a period.
type Command struct {
	ReservationID core.ReservationIDString
	ItemID        core.ItemIDString
	BorrowerID    core.UserIDString
	Start         time.Time
	End           time.Time
	BorrowerNotes string
	DepositAmount float64
	OccurredAt    core.OccurredAt
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. An empty reservationID gets a fresh UUID.
func BuildCommand(
	reservationID core.ReservationIDString,
	itemID core.ItemIDString,
	borrowerID core.UserIDString,
	start time.Time,
	end time.Time,
	borrowerNotes string,
	depositAmount float64,
	occurredAt time.Time,
) Command {

	if reservationID == "" {
		reservationID = uuid.NewString()
	}

	return Command{
		ReservationID: reservationID,
		ItemID:        itemID,
		BorrowerID:    borrowerID,
		Start:         core.ToTimestamp(start),
		End:           core.ToTimestamp(end),
		BorrowerNotes: borrowerNotes,
		DepositAmount: depositAmount,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
