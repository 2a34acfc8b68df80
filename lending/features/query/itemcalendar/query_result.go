package itemcalendar

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Entry is one occupied window of the calendar.
type Entry struct {
	ReservationID core.ReservationIDString `json:"reservationId"`
	BorrowerID    core.UserIDString        `json:"borrowerId"`
	Status        core.Status              `json:"status"`
	Start         time.Time                `json:"start"`
	End           time.Time                `json:"end"`
}

// ItemCalendar is the query result.
type ItemCalendar struct {
	ItemID         core.ItemIDString `json:"itemId"`
	Entries        []Entry           `json:"entries"`
	Count          int               `json:"count"`
	SequenceNumber uint              `json:"sequenceNumber"`
}
