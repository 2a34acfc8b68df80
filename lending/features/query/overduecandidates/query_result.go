package overduecandidates

import (
	"time"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

// Candidate is an ACTIVE reservation past its end.
type Candidate struct {
	ReservationID core.ReservationIDString
	ItemID        core.ItemIDString
	BorrowerID    core.UserIDString
	End           time.Time
}

// OverdueCandidates is the query result.
type OverdueCandidates struct {
	Candidates     []Candidate
	Count          int
	SequenceNumber uint
}
