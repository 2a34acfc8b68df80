package core

import (
	"sort"
	"time"
)

// Reservation is the record of one booking attempt, projected from its events.
//
// Zero timestamps mean "not happened yet". Every lifecycle timestamp is set once by the
// event that produces it; UpdatedAt follows every event.
type Reservation struct {
	ID         ReservationIDString `json:"id"`
	ItemID     ItemIDString        `json:"itemId"`
	BorrowerID UserIDString        `json:"borrowerId"`
	OwnerID    UserIDString        `json:"ownerId"`
	Status     Status              `json:"status"`

	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ActualStart time.Time `json:"actualStart"`
	ActualEnd   time.Time `json:"actualEnd"`

	CreatedAt   time.Time `json:"createdAt"`
	ConfirmedAt time.Time `json:"confirmedAt"`
	PickupAt    time.Time `json:"pickupAt"`
	ReturnedAt  time.Time `json:"returnedAt"`
	CancelledAt time.Time `json:"cancelledAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	DepositAmount float64 `json:"depositAmount"`
	DepositPaid   bool    `json:"depositPaid"`

	BorrowerNotes   string `json:"borrowerNotes"`
	OwnerNotes      string `json:"ownerNotes"`
	Reason          string `json:"reason"`
	ReturnCondition string `json:"returnCondition"`

	IsRated            bool `json:"isRated"`
	WasOverdue         bool `json:"wasOverdue"`
	DaysOverdue        int  `json:"daysOverdue"`
	ItemMarkedBorrowed bool `json:"itemMarkedBorrowed"`
}

// Exists reports whether any event of the reservation was seen.
func (r Reservation) Exists() bool {
	return r.ID != ""
}

// Period returns the reserved window.
func (r Reservation) Period() Period {
	return Period{Start: r.Start, End: r.End}
}

// DurationDays is the number of started days of the reserved window.
func (r Reservation) DurationDays() int {
	return r.Period().DurationDays()
}

// IsOverdue is true for an ACTIVE reservation past its end, and for every OVERDUE one.
func (r Reservation) IsOverdue(now time.Time) bool {
	switch r.Status {
	case StatusOverdue:
		return true
	case StatusActive:
		return now.After(r.End)
	default:
		return false
	}
}

// Apply returns the reservation with the event folded in.
// Events of other reservations are ignored.
func (r Reservation) Apply(event DomainEvent) Reservation {
	if r.Exists() && event.HasReservationID() != r.ID {
		return r
	}

	switch e := event.(type) {
	case ReservationRequested:
		r.ID = e.ReservationID
		r.ItemID = e.ItemID
		r.BorrowerID = e.BorrowerID
		r.OwnerID = e.OwnerID
		r.Status = StatusPending
		r.Start = e.RequestedStart
		r.End = e.RequestedEnd
		r.DepositAmount = e.DepositAmount
		r.BorrowerNotes = e.BorrowerNotes
		r.CreatedAt = e.OccurredAt

	case ReservationConfirmed:
		r.Status = StatusConfirmed
		r.OwnerNotes = e.OwnerNotes
		r.ConfirmedAt = e.OccurredAt

	case ReservationActivated:
		r.Status = StatusActive
		r.ActualStart = e.ActualStart
		r.DepositPaid = e.DepositPaid
		r.ItemMarkedBorrowed = e.ItemMarkedBorrowed
		r.PickupAt = e.OccurredAt

	case ReservationCompleted:
		r.Status = StatusCompleted
		r.ActualEnd = e.ActualEnd
		r.ReturnCondition = e.ReturnCondition
		r.WasOverdue = e.WasOverdue
		r.DaysOverdue = e.DaysOverdue
		r.IsRated = false
		r.ItemMarkedBorrowed = false
		r.ReturnedAt = e.OccurredAt

	case ReservationCancelled:
		r.Status = StatusCancelled
		r.Reason = e.Reason
		if e.ItemReleased {
			r.ItemMarkedBorrowed = false
		}
		r.CancelledAt = e.OccurredAt

	case ReservationRejected:
		r.Status = StatusRejected
		r.Reason = e.Reason

	case ReservationMarkedOverdue:
		r.Status = StatusOverdue
		r.DaysOverdue = e.DaysOverdue

	default:
		return r
	}

	r.UpdatedAt = event.HasOccurredAt()

	return r
}

// ProjectReservation folds the history into the reservation with the given id.
// The bool is false if the history holds no event of that reservation.
func ProjectReservation(history DomainEvents, reservationID ReservationIDString) (Reservation, bool) {
	var r Reservation

	for _, event := range history {
		if event.HasReservationID() != reservationID {
			continue
		}

		r = r.Apply(event)
	}

	return r, r.Exists()
}

// ProjectReservations folds the history into one record per reservation, ordered by creation.
func ProjectReservations(history DomainEvents) []Reservation {
	byID := make(map[ReservationIDString]Reservation)

	for _, event := range history {
		id := event.HasReservationID()
		byID[id] = byID[id].Apply(event)
	}

	reservations := make([]Reservation, 0, len(byID))
	for _, r := range byID {
		if r.Exists() {
			reservations = append(reservations, r)
		}
	}

	sort.Slice(reservations, func(i, j int) bool {
		return createdBefore(reservations[i], reservations[j])
	})

	return reservations
}
