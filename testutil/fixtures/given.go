// Package fixtures arranges reservation histories for tests.
package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

// Given appends the events in order, bypassing every business rule.
func Given(t testing.TB, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()

	for _, event := range events {
		history, err := shell.LoadHistory(ctx, es, shell.AllReservationsFilter())
		require.NoError(t, err, "error in arranging test data")

		err = shell.AppendDecision(ctx, es, nil, shell.AllReservationsFilter(), history.MaxSequenceNumber, event, shell.NoItemChange)
		require.NoError(t, err, "error in arranging test data")
	}
}

// Booking describes one reservation to arrange.
type Booking struct {
	ReservationID core.ReservationIDString
	ItemID        core.ItemIDString
	BorrowerID    core.UserIDString
	OwnerID       core.UserIDString
	Start         time.Time
	End           time.Time
	CreatedAt     time.Time
}

// Requested builds the request event of the booking.
func (b Booking) Requested(t testing.TB) core.ReservationRequested {
	t.Helper()

	period, err := core.NewPeriod(b.Start, b.End)
	require.NoError(t, err, "error in arranging test data")

	return core.BuildReservationRequested(b.ReservationID, b.ItemID, b.BorrowerID, b.OwnerID, period, 50, "", b.CreatedAt)
}

// Confirmed builds the confirmation event of the booking.
func (b Booking) Confirmed(at time.Time) core.ReservationConfirmed {
	return core.BuildReservationConfirmed(b.ReservationID, b.ItemID, b.OwnerID, "", at)
}

// Activated builds the pickup event of the booking.
func (b Booking) Activated(at time.Time) core.ReservationActivated {
	return core.BuildReservationActivated(b.ReservationID, b.ItemID, b.BorrowerID, at, true, at)
}

// MarkedOverdue builds the overdue event of the booking.
func (b Booking) MarkedOverdue(at time.Time) core.ReservationMarkedOverdue {
	return core.BuildReservationMarkedOverdue(b.ReservationID, b.ItemID, core.DaysPast(b.End, at), at)
}

// Cancelled builds a cancellation of the booking by its borrower.
func (b Booking) Cancelled(at time.Time) core.ReservationCancelled {
	return core.BuildReservationCancelled(b.ReservationID, b.ItemID, b.BorrowerID, "plans changed", false, at)
}

// Completed builds the return event of the booking.
func (b Booking) Completed(at time.Time) core.ReservationCompleted {
	return core.BuildReservationCompleted(b.ReservationID, b.ItemID, b.BorrowerID, at, "good", at.After(b.End), core.DaysPast(b.End, at), at)
}

// Rejected builds a rejection of the booking by its owner.
func (b Booking) Rejected(at time.Time) core.ReservationRejected {
	return core.BuildReservationRejected(b.ReservationID, b.ItemID, b.OwnerID, "not this time", at)
}

// Events returns the events that bring the booking into the status, created at CreatedAt
// and transitioned one minute apart.
func (b Booking) Events(t testing.TB, status core.Status) core.DomainEvents {
	t.Helper()

	at := b.CreatedAt
	next := func() time.Time {
		at = at.Add(time.Minute)
		return at
	}

	events := core.DomainEvents{b.Requested(t)}

	switch status {
	case core.StatusPending:
	case core.StatusConfirmed:
		events = append(events, b.Confirmed(next()))
	case core.StatusActive:
		events = append(events, b.Confirmed(next()), b.Activated(next()))
	case core.StatusOverdue:
		events = append(events, b.Confirmed(next()), b.Activated(next()), b.MarkedOverdue(b.End.Add(time.Hour)))
	case core.StatusCompleted:
		events = append(events, b.Confirmed(next()), b.Activated(next()), b.Completed(next()))
	case core.StatusCancelled:
		events = append(events, b.Cancelled(next()))
	case core.StatusRejected:
		events = append(events, b.Rejected(next()))
	default:
		t.Fatalf("unknown status %q", status)
	}

	return events
}
