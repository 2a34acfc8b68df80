package shell

import (
	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
)

var (
	reservationEventTypes = core.ReservationEventTypes()
	firstType             = reservationEventTypes[0]
	otherTypes            = reservationEventTypes[1:]
)

// ItemFilter selects all reservation events of one item.
// Appending under it serializes every write that touches the item's calendar.
func ItemFilter(itemID core.ItemIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(firstType, otherTypes...).
		AndAnyPredicateOf(eventstore.P("ItemID", itemID)).
		Finalize()
}

// ReservationFilter selects all events of one reservation.
func ReservationFilter(reservationID core.ReservationIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(firstType, otherTypes...).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID)).
		Finalize()
}

// ItemOrReservationFilter selects the events of the item plus those of the reservation,
// which may belong to another item if the id was reused.
func ItemOrReservationFilter(itemID core.ItemIDString, reservationID core.ReservationIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(firstType, otherTypes...).
		AndAnyPredicateOf(
			eventstore.P("ItemID", itemID),
			eventstore.P("ReservationID", reservationID),
		).
		Finalize()
}

// AllReservationsFilter selects every reservation event.
func AllReservationsFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(firstType, otherTypes...).
		Finalize()
}
