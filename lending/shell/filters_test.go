package shell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

func payloadOf(values map[string]string) func(key string) (string, bool) {
	return func(key string) (string, bool) {
		val, found := values[key]
		return val, found
	}
}

func Test_Filters_SelectEveryReservationEventType(t *testing.T) {
	filters := map[string]eventstore.Filter{
		"item":                shell.ItemFilter("item-1"),
		"reservation":         shell.ReservationFilter("r-1"),
		"item or reservation": shell.ItemOrReservationFilter("item-1", "r-1"),
		"all reservations":    shell.AllReservationsFilter(),
	}

	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			require.Len(t, filter.Items(), 1)
			assert.ElementsMatch(t, core.ReservationEventTypes(), filter.Items()[0].EventTypes())

			for _, eventType := range core.ReservationEventTypes() {
				assert.True(t, filter.Matches(eventType, payloadOf(map[string]string{"ItemID": "item-1", "ReservationID": "r-1"})), eventType)
			}

			assert.False(t, filter.Matches("ItemListed", payloadOf(map[string]string{"ItemID": "item-1", "ReservationID": "r-1"})))
		})
	}
}

func Test_Filters_MatchOnTheirPredicates(t *testing.T) {
	otherItem := payloadOf(map[string]string{"ItemID": "item-2", "ReservationID": "r-2"})
	sameItemOtherReservation := payloadOf(map[string]string{"ItemID": "item-1", "ReservationID": "r-2"})
	otherItemSameReservation := payloadOf(map[string]string{"ItemID": "item-2", "ReservationID": "r-1"})

	assert.False(t, shell.ItemFilter("item-1").Matches(core.ReservationRequestedEventType, otherItem))
	assert.True(t, shell.ItemFilter("item-1").Matches(core.ReservationRequestedEventType, sameItemOtherReservation))

	assert.False(t, shell.ReservationFilter("r-1").Matches(core.ReservationConfirmedEventType, sameItemOtherReservation))
	assert.True(t, shell.ReservationFilter("r-1").Matches(core.ReservationConfirmedEventType, otherItemSameReservation))

	assert.True(t, shell.ItemOrReservationFilter("item-1", "r-1").Matches(core.ReservationRequestedEventType, otherItemSameReservation))
	assert.False(t, shell.ItemOrReservationFilter("item-1", "r-1").Matches(core.ReservationRequestedEventType, otherItem))

	assert.True(t, shell.AllReservationsFilter().Matches(core.ReservationMarkedOverdueEventType, otherItem))
}
