package enginetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
)

// Store is the Query/Append contract shared by all engines.
type Store interface {
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// Factory returns a fresh, empty store for one test.
type Factory func(t *testing.T) Store

const (
	requested = "ReservationRequested"
	confirmed = "ReservationConfirmed"
	cancelled = "ReservationCancelled"
)

// FixtureEvent builds a StorableEvent with ReservationID and ItemID in its payload.
func FixtureEvent(t *testing.T, eventType, reservationID, itemID string, occurredAt time.Time) eventstore.StorableEvent {
	t.Helper()

	payload := fmt.Sprintf(`{"ReservationID":%q,"ItemID":%q,"Notes":"n"}`, reservationID, itemID)
	event, err := eventstore.BuildStorableEvent(eventType, occurredAt, []byte(payload), []byte(`{"MessageID":"m"}`))
	require.NoError(t, err)

	return event
}

// ItemFilter selects all events of one item.
func ItemFilter(itemID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("ItemID", itemID)).
		Finalize()
}

// RunContractTests runs the engine contract against stores built by newStore.
//
//nolint:funlen
func RunContractTests(t *testing.T, newStore Factory) {
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 12, 30, 15, 123456000, time.UTC)

	t.Run("query_on_empty_store_returns_no_events_and_zero_sequence", func(t *testing.T) {
		store := newStore(t)

		events, maxSeq, err := store.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())

		assert.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)
	})

	t.Run("appended_event_is_returned_with_its_data", func(t *testing.T) {
		// arrange
		store := newStore(t)
		filter := ItemFilter("item-1")
		event := FixtureEvent(t, requested, "r-1", "item-1", now)

		// act
		err := store.Append(ctx, filter, 0, event)

		// assert
		require.NoError(t, err)
		events, maxSeq, err := store.Query(ctx, filter)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, requested, events[0].EventType)
		assert.True(t, now.Equal(events[0].OccurredAt), "occurredAt round trip: %s", events[0].OccurredAt)
		assert.JSONEq(t, string(event.PayloadJSON), string(events[0].PayloadJSON))
		assert.JSONEq(t, `{"MessageID":"m"}`, string(events[0].MetadataJSON))
		assert.Equal(t, maxSeq, events[0].SequenceNumber)
		assert.NotZero(t, maxSeq)
	})

	t.Run("append_with_stale_sequence_fails_with_concurrency_conflict", func(t *testing.T) {
		// arrange
		store := newStore(t)
		filter := ItemFilter("item-1")
		require.NoError(t, store.Append(ctx, filter, 0, FixtureEvent(t, requested, "r-1", "item-1", now)))

		// act
		err := store.Append(ctx, filter, 0, FixtureEvent(t, requested, "r-2", "item-1", now))

		// assert
		assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
		events, _, queryErr := store.Query(ctx, filter)
		require.NoError(t, queryErr)
		assert.Len(t, events, 1)
	})

	t.Run("writes_outside_the_filter_do_not_conflict", func(t *testing.T) {
		// arrange
		store := newStore(t)
		filterItem1 := ItemFilter("item-1")
		filterItem2 := ItemFilter("item-2")
		_, maxSeqItem1, err := store.Query(ctx, filterItem1)
		require.NoError(t, err)

		// act
		require.NoError(t, store.Append(ctx, filterItem2, 0, FixtureEvent(t, requested, "r-2", "item-2", now)))
		err = store.Append(ctx, filterItem1, maxSeqItem1, FixtureEvent(t, requested, "r-1", "item-1", now))

		// assert
		assert.NoError(t, err)
	})

	t.Run("filter_by_event_types_and_predicates", func(t *testing.T) {
		// arrange
		store := newStore(t)
		anyFilter := eventstore.BuildEventFilter().MatchingAnyEvent()
		require.NoError(t, store.Append(ctx, anyFilter, 0, FixtureEvent(t, requested, "r-1", "item-1", now)))
		require.NoError(t, store.Append(ctx, anyFilter, 1, FixtureEvent(t, confirmed, "r-1", "item-1", now)))
		require.NoError(t, store.Append(ctx, anyFilter, 2, FixtureEvent(t, requested, "r-2", "item-2", now)))
		require.NoError(t, store.Append(ctx, anyFilter, 3, FixtureEvent(t, cancelled, "r-2", "item-2", now)))

		confirmedOfItem1 := eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(confirmed).
			AndAnyPredicateOf(eventstore.P("ItemID", "item-1")).
			Finalize()

		bothPredicates := eventstore.BuildEventFilter().
			Matching().
			AllPredicatesOf(eventstore.P("ItemID", "item-2"), eventstore.P("ReservationID", "r-2")).
			Finalize()

		mismatchingPredicates := eventstore.BuildEventFilter().
			Matching().
			AllPredicatesOf(eventstore.P("ItemID", "item-1"), eventstore.P("ReservationID", "r-2")).
			Finalize()

		eitherReservation := eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(requested).
			AndAnyPredicateOf(eventstore.P("ReservationID", "r-1"), eventstore.P("ReservationID", "r-2")).
			Finalize()

		// act & assert
		events, maxSeq, err := store.Query(ctx, confirmedOfItem1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, confirmed, events[0].EventType)
		assert.Equal(t, eventstore.MaxSequenceNumberUint(2), maxSeq)

		events, maxSeq, err = store.Query(ctx, bothPredicates)
		require.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, eventstore.MaxSequenceNumberUint(4), maxSeq)

		events, _, err = store.Query(ctx, mismatchingPredicates)
		require.NoError(t, err)
		assert.Empty(t, events)

		events, maxSeq, err = store.Query(ctx, eitherReservation)
		require.NoError(t, err)
		assert.Len(t, events, 2)
		assert.Equal(t, eventstore.MaxSequenceNumberUint(3), maxSeq)
	})

	t.Run("multiple_events_are_appended_atomically_in_order", func(t *testing.T) {
		store := newStore(t)
		filter := ItemFilter("item-1")

		err := store.Append(ctx, filter, 0,
			FixtureEvent(t, requested, "r-1", "item-1", now),
			FixtureEvent(t, confirmed, "r-1", "item-1", now.Add(time.Minute)),
		)

		require.NoError(t, err)
		events, maxSeq, err := store.Query(ctx, filter)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, requested, events[0].EventType)
		assert.Equal(t, confirmed, events[1].EventType)
		assert.Less(t, events[0].SequenceNumber, events[1].SequenceNumber)
		assert.Equal(t, events[1].SequenceNumber, maxSeq)
	})

	t.Run("concurrent_appends_with_same_expected_sequence_admit_exactly_one", func(t *testing.T) {
		// arrange
		store := newStore(t)
		filter := ItemFilter("item-1")
		const writers = 8

		candidates := make([]eventstore.StorableEvent, writers)
		for i := range candidates {
			candidates[i] = FixtureEvent(t, requested, fmt.Sprintf("r-%d", i), "item-1", now)
		}

		var wg sync.WaitGroup
		results := make(chan error, writers)

		// act
		for _, candidate := range candidates {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results <- store.Append(ctx, filter, 0, candidate)
			}()
		}
		wg.Wait()
		close(results)

		// assert
		successes := 0
		for err := range results {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
		}
		assert.Equal(t, 1, successes)

		events, _, err := store.Query(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, events, 1)
	})
}
