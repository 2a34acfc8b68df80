package postgresengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
)

func newQueryBuilderTestStore() EventStore {
	return EventStore{eventTableName: defaultEventTableName}
}

func Test_BuildSelectQuery_WithoutFilterItems_HasNoWhereClause(t *testing.T) {
	sqlQuery, err := newQueryBuilderTestStore().buildSelectQuery(eventstore.BuildEventFilter().MatchingAnyEvent())

	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "event_type", "occurred_at", "payload", "metadata", "sequence_number" FROM "events" ORDER BY "sequence_number" ASC`,
		sqlQuery,
	)
}

func Test_BuildSelectQuery_TranslatesEventTypesAndPredicates(t *testing.T) {
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ReservationConfirmed", "ReservationRequested").
		AndAllPredicatesOf(eventstore.P("ItemID", "item-1"), eventstore.P("ReservationID", "r-1")).
		OrMatching().
		AnyPredicateOf(eventstore.P("ItemID", "item-2")).
		Finalize()

	sqlQuery, err := newQueryBuilderTestStore().buildSelectQuery(filter)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `"event_type" IN ('ReservationConfirmed', 'ReservationRequested')`)
	assert.Contains(t, sqlQuery, `"payload" @> '{"ItemID":"item-1"}'::jsonb AND "payload" @> '{"ReservationID":"r-1"}'::jsonb`)
	assert.Contains(t, sqlQuery, `"payload" @> '{"ItemID":"item-2"}'::jsonb`)
	assert.Contains(t, sqlQuery, ` OR `)
}

func Test_BuildSelectQuery_EscapesQuotesInPredicateValues(t *testing.T) {
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BorrowerID", `o'brien`)).
		Finalize()

	sqlQuery, err := newQueryBuilderTestStore().buildSelectQuery(filter)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `'{"BorrowerID":"o''brien"}'::jsonb`)
}

func Test_BuildAppendQuery_IsConditionalOnExpectedSequence(t *testing.T) {
	// arrange
	event, err := eventstore.BuildStorableEventWithEmptyMetadata(
		"ReservationRequested",
		time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
		[]byte(`{"ItemID":"item-1"}`),
	)
	require.NoError(t, err)
	filter := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("ItemID", "item-1")).Finalize()

	// act
	single, singleErr := newQueryBuilderTestStore().buildAppendQuery(eventstore.StorableEvents{event}, filter, 42)
	multiple, multipleErr := newQueryBuilderTestStore().buildAppendQuery(eventstore.StorableEvents{event, event}, filter, 42)

	// assert
	require.NoError(t, singleErr)
	assert.Contains(t, single, `WITH context AS (SELECT MAX("sequence_number") AS "max_seq" FROM "events"`)
	assert.Contains(t, single, `INSERT INTO "events" ("event_type", "occurred_at", "payload", "metadata")`)
	assert.Contains(t, single, `(COALESCE("max_seq", 0) = 42)`)

	require.NoError(t, multipleErr)
	assert.Contains(t, multiple, `UNION ALL`)
	assert.Contains(t, multiple, `(COALESCE("max_seq", 0) = 42)`)
}

func Test_IsConcurrencyConflict(t *testing.T) {
	es := newQueryBuilderTestStore()

	assert.True(t, es.isConcurrencyConflict(0, 1))
	assert.True(t, es.isConcurrencyConflict(1, 2))
	assert.False(t, es.isConcurrencyConflict(2, 2))
}
