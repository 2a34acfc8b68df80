package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/internal/instrument"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/postgresengine/internal/adapters"
)

const (
	engineName                     = "postgres"
	defaultEventTableName          = "events"
	logMsgBuildSelectQueryFailed   = "failed to build select query"
	logMsgBuildInsertQueryFailed   = "failed to build insert query"
	logMsgDBQueryFailed            = "database query execution failed"
	logMsgCloseRowsFailed          = "failed to close database rows"
	logMsgScanRowFailed            = "failed to scan database row"
	logMsgBuildStorableEventFailed = "failed to build storable event from database row"
	logMsgDBExecFailed             = "database execution failed during event append"
	logMsgRowsAffectedFailed       = "failed to get rows affected count"
	logActionQuery                 = "query"
	logActionAppend                = "append"
	colEventType                   = "event_type"
	colOccurredAt                  = "occurred_at"
	colPayload                     = "payload"
	colMetadata                    = "metadata"
	colSequenceNumber              = "sequence_number"
	cteContext                     = "context"
	cteVals                        = "vals"
	dialectPostgres                = "postgres"
	aliasMaxSeq                    = "max_seq"
	castText                       = "?::text"
	castTimestamp                  = "?::timestamp with time zone"
	castJsonb                      = "?::jsonb"
	containsJsonb                  = "? @> ?::jsonb"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
)

// EventStore is a PostgreSQL event store.
type EventStore struct {
	db             adapters.DBAdapter
	eventTableName string
	observer       instrument.Observer
}

type queryResultRow struct {
	eventType      string
	payload        []byte
	metadata       []byte
	occurredAt     time.Time
	sequenceNumber int64
}

func newEventStore(db adapters.DBAdapter, options []Option) (EventStore, error) {
	es := EventStore{
		db:             db,
		eventTableName: defaultEventTableName,
		observer:       instrument.Observer{Engine: engineName},
	}

	for _, option := range options {
		if err := option(&es); err != nil {
			return EventStore{}, err
		}
	}

	return es, nil
}

// NewEventStoreFromPGXPool creates a new EventStore using a pgx Pool with optional configuration.
func NewEventStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapter(db), options)
}

// NewEventStoreFromPGXPoolAndReplica creates a new EventStore that serves eventually consistent queries
// from the replica pool. Appends and strongly consistent queries always use the primary pool.
func NewEventStoreFromPGXPoolAndReplica(primary *pgxpool.Pool, replica *pgxpool.Pool, options ...Option) (EventStore, error) {
	if primary == nil || replica == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewPGXAdapterWithReplica(primary, replica), options)
}

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB with optional configuration.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLAdapter(db), options)
}

// NewEventStoreFromSQLX creates a new EventStore using a sqlx.DB with optional configuration.
func NewEventStoreFromSQLX(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return newEventStore(adapters.NewSQLXAdapter(db), options)
}

// Query retrieves events from the Postgres event store based on the provided eventstore.Filter criteria
// and returns them as eventstore.StorableEvents
// as well as the MaxSequenceNumberUint for this "dynamic event stream" at the time of the query.
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	observation, ctx := es.observer.StartQuery(ctx, filter)

	sqlQuery, buildQueryErr := es.buildSelectQuery(filter)
	if buildQueryErr != nil {
		observation.Failed(instrument.ErrorTypeBuildQuery)
		es.observer.LogError(ctx, logMsgBuildSelectQueryFailed, buildQueryErr)

		return nil, 0, buildQueryErr
	}

	start := time.Now()
	rows, queryErr := es.db.Query(ctx, sqlQuery)
	es.observer.LogSQL(ctx, sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		observation.Failed(instrument.ErrorTypeDatabaseQuery)
		es.observer.LogError(ctx, logMsgDBQueryFailed, queryErr, instrument.LogAttrQuery, sqlQuery)

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer es.closeRows(ctx, rows)

	eventStream, maxSequenceNumber, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		observation.Failed(errorType)
		return nil, 0, scanErr
	}

	observation.QuerySucceeded(eventStream, maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

// closeRows closes database rows and logs any errors.
func (es EventStore) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		es.observer.LogWarn(ctx, logMsgCloseRowsFailed, closeErr)
	}
}

// processQueryResults converts database rows to storable events.
func (es EventStore) processQueryResults(ctx context.Context, rows adapters.DBRows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	string,
	error,
) {

	result := queryResultRow{}
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		rowScanErr := rows.Scan(&result.eventType, &result.occurredAt, &result.payload, &result.metadata, &result.sequenceNumber)
		if rowScanErr != nil {
			es.observer.LogError(ctx, logMsgScanRowFailed, rowScanErr)
			return nil, 0, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, rowScanErr)
		}

		event, buildStorableErr := eventstore.BuildStorableEvent(result.eventType, result.occurredAt.UTC(), result.payload, result.metadata)
		if buildStorableErr != nil {
			es.observer.LogError(ctx, logMsgBuildStorableEventFailed, buildStorableErr, instrument.LogAttrEventType, result.eventType)
			return nil, 0, instrument.ErrorTypeBuildEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildStorableErr)
		}

		maxSequenceNumber = eventstore.MaxSequenceNumberUint(result.sequenceNumber)
		eventStream = append(eventStream, event.WithSequenceNumber(maxSequenceNumber))
	}

	if err := rows.Err(); err != nil {
		es.observer.LogError(ctx, logMsgScanRowFailed, err)
		return nil, 0, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, "", nil
}

// Append attempts to append one or multiple eventstore.StorableEvent(s) onto the Postgres event store respecting
// concurrency constraints for this "dynamic event stream" based on the provided eventstore.Filter criteria and the
// expected MaxSequenceNumberUint.
//
// The provided eventstore.Filter criteria should be the same as the ones used for the Query before making the
// business decisions.
//
// The insert query to append multiple events atomically is heavier than the one built to append a single event.
// In event-sourced applications, one command/request should typically only produce one event.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	observation, ctx := es.observer.StartAppend(ctx, allEvents, expectedMaxSequenceNumber)

	sqlQuery, buildQueryErr := es.buildAppendQuery(allEvents, filter, expectedMaxSequenceNumber)
	if buildQueryErr != nil {
		observation.Failed(instrument.ErrorTypeBuildQuery)
		es.observer.LogError(ctx, logMsgBuildInsertQueryFailed, buildQueryErr, instrument.LogAttrEventCount, len(allEvents))

		return buildQueryErr
	}

	start := time.Now()
	result, execErr := es.db.ExecSerializable(ctx, sqlQuery)
	es.observer.LogSQL(ctx, sqlQuery, logActionAppend, time.Since(start))

	if execErr != nil {
		if isSerializationFailure(execErr) {
			observation.Conflict(expectedMaxSequenceNumber)
			return eventstore.ErrConcurrencyConflict
		}

		observation.Failed(instrument.ErrorTypeDatabaseExec)
		es.observer.LogError(ctx, logMsgDBExecFailed, execErr, instrument.LogAttrQuery, sqlQuery)

		return errors.Join(eventstore.ErrAppendingEventFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		observation.Failed(instrument.ErrorTypeRowsAffected)
		es.observer.LogError(ctx, logMsgRowsAffectedFailed, rowsAffectedErr)

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	if es.isConcurrencyConflict(rowsAffected, len(allEvents)) {
		observation.Conflict(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	observation.AppendSucceeded(len(allEvents))

	return nil
}

// isConcurrencyConflict reports whether the conditional insert was skipped because the stream moved on.
func (es EventStore) isConcurrencyConflict(rowsAffected rowsAffectedInt64, expectedEventCount int) bool {
	return rowsAffected < int64(expectedEventCount)
}

// buildAppendQuery builds the appropriate SQL query for single or multiple events.
func (es EventStore) buildAppendQuery(
	allEvents eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	if len(allEvents) == 1 {
		return es.buildInsertQueryForSingleEvent(allEvents[0], filter, expectedMaxSequenceNumber)
	}

	return es.buildInsertQueryForMultipleEvents(allEvents, filter, expectedMaxSequenceNumber)
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(colEventType, colOccurredAt, colPayload, colMetadata, colSequenceNumber).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt, whereErr := es.addWhereClause(filter, selectStmt)
	if whereErr != nil {
		return "", whereErr
	}

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildMaxSequenceCTE(filter eventstore.Filter) (*goqu.SelectDataset, error) {
	cteStmt := goqu.Dialect(dialectPostgres).
		From(es.eventTableName).
		Select(goqu.MAX(colSequenceNumber).As(aliasMaxSeq))

	return es.addWhereClause(filter, cteStmt)
}

func (es EventStore) buildInsertQueryForSingleEvent(
	event eventstore.StorableEvent,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildMaxSequenceCTE(filter)
	if whereErr != nil {
		return "", whereErr
	}

	selectStmt := builder.
		From(cteContext).
		Select(
			goqu.L(castText, event.EventType),
			goqu.L(castTimestamp, event.OccurredAt.UTC()),
			goqu.L(castJsonb, string(event.PayloadJSON)),
			goqu.L(castJsonb, string(event.MetadataJSON)),
		).
		Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber)))

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		FromQuery(selectStmt).
		With(cteContext, cteStmt)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) buildInsertQueryForMultipleEvents(
	events eventstore.StorableEvents,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
) (sqlQueryString, error) {

	builder := goqu.Dialect(dialectPostgres)

	cteStmt, whereErr := es.buildMaxSequenceCTE(filter)
	if whereErr != nil {
		return "", whereErr
	}

	// one SELECT per event, combined with UNION ALL
	var valuesStmt *goqu.SelectDataset
	for i, event := range events {
		eventStmt := builder.Select(
			goqu.L(castText, event.EventType).As(colEventType),
			goqu.L(castTimestamp, event.OccurredAt.UTC()).As(colOccurredAt),
			goqu.L(castJsonb, string(event.PayloadJSON)).As(colPayload),
			goqu.L(castJsonb, string(event.MetadataJSON)).As(colMetadata),
			goqu.L("?::int", i).As("ord"),
		)

		if valuesStmt == nil {
			valuesStmt = eventStmt
			continue
		}

		valuesStmt = valuesStmt.UnionAll(eventStmt)
	}

	insertStmt := builder.
		Insert(es.eventTableName).
		Cols(colEventType, colOccurredAt, colPayload, colMetadata).
		With(cteContext, cteStmt).
		With(cteVals, valuesStmt).
		FromQuery(
			builder.From(cteContext, cteVals).
				Select(
					fmt.Sprintf("%s.%s", cteVals, colEventType),
					fmt.Sprintf("%s.%s", cteVals, colOccurredAt),
					fmt.Sprintf("%s.%s", cteVals, colPayload),
					fmt.Sprintf("%s.%s", cteVals, colMetadata),
				).
				Where(goqu.COALESCE(goqu.C(aliasMaxSeq), 0).Eq(goqu.V(expectedMaxSequenceNumber))).
				Order(goqu.I(cteVals + ".ord").Asc()),
		)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (es EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) (*goqu.SelectDataset, error) {
	if len(filter.Items()) == 0 {
		return selectStmt, nil
	}

	itemsExpressions := make([]goqu.Expression, 0, len(filter.Items()))

	for _, item := range filter.Items() {
		itemExpressions := make([]goqu.Expression, 0, 2)

		if len(item.EventTypes()) > 0 {
			itemExpressions = append(itemExpressions, goqu.C(colEventType).In(item.EventTypes()))
		}

		if len(item.Predicates()) > 0 {
			predicateExpressions := make([]goqu.Expression, 0, len(item.Predicates()))

			for _, predicate := range item.Predicates() {
				document, marshalErr := jsoniter.ConfigFastest.Marshal(map[string]string{predicate.Key(): predicate.Val()})
				if marshalErr != nil {
					return nil, errors.Join(eventstore.ErrBuildingQueryFailed, marshalErr)
				}

				predicateExpressions = append(predicateExpressions, goqu.L(containsJsonb, goqu.I(colPayload), string(document)))
			}

			var predicatesExpressionList exp.ExpressionList
			if item.AllPredicatesMustMatch() {
				predicatesExpressionList = goqu.And(predicateExpressions...)
			} else {
				predicatesExpressionList = goqu.Or(predicateExpressions...)
			}

			itemExpressions = append(itemExpressions, predicatesExpressionList)
		}

		itemsExpressions = append(itemsExpressions, goqu.And(itemExpressions...))
	}

	return selectStmt.Where(goqu.Or(itemsExpressions...)), nil
}
