package sqliteengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/internal/instrument"
)

const (
	engineName                   = "sqlite"
	dialectSQLite                = "sqlite3"
	defaultEventTableName        = "events"
	colSequenceNumber            = "sequence_number"
	colEventType                 = "event_type"
	colOccurredAt                = "occurred_at"
	colPayload                   = "payload"
	colMetadata                  = "metadata"
	logActionQuery               = "query"
	logActionAppend              = "append"
	logActionMaxSequence         = "max sequence"
	logMsgBuildQueryFailed       = "failed to build sql statement"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgBuildStorableFailed    = "failed to build storable event from database row"
	logMsgDBExecFailed           = "database execution failed during event append"
	logMsgRollbackFailed         = "failed to roll back append transaction"
	logMsgReleaseConnFailed      = "failed to release database connection"
	statementBeginImmediate      = "BEGIN IMMEDIATE"
	statementCommit              = "COMMIT"
	statementRollback            = "ROLLBACK"
	jsonExtractPredicateTemplate = "json_extract(%s, '$.%s') = ?"
)

// EventStore is a SQLite event store.
type EventStore struct {
	db                 *sqlx.DB
	eventTableName     string
	indexedPayloadKeys []string
	observer           instrument.Observer
}

type queryResultRow struct {
	SequenceNumber int64  `db:"sequence_number"`
	EventType      string `db:"event_type"`
	OccurredAt     int64  `db:"occurred_at"`
	Payload        string `db:"payload"`
	Metadata       string `db:"metadata"`
}

// NewEventStore creates a new EventStore using a sqlx.DB opened with the "sqlite" driver.
func NewEventStore(db *sqlx.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

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

// NewEventStoreFromSQLDB creates a new EventStore using a sql.DB opened with the "sqlite" driver.
func NewEventStoreFromSQLDB(db *sql.DB, options ...Option) (EventStore, error) {
	if db == nil {
		return EventStore{}, eventstore.ErrNilDatabaseConnection
	}

	return NewEventStore(sqlx.NewDb(db, driverName), options...)
}

// CreateSchema creates the events table and the configured payload indexes if they do not exist.
func (es EventStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
	%s INTEGER PRIMARY KEY AUTOINCREMENT,
	%s TEXT NOT NULL,
	%s INTEGER NOT NULL,
	%s TEXT NOT NULL CHECK (json_valid(%s)),
	%s TEXT NOT NULL CHECK (json_valid(%s))
)`, es.eventTableName, colSequenceNumber, colEventType, colOccurredAt, colPayload, colPayload, colMetadata, colMetadata),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (%s)`,
			es.eventTableName+"_event_type_idx", es.eventTableName, colEventType),
	}

	for _, key := range es.indexedPayloadKeys {
		statements = append(statements, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %q ON %q (json_extract(%s, '$.%s'))`,
			es.eventTableName+"_"+strings.ToLower(key)+"_idx", es.eventTableName, colPayload, escapeJSONKey(key)))
	}

	for _, statement := range statements {
		if _, err := es.db.ExecContext(ctx, statement); err != nil {
			es.observer.LogError(ctx, "failed to create schema", err, instrument.LogAttrQuery, statement)
			return errors.Join(eventstore.ErrCreatingSchemaFailed, err)
		}
	}

	return nil
}

// Query retrieves the events selected by the filter in sequence order
// and the MaxSequenceNumberUint of this "dynamic event stream".
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	observation, ctx := es.observer.StartQuery(ctx, filter)

	sqlQuery, args, buildErr := es.buildSelectQuery(filter)
	if buildErr != nil {
		observation.Failed(instrument.ErrorTypeBuildQuery)
		es.observer.LogError(ctx, logMsgBuildQueryFailed, buildErr)

		return nil, 0, buildErr
	}

	start := time.Now()
	rows, queryErr := es.db.QueryxContext(ctx, sqlQuery, args...)
	es.observer.LogSQL(ctx, sqlQuery, logActionQuery, time.Since(start))

	if queryErr != nil {
		observation.Failed(instrument.ErrorTypeDatabaseQuery)
		es.observer.LogError(ctx, logMsgDBQueryFailed, queryErr, instrument.LogAttrQuery, sqlQuery)

		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, queryErr)
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			es.observer.LogWarn(ctx, logMsgCloseRowsFailed, closeErr)
		}
	}()

	eventStream, maxSequenceNumber, errorType, scanErr := es.processQueryResults(ctx, rows)
	if scanErr != nil {
		observation.Failed(errorType)
		return nil, 0, scanErr
	}

	observation.QuerySucceeded(eventStream, maxSequenceNumber)

	return eventStream, maxSequenceNumber, nil
}

func (es EventStore) processQueryResults(ctx context.Context, rows *sqlx.Rows) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	string,
	error,
) {

	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for rows.Next() {
		var row queryResultRow
		if err := rows.StructScan(&row); err != nil {
			es.observer.LogError(ctx, logMsgScanRowFailed, err)
			return nil, 0, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
		}

		event, buildErr := eventstore.BuildStorableEvent(
			row.EventType,
			time.UnixMicro(row.OccurredAt).UTC(),
			[]byte(row.Payload),
			[]byte(row.Metadata),
		)
		if buildErr != nil {
			es.observer.LogError(ctx, logMsgBuildStorableFailed, buildErr, instrument.LogAttrEventType, row.EventType)
			return nil, 0, instrument.ErrorTypeBuildEvent, errors.Join(eventstore.ErrBuildingStorableEventFailed, buildErr)
		}

		maxSequenceNumber = eventstore.MaxSequenceNumberUint(row.SequenceNumber)
		eventStream = append(eventStream, event.WithSequenceNumber(maxSequenceNumber))
	}

	if err := rows.Err(); err != nil {
		es.observer.LogError(ctx, logMsgScanRowFailed, err)
		return nil, 0, instrument.ErrorTypeRowScan, errors.Join(eventstore.ErrScanningDBRowFailed, err)
	}

	return eventStream, maxSequenceNumber, "", nil
}

// Append appends the events if the max sequence number of the filtered stream still equals
// expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
//
// The eventstore.Filter should be the same as the one used for the Query before making the business decisions.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)
	observation, ctx := es.observer.StartAppend(ctx, allEvents, expectedMaxSequenceNumber)

	maxSeqQuery, maxSeqArgs, buildErr := es.buildMaxSequenceQuery(filter)
	if buildErr == nil {
		var insertQuery string
		var insertArgs []any

		insertQuery, insertArgs, buildErr = es.buildInsertQuery(allEvents)
		if buildErr == nil {
			return es.appendInImmediateTransaction(
				ctx, observation, expectedMaxSequenceNumber, len(allEvents),
				maxSeqQuery, maxSeqArgs, insertQuery, insertArgs,
			)
		}
	}

	observation.Failed(instrument.ErrorTypeBuildQuery)
	es.observer.LogError(ctx, logMsgBuildQueryFailed, buildErr, instrument.LogAttrEventCount, len(allEvents))

	return buildErr
}

//nolint:funlen
func (es EventStore) appendInImmediateTransaction(
	ctx context.Context,
	observation *instrument.Observation,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	eventCount int,
	maxSeqQuery string,
	maxSeqArgs []any,
	insertQuery string,
	insertArgs []any,
) error {

	conn, connErr := es.db.Connx(ctx)
	if connErr != nil {
		observation.Failed(instrument.ErrorTypeDatabaseExec)
		es.observer.LogError(ctx, logMsgDBExecFailed, connErr)

		return errors.Join(eventstore.ErrAppendingEventFailed, connErr)
	}

	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			es.observer.LogWarn(ctx, logMsgReleaseConnFailed, closeErr)
		}
	}()

	if _, err := conn.ExecContext(ctx, statementBeginImmediate); err != nil {
		if isSQLiteBusyError(err) {
			observation.Conflict(expectedMaxSequenceNumber)
			return eventstore.ErrConcurrencyConflict
		}

		observation.Failed(instrument.ErrorTypeDatabaseExec)
		es.observer.LogError(ctx, logMsgDBExecFailed, err, instrument.LogAttrQuery, statementBeginImmediate)

		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}

		// the request context may already be done, the rollback must still reach the connection
		if _, err := conn.ExecContext(context.WithoutCancel(ctx), statementRollback); err != nil {
			es.observer.LogWarn(ctx, logMsgRollbackFailed, err)
		}
	}()

	start := time.Now()
	var currentMax int64
	err := conn.QueryRowxContext(ctx, maxSeqQuery, maxSeqArgs...).Scan(&currentMax)
	es.observer.LogSQL(ctx, maxSeqQuery, logActionMaxSequence, time.Since(start))

	if err != nil {
		observation.Failed(instrument.ErrorTypeDatabaseQuery)
		es.observer.LogError(ctx, logMsgDBQueryFailed, err, instrument.LogAttrQuery, maxSeqQuery)

		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	if eventstore.MaxSequenceNumberUint(currentMax) != expectedMaxSequenceNumber {
		observation.Conflict(expectedMaxSequenceNumber)
		return eventstore.ErrConcurrencyConflict
	}

	start = time.Now()
	result, err := conn.ExecContext(ctx, insertQuery, insertArgs...)
	es.observer.LogSQL(ctx, insertQuery, logActionAppend, time.Since(start))

	if err != nil {
		observation.Failed(instrument.ErrorTypeDatabaseExec)
		es.observer.LogError(ctx, logMsgDBExecFailed, err, instrument.LogAttrQuery, insertQuery)

		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected != int64(eventCount) {
		observation.Failed(instrument.ErrorTypeRowsAffected)
		if err == nil {
			err = fmt.Errorf("expected %d rows, %d were inserted", eventCount, rowsAffected)
		}
		es.observer.LogError(ctx, logMsgDBExecFailed, err)

		return errors.Join(eventstore.ErrGettingRowsAffectedFailed, err)
	}

	if _, err := conn.ExecContext(ctx, statementCommit); err != nil {
		if isSQLiteBusyError(err) {
			observation.Conflict(expectedMaxSequenceNumber)
			return eventstore.ErrConcurrencyConflict
		}

		observation.Failed(instrument.ErrorTypeDatabaseExec)
		es.observer.LogError(ctx, logMsgDBExecFailed, err, instrument.LogAttrQuery, statementCommit)

		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	committed = true
	observation.AppendSucceeded(eventCount)

	return nil
}

func (es EventStore) buildSelectQuery(filter eventstore.Filter) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(colSequenceNumber, colEventType, colOccurredAt, colPayload, colMetadata).
		Order(goqu.I(colSequenceNumber).Asc())

	selectStmt = es.addWhereClause(filter, selectStmt)

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildMaxSequenceQuery(filter eventstore.Filter) (string, []any, error) {
	maxStmt := goqu.Dialect(dialectSQLite).
		From(es.eventTableName).
		Prepared(true).
		Select(goqu.COALESCE(goqu.MAX(colSequenceNumber), 0))

	maxStmt = es.addWhereClause(filter, maxStmt)

	sqlQuery, args, toSQLErr := maxStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) buildInsertQuery(events eventstore.StorableEvents) (string, []any, error) {
	rows := make([]any, 0, len(events))
	for _, event := range events {
		rows = append(rows, goqu.Record{
			colEventType:  event.EventType,
			colOccurredAt: event.OccurredAt.UTC().UnixMicro(),
			colPayload:    string(event.PayloadJSON),
			colMetadata:   string(event.MetadataJSON),
		})
	}

	insertStmt := goqu.Dialect(dialectSQLite).
		Insert(es.eventTableName).
		Prepared(true).
		Rows(rows...)

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(eventstore.ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (es EventStore) addWhereClause(filter eventstore.Filter, selectStmt *goqu.SelectDataset) *goqu.SelectDataset {
	if len(filter.Items()) == 0 {
		return selectStmt
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
				predicateExpressions = append(
					predicateExpressions,
					goqu.L(fmt.Sprintf(jsonExtractPredicateTemplate, colPayload, escapeJSONKey(predicate.Key())), predicate.Val()),
				)
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

	return selectStmt.Where(goqu.Or(itemsExpressions...))
}

// escapeJSONKey makes a payload key safe for use inside a quoted JSON path literal.
func escapeJSONKey(key string) string {
	return strings.NewReplacer(`'`, `''`, `"`, ``, `.`, ``).Replace(key)
}
