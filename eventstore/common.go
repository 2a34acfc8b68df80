package eventstore

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when an engine is constructed without a database handle.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyEventsTableName is returned when an empty events table name is supplied.
	ErrEmptyEventsTableName = errors.New("events table name must not be empty")

	// ErrConcurrencyConflict is returned when the filtered stream moved past the expected sequence number.
	ErrConcurrencyConflict = errors.New("concurrency error, no rows were affected")

	// ErrQueryingEventsFailed wraps failures while executing a query.
	ErrQueryingEventsFailed = errors.New("querying events failed")

	// ErrAppendingEventFailed wraps failures while executing an append.
	ErrAppendingEventFailed = errors.New("appending the event failed")

	// ErrBuildingQueryFailed wraps failures of the SQL builder.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrScanningDBRowFailed wraps failures while scanning result rows.
	ErrScanningDBRowFailed = errors.New("scanning the database row failed")

	// ErrBuildingStorableEventFailed wraps failures while building a StorableEvent from a row.
	ErrBuildingStorableEventFailed = errors.New("building the storable event failed")

	// ErrGettingRowsAffectedFailed wraps failures while reading the affected row count.
	ErrGettingRowsAffectedFailed = errors.New("getting rows affected failed")

	// ErrCreatingSchemaFailed wraps failures while creating the events table.
	ErrCreatingSchemaFailed = errors.New("creating the schema failed")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
