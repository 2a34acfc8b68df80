package instrument

// Metric names.
const (
	MetricQueryDuration        = "eventstore_query_duration_seconds"
	MetricAppendDuration       = "eventstore_append_duration_seconds"
	MetricEventsQueried        = "eventstore_events_queried_total"
	MetricEventsAppended       = "eventstore_events_appended_total"
	MetricConcurrencyConflicts = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors       = "eventstore_database_errors_total"
)

// Span names.
const (
	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"
)

// Span and metric attribute keys.
const (
	AttrEngine       = "engine"
	AttrOperation    = "operation"
	AttrStatus       = "status"
	AttrErrorType    = "error_type"
	AttrEventCount   = "event_count"
	AttrEventType    = "event_type"
	AttrMaxSequence  = "max_sequence"
	AttrExpectedSeq  = "expected_sequence"
	AttrDurationMS   = "duration_ms"
	AttrConflictType = "conflict_type"
)

// Operations, statuses and error types.
const (
	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess = "success"
	StatusError   = "error"

	ErrorTypeBuildQuery    = "build_query"
	ErrorTypeDatabaseQuery = "database_query"
	ErrorTypeDatabaseExec  = "database_exec"
	ErrorTypeRowScan       = "row_scan"
	ErrorTypeBuildEvent    = "build_event"
	ErrorTypeRowsAffected  = "rows_affected"
	ErrorTypeConcurrency   = "concurrency_conflict"
)

// Log messages and attributes.
const (
	LogMsgSQLExecuted         = "executed sql for: "
	LogMsgOperation           = "eventstore operation: "
	LogMsgQueryCompleted      = "query completed"
	LogMsgEventsAppended      = "events appended"
	LogMsgConcurrencyConflict = "concurrency conflict detected"
	LogAttrError              = "error"
	LogAttrQuery              = "query"
	LogAttrFilter             = "filter"
	LogAttrEventCount         = "event_count"
	LogAttrEventType          = "event_type"
	LogAttrDurationMS         = "duration_ms"
	LogAttrExpectedSequence   = "expected_sequence"
	LogAttrRowsAffected       = "rows_affected"
)
