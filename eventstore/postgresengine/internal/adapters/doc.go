// Package adapters provides the database adapters of the PostgreSQL event store.
//
// The event store works with pgxpool.Pool, sql.DB and sqlx.DB connections. Each adapter presents the
// same DBAdapter interface: plain queries, which may be served by a read replica when the context asks
// for eventual consistency, and statements executed inside a SERIALIZABLE transaction.
package adapters
