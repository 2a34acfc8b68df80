// Package postgresengine provides a PostgreSQL implementation of the eventstore Query/Append contract.
//
// It works with pgxpool.Pool, sql.DB (lib/pq) and sqlx.DB connections through internal adapters.
// Statements are built with goqu's postgres dialect. Filter predicates are evaluated with the jsonb
// containment operator, which the GIN index created by CreateSchema serves.
//
// Append is a single conditional INSERT ... SELECT that only inserts when the max sequence number of the
// filtered stream equals the expected one. It runs in a SERIALIZABLE transaction, so two concurrent
// appends on overlapping streams cannot both commit. Serialization failures (SQLSTATE 40001 and 40P01)
// are reported as eventstore.ErrConcurrencyConflict, like an append whose expectation no longer holds.
//
// Usage examples:
//
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithLogger(slog.Default()))
//	_ = store.CreateSchema(ctx)
//
//	// Queries of read models may go to a replica
//	store, _ := postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replicaPool)
//	events, maxSeq, _ := store.Query(eventstore.WithEventualConsistency(ctx), filter)
//
//	events, maxSeq, _ := store.Query(ctx, filter)
//	err := store.Append(ctx, filter, maxSeq, newEvent)
package postgresengine
