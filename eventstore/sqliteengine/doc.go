// Package sqliteengine provides a SQLite implementation of the eventstore Query/Append contract.
//
// It uses the pure-Go modernc.org/sqlite driver through sqlx, and builds its statements with goqu's
// sqlite3 dialect. Payloads are stored as JSON text and filter predicates are evaluated with
// json_extract. Timestamps are stored as Unix microseconds.
//
// Append runs inside a BEGIN IMMEDIATE transaction on a dedicated connection. SQLite then holds the
// single write lock while the max sequence number of the filtered stream is compared with the expected
// one, so the check and the insert are atomic. A writer that cannot get the lock within the busy timeout
// gets eventstore.ErrConcurrencyConflict, like a writer whose expectation no longer holds.
//
//	db, _ := sqliteengine.OpenDB("/var/lib/lending/events.db")
//	store, _ := sqliteengine.NewEventStore(db, sqliteengine.WithIndexedPayloadKeys("ItemID", "ReservationID"))
//	_ = store.CreateSchema(ctx)
package sqliteengine
