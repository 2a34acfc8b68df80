// Package enginewrapper builds the event store engine the feature tests run against.
//
// ENGINE_TYPE selects the engine: "memory" (default), "sqlite" (a fresh database file in a
// temp dir) or "postgres" (needs LENDING_POSTGRES_DSN). ADAPTER_TYPE selects the postgres
// adapter: "pgxpool" (default), "sqldb" or "sqlx".
package enginewrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql driver
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore/memoryengine"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/postgresengine"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/sqliteengine"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

const (
	typeMemory   = "memory"
	typeSQLite   = "sqlite"
	typePostgres = "postgres"

	typePGXPool = "pgxpool"
	typeSQLDB   = "sqldb"
	typeSQLX    = "sqlx"

	// PostgresDSNEnvVar holds the DSN of the postgres test database.
	PostgresDSNEnvVar = "LENDING_POSTGRES_DSN"
)

// Wrapper abstracts over the engine types.
type Wrapper interface {
	GetEventStore() shell.EventStore
	EngineType() string
}

type wrapper struct {
	es         shell.EventStore
	engineType string
}

func (w wrapper) GetEventStore() shell.EventStore {
	return w.es
}

func (w wrapper) EngineType() string {
	return w.engineType
}

// CreateWrapperWithTestConfig creates an empty event store of the engine named by ENGINE_TYPE.
// Resources are released with t.Cleanup.
func CreateWrapperWithTestConfig(t testing.TB) Wrapper {
	t.Helper()

	engineType := strings.ToLower(os.Getenv("ENGINE_TYPE"))

	switch engineType {
	case typeMemory, "":
		es, err := memoryengine.NewEventStore()
		require.NoError(t, err, "error creating the memory engine")

		return wrapper{es: es, engineType: typeMemory}

	case typeSQLite:
		db, err := sqliteengine.OpenDB(filepath.Join(t.TempDir(), "events.db"))
		require.NoError(t, err, "error opening the sqlite database")
		t.Cleanup(func() { _ = db.Close() })

		es, err := sqliteengine.NewEventStore(db, sqliteengine.WithIndexedPayloadKeys("ItemID", "ReservationID"))
		require.NoError(t, err, "error creating the sqlite engine")
		require.NoError(t, es.CreateSchema(context.Background()), "error creating the sqlite schema")

		return wrapper{es: es, engineType: typeSQLite}

	case typePostgres:
		return wrapper{es: createPostgresEventStore(t), engineType: typePostgres}

	default:
		panic(fmt.Sprintf("unsupported engine type from env: %s", engineType))
	}
}

func createPostgresEventStore(t testing.TB) postgresengine.EventStore {
	t.Helper()

	dsn := os.Getenv(PostgresDSNEnvVar)
	if dsn == "" {
		t.Skipf("%s is not set", PostgresDSNEnvVar)
	}

	tableName := "events_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	option := postgresengine.WithTableName(tableName)

	var es postgresengine.EventStore
	var err error
	var dropTable func(query string)

	adapterType := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch adapterType {
	case typePGXPool, "":
		pool, poolErr := pgxpool.New(context.Background(), dsn)
		require.NoError(t, poolErr, "error connecting to DB pool in test setup")
		t.Cleanup(pool.Close)

		es, err = postgresengine.NewEventStoreFromPGXPool(pool, option)
		dropTable = func(query string) { _, _ = pool.Exec(context.Background(), query) }

	case typeSQLDB:
		db, dbErr := sql.Open("postgres", dsn)
		require.NoError(t, dbErr, "error opening the DB in test setup")
		t.Cleanup(func() { _ = db.Close() })

		es, err = postgresengine.NewEventStoreFromSQLDB(db, option)
		dropTable = func(query string) { _, _ = db.Exec(query) }

	case typeSQLX:
		db, dbErr := sqlx.Open("postgres", dsn)
		require.NoError(t, dbErr, "error opening the DB in test setup")
		t.Cleanup(func() { _ = db.Close() })

		es, err = postgresengine.NewEventStoreFromSQLX(db, option)
		dropTable = func(query string) { _, _ = db.Exec(query) }

	default:
		panic(fmt.Sprintf("unsupported adapter type from env: %s", adapterType))
	}

	require.NoError(t, err, "error creating the postgres engine")
	require.NoError(t, es.CreateSchema(context.Background()), "error creating the postgres schema")

	// registered after the pool cleanup, so it runs first
	t.Cleanup(func() { dropTable(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, tableName)) })

	return es
}
