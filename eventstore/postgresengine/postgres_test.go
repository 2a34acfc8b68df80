package postgresengine_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // database/sql driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/enginetest"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/postgresengine"
)

const dsnEnvVar = "LENDING_POSTGRES_DSN"

func dsnOrSkip(t *testing.T) string {
	t.Helper()

	dsn := os.Getenv(dsnEnvVar)
	if dsn == "" {
		t.Skipf("%s is not set", dsnEnvVar)
	}

	return dsn
}

// uniqueTableName gives every test its own table, so sequence numbers start at 1.
func uniqueTableName(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	name := "events_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), fmt.Sprintf(`DROP TABLE IF EXISTS %q`, name))
	})

	return name
}

func newPGXPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), dsnOrSkip(t))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func Test_PostgresEngine_PGX_Contract(t *testing.T) {
	pool := newPGXPool(t)

	enginetest.RunContractTests(t, func(t *testing.T) enginetest.Store {
		store, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithTableName(uniqueTableName(t, pool)))
		require.NoError(t, err)
		require.NoError(t, store.CreateSchema(context.Background()))

		return store
	})
}

func Test_PostgresEngine_SQLDB_Contract(t *testing.T) {
	pool := newPGXPool(t)
	db, err := sql.Open("postgres", dsnOrSkip(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	enginetest.RunContractTests(t, func(t *testing.T) enginetest.Store {
		store, err := postgresengine.NewEventStoreFromSQLDB(db, postgresengine.WithTableName(uniqueTableName(t, pool)))
		require.NoError(t, err)
		require.NoError(t, store.CreateSchema(context.Background()))

		return store
	})
}

func Test_PostgresEngine_SQLX_Contract(t *testing.T) {
	pool := newPGXPool(t)
	db, err := sqlx.Open("postgres", dsnOrSkip(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	enginetest.RunContractTests(t, func(t *testing.T) enginetest.Store {
		store, err := postgresengine.NewEventStoreFromSQLX(db, postgresengine.WithTableName(uniqueTableName(t, pool)))
		require.NoError(t, err)
		require.NoError(t, store.CreateSchema(context.Background()))

		return store
	})
}

func Test_PostgresEngine_FactoryFunctions_RejectNilConnections(t *testing.T) {
	_, err := postgresengine.NewEventStoreFromPGXPool(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)

	_, err = postgresengine.NewEventStoreFromPGXPoolAndReplica(nil, nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)

	_, err = postgresengine.NewEventStoreFromSQLDB(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)

	_, err = postgresengine.NewEventStoreFromSQLX(nil)
	assert.ErrorIs(t, err, eventstore.ErrNilDatabaseConnection)
}

func Test_PostgresEngine_WithTableName_RejectsEmptyName(t *testing.T) {
	pool := newPGXPool(t)

	_, err := postgresengine.NewEventStoreFromPGXPool(pool, postgresengine.WithTableName(""))

	assert.ErrorIs(t, err, eventstore.ErrEmptyEventsTableName)
}
