package config

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/observability/testdoubles"
)

func Test_OpenStorage_Memory(t *testing.T) {
	// arrange
	ctx := context.Background()
	metrics := testdoubles.NewMetricsCollectorSpy()

	// act
	storage, err := OpenStorage(ctx, Default().Storage, EngineObservability{Metrics: metrics})
	require.NoError(t, err)
	defer func() { assert.NoError(t, storage.Close()) }()

	// assert
	require.NoError(t, storage.Migrate(ctx))

	_, maxSeq, err := storage.EventStore.Query(ctx, shell.AllReservationsFilter())
	require.NoError(t, err)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)
	assert.True(t, metrics.HasDurationRecord("eventstore_query_duration_seconds", nil))
}

func Test_OpenStorage_SQLite_MigratesAndServesQueries(t *testing.T) {
	// arrange
	ctx := context.Background()
	cfg := Default().Storage
	cfg.Engine = EngineSQLite
	cfg.SQLitePath = filepath.Join(t.TempDir(), "events.db")

	// act
	storage, err := OpenStorage(ctx, cfg, EngineObservability{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, storage.Close()) }()

	// assert
	require.NoError(t, storage.Migrate(ctx))
	require.NoError(t, storage.Migrate(ctx), "migrating twice must be harmless")

	events, maxSeq, err := storage.EventStore.Query(ctx, shell.ItemFilter("item-1"))
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, eventstore.MaxSequenceNumberUint(0), maxSeq)
}

func Test_OpenStorage_Fails(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown engine", func(t *testing.T) {
		cfg := Default().Storage
		cfg.Engine = "mongodb"

		_, err := OpenStorage(ctx, cfg, EngineObservability{})

		assert.ErrorIs(t, err, ErrOpeningStorageFailed)
	})

	t.Run("malformed postgres dsn", func(t *testing.T) {
		cfg := Default().Storage
		cfg.Engine = EnginePostgres
		cfg.Postgres.DSN = "postgres://%zz"

		_, err := OpenStorage(ctx, cfg, EngineObservability{})

		assert.ErrorIs(t, err, ErrOpeningStorageFailed)
	})
}
