package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver for the sql and sqlx adapters

	"github.com/AntonStoeckl/item-lending-reservations/eventstore"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/memoryengine"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/postgresengine"
	"github.com/AntonStoeckl/item-lending-reservations/eventstore/sqliteengine"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

const healthCheckPeriod = time.Minute

var ErrOpeningStorageFailed = errors.New("opening the event store failed")

// indexedPayloadKeys are the payload keys the reservation filters match on.
var indexedPayloadKeys = []string{"ItemID", "ReservationID"}

// EngineObservability carries the collectors handed to the event store engine. All are optional.
type EngineObservability struct {
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// Storage is an opened event store plus its lifecycle hooks.
type Storage struct {
	EventStore shell.EventStore
	migrate    func(ctx context.Context) error
	close      func() error
}

// Migrate creates the events table and its indexes. It is a no-op for the memory engine.
func (s Storage) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		return nil
	}

	return s.migrate(ctx)
}

// Close releases the database connection.
func (s Storage) Close() error {
	if s.close == nil {
		return nil
	}

	return s.close()
}

// OpenStorage opens the event store engine selected by cfg.
func OpenStorage(ctx context.Context, cfg StorageConfig, obs EngineObservability) (Storage, error) {
	var (
		storage Storage
		err     error
	)

	switch cfg.Engine {
	case EngineMemory:
		storage, err = openMemory(obs)
	case EngineSQLite:
		storage, err = openSQLite(cfg, obs)
	case EnginePostgres:
		storage, err = openPostgres(ctx, cfg, obs)
	default:
		err = fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}

	if err != nil {
		return Storage{}, errors.Join(ErrOpeningStorageFailed, err)
	}

	return storage, nil
}

func openMemory(obs EngineObservability) (Storage, error) {
	es, err := memoryengine.NewEventStore(
		memoryengine.WithLogger(obs.Logger),
		memoryengine.WithContextualLogger(obs.ContextualLogger),
		memoryengine.WithMetrics(obs.Metrics),
		memoryengine.WithTracing(obs.Tracing),
	)
	if err != nil {
		return Storage{}, err
	}

	return Storage{EventStore: es}, nil
}

func openSQLite(cfg StorageConfig, obs EngineObservability) (Storage, error) {
	db, err := sqliteengine.OpenDB(cfg.SQLitePath)
	if err != nil {
		return Storage{}, err
	}

	es, err := sqliteengine.NewEventStore(
		db,
		sqliteengine.WithTableName(cfg.TableName),
		sqliteengine.WithIndexedPayloadKeys(indexedPayloadKeys...),
		sqliteengine.WithLogger(obs.Logger),
		sqliteengine.WithContextualLogger(obs.ContextualLogger),
		sqliteengine.WithMetrics(obs.Metrics),
		sqliteengine.WithTracing(obs.Tracing),
	)
	if err != nil {
		_ = db.Close()
		return Storage{}, err
	}

	return Storage{EventStore: es, migrate: es.CreateSchema, close: db.Close}, nil
}

func openPostgres(ctx context.Context, cfg StorageConfig, obs EngineObservability) (Storage, error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLogger(obs.Logger),
		postgresengine.WithContextualLogger(obs.ContextualLogger),
		postgresengine.WithMetrics(obs.Metrics),
		postgresengine.WithTracing(obs.Tracing),
	}

	var (
		es      postgresengine.EventStore
		closeDB func() error
		err     error
	)

	switch cfg.Postgres.Adapter {
	case AdapterPGX:
		pool, poolErr := OpenPGXPool(ctx, cfg.Postgres.DSN, cfg.Postgres)
		if poolErr != nil {
			return Storage{}, poolErr
		}

		if cfg.Postgres.ReplicaDSN == "" {
			closeDB = func() error { pool.Close(); return nil }
			es, err = postgresengine.NewEventStoreFromPGXPool(pool, options...)

			break
		}

		replica, poolErr := OpenPGXPool(ctx, cfg.Postgres.ReplicaDSN, cfg.Postgres)
		if poolErr != nil {
			pool.Close()
			return Storage{}, poolErr
		}

		closeDB = func() error { replica.Close(); pool.Close(); return nil }
		es, err = postgresengine.NewEventStoreFromPGXPoolAndReplica(pool, replica, options...)

	case AdapterSQL:
		db, dbErr := OpenSQLDB(ctx, cfg.Postgres)
		if dbErr != nil {
			return Storage{}, dbErr
		}

		closeDB = db.Close
		es, err = postgresengine.NewEventStoreFromSQLDB(db, options...)

	case AdapterSQLX:
		db, dbErr := OpenSQLDB(ctx, cfg.Postgres)
		if dbErr != nil {
			return Storage{}, dbErr
		}

		closeDB = db.Close
		es, err = postgresengine.NewEventStoreFromSQLX(sqlx.NewDb(db, "postgres"), options...)

	default:
		return Storage{}, fmt.Errorf("unknown postgres adapter %q", cfg.Postgres.Adapter)
	}

	if err != nil {
		_ = closeDB()
		return Storage{}, err
	}

	return Storage{EventStore: es, migrate: es.CreateSchema, close: closeDB}, nil
}

// OpenPGXPool creates a pgx connection pool to dsn sized by cfg.
func OpenPGXPool(ctx context.Context, dsn string, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return pool, nil
}

// OpenSQLDB opens a database/sql handle via lib/pq and checks the connection.
func OpenSQLDB(ctx context.Context, cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(int(cfg.MinConns))
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres db: %w", err)
	}

	return db, nil
}
