package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell"
)

const envPrefix = "LENDING_"

// Storage engines.
const (
	EngineMemory   = "memory"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// Postgres adapters.
const (
	AdapterPGX  = "pgx"
	AdapterSQL  = "sql"
	AdapterSQLX = "sqlx"
)

var (
	ErrReadingConfigFailed = errors.New("reading the config file failed")
	ErrParsingConfigFailed = errors.New("parsing the config failed")
	ErrInvalidConfig       = errors.New("invalid config")
)

// Config is the complete service configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage" envPrefix:"STORAGE_"`
	Policy    PolicyConfig    `yaml:"policy" envPrefix:"POLICY_"`
	Retry     RetryConfig     `yaml:"retry" envPrefix:"RETRY_"`
	Sweeper   SweeperConfig   `yaml:"sweeper" envPrefix:"SWEEPER_"`
	AMQP      AMQPConfig      `yaml:"amqp" envPrefix:"AMQP_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"OTEL_"`
}

type StorageConfig struct {
	Engine     string         `yaml:"engine" env:"ENGINE"`
	TableName  string         `yaml:"tableName" env:"TABLE_NAME"`
	SQLitePath string         `yaml:"sqlitePath" env:"SQLITE_PATH"`
	Postgres   PostgresConfig `yaml:"postgres" envPrefix:"POSTGRES_"`
}

type PostgresConfig struct {
	DSN             string        `yaml:"dsn" env:"DSN"`
	ReplicaDSN      string        `yaml:"replicaDsn" env:"REPLICA_DSN"`
	Adapter         string        `yaml:"adapter" env:"ADAPTER"`
	MaxConns        int32         `yaml:"maxConns" env:"MAX_CONNS"`
	MinConns        int32         `yaml:"minConns" env:"MIN_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" env:"CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `yaml:"connMaxIdleTime" env:"CONN_MAX_IDLE_TIME"`
	ConnectTimeout  time.Duration `yaml:"connectTimeout" env:"CONNECT_TIMEOUT"`
}

type PolicyConfig struct {
	MaxDurationDays  int           `yaml:"maxDurationDays" env:"MAX_DURATION_DAYS"`
	MaxAdvanceDays   int           `yaml:"maxAdvanceDays" env:"MAX_ADVANCE_DAYS"`
	MinTrustScore    float64       `yaml:"minTrustScore" env:"MIN_TRUST_SCORE"`
	ActivationWindow time.Duration `yaml:"activationWindow" env:"ACTIVATION_WINDOW"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts" env:"MAX_ATTEMPTS"`
	BaseDelay    time.Duration `yaml:"baseDelay" env:"BASE_DELAY"`
	JitterFactor float64       `yaml:"jitterFactor" env:"JITTER_FACTOR"`
}

type SweeperConfig struct {
	Interval time.Duration `yaml:"interval" env:"INTERVAL"`
}

// AMQPConfig configures the transition publisher. An empty URL disables publishing.
type AMQPConfig struct {
	URL      string `yaml:"url" env:"URL"`
	Exchange string `yaml:"exchange" env:"EXCHANGE"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// TelemetryConfig configures OTLP/HTTP export. An empty endpoint disables tracing and metrics.
type TelemetryConfig struct {
	Endpoint       string        `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName    string        `yaml:"serviceName" env:"SERVICE_NAME"`
	MetricInterval time.Duration `yaml:"metricInterval" env:"METRIC_INTERVAL"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	policy := core.DefaultPolicy()

	return Config{
		Storage: StorageConfig{
			Engine:     EngineMemory,
			TableName:  "events",
			SQLitePath: "reservations.db",
			Postgres: PostgresConfig{
				Adapter:         AdapterPGX,
				MaxConns:        8,
				MinConns:        2,
				ConnMaxLifetime: time.Hour,
				ConnMaxIdleTime: 5 * time.Minute,
				ConnectTimeout:  5 * time.Second,
			},
		},
		Policy: PolicyConfig{
			MaxDurationDays:  policy.MaxDurationDays,
			MaxAdvanceDays:   policy.MaxAdvanceDays,
			MinTrustScore:    policy.MinTrustScore,
			ActivationWindow: policy.ActivationWindow,
		},
		Retry: RetryConfig{
			MaxAttempts:  6,
			BaseDelay:    10 * time.Millisecond,
			JitterFactor: 0.3,
		},
		Sweeper: SweeperConfig{
			Interval: 5 * time.Minute,
		},
		AMQP: AMQPConfig{
			Exchange: "lending.reservations",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "reservationd",
			MetricInterval: 15 * time.Second,
		},
	}
}

// Load resolves the configuration from the defaults, the YAML file at path (skipped if path is
// empty) and the environment, then validates it.
func Load(path string) (Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Join(ErrReadingConfigFailed, err)
		}
		defer func() { _ = f.Close() }()

		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)

		if err = decoder.Decode(&cfg); err != nil {
			return Config{}, errors.Join(ErrParsingConfigFailed, fmt.Errorf("%s: %w", path, err))
		}
	}

	err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      envPrefix,
		Environment: env.ToMap(environ),
	})
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfigFailed, err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports every invalid value at once.
func (c Config) Validate() error {
	var problems []error

	invalid := func(format string, args ...any) {
		problems = append(problems, fmt.Errorf(format, args...))
	}

	switch c.Storage.Engine {
	case EngineMemory:
	case EngineSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			invalid("storage.sqlitePath is required for the sqlite engine")
		}
	case EnginePostgres:
		if c.Storage.Postgres.DSN == "" {
			invalid("storage.postgres.dsn is required for the postgres engine")
		}

		switch c.Storage.Postgres.Adapter {
		case AdapterPGX:
		case AdapterSQL, AdapterSQLX:
			if c.Storage.Postgres.ReplicaDSN != "" {
				invalid("storage.postgres.replicaDsn needs the pgx adapter")
			}
		default:
			invalid("storage.postgres.adapter %q must be one of pgx, sql, sqlx", c.Storage.Postgres.Adapter)
		}

		if c.Storage.Postgres.MaxConns < 1 || c.Storage.Postgres.MinConns > c.Storage.Postgres.MaxConns {
			invalid("storage.postgres pool sizes are inconsistent")
		}
	default:
		invalid("storage.engine %q must be one of memory, sqlite, postgres", c.Storage.Engine)
	}

	if strings.TrimSpace(c.Storage.TableName) == "" {
		invalid("storage.tableName must not be empty")
	}

	if c.Policy.MaxDurationDays < 1 || c.Policy.MaxAdvanceDays < 0 {
		invalid("policy day limits must be positive")
	}

	if c.Policy.MinTrustScore < 0 || c.Policy.MinTrustScore > 5 {
		invalid("policy.minTrustScore %.2f must lie in [0, 5]", c.Policy.MinTrustScore)
	}

	if c.Policy.ActivationWindow <= 0 {
		invalid("policy.activationWindow must be positive")
	}

	if c.Retry.MaxAttempts < 1 || c.Retry.BaseDelay < 0 || c.Retry.JitterFactor < 0 || c.Retry.JitterFactor > 1 {
		invalid("retry needs maxAttempts >= 1, baseDelay >= 0 and jitterFactor in [0, 1]")
	}

	if c.Sweeper.Interval <= 0 {
		invalid("sweeper.interval must be positive")
	}

	if c.AMQP.URL != "" && c.AMQP.Exchange == "" {
		invalid("amqp.exchange is required when amqp.url is set")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		invalid("log.level: %w", err)
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		invalid("log.format %q must be text or json", c.Log.Format)
	}

	if len(problems) == 0 {
		return nil
	}

	return errors.Join(append([]error{ErrInvalidConfig}, problems...)...)
}

// CorePolicy converts the policy section.
func (c Config) CorePolicy() core.Policy {
	return core.Policy{
		MaxDurationDays:  c.Policy.MaxDurationDays,
		MaxAdvanceDays:   c.Policy.MaxAdvanceDays,
		MinTrustScore:    c.Policy.MinTrustScore,
		ActivationWindow: c.Policy.ActivationWindow,
	}
}

// RetryOptions converts the retry section.
func (c Config) RetryOptions() []shell.RetryOption {
	return []shell.RetryOption{
		shell.WithMaxAttempts(c.Retry.MaxAttempts),
		shell.WithBaseDelay(c.Retry.BaseDelay),
		shell.WithJitterFactor(c.Retry.JitterFactor),
	}
}

// SlogLevel parses the level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(l.Level))

	return level, err
}
