package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/item-lending-reservations/lending/core"
	"github.com/AntonStoeckl/item-lending-reservations/lending/features/query/itemcalendar"
	"github.com/AntonStoeckl/item-lending-reservations/lending/shell/config"
	"github.com/AntonStoeckl/item-lending-reservations/testutil/fixtures"
)

func Test_RootCommand_HasSubcommands(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"migrate", "sweep", "sweeper", "show", "calendar"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func Test_RootCommand_GlobalFlags(t *testing.T) {
	cmd := newRootCommand()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)
}

// sqliteConfig writes a config file pointing at a fresh SQLite database in a temp dir.
func sqliteConfig(t *testing.T) (string, config.StorageConfig) {
	t.Helper()

	dir := t.TempDir()
	storage := config.Default().Storage
	storage.Engine = config.EngineSQLite
	storage.SQLitePath = filepath.Join(dir, "events.db")

	path := filepath.Join(dir, "reservationd.yaml")
	content := fmt.Sprintf("storage:\n  engine: sqlite\n  sqlitePath: %s\n", storage.SQLitePath)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path, storage
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

// seed appends the bookings to the SQLite database in their given statuses.
func seed(t *testing.T, storageConfig config.StorageConfig, statuses map[core.Status]fixtures.Booking) {
	t.Helper()

	ctx := context.Background()

	storage, err := config.OpenStorage(ctx, storageConfig, config.EngineObservability{})
	require.NoError(t, err)
	defer func() { require.NoError(t, storage.Close()) }()

	for status, booking := range statuses {
		fixtures.Given(t, storage.EventStore, booking.Events(t, status)...)
	}
}

func booking(id string, start time.Time) fixtures.Booking {
	return fixtures.Booking{
		ReservationID: core.ReservationIDString(id),
		ItemID:        "item-1",
		BorrowerID:    "borrower-1",
		OwnerID:       "owner-1",
		Start:         start,
		End:           start.Add(48 * time.Hour),
		CreatedAt:     start.Add(-72 * time.Hour),
	}
}

func Test_Migrate_CreatesSchema(t *testing.T) {
	// arrange
	configPath, _ := sqliteConfig(t)

	// act
	stdout, _, err := execute(t, "migrate", "--config", configPath)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "schema ready (sqlite)\n", stdout)

	_, _, err = execute(t, "migrate", "-c", configPath)
	assert.NoError(t, err, "migrating twice must be harmless")
}

func Test_Sweep_MarksOverdueReservations(t *testing.T) {
	// arrange
	configPath, storageConfig := sqliteConfig(t)
	_, _, err := execute(t, "migrate", "-c", configPath)
	require.NoError(t, err)

	pastStart := time.Now().UTC().Add(-10 * 24 * time.Hour).Truncate(time.Hour)
	futureStart := time.Now().UTC().Add(-time.Hour).Truncate(time.Hour)

	seed(t, storageConfig, map[core.Status]fixtures.Booking{
		core.StatusActive:    booking("late", pastStart),
		core.StatusConfirmed: booking("upcoming", futureStart.Add(30*24*time.Hour)),
	})

	// act
	stdout, _, err := execute(t, "sweep", "-c", configPath)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "1\n", stdout)

	stdout, _, err = execute(t, "sweep", "-c", configPath)
	require.NoError(t, err)
	assert.Equal(t, "0\n", stdout, "a second sweep finds nothing")

	stdout, _, err = execute(t, "show", "late", "-c", configPath)
	require.NoError(t, err)

	var reservation core.Reservation
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(stdout, &reservation))
	assert.Equal(t, core.StatusOverdue, reservation.Status)
	assert.Equal(t, core.ReservationIDString("late"), reservation.ID)
}

func Test_Calendar_PrintsBlockingReservations(t *testing.T) {
	// arrange
	configPath, storageConfig := sqliteConfig(t)
	_, _, err := execute(t, "migrate", "-c", configPath)
	require.NoError(t, err)

	start := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	seed(t, storageConfig, map[core.Status]fixtures.Booking{
		core.StatusConfirmed: booking("confirmed", start),
		core.StatusCancelled: booking("cancelled", start.Add(96*time.Hour)),
	})

	// act
	stdout, _, err := execute(t, "calendar", "item-1", "-c", configPath)

	// assert
	require.NoError(t, err)

	var calendar itemcalendar.ItemCalendar
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(stdout, &calendar))
	require.Equal(t, 1, calendar.Count)
	assert.Equal(t, core.ReservationIDString("confirmed"), calendar.Entries[0].ReservationID)
}

func Test_Show_UnknownReservation_Fails(t *testing.T) {
	// arrange
	configPath, _ := sqliteConfig(t)
	_, _, err := execute(t, "migrate", "-c", configPath)
	require.NoError(t, err)

	// act
	_, _, err = execute(t, "show", "missing", "-c", configPath)

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_Verbose_LogsAtDebugLevel(t *testing.T) {
	configPath, _ := sqliteConfig(t)

	_, stderr, err := execute(t, "migrate", "-v", "-c", configPath)

	require.NoError(t, err)
	assert.True(t, strings.Contains(stderr, "runtime ready"), stderr)
}

func Test_InvalidConfig_Fails(t *testing.T) {
	t.Setenv("LENDING_STORAGE_ENGINE", "mongodb")

	_, _, err := execute(t, "sweep")

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func Test_Sweeper_StopsWithContext(t *testing.T) {
	// arrange
	configPath, _ := sqliteConfig(t)
	_, _, err := execute(t, "migrate", "-c", configPath)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs([]string{"sweeper", "--interval", "20ms", "-c", configPath})
	cmd.SetErr(&stderr)

	// act
	err = cmd.ExecuteContext(ctx)

	// assert
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "sweeper stopped")
}
