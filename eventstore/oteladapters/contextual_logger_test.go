package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore/oteladapters"
)

// emittedRecord is what recordingLogger keeps of a log.Record, which must not be retained after Emit.
type emittedRecord struct {
	severity   log.Severity
	body       string
	attributes map[string]string
}

// recordingLogger is an OpenTelemetry log.Logger that keeps emitted records.
type recordingLogger struct {
	noop.Logger

	mu          sync.Mutex
	minSeverity log.Severity
	records     []emittedRecord
}

func (l *recordingLogger) Emit(_ context.Context, record log.Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, emittedRecord{
		severity:   record.Severity(),
		body:       record.Body().AsString(),
		attributes: attributesOf(record),
	})
}

func (l *recordingLogger) Enabled(_ context.Context, param log.EnabledParameters) bool {
	return param.Severity >= l.minSeverity
}

func attributesOf(record log.Record) map[string]string {
	attrs := make(map[string]string)
	record.WalkAttributes(func(kv log.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})

	return attrs
}

func Test_OTelLogger_EmitsRecordsWithSeverityBodyAndAttributes(t *testing.T) {
	// arrange
	otelLogger := &recordingLogger{minSeverity: log.SeverityDebug}
	logger := oteladapters.NewOTelLogger(otelLogger)

	// act
	logger.InfoContext(context.Background(), "reservation confirmed", "reservation_id", "r-1", "attempts", 2)
	logger.ErrorContext(context.Background(), "append failed", "dangling")

	// assert
	require.Len(t, otelLogger.records, 2)

	info := otelLogger.records[0]
	assert.Equal(t, log.SeverityInfo, info.severity)
	assert.Equal(t, "reservation confirmed", info.body)
	assert.Equal(t, map[string]string{"reservation_id": "r-1", "attempts": "2"}, info.attributes)

	failure := otelLogger.records[1]
	assert.Equal(t, log.SeverityError, failure.severity)
	assert.Equal(t, map[string]string{"!BADKEY": "dangling"}, failure.attributes)
}

func Test_OTelLogger_SkipsDisabledSeverities(t *testing.T) {
	otelLogger := &recordingLogger{minSeverity: log.SeverityWarn}
	logger := oteladapters.NewOTelLogger(otelLogger)

	logger.DebugContext(context.Background(), "sql executed")
	logger.InfoContext(context.Background(), "query completed")
	logger.WarnContext(context.Background(), "rows not closed")

	require.Len(t, otelLogger.records, 1)
	assert.Equal(t, "rows not closed", otelLogger.records[0].body)
}

func Test_SlogBridgeLoggerWithHandler_WritesThroughTheHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.DebugContext(context.Background(), "executed sql for: query", "duration_ms", 1.5)
	logger.WarnContext(context.Background(), "sweep skipped reservation", "reservation_id", "r-9")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "duration_ms=1.5")
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "reservation_id=r-9")
}

func Test_SlogBridgeLoggerWithProvider_DoesNotPanicWithNoopProvider(t *testing.T) {
	logger := oteladapters.NewSlogBridgeLoggerWithProvider("lending", noop.NewLoggerProvider())

	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "hello")
		logger.ErrorContext(context.Background(), "bye", "k", "v")
	})
}
