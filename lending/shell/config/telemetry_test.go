package config

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewTelemetry_WithoutEndpoint_IsDisabled(t *testing.T) {
	// act
	telemetry, err := NewTelemetry(context.Background(), Default().Telemetry)

	// assert
	require.NoError(t, err)
	assert.False(t, telemetry.Enabled())
	assert.Nil(t, telemetry.MetricsCollector())
	assert.Nil(t, telemetry.TracingCollector())
	assert.NoError(t, telemetry.Shutdown(context.Background()))
}

func Test_NewTelemetry_WithEndpoint_ProvidesCollectors(t *testing.T) {
	// arrange
	cfg := Default().Telemetry
	cfg.Endpoint = "localhost:4317"

	// act
	telemetry, err := NewTelemetry(context.Background(), cfg)

	// assert
	require.NoError(t, err, "the gRPC exporters connect lazily")
	assert.True(t, telemetry.Enabled())
	assert.NotNil(t, telemetry.MetricsCollector())
	assert.NotNil(t, telemetry.TracingCollector())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = telemetry.Shutdown(ctx)
}

func Test_NewLogger(t *testing.T) {
	t.Run("json at debug", func(t *testing.T) {
		var out bytes.Buffer

		logger := NewLogger(LogConfig{Level: "debug", Format: "json"}, &out)
		logger.Debug("sweep started", "candidates", 2)

		assert.Contains(t, out.String(), `"msg":"sweep started"`)
		assert.Contains(t, out.String(), `"candidates":2`)
	})

	t.Run("text drops records below level", func(t *testing.T) {
		var out bytes.Buffer

		logger := NewLogger(LogConfig{Level: "warn", Format: "text"}, &out)
		logger.Info("not shown")
		logger.Warn("shown")

		assert.NotContains(t, out.String(), "not shown")
		assert.Contains(t, out.String(), "msg=shown")
	})

	t.Run("contextual logger writes to the same handler", func(t *testing.T) {
		var out bytes.Buffer

		logger := NewContextualLogger(LogConfig{Level: "info", Format: "text"}, &out)
		logger.InfoContext(context.Background(), "reservation confirmed")

		assert.Contains(t, out.String(), "reservation confirmed")
	})
}
