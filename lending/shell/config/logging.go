package config

import (
	"io"
	"log/slog"

	"github.com/AntonStoeckl/item-lending-reservations/eventstore/oteladapters"
)

// NewLogger builds the service's slog logger. An unparsable level falls back to info.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	return slog.New(newHandler(cfg, w))
}

// NewContextualLogger wraps the same handler so that log records carry the active trace and span.
func NewContextualLogger(cfg LogConfig, w io.Writer) *oteladapters.SlogBridgeLogger {
	return oteladapters.NewSlogBridgeLoggerWithHandler(newHandler(cfg, w))
}

func newHandler(cfg LogConfig, w io.Writer) slog.Handler {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, options)
	}

	return slog.NewTextHandler(w, options)
}
