package testdoubles

import (
	"context"
	"strings"
	"sync"
)

// SpyLogRecord represents one captured log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// LoggerSpy captures calls of both the plain and the contextual logger interfaces.
type LoggerSpy struct {
	mu      sync.Mutex
	records []SpyLogRecord
}

func NewLoggerSpy() *LoggerSpy {
	return &LoggerSpy{}
}

func (s *LoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

func (s *LoggerSpy) Debug(msg string, args ...any) { s.record(context.Background(), "debug", msg, args) }
func (s *LoggerSpy) Info(msg string, args ...any)  { s.record(context.Background(), "info", msg, args) }
func (s *LoggerSpy) Warn(msg string, args ...any)  { s.record(context.Background(), "warn", msg, args) }
func (s *LoggerSpy) Error(msg string, args ...any) { s.record(context.Background(), "error", msg, args) }

func (s *LoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *LoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *LoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *LoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// Records returns a copy of all captured records.
func (s *LoggerSpy) Records() []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records...)
}

// HasRecord reports whether a record with the level was captured whose message contains msgPart.
func (s *LoggerSpy) HasRecord(level, msgPart string) bool {
	for _, r := range s.Records() {
		if r.Level == level && strings.Contains(r.Message, msgPart) {
			return true
		}
	}

	return false
}
