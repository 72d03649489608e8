package logging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bufferOutput captures entries for inspection in tests.
type bufferOutput struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (b *bufferOutput) Write(e LogEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, e)
	return nil
}

func (b *bufferOutput) Sync() error  { return nil }
func (b *bufferOutput) Close() error { return nil }

func (b *bufferOutput) captured() []LogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

func TestLoggerSeverityFiltering(t *testing.T) {
	buf := &bufferOutput{}
	logger := NewLogger(Config{
		Severity: WARN,
		Outputs:  []Output{buf},
	})

	ctx := context.Background()
	logger.Debug(ctx, "dropped debug")
	logger.Info(ctx, "dropped info")
	logger.Warn(ctx, "kept warn")
	logger.Error(ctx, "kept error")

	entries := buf.captured()
	require.Len(t, entries, 2)
	assert.Equal(t, WARN, entries[0].Severity)
	assert.Equal(t, "kept warn", entries[0].Message)
	assert.Equal(t, ERROR, entries[1].Severity)
}

func TestLoggerFormatsMessage(t *testing.T) {
	buf := &bufferOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{buf}})

	logger.Info(context.Background(), "generation %d complete, best=%.2f", 7, 0.93)

	entries := buf.captured()
	require.Len(t, entries, 1)
	assert.Equal(t, "generation 7 complete, best=0.93", entries[0].Message)
	assert.Equal(t, "logger_test.go", entries[0].File)
}

func TestLoggerRunIDFromContext(t *testing.T) {
	buf := &bufferOutput{}
	logger := NewLogger(Config{Severity: DEBUG, Outputs: []Output{buf}})

	ctx := WithRunID(context.Background(), "run-1234")
	logger.Info(ctx, "with run id")
	logger.Info(context.Background(), "without run id")

	entries := buf.captured()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1234", entries[0].RunID)
	assert.Empty(t, entries[1].RunID)
}

func TestLoggerDefaultFields(t *testing.T) {
	buf := &bufferOutput{}
	logger := NewLogger(Config{
		Severity:      DEBUG,
		Outputs:       []Output{buf},
		DefaultFields: map[string]interface{}{"component": "search"},
	})

	logger.Info(context.Background(), "hello")

	entries := buf.captured()
	require.Len(t, entries, 1)
	assert.Equal(t, "search", entries[0].Fields["component"])
}

func TestGlobalLogger(t *testing.T) {
	// Preserve whatever the suite had installed.
	previous := GetLogger()
	defer SetLogger(previous)

	buf := &bufferOutput{}
	custom := NewLogger(Config{Severity: DEBUG, Outputs: []Output{buf}})
	SetLogger(custom)

	assert.Same(t, custom, GetLogger())
}
