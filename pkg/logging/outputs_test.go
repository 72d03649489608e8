package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.log")

	out, err := NewFileOutput(path)
	require.NoError(t, err)

	entry := LogEntry{
		Time:     time.Now().UnixNano(),
		Severity: INFO,
		Message:  "pool merged",
		File:     "engine.go",
		Line:     42,
		RunID:    "run-abc",
		Fields:   map[string]interface{}{"merged": 3},
	}
	require.NoError(t, out.Write(entry))
	require.NoError(t, out.Sync())
	require.NoError(t, out.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "pool merged")
	assert.Contains(t, content, "INFO")
	assert.Contains(t, content, "[engine.go:42]")
	assert.Contains(t, content, "run=run-abc")
	assert.Contains(t, content, "merged=3")
}

func TestFileOutputBadPath(t *testing.T) {
	_, err := NewFileOutput(filepath.Join(t.TempDir(), "missing", "nested", "search.log"))
	assert.Error(t, err)
}

func TestFormatFields(t *testing.T) {
	assert.Empty(t, formatFields(nil))
	assert.Contains(t, formatFields(map[string]interface{}{"size": 5}), "size=5")
}

func TestGetSeverityColor(t *testing.T) {
	assert.NotEmpty(t, getSeverityColor(DEBUG))
	assert.NotEmpty(t, getSeverityColor(ERROR))
	assert.NotEqual(t, getSeverityColor(INFO), getSeverityColor(WARN))
}
