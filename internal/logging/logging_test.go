package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" ERROR ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Environment: "production", Level: "WARN", Output: &buf})

	logger.Info("dropped")
	logger.Warn("Content updated", "content_id", "3")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "Content updated", rec["msg"])
	assert.Equal(t, "3", rec["content_id"])
	assert.NotContains(t, rec, "stacktrace")
}

func TestNew_ErrorsCarryStack(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Environment: "production", Output: &buf}).With("component", "test")

	logger.Error("Request failed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "test", rec["component"])
	assert.Contains(t, rec["stacktrace"], "goroutine")
}

func TestNew_TextInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Environment: "development", Output: &buf})

	logger.Info("Server starting", "port", "8080")

	out := buf.String()
	assert.Contains(t, out, "Server starting")
	assert.Contains(t, out, "port=8080")
	assert.NotContains(t, out, "\x1b[")
}
