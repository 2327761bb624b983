package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "text", &buf)

	logger.Info("dispatch", "pid", 3)

	assert.Contains(t, buf.String(), "dispatch")
	assert.Contains(t, buf.String(), "pid=3")
}

func TestNewLoggerWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelInfo, "json", &buf)

	logger.Info("dispatch", "name", "editor")

	assert.Contains(t, buf.String(), `"msg":"dispatch"`)
	assert.Contains(t, buf.String(), `"name":"editor"`)
}

func TestNewLoggerWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(slog.LevelWarn, "text", &buf)

	logger.Debug("demoted")
	logger.Error("admission rejected")

	assert.NotContains(t, buf.String(), "demoted")
	assert.Contains(t, buf.String(), "admission rejected")
}

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, id := WithRunID(NewLoggerWithWriter(slog.LevelInfo, "text", &buf))

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	logger.Info("boot")
	assert.Contains(t, buf.String(), "run_id="+id)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}
