package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yatai/internal/config"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromString(tt.in))
		})
	}
}

func TestNewTextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(config.LogConfig{Level: "info", Format: "text"}, buf)

	logger.Debug("hidden")
	logger.Info("visible", "path", "/noop")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "path=/noop")
}

func TestNewJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(config.LogConfig{Level: "debug", Format: "json"}, buf)

	logger.Debug("request", "status", 200)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestTeeHandler(t *testing.T) {
	infoBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	tee := NewTeeHandler(
		slog.NewTextHandler(infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(errBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(tee).With("conn", "127.0.0.1:5000")

	logger.Info("accepted")
	logger.Error("aborted")

	assert.Equal(t, 2, strings.Count(infoBuf.String(), "conn=127.0.0.1:5000"))
	assert.NotContains(t, errBuf.String(), "accepted")
	assert.Contains(t, errBuf.String(), "aborted")
	assert.Contains(t, errBuf.String(), "conn=127.0.0.1:5000")

	assert.True(t, tee.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, tee.Enabled(t.Context(), slog.LevelDebug))
}
