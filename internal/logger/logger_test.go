package logger

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/config"
)

func TestLevelSourceHandler(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		levels     []slog.Level
		wantSource bool
	}{
		{"info without source", slog.LevelInfo, []slog.Level{slog.LevelWarn, slog.LevelError}, false},
		{"warn with source", slog.LevelWarn, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"error with source", slog.LevelError, []slog.Level{slog.LevelWarn, slog.LevelError}, true},
		{"info when every level selected", slog.LevelInfo, []slog.Level{slog.LevelDebug, slog.LevelInfo}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := NewLevelSourceHandler(slog.NewTextHandler(&buf, nil), tt.levels...)
			slog.New(h).Log(context.Background(), tt.level, "hello")

			assert.Equal(t, tt.wantSource, bytes.Contains(buf.Bytes(), []byte("source=")), buf.String())
		})
	}
}

func TestLevelSourceHandler_KeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewLevelSourceHandler(slog.NewTextHandler(&buf, nil), slog.LevelError)

	slog.New(h).With("actor", "ana").WithGroup("req").Info("hit", "path", "/api/employees")

	out := buf.String()
	assert.Contains(t, out, "actor=ana")
	assert.Contains(t, out, "req.path=/api/employees")
	assert.NotContains(t, out, "source=")
}

func TestLevelSourceHandler_Enabled(t *testing.T) {
	h := NewLevelSourceHandler(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}))

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestNew_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(config.LoggerConfig{Level: "info", Format: "json", OutputPath: path}, "release")
	require.NoError(t, err)
	l.Info("started", "port", 8080)
}
