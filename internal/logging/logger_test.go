package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	logger, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("game detected", zap.Int("pid", 42))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "expected exactly one JSON line, got %q", data)
	assert.Equal(t, "game detected", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 42, entry["pid"])
	assert.Contains(t, entry, "time")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	assert.Error(t, err)
}

func TestNewOrFallback_BadPath(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing", "dir", "x.log")
	logger := NewOrFallback(Config{Level: "info", OutputPaths: []string{bad}})
	require.NotNil(t, logger)
}

func TestDefaults(t *testing.T) {
	d := DefaultConfig()
	assert.False(t, d.Development)
	assert.Equal(t, []string{filepath.Join(os.TempDir(), LogFileName)}, d.OutputPaths)

	dev := DevelopmentConfig()
	assert.True(t, dev.Development)
	assert.Equal(t, []string{"stderr"}, dev.OutputPaths)
}
