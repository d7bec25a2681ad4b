package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PATH", "")
	t.Setenv("APP_DATA_DIR", dir)

	opts := OptionsFromEnv()
	assert.Equal(t, zapcore.DebugLevel, opts.Level)
	assert.Equal(t, filepath.Join(dir, "app.log"), opts.Path)

	t.Setenv("LOG_PATH", "/var/log/tmmoscow.log")
	assert.Equal(t, "/var/log/tmmoscow.log", OptionsFromEnv().Path)
}

func TestNewWithOptions_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := NewWithOptions(Options{Level: zapcore.InfoLevel, Path: path})

	log.Debug("hidden")
	log.Info("Competition fetched", zap.Int("id", 77))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Competition fetched"`)
	assert.Contains(t, string(data), `"id":77`)
	assert.NotContains(t, string(data), "hidden")
}
