package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestConfigure_FlagWinsOverEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	require.NoError(t, Configure("debug", "", false))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())
}

func TestConfigure_EnvFallback(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")

	require.NoError(t, Configure("", "", false))
	assert.Equal(t, log.WarnLevel, Logger.GetLevel())
}

func TestConfigure_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chatllm.log")

	require.NoError(t, Configure("info", path, true))
	t.Cleanup(func() { _ = Close() })

	Info("hello from test", "label", "Current conversation")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "Current conversation")
}

func TestConfigure_InvalidLogFile(t *testing.T) {
	err := Configure("info", filepath.Join(t.TempDir(), "missing", "dir", "x.log"), false)
	assert.Error(t, err)
}

func TestNewStyledLogger(t *testing.T) {
	require.NoError(t, Configure("debug", "", false))
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	l := NewStyledLogger("Server")
	assert.Equal(t, log.DebugLevel, l.GetLevel())

	l.Debug("connection opened", "remote", "127.0.0.1")
	assert.Contains(t, buf.String(), "Server")
	assert.Contains(t, buf.String(), "connection opened")
}

func TestServiceOperation(t *testing.T) {
	require.NoError(t, Configure("debug", "", false))
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	ServiceOperation("chat", "prompt", "model", "gemma2-9b-it")
	StoreOperation("start_new", "hi - 10:00:00")

	out := buf.String()
	assert.Contains(t, out, "Service operation")
	assert.Contains(t, out, "Store operation")
	assert.Contains(t, out, "start_new")
}
