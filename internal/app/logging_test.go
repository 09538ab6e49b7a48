package app

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"WARNING", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLogLevel(tt.input), tt.input)
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf})

	logger.Debug("debug %d", 1)
	logger.Info("info")
	assert.Empty(t, buf.String())

	logger.Warn("careful %s", "now")
	assert.Contains(t, buf.String(), "careful now")
	assert.Contains(t, buf.String(), "level=warning")

	buf.Reset()
	logger.SetLevel(LogLevelDebug)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_FieldsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf, Format: FormatJSON, Prefix: "richedit"})

	logger.WithComponent("editor").
		WithFields(map[string]any{"plugin": "CKBox"}).
		Error("init failed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "init failed", entry["msg"])
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "richedit", entry["app"])
	assert.Equal(t, "editor", entry["component"])
	assert.Equal(t, "CKBox", entry["plugin"])
}

func TestLogger_DerivedSharesOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})
	child := logger.WithField("k", "v")

	logger.Disable()
	child.Error("dropped")
	assert.Empty(t, buf.String())

	var other bytes.Buffer
	logger.SetOutput(&other)
	child.Info("kept")
	assert.Contains(t, other.String(), "k=v")
	assert.Equal(t, "v", child.Entry().Data["k"])
}

func TestGetSetLogger(t *testing.T) {
	prev := GetLogger()
	require.NotNil(t, prev)
	t.Cleanup(func() { SetLogger(prev) })

	l := NullLogger()
	SetLogger(l)
	assert.Same(t, l, GetLogger())
}
