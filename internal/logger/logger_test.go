package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer, level Level) *Logger {
	return New(Config{Level: level, Format: FormatJSON, Output: buf})
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, InfoLevel).WithComponent("server")

	l.Info("started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "started", entry["message"])
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, WarnLevel)

	l.Info("hidden")
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warnf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestLogger_ExecutionEvent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, DebugLevel)

	l.ExecutionEvent("GET", "https://api.example.com/users", 200, 12.5)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, float64(200), entry["status_code"])
	assert.Equal(t, 12.5, entry["time_ms"])
}

func TestLogger_RequestEvent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf, InfoLevel)

	l.RequestEvent("POST", "/api/test-endpoint", 502, 3*time.Millisecond)
	assert.True(t, strings.Contains(buf.String(), `"path":"/api/test-endpoint"`))
}

func TestFromSettings(t *testing.T) {
	l := FromSettings("bogus", "json")
	require.NotNil(t, l)

	lvl, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, lvl)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing happens")
	l.WithField("k", "v").Info("still nothing")
}
