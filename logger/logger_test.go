package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf).WithFields(Fields{"component": "portal", "attempt": 2})

	l.Info().Msg("Fetching topics")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "Fetching topics", entry["message"])
	assert.Equal(t, "portal", entry["component"])
	assert.Equal(t, float64(2), entry["attempt"])
	assert.Equal(t, "info", entry["level"])
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	cl := NewCronLogger(New(&buf))

	cl.Error(errors.New("boom"), "panic", "stack", "trace")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "panic", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "trace", entry["stack"])
}

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, "warn", getLogLevel().String())

	t.Setenv("LOG_LEVEL", "")
	t.Setenv("TOPICWORKER_ENVIRONMENT", "production")
	assert.Equal(t, "info", getLogLevel().String())

	t.Setenv("TOPICWORKER_ENVIRONMENT", "development")
	assert.Equal(t, "debug", getLogLevel().String())

	t.Setenv("LOG_LEVEL", "not-a-level")
	assert.Equal(t, "info", getLogLevel().String())
}
