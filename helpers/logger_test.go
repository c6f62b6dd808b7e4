package helpers

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/topicworker/logger"
)

func TestLogger(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "error.log")

	l := NewLogger(tmpFile)

	l.LogError("worker", errors.New("session still expired"))
	l.LogError("portal", errors.New("failed to fetch topics"))

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[worker] session still expired")
	assert.Contains(t, lines[1], "[portal] failed to fetch topics")
}

func TestLoggerWithoutFile(t *testing.T) {
	l := NewLogger("")

	assert.NotPanics(t, func() {
		l.LogError("worker", errors.New("test error"))
	})
}

func TestLoggerWriteFailure(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full is not available")
	}

	var buf bytes.Buffer
	previous := logger.Default
	logger.Default = logger.New(&buf)
	defer func() { logger.Default = previous }()

	l := NewLogger("/dev/full")
	l.LogError("worker", errors.New("failed to fetch topics"))

	assert.Contains(t, buf.String(), "Failed to write error log /dev/full")
}
