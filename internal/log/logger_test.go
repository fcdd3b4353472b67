package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superchargeai/supercharge/internal/errors"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("anything else"))
}

func TestLoggerTextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	logger.Info("workspace created", "task_id", "abc")

	out := buf.String()
	assert.Contains(t, out, "workspace created")
	assert.Contains(t, out, "task_id=abc")
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("scan complete", "stale", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scan complete", entry["msg"])
	assert.Equal(t, float64(3), entry["stale"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Format: FormatText, Output: &buf})

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatText, Output: &buf})

	err := errors.NewRecursionExhaustedError()
	logger.WithError(err).Error("spawn rejected")

	out := buf.String()
	assert.Contains(t, out, "RECURSION-001")
	assert.True(t, strings.Contains(out, "spawn rejected"))
}

func TestDefaultLoggerLazyInit(t *testing.T) {
	SetDefaultLogger(nil)
	logger := DefaultLogger()
	require.NotNil(t, logger)
	assert.Same(t, logger, DefaultLogger())
}
