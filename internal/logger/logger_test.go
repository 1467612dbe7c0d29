package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_RoleAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "test-role", false)

	l.Warn().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-role", entry["role"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

func TestNewLogger_Verbosity(t *testing.T) {
	var quiet, verbose bytes.Buffer

	NewLogger(&quiet, "r", false).Info().Msg("note")
	NewLogger(&verbose, "r", true).Info().Msg("note")

	assert.Empty(t, quiet.String(), "info entries need verbose")
	assert.Contains(t, verbose.String(), `"message":"note"`)
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	require.NotNil(t, l)
	l.Logger = l.Output(&buf)

	l.Error().Msg("should be discarded")

	assert.Empty(t, buf.String(), "Nop logger should produce no output")
}
