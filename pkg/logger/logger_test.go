package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.DebugLevel))
	require.NoError(t, err)

	log.Error("Command failed", errors.New("boom"), "window", "0xabc", "dangling")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Command failed", entry["message"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "0xabc", entry["window"])
	assert.Equal(t, "logger_test.go", entry["file"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogger(WithWriter(&buf), WithLevel(zerolog.InfoLevel))
	require.NoError(t, err)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestAddWriter(t *testing.T) {
	var first, second bytes.Buffer
	log, err := NewLogger(WithWriter(&first))
	require.NoError(t, err)

	log.AddWriter(&second)
	log.Info("both")

	assert.Contains(t, first.String(), "both")
	assert.Contains(t, second.String(), "both")
}

func TestWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	log, err := NewLogger(WithFile(path))
	require.NoError(t, err)
	defer log.Close()

	log.Info("to file")
	assert.FileExists(t, path)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("nothing", "k", "v")
	log.Error("nothing", errors.New("x"))
}
