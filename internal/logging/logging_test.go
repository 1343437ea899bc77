package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredOutputIsJSON(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	ForService("gallery").Info("slot persisted", "items", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(structured.Bytes(), &record))
	assert.Equal(t, "gallery", record["service"])
	assert.Equal(t, "slot persisted", record["msg"])
	assert.InDelta(t, 3, record["items"], 0.001)
}

func TestOperatorChannelTagged(t *testing.T) {
	var structured, human bytes.Buffer
	SetOutput(&structured, &human)

	Operator().Warn("gallery persist failed")

	assert.Contains(t, structured.String(), `"channel":"operator"`)
}

func TestCustomLevelNames(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, handlerOptions(LevelTrace)))

	logger.Log(context.Background(), LevelTrace, "very detailed")
	logger.Log(context.Background(), LevelFatal, "unrecoverable")

	assert.Contains(t, buf.String(), `"level":"TRACE"`)
	assert.Contains(t, buf.String(), `"level":"FATAL"`)
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "planktos.log")

	logger, closer, err := NewFileLogger(path, "server", slog.LevelInfo, FileLoggerConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	logger.Info("started")

	// lumberjack creates the file on first write
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"service":"server"`)
	assert.Contains(t, string(data), "started")
}
