package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "json", "info")

	logger.Debug("hidden")
	logger.Info("order placed", "order_id", "o-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "only the info line should be written")
	assert.Equal(t, "order placed", entry["msg"])
	assert.Equal(t, "o-1", entry["order_id"])
}

func TestNewWithWriter_TextAddsSource(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, "text", "debug").Debug("hello")
	assert.Contains(t, buf.String(), "source=")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("nonsense"))
}
