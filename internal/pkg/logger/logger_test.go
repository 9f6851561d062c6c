package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopeople/internal/pkg/logger"
)

func TestLogger_WritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("debug", &buf)

	log.Info("Pessoa criada.", map[string]interface{}{"id": "abc"})

	var entry logger.LogEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "Pessoa criada.", entry.Message)
	assert.Equal(t, "abc", entry.Fields["id"])
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("warn", &buf)

	log.Debug("debug", nil)
	log.Info("info", nil)
	log.Warn("warn", nil)
	log.Error("error", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"WARN"`)
	assert.Contains(t, lines[1], `"error":"boom"`)
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("verbose", &buf)

	log.Debug("hidden", nil)
	log.Info("shown", nil)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
