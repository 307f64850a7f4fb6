package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/config"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipebook.log")

	logger, closer, err := New(config.LoggingConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("service", "test").Msg("written")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test", entry["service"])
	assert.Equal(t, "written", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "console", "", zerolog.WarnLevel)

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}
