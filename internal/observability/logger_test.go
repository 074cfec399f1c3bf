package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobcards-parser/internal/config"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "url", "https://example.com")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "https://example.com", rec["url"])
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "debug").With("component", "scraper")

	logger.Debug("parsed", "cards", 2)

	assert.Contains(t, buf.String(), `"component":"scraper"`)
	assert.Contains(t, buf.String(), `"cards":2`)
}

func TestNewLoggerWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobcards.log")
	logger := NewLogger(config.ObservabilityConfig{
		LogPath:      path,
		LogLevel:     "info",
		LogMaxSizeMB: 1,
	})

	logger.Info("written to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNopLoggerClose(t *testing.T) {
	assert.NoError(t, Nop().Close())
}
