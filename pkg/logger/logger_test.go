package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("hidden %d", 1)
	log.Warn("visible %d", 2)
	log.Error("also visible %s", "x")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible 2")
	assert.Contains(t, out, "also visible x")
}

func TestParseLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "", "warning", "error"} {
		_, err := ParseLevel(lvl)
		assert.NoError(t, err, lvl)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_WithFile(t *testing.T) {
	file := t.TempDir() + "/logs/service.log"

	log, err := New(file, "info")
	require.NoError(t, err)
	log.Info("hello")
	assert.NoError(t, log.Close())
}
