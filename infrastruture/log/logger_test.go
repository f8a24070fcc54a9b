package logger

import (
	"bytes"
	"testing"

	"github.com/beka-birhanu/gridbot/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	t.Run("writes named messages at or above the level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithLevel("SIM", config.ColorCyan, &buf, "info")
		require.NoError(t, err)

		l.Debug("hidden")
		l.Info("robot moved")
		l.Warning("history evicted")
		l.Error("render failed")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "[SIM]")
		assert.Contains(t, out, "robot moved")
		assert.Contains(t, out, "history evicted")
		assert.Contains(t, out, "render failed")
	})

	t.Run("debug level", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := NewWithLevel("SIM", config.ColorCyan, &buf, "debug")
		require.NoError(t, err)
		l.Debug("step 1")
		assert.Contains(t, buf.String(), "step 1")
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := NewWithLevel("SIM", config.ColorCyan, &bytes.Buffer{}, "loud")
		assert.Error(t, err)
	})

	t.Run("nil writer", func(t *testing.T) {
		_, err := NewWithLevel("SIM", config.ColorCyan, nil, "info")
		assert.Error(t, err)
	})
}
