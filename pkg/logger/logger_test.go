package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	l.With(String("symbol", "SPY")).Info("analysis done",
		Int("bars", 1260),
		Float64("avg", 0.5),
		Bool("cached", true),
		Duration("took", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.True(t, strings.Contains(out, `"symbol":"SPY"`))
	assert.True(t, strings.Contains(out, `"bars":1260`))
	assert.True(t, strings.Contains(out, `"cached":true`))
	assert.True(t, strings.Contains(out, `"took":1500`))
	assert.True(t, strings.Contains(out, `"error":"boom"`))
}

func TestLevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "warn", Format: "json", Output: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Warn("shown")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hidden")
	assert.Contains(t, string(b), "shown")
}

func TestNopDoesNotPanic(t *testing.T) {
	l := Nop()
	l.Error("ignored", Any("k", map[string]int{"a": 1}))
}
