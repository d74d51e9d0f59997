package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithOutput_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithOutput("warn", &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("symbol", "^NSEI").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	require.Equal(t, "warn", rec["level"])
	require.Equal(t, "shown", rec["message"])
	require.Equal(t, "^NSEI", rec["symbol"])
}

func TestNamed_AddsComponent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithOutput("debug", &buf).Named("stock")
	l.Debug().Msg("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	require.Equal(t, "stock", rec["component"])
}

func TestNewSilent_DiscardsOutput(t *testing.T) {
	t.Parallel()

	l := NewSilent()
	require.NotPanics(t, func() { l.Error().Msg("nothing") })
}
