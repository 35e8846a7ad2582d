package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, InfoLevel).Named("test")
	l.Debug("hidden")
	l.Info("visible", String("driver", "NOR"), Int("samples", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "test", rec["logger"])
	assert.Equal(t, "NOR", rec["driver"])
	assert.InDelta(t, 3, rec["samples"], 0)
}

func TestWithFilter(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, DebugLevel)
	l, err := base.WithFilter("info:*")
	require.NoError(t, err)

	l.Named("telemetry").Debug("dropped")
	l.Named("telemetry").Info("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")

	_, err = base.WithFilter("nonsense:*")
	assert.Error(t, err)
}

func TestGetFromContext(t *testing.T) {
	assert.Same(t, Default(), GetFromContext(context.Background()))

	var buf bytes.Buffer
	l := New(&buf, InfoLevel)
	ctx := AddToContext(context.Background(), l)
	assert.Same(t, l, GetFromContext(ctx))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
