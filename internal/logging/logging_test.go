package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")

	l.Info("hidden")
	l.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud")

	l.Debug("debug line")
	l.Info("info line")

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestComponent_TagsEntries(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, "info"), "cache")

	l.Info("evicted")

	assert.Contains(t, buf.String(), "component=cache")
}

func TestComponent_NilLoggerIsSafe(t *testing.T) {
	l := Component(nil, "cache")
	assert.NotPanics(t, func() { l.Error("nothing") })
}
