package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ComponentLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	// 先声明 logger，再切换输出
	l := Logger("core/test")

	buf := &bytes.Buffer{}
	Setup(buf, LevelDebug, FormatText)

	l.Error("Error performing CREATE of x: boom", "status", 400)

	out := buf.String()
	assert.Contains(t, out, "component=core/test")
	assert.Contains(t, out, "status=400")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "ts=")
}

func TestSetup_LevelFilter(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	buf := &bytes.Buffer{}
	Setup(buf, LevelError, FormatJSON)

	l := Logger("core/test")
	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, `"msg":"shown"`), out)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestLogger_Component(t *testing.T) {
	assert.Equal(t, "core/agent", Logger("core/agent").Component())
	assert.NotNil(t, Discard())
}
