package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		env      string
		wantJSON bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Writer: &buf, Environment: tt.env}).Info("hello")

			var decoded map[string]any
			isJSON := json.Unmarshal(buf.Bytes(), &decoded) == nil
			assert.Equal(t, tt.wantJSON, isJSON, buf.String())
		})
	}
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: FormatJSON})

	l.Info("corpus loaded", "poems", 12)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "corpus loaded", decoded["msg"])
	assert.EqualValues(t, 12, decoded["poems"])
}

func TestNew_TextFormatHasNoColor(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Writer: &buf, Format: FormatText}).Info("plain", "k", "v")

	assert.NotContains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "INF plain k=v")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))
	assert.True(t, h.Enabled(ctx, slog.LevelError))

	assert.True(t, NewPrettyHandler(&bytes.Buffer{}, nil).Enabled(ctx, slog.LevelInfo))
	assert.False(t, NewPrettyHandler(&bytes.Buffer{}, nil).Enabled(ctx, slog.LevelDebug))
}

func TestPrettyHandler_FormatsLine(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, nil).WithoutColor())

	l.Warn("reload failed", "source", "/tmp/poems.txt", "reason", "not found")

	line := buf.String()
	assert.True(t, strings.HasSuffix(line, "\n"))
	assert.Contains(t, line, "WRN reload failed")
	assert.Contains(t, line, "source=/tmp/poems.txt")
	assert.Contains(t, line, `reason="not found"`)
}

func TestPrettyHandler_Colors(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, nil)).Error("boom")

	assert.Contains(t, buf.String(), colorRed+"ERR"+colorReset)
	assert.Contains(t, buf.String(), colorBold+"boom"+colorReset)
}

func TestPrettyHandler_GroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewPrettyHandler(&buf, nil).WithoutColor())

	l.With("a", 1).WithGroup("http").With("route", "/poems").Info("req",
		"status", 200,
		slog.Group("timing", "ms", 3),
	)

	line := buf.String()
	assert.Contains(t, line, "a=1")
	assert.Contains(t, line, "http.route=/poems")
	assert.Contains(t, line, "http.status=200")
	assert.Contains(t, line, "http.timing.ms=3")
}

func TestPrettyHandler_WithGroupEmptyName(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.Same(t, h, h.WithGroup(""))
}

func TestPrettyHandler_WithAttrsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewPrettyHandler(&buf, nil).WithoutColor())

	_ = base.With("child", true)
	base.Info("parent")

	assert.NotContains(t, buf.String(), "child")
}

func TestPrettyHandler_Source(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{AddSource: true}).WithoutColor()).Info("x")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatLevel(t *testing.T) {
	s, c := formatLevel(slog.LevelDebug)
	assert.Equal(t, "DBG", s)
	assert.Equal(t, colorMagenta, c)

	s, c = formatLevel(slog.Level(2))
	assert.Equal(t, "INFO+2", s)
	assert.Equal(t, colorGray, c)
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "plain", formatValue(slog.StringValue("plain")))
	assert.Equal(t, `""`, formatValue(slog.StringValue("")))
	assert.Equal(t, `"two words"`, formatValue(slog.StringValue("two words")))
	assert.Equal(t, "2026-03-01T12:00:00Z", formatValue(slog.TimeValue(ts)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
	assert.Equal(t, "true", formatValue(slog.BoolValue(true)))
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: FormatText})

	assert.Same(t, l, l.WithError(nil))

	l.WithComponent("watcher").WithError(errors.New("gone")).WithField("path", "/p").Info("event")

	line := buf.String()
	assert.Contains(t, line, "component=watcher")
	assert.Contains(t, line, "error=gone")
	assert.Contains(t, line, "path=/p")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Writer: &buf, Format: FormatText, Level: slog.LevelWarn})

	l.Debug("d")
	l.Info("i")
	l.Warn("w")

	assert.NotContains(t, buf.String(), " d")
	assert.NotContains(t, buf.String(), "INF")
	assert.Contains(t, buf.String(), "WRN w")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	require.NotNil(t, l)
	l.Error("nothing happens")
}
