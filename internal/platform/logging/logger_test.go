package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"msg":"quotes loaded"`, `"service_name":"vows"`, `"count":3`}},
		{"JSON", []string{`"msg":"quotes loaded"`}},
		{"text", []string{`msg="quotes loaded"`, "service_version=1.2.3", "count=3"}},
		{"pretty", []string{"quotes loaded", "count=3"}},
		{"", []string{`"msg":"quotes loaded"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithWriter(&Config{Level: "info", Format: tt.format, Service: "vows", Version: "1.2.3"}, &buf)

			logger.Info("quotes loaded", slog.Int("count", 3))

			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "trace", Format: "json"}, &buf)

	logger.Log(context.Background(), LevelTrace, "page fetched")

	assert.Contains(t, buf.String(), "page fetched")
}

func TestNewWithWriter_PrettyRedacts(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: "info", Format: "pretty"}, &buf)

	logger.With(slog.String("apiKey", "rw-secret")).
		WithGroup("export").
		Info("ingesting", slog.String("password", "hunter2"), slog.Int("page", 2))

	assert.Contains(t, buf.String(), "ingesting")
	assert.NotContains(t, buf.String(), "rw-secret")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestNewWithWriter_RollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vows.log")

	var buf bytes.Buffer
	logger := NewWithWriter(&Config{
		Level:  "info",
		Format: "text",
		File:   FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1},
	}, &buf)

	logger.With(slog.String("person", "Sam")).WithGroup("draft").
		Info("draft ready", slog.String("token", "Token rw-abc123"))
	logger.Debug("below level")

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `msg="draft ready"`)
	assert.Contains(t, string(content), `"msg":"draft ready"`)
	assert.Contains(t, string(content), `"person":"Sam"`)
	assert.Contains(t, string(content), `"draft":{`)
	assert.NotContains(t, string(content), "rw-abc123")
	assert.NotContains(t, string(content), "below level")
}

func TestNewWithWriter_FileDisabledWithoutPath(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{File: FileConfig{Enabled: true}}, &buf)

	_, isFanout := logger.Handler().(fanout)
	assert.False(t, isFanout)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestCharmLevel(t *testing.T) {
	tests := map[slog.Level]log.Level{
		LevelTrace:          log.DebugLevel,
		slog.LevelDebug:     log.DebugLevel,
		slog.LevelInfo:      log.InfoLevel,
		slog.LevelInfo + 2:  log.InfoLevel,
		slog.LevelWarn:      log.WarnLevel,
		slog.LevelError:     log.ErrorLevel,
		slog.LevelError + 4: log.ErrorLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, charmLevel(in), "level %v", in)
	}
}

func TestFanout(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := fanout{
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}

	ctx := context.Background()
	assert.True(t, h.Enabled(ctx, slog.LevelDebug))
	assert.False(t, h.Enabled(ctx, LevelTrace))

	logger := slog.New(h).With(slog.String("op", "generate")).WithGroup("g")
	logger.Debug("quiet")
	logger.Warn("loud", slog.Int("n", 1))

	assert.Contains(t, debugBuf.String(), "quiet")
	assert.Contains(t, debugBuf.String(), "loud")
	assert.NotContains(t, warnBuf.String(), "quiet")
	assert.Contains(t, warnBuf.String(), `"op":"generate"`)
	assert.Contains(t, warnBuf.String(), `"g":{"n":1}`)
}
