package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

func consoleHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "pretty":
		charm := log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
			Level:           charmLevel(opts.Level.Level()),
		})

		return &redacted{inner: charm, replace: opts.ReplaceAttr}
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

// charmLevel rounds an slog level down to the nearest charm level. Trace
// shows as debug.
func charmLevel(l slog.Level) log.Level {
	switch {
	case l >= slog.LevelError:
		return log.ErrorLevel
	case l >= slog.LevelWarn:
		return log.WarnLevel
	case l >= slog.LevelInfo:
		return log.InfoLevel
	}

	return log.DebugLevel
}

// fanout sends each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, l) {
			return true
		}
	}

	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler signature
	var errs []error

	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}

	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}

	return out
}

// redacted applies a ReplaceAttr func in front of a handler that has no
// HandlerOptions of its own, such as charm's.
type redacted struct {
	inner   slog.Handler
	replace func([]string, slog.Attr) slog.Attr
	groups  []string
}

func (h *redacted) Enabled(ctx context.Context, l slog.Level) bool {
	return h.inner.Enabled(ctx, l)
}

func (h *redacted) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler signature
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.replace(h.groups, a))
		return true
	})

	return h.inner.Handle(ctx, out)
}

func (h *redacted) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		clean = append(clean, h.replace(h.groups, a))
	}

	return &redacted{inner: h.inner.WithAttrs(clean), replace: h.replace, groups: h.groups}
}

func (h *redacted) WithGroup(name string) slog.Handler {
	return &redacted{
		inner:   h.inner.WithGroup(name),
		replace: h.replace,
		groups:  append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}
