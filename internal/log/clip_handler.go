package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultMaxValueLen is the longest string attribute written unchanged.
const DefaultMaxValueLen = 200

// ClipHandler wraps an slog.Handler and shortens string attributes longer
// than maxLen before passing the record on.
type ClipHandler struct {
	handler slog.Handler
	maxLen  int
}

// NewClipHandler creates a ClipHandler around handler.
// If handler is nil, slog.Default().Handler() is used; a non-positive
// maxLen falls back to DefaultMaxValueLen.
func NewClipHandler(handler slog.Handler, maxLen int) *ClipHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &ClipHandler{handler: handler, maxLen: maxLen}
}

// Enabled delegates to the underlying handler.
func (h *ClipHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle clips the record's attributes and passes it to the underlying handler.
func (h *ClipHandler) Handle(ctx context.Context, r slog.Record) error {
	clipped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clipped.AddAttrs(h.clipAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clipped)
}

// WithAttrs returns a new handler with the given (clipped) attributes added.
func (h *ClipHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clipped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clipped[i] = h.clipAttr(a)
	}
	return &ClipHandler{handler: h.handler.WithAttrs(clipped), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *ClipHandler) WithGroup(name string) slog.Handler {
	return &ClipHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// clipAttr shortens a single attribute, recursing into groups.
func (h *ClipHandler) clipAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			clipped[i] = h.clipAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, Clip(a.Value.String(), h.maxLen))
	}

	return a
}

// Clip shortens s to at most maxLen runes and notes how many were dropped.
func Clip(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return fmt.Sprintf("%s...(+%d chars)", string(runes[:maxLen]), len(runes)-maxLen)
}

// level maps the verbose flag to a log level: Debug when verbose, Warn otherwise.
func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text logger writing to w.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewClipHandler(textHandler, DefaultMaxValueLen))
}

// NewJSONLogger creates a logger writing JSON lines to w.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level(verbose)})
	return slog.New(NewClipHandler(jsonHandler, DefaultMaxValueLen))
}
