package logger

import (
	"context"
	"log/slog"

	"github.com/phrazzld/flashlists/internal/redact"
)

// redactedKeys are attribute keys whose values are always passed through redact.
var redactedKeys = map[string]bool{
	"error":  true,
	"err":    true,
	"cause":  true,
	"dsn":    true,
	"detail": true,
}

// RedactingHandler wraps another handler and scrubs error attributes so
// credentials and addresses inside wrapped errors never reach the log sink.
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps h.
func NewRedactingHandler(h slog.Handler) *RedactingHandler {
	return &RedactingHandler{handler: h}
}

// Enabled implements the slog.Handler interface.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = scrub(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(scrubbed)}
}

// WithGroup implements the slog.Handler interface.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(scrub(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

func scrub(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		group := v.Group()
		scrubbed := make([]any, len(group))
		for i, ga := range group {
			scrubbed[i] = scrub(ga)
		}
		return slog.Group(a.Key, scrubbed...)
	}
	if !redactedKeys[a.Key] {
		return a
	}
	if err, ok := v.Any().(error); ok {
		return slog.String(a.Key, redact.Error(err))
	}
	if v.Kind() == slog.KindString {
		return slog.String(a.Key, redact.String(v.String()))
	}
	return a
}
