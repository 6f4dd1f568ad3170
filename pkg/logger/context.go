package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const attrsKey ctxKey = "log_attrs"

// With returns a context carrying fields that every *Context log call made
// with it will include.
func With(ctx context.Context, fields ...any) context.Context {
	rec := slog.Record{}
	rec.Add(fields...)
	attrs := append([]slog.Attr{}, attrsFrom(ctx)...)
	rec.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return context.WithValue(ctx, attrsKey, attrs)
}

// From returns the process logger with the context fields attached.
func From(ctx context.Context) *slog.Logger {
	l := LoggerWrapper()
	attrs := attrsFrom(ctx)
	if len(attrs) == 0 {
		return l
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return l.With(args...)
}

func attrsFrom(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(attrsKey).([]slog.Attr)
	return attrs
}

// contextHandler copies the fields stored by With onto each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFrom(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}
