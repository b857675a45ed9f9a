package logs

import (
	"context"
	"log/slog"
	"slices"
)

type attrsKey struct{}

// WithAttrs attaches attrs to every record logged with ctx, like the assembly file of a session.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	var record slog.Record
	record.Add(args...)
	attrs := slices.Clip(prev)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, attr)
		return true
	})
	return context.WithValue(ctx, attrsKey{}, attrs)
}

// Handler decorates records with the span and attrs carried by the record's context.
type Handler struct {
	slog.Handler
}

func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if ctx != nil {
		if attrs, ok := ctx.Value(attrsKey{}).([]slog.Attr); ok {
			record.AddAttrs(attrs...)
		}
		if span, ok := SpanFrom(ctx); ok {
			record.AddAttrs(slog.String("span", string(span)))
		}
	}
	return h.Handler.Handle(ctx, record)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{h.Handler.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{h.Handler.WithGroup(name)}
}
