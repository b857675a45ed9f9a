package logs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Span identifies a unit of work, such as one VM session, across log records.
type Span string

type spanKey struct{}

var SpanKey spanKey

func SpanFrom(ctx context.Context) (Span, bool) {
	span, ok := ctx.Value(SpanKey).(Span)
	return span, ok
}

// WithSpan attaches an existing span, like a runtime session id, to ctx.
func WithSpan(ctx context.Context, span Span) context.Context {
	return context.WithValue(ctx, SpanKey, span)
}

// WrapSpan annotates err with the span of ctx.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	span, ok := SpanFrom(ctx)
	if !ok {
		return err
	}
	return errors.Join(err, fmt.Errorf("span: %s", span))
}

type NewSpan func(ctx context.Context, parent Span) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span) (context.Context, Span) {
		creator, _ := SpanFrom(ctx)
		if parent == "" {
			parent = creator
		}

		span := Span(uuid.NewString())
		ctx = WithSpan(ctx, span)

		var args []any
		if creator != "" && creator != parent {
			args = append(args, "creator", creator)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		logger.DebugContext(ctx, "new span", args...)

		return ctx, span
	}
}
