package debugs

import (
	"context"
	"maps"
	"slices"

	"github.com/reusee/tyvm/logs"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Tap opens a starlark REPL on stdin with globals bound, returning when stdin ends.
type Tap func(ctx context.Context, what string, globals map[string]any)

func (Module) Tap(
	logger logs.Logger,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) {
		bindings := make(starlark.StringDict, len(globals))
		for _, name := range slices.Sorted(maps.Keys(globals)) {
			value, err := ToStarlark(globals[name])
			if err != nil {
				logger.WarnContext(ctx, "tap: skip global",
					"name", name,
					"error", err,
				)
				continue
			}
			bindings[name] = value
		}

		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Sorted(maps.Keys(bindings)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		repl.REPLOptions(&syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
		}, &starlark.Thread{
			Name: what,
		}, bindings)
	}
}
