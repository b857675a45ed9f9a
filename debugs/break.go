package debugs

import (
	"context"
	"fmt"

	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/logs"
	"github.com/reusee/tyvm/tyvm"
)

// BreakHandler taps into every break instruction with the variables visible at that point.
type BreakHandler = tyvm.BreakHandler

func (Module) BreakHandler(
	tap Tap,
) BreakHandler {
	return func(rt *tyvm.Runtime, inst *asms.Instruction) {
		ctx := logs.WithSpan(context.Background(), logs.Span(rt.ID()))
		tap(ctx, breakPoint(inst), VisibleVariables(rt))
	}
}

// VisibleVariables maps each variable name visible from the current scope to its value.
// Inner declarations shadow outer ones.
func VisibleVariables(rt *tyvm.Runtime) map[string]any {
	ret := make(map[string]any)
	for scope := rt.CurrentScope(); scope != nil; scope = scope.Parent {
		for v := range scope.Variables() {
			name := starlarkName(v.Name)
			if _, ok := ret[name]; ok {
				continue
			}
			ret[name] = v.Value
		}
	}
	ret["steps"] = rt.Steps()
	return ret
}

func breakPoint(inst *asms.Instruction) string {
	method := inst.Method
	if method == "" {
		method = "<global>"
	}
	return fmt.Sprintf("break at %s:%04d", method, inst.Offset)
}

// global names carry a $ prefix, which is not a starlark identifier
func starlarkName(name string) string {
	if len(name) > 0 && name[0] == '$' {
		return "g_" + name[1:]
	}
	return name
}
