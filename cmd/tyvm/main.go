package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/e5"
	"github.com/reusee/tyvm/cmds"
	"github.com/reusee/tyvm/logs"
	"github.com/reusee/tyvm/modes"
	"github.com/reusee/tyvm/tyconfigs"
	"github.com/tebeka/atexit"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

// action is chosen by the command line and run once flags are all parsed
var action func(ctx context.Context, scope dscope.Scope) error

func setAction(fn func(ctx context.Context, scope dscope.Scope) error) {
	if action != nil {
		exit(fmt.Errorf("more than one command given"))
	}
	action = fn
}

func main() {
	if err := cmds.Execute(os.Args[1:]); err != nil {
		exit(err)
	}
	if action == nil {
		cmds.GlobalExecutor.PrintUsage()
		atexit.Exit(2)
	}

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)
	scope, err := tyconfigs.ScriptFork(scope, tyconfigs.ScriptPaths()...)
	if err != nil {
		exit(wrap(err))
	}

	newSpan := dscope.Get[logs.NewSpan](scope)
	ctx, _ := newSpan(dscope.Get[context.Context](scope), "")

	if err := action(ctx, scope); err != nil {
		exit(logs.WrapSpan(ctx, err))
	}
	atexit.Exit(0)
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	atexit.Exit(1)
}
