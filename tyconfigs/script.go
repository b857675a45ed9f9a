package tyconfigs

import (
	"fmt"
	"io"

	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/configs"
	"github.com/reusee/tyvm/tyasm"
	"github.com/reusee/tyvm/tyvm"
)

var scriptFilenames = []string{
	"tyvmrc.cue",
	".tyvmrc.cue",
}

// ScriptPaths lists config scripts from /etc, the user config dir and the working directory, in run order.
func ScriptPaths() []string {
	return findFiles(scriptFilenames, true)
}

// ScriptFork runs each config script and forks scope with the globals it leaves behind.
// A global named like a configurable type or its config key overrides that type.
// Scripts run in order, so later scripts override earlier ones.
func ScriptFork(scope dscope.Scope, paths ...string) (dscope.Scope, error) {
	for _, path := range paths {
		asm, err := tyasm.LoadFile(path)
		if err != nil {
			return scope, err
		}

		vm := tyvm.NewVM()
		vm.Register(tyvm.Builtins(io.Discard)...)
		settings := tyvm.DefaultSettings()
		settings.StrictTypes = false
		settings.BreakInterrupts = false
		rt, err := tyvm.New(vm, asm, settings)
		if err != nil {
			return scope, err
		}
		if err := rt.Run(tyvm.Complete); err != nil {
			return scope, fmt.Errorf("config script %s: %w", path, err)
		}

		scope, err = configs.Fork(scope, func(yield func(string, any) bool) {
			for v := range rt.GlobalScope().Variables() {
				if !yield(v.Name, v.Value.Interface()) {
					return
				}
			}
		})
		if err != nil {
			return scope, fmt.Errorf("config script %s: %w", path, err)
		}
	}
	return scope, nil
}
