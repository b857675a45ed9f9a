package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/cmds"
	"github.com/reusee/tyvm/debugs"
	"github.com/reusee/tyvm/tyvm"
)

func init() {
	cmds.Define("step", cmds.Func(func(path string) {
		setAction(func(_ context.Context, scope dscope.Scope) error {
			asm, err := loadAssembly(path)
			if err != nil {
				return err
			}
			rt, err := newRuntime(scope, asm, os.Stdout)
			if err != nil {
				return wrap(err)
			}
			return debug(rt)
		})
	}).Desc("debug an assembly one instruction at a time"))
}

func debug(rt *tyvm.Runtime) error {
	var historyFile string
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".tyvm_history")
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      "(tyvm) ",
		HistoryFile: historyFile,
	})
	if err != nil {
		return wrap(err)
	}
	defer rl.Close()

	d := &debugger{
		rt:  rt,
		out: rl.Stdout(),
	}
	d.where()
	for {
		line, err := rl.Readline()
		if err != nil { // Ctrl-C or Ctrl-D
			return nil
		}
		if quit := d.exec(strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

type debugger struct {
	rt  *tyvm.Runtime
	out io.Writer
}

// exec runs one debugger command and reports whether to quit
func (d *debugger) exec(line string) (quit bool) {
	switch line {

	case "", "s", "step":
		more, err := d.rt.Step()
		if err != nil {
			fmt.Fprintf(d.out, "error: %v\n", err)
			return false
		}
		if !more {
			fmt.Fprintf(d.out, "end after %d steps\n", d.rt.Steps())
			return false
		}
		d.where()

	case "c", "continue":
		if err := d.rt.Resume(); err != nil {
			fmt.Fprintf(d.out, "error: %v\n", err)
			return false
		}
		if !d.rt.Running() {
			fmt.Fprintf(d.out, "end after %d steps\n", d.rt.Steps())
			return false
		}
		d.where()

	case "v", "vars":
		vars := debugs.VisibleVariables(d.rt)
		for _, name := range slices.Sorted(maps.Keys(vars)) {
			fmt.Fprintf(d.out, "%s = %v\n", name, vars[name])
		}

	case "w", "where":
		d.where()

	case "q", "quit":
		return true

	default:
		fmt.Fprintf(d.out, "commands: step (s), continue (c), vars (v), where (w), quit (q)\n")
	}
	return false
}

func (d *debugger) where() {
	scope := d.rt.CurrentScope()
	inst := scope.Current()
	if inst == nil {
		fmt.Fprintf(d.out, "at end\n")
		return
	}
	method := inst.Method
	if method == "" {
		method = "<global>"
	}
	fmt.Fprintf(d.out, "%s %04d %s\n", method, inst.Offset, inst)
}
