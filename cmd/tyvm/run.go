package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/cmds"
	"github.com/reusee/tyvm/debugs"
	"github.com/reusee/tyvm/logs"
	"github.com/reusee/tyvm/syncs"
	"github.com/reusee/tyvm/tyvm"
	"github.com/tebeka/atexit"
)

var (
	timeoutFlag = cmds.Var[time.Duration]("-timeout")
	jobsFlag    = cmds.Var[int]("-jobs")
	tapFlag     = cmds.Switch("-tap")

	runPaths []string
)

func init() {
	cmds.Define("run", cmds.Func(func(path string) {
		if len(runPaths) == 0 {
			setAction(func(ctx context.Context, scope dscope.Scope) error {
				return runFiles(ctx, scope, runPaths, *jobsFlag, os.Stdout)
			})
		}
		runPaths = append(runPaths, path)
	}).Desc("run an assembly to its end; repeat to run several, -jobs at a time"))

	cmds.Define("build", cmds.Func(func(src, out string) {
		setAction(func(_ context.Context, _ dscope.Scope) error {
			return buildAssembly(src, out)
		})
	}).Desc("compile a CUE source to a binary assembly"))

	cmds.Define("dump", cmds.Func(func(path string) {
		setAction(func(_ context.Context, _ dscope.Scope) error {
			asm, err := loadAssembly(path)
			if err != nil {
				return err
			}
			return asm.WriteListing(os.Stdout)
		})
	}).Desc("print the listing of an assembly"))
}

func newRuntime(scope dscope.Scope, asm *asms.Assembly, out io.Writer) (rt *tyvm.Runtime, err error) {
	scope.Call(func(
		settings *tyvm.Settings,
		onBreak debugs.BreakHandler,
	) {
		vm := tyvm.NewVM()
		vm.Register(tyvm.Builtins(out)...)
		if *tapFlag {
			vm.OnBreak(onBreak)
		}
		rt, err = tyvm.New(vm, asm, settings)
	})
	return
}

func runFile(ctx context.Context, scope dscope.Scope, path string, out io.Writer) error {
	asm, err := loadAssembly(path)
	if err != nil {
		return err
	}
	rt, err := newRuntime(scope, asm, out)
	if err != nil {
		return wrap(err)
	}
	return runToEnd(logs.WithAttrs(ctx, "file", path), rt, *timeoutFlag)
}

// runFiles runs each file in its own session, at most jobs at once.
func runFiles(ctx context.Context, scope dscope.Scope, paths []string, jobs int, out io.Writer) error {
	if len(paths) == 1 {
		return runFile(ctx, scope, paths[0], out)
	}
	sem := syncs.NewSemaphore(jobs)
	out = &lockedWriter{w: out}
	errs := make([]error, len(paths))
	wg := new(sync.WaitGroup)
	for i, path := range paths {
		if err := sem.Acquire(ctx); err != nil {
			errs[i] = err
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release()
			if err := runFile(ctx, scope, path, out); err != nil {
				errs[i] = fmt.Errorf("%s: %w", path, err)
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// runToEnd resumes past breaks until the program ends, ctx is done or the timeout interrupts it.
func runToEnd(ctx context.Context, rt *tyvm.Runtime, timeout time.Duration) error {
	ctx = logs.WithSpan(ctx, logs.Span(rt.ID()))
	logger := rt.Logger()

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		atexit.Register(cancel)
		defer cancel()
	}

	for {
		if err := rt.ResumeContext(runCtx); err != nil {
			return logs.WrapSpan(ctx, err)
		}
		if !rt.Running() {
			return nil
		}
		if err := runCtx.Err(); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				logger.WarnContext(ctx, "timeout",
					"timeout", timeout,
					"steps", rt.Steps(),
				)
			}
			return nil
		}
	}
}
