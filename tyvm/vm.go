package tyvm

import (
	"fmt"
	"maps"
	"slices"

	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/values"
)

// BreakHandler is called when a break instruction executes.
type BreakHandler func(rt *Runtime, inst *asms.Instruction)

// VM holds the host function table and executes instructions for runtimes.
// Register host functions before running sessions; the table is read without locking.
type VM struct {
	hosts   map[string]HostFunc
	onBreak BreakHandler
}

func NewVM() *VM {
	return &VM{
		hosts: make(map[string]HostFunc),
	}
}

func (v *VM) Register(fns ...HostFunc) {
	for _, fn := range fns {
		v.hosts[fn.Name] = fn
	}
}

func (v *VM) HostFunc(name string) (HostFunc, bool) {
	fn, ok := v.hosts[name]
	return fn, ok
}

func (v *VM) HostFuncNames() []string {
	return slices.Sorted(maps.Keys(v.hosts))
}

func (v *VM) OnBreak(fn BreakHandler) {
	v.onBreak = fn
}

// Execute runs the instruction at the current scope's cursor and reports whether work remains.
func (v *VM) Execute(rt *Runtime) (more bool, err error) {
	detached, err := v.unwind(rt)
	if err != nil {
		return false, err
	}
	if detached {
		return true, nil
	}
	scope := rt.CurrentScope()
	inst := scope.Current()
	if inst == nil {
		// global stream exhausted
		return false, nil
	}

	rt.steps++
	if rt.settings.Trace {
		rt.logger.Debug("exec",
			"method", inst.Method,
			"offset", inst.Offset,
			"inst", inst.String(),
			"depth", scope.depth,
		)
	}
	if err := v.exec(rt, scope, inst); err != nil {
		return false, fault(inst, err)
	}

	if detached, err := v.unwind(rt); err != nil {
		return false, err
	} else if detached {
		return true, nil
	}
	return !rt.CurrentScope().atEnd(), nil
}

// unwind ends exhausted method and block scopes. Falling off a method returns unit.
// detached reports that a host invocation frame ended, which has no caller to resume.
func (v *VM) unwind(rt *Runtime) (detached bool, err error) {
	for {
		scope := rt.CurrentScope()
		if scope.IsGlobal() || !scope.atEnd() {
			return false, nil
		}
		if scope.block {
			if err := rt.leaveBlock(); err != nil {
				return false, err
			}
			continue
		}
		if err := v.finishCall(rt, scope, values.Unit()); err != nil {
			return false, err
		}
		if scope.call == nil {
			return true, nil
		}
	}
}

// finishCall ends the method scope and delivers result to the call site.
func (v *VM) finishCall(rt *Runtime, scope *Scope, result values.Value) error {
	if m := scope.Method; m != nil && rt.settings.StrictTypes && m.Returns != "" {
		if !values.Admits(m.Returns, result) {
			return fmt.Errorf("%w: %s returns %s, got %s", values.ErrTypeMismatch, m.Name, m.Returns, result.Kind())
		}
	}
	rt.EndScope(result)
	if scope.call == nil {
		return nil
	}
	caller := rt.CurrentScope()
	if _, target, _ := scope.call.CallTarget(); target != nil {
		if err := v.store(rt, caller, target, result); err != nil {
			return fault(scope.call, err)
		}
	}
	caller.Position++
	return nil
}

// Invoke calls a method or host function directly, outside the global stream.
// Script methods run to completion on a private loop; an interrupt raised during the call abandons it with unit.
// An interrupt pending before the call is held back and restored afterwards.
func (v *VM) Invoke(rt *Runtime, name string, args []values.Value) (values.Value, error) {
	if pending := rt.interrupted.Swap(false); pending {
		defer rt.interrupted.Store(true)
	}
	if m := rt.asm.FindMethod(name); m != nil && !m.Native {
		base := rt.current
		frame, err := rt.BeginScope(m, args)
		if err != nil {
			return values.Unit(), err
		}
		restore := func() {
			rt.current = base
		}
		for !frame.ended {
			if rt.interrupted.Load() {
				restore()
				rt.logger.Info("invoke interrupted", "session", rt.id, "method", name)
				return values.Unit(), nil
			}
			if _, err := v.Execute(rt); err != nil {
				restore()
				return values.Unit(), err
			}
		}
		restore()
		return frame.Result, nil
	}
	if fn, ok := v.hosts[name]; ok {
		return fn.Call(rt, args)
	}
	return values.Unit(), unresolvedFunction(name)
}
