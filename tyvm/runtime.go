package tyvm

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/values"
)

// Runtime is one execution session of an assembly.
// A session is single-threaded; only Interrupt may be called from other goroutines.
type Runtime struct {
	id       string
	vm       *VM
	asm      *asms.Assembly
	settings *Settings
	logger   *slog.Logger

	global  *Scope
	current *Scope
	last    *Scope

	interrupted atomic.Bool
	running     bool
	steps       int
}

func New(vm *VM, asm *asms.Assembly, settings *Settings) (*Runtime, error) {
	if vm == nil {
		return nil, argumentErrorf("nil vm")
	}
	if asm == nil || !asm.Finalized() {
		return nil, assemblyErrorf("assembly is not finalized")
	}
	if settings == nil {
		settings = DefaultSettings()
	}
	logger := settings.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	global := newScope(nil, asm.Code())
	if err := global.AddVariables(asm.Variables...); err != nil {
		return nil, err
	}

	return &Runtime{
		id:       uuid.NewString(),
		vm:       vm,
		asm:      asm,
		settings: settings,
		logger:   logger,
		global:   global,
	}, nil
}

func (r *Runtime) ID() string {
	return r.id
}

func (r *Runtime) VM() *VM {
	return r.vm
}

func (r *Runtime) Assembly() *asms.Assembly {
	return r.asm
}

func (r *Runtime) Settings() Settings {
	return *r.settings
}

func (r *Runtime) Logger() *slog.Logger {
	return r.logger
}

func (r *Runtime) GlobalScope() *Scope {
	return r.global
}

// CurrentScope returns the executing scope, the global scope when idle.
func (r *Runtime) CurrentScope() *Scope {
	if r.current == nil {
		return r.global
	}
	return r.current
}

// LastScope returns the most recently ended scope.
func (r *Runtime) LastScope() *Scope {
	return r.last
}

// Steps counts instructions executed since the session started.
func (r *Runtime) Steps() int {
	return r.steps
}

func (r *Runtime) Running() bool {
	return r.running
}

func (r *Runtime) Interrupted() bool {
	return r.interrupted.Load()
}

// Interrupt asks the session to stop before its next instruction.
func (r *Runtime) Interrupt() {
	r.interrupted.Store(true)
}

// Run executes the global stream. Complete runs until the stream ends or the session is interrupted,
// StepByStep executes one instruction.
func (r *Runtime) Run(mode RunMode) error {
	switch mode {
	case Complete:
		return r.runToEnd(context.Background(), true)
	case StepByStep:
		_, err := r.Step()
		return err
	}
	return argumentErrorf("unknown run mode %d", mode)
}

// Resume runs like Complete but keeps the session when interrupted, so stepping or resuming continues where it paused.
func (r *Runtime) Resume() error {
	return r.runToEnd(context.Background(), false)
}

// ResumeContext is Resume that also interrupts once ctx is done, including when ctx is already done.
func (r *Runtime) ResumeContext(ctx context.Context) error {
	return r.runToEnd(ctx, false)
}

func (r *Runtime) runToEnd(ctx context.Context, resetOnInterrupt bool) error {
	r.interrupted.Store(false)
	if ctx.Err() != nil {
		r.Interrupt()
	} else {
		// wait for a started callback so it cannot interrupt a later run
		fired := make(chan struct{})
		stop := context.AfterFunc(ctx, func() {
			r.Interrupt()
			close(fired)
		})
		defer func() {
			if !stop() {
				<-fired
			}
		}()
	}
	r.start()
	for {
		if r.interrupted.Load() {
			r.logger.Info("interrupted", "session", r.id, "steps", r.steps)
			if resetOnInterrupt {
				r.reset()
			}
			return nil
		}
		more, err := r.vm.Execute(r)
		if err != nil {
			r.fail(err)
			return err
		}
		if !more {
			r.reset()
			return nil
		}
	}
}

// Step executes one instruction and reports whether the session has more to run.
// The end of the global stream resets the session.
func (r *Runtime) Step() (bool, error) {
	r.interrupted.Store(false)
	r.start()
	more, err := r.vm.Execute(r)
	if err != nil {
		r.fail(err)
		return false, err
	}
	if !more {
		r.reset()
	}
	return more, nil
}

func (r *Runtime) start() {
	if r.running {
		return
	}
	r.running = true
	r.steps = 0
	r.logger.Debug("session start", "session", r.id)
}

func (r *Runtime) fail(err error) {
	r.logger.Debug("fault", "session", r.id, "error", err)
	r.reset()
}

func (r *Runtime) reset() {
	r.current = nil
	r.global.Position = 0
	r.running = false
	r.logger.Debug("session end", "session", r.id, "steps", r.steps)
}

// BeginScope enters m with args bound to its parameters and its locals zeroed.
func (r *Runtime) BeginScope(m *asms.MethodDefinition, args []values.Value) (*Scope, error) {
	if len(args) != len(m.Params) {
		return nil, argumentErrorf("%s expects %d arguments, got %d", m.Name, len(m.Params), len(args))
	}
	parent := r.CurrentScope()
	if limit := r.settings.MaxCallDepth; limit > 0 && parent.depth >= limit {
		return nil, fmt.Errorf("%w: %d calling %s", ErrCallDepth, limit, m.Name)
	}
	scope := parent.BeginScope(m.Code())
	scope.Method = m
	for i, p := range m.Params {
		variable := scope.bind(p.Name, p.Type, values.Zero(p.Type))
		if err := variable.Assign(args[i], r.settings.StrictTypes); err != nil {
			return nil, fmt.Errorf("%s argument %d: %w", m.Name, i, err)
		}
	}
	if err := scope.AddVariables(m.Locals...); err != nil {
		return nil, err
	}
	r.current = scope
	return scope, nil
}

// EndScope pops the current scope, recording it as the last scope.
func (r *Runtime) EndScope(result values.Value) {
	scope := r.CurrentScope()
	if scope.IsGlobal() {
		return
	}
	r.current = scope.EndScope(result)
	r.last = scope
}

func (r *Runtime) enterBlock() error {
	parent := r.CurrentScope()
	if limit := r.settings.MaxCallDepth; limit > 0 && parent.depth >= limit {
		return fmt.Errorf("%w: %d entering block", ErrCallDepth, limit)
	}
	block := parent.BeginScope(parent.Code)
	block.Method = parent.Method
	block.Position = parent.Position
	block.block = true
	r.current = block
	return nil
}

func (r *Runtime) leaveBlock() error {
	block := r.CurrentScope()
	if !block.block {
		return assemblyErrorf("leaveblock outside of a block")
	}
	block.Parent.Position = min(block.Position+1, len(block.Code))
	r.EndScope(values.Unit())
	return nil
}

// Invoke binds args to $0, $1, ... and runs the global stream to completion.
func (r *Runtime) Invoke(args ...any) error {
	for i, arg := range args {
		r.global.bind("$"+strconv.Itoa(i), values.TypeAny, values.From(arg))
	}
	return r.Run(Complete)
}

// InvokeFunction calls a script method or host function directly, bypassing the global stream.
func (r *Runtime) InvokeFunction(name string, args ...any) (values.Value, error) {
	vals := make([]values.Value, 0, len(args))
	for _, arg := range args {
		vals = append(vals, values.From(arg))
	}
	return r.vm.Invoke(r, name, vals)
}

// RegisterGlobalVariable binds a host value as a global. Names are prefixed with $ unless already.
func (r *Runtime) RegisterGlobalVariable(name string, value any) error {
	if strings.TrimPrefix(name, "$") == "" {
		return argumentErrorf("empty variable name")
	}
	if !strings.HasPrefix(name, "$") {
		name = "$" + name
	}
	r.global.bind(name, values.TypeAny, values.From(value))
	return nil
}

func (r *Runtime) FindVariable(name string) (*RuntimeVariable, error) {
	return r.CurrentScope().FindVariable(name)
}

func (r *Runtime) FindMethod(name string) *asms.MethodDefinition {
	return r.asm.FindMethod(name)
}

// InvokeAs calls name and converts the result to T. Any failure yields the zero T.
func InvokeAs[T any](r *Runtime, name string, args ...any) T {
	var zero T
	val, err := r.InvokeFunction(name, args...)
	if err != nil {
		r.logger.Debug("invoke failed", "session", r.id, "function", name, "error", err)
		return zero
	}
	ret, err := values.To[T](val)
	if err != nil {
		return zero
	}
	return ret
}

// GetVariableValue reads a variable visible from the current scope as T.
// A missing variable is an error; unit or an unconvertible value yields the zero T.
func GetVariableValue[T any](r *Runtime, name string) (T, error) {
	var zero T
	variable, err := r.FindVariable(name)
	if err != nil {
		return zero, err
	}
	if variable.Value.IsUnit() {
		return zero, nil
	}
	ret, err := values.To[T](variable.Value)
	if err != nil {
		return zero, nil
	}
	return ret, nil
}
