package tyconfigs

import (
	"github.com/reusee/tyvm/cmds"
	"github.com/reusee/tyvm/configs"
	"github.com/reusee/tyvm/logs"
	"github.com/reusee/tyvm/modes"
	"github.com/reusee/tyvm/tyvm"
	"github.com/reusee/tyvm/vars"
)

type StrictTypes bool

type MaxCallDepth int

type BreakInterrupts bool

type Trace bool

var (
	_ configs.Configurable = StrictTypes(false)
	_ configs.Configurable = MaxCallDepth(0)
	_ configs.Configurable = BreakInterrupts(false)
	_ configs.Configurable = Trace(false)
)

func (StrictTypes) ConfigKey() string     { return "strict_types" }
func (MaxCallDepth) ConfigKey() string    { return "max_call_depth" }
func (BreakInterrupts) ConfigKey() string { return "break_interrupts" }
func (Trace) ConfigKey() string           { return "trace" }

var (
	strictFlag   = cmds.Switch("-strict")
	looseFlag    = cmds.Switch("-loose")
	maxDepthFlag = cmds.Var[int]("-max-depth")
	traceFlag    = cmds.Switch("-trace")
)

func (Module) StrictTypes(
	loader configs.Loader,
) StrictTypes {
	return StrictTypes(configs.FirstOr(loader, "strict_types", true))
}

func (Module) MaxCallDepth(
	loader configs.Loader,
) MaxCallDepth {
	return MaxCallDepth(vars.PositiveOr(
		configs.First[int](loader, "max_call_depth"),
		tyvm.DefaultSettings().MaxCallDepth,
	))
}

func (Module) BreakInterrupts(
	loader configs.Loader,
) BreakInterrupts {
	return BreakInterrupts(configs.FirstOr(loader, "break_interrupts", true))
}

// Trace defaults to on in development mode.
func (Module) Trace(
	loader configs.Loader,
	mode modes.Mode,
) Trace {
	return Trace(configs.FirstOr(loader, "trace", mode.IsDevelopment()))
}

// Settings assembles runtime settings. Flags override every other source.
func (Module) Settings(
	strict StrictTypes,
	depth MaxCallDepth,
	breakInterrupts BreakInterrupts,
	trace Trace,
	logger logs.Logger,
) *tyvm.Settings {
	settings := &tyvm.Settings{
		StrictTypes:     bool(strict),
		MaxCallDepth:    int(depth),
		BreakInterrupts: bool(breakInterrupts),
		Trace:           bool(trace),
		Logger:          logger,
	}
	if *strictFlag {
		settings.StrictTypes = true
	}
	if *looseFlag {
		settings.StrictTypes = false
	}
	settings.MaxCallDepth = vars.PositiveOr(vars.Deref(maxDepthFlag, 0), settings.MaxCallDepth)
	if *traceFlag {
		settings.Trace = true
	}
	return settings
}
