package tyvm

import "log/slog"

type Settings struct {
	// StrictTypes checks every assignment and argument against the declared type.
	StrictTypes bool `json:"strict_types"`
	// MaxCallDepth bounds nested scopes, blocks included. Zero means unbounded.
	MaxCallDepth int `json:"max_call_depth"`
	// BreakInterrupts makes the break instruction pause the session.
	BreakInterrupts bool `json:"break_interrupts"`
	// Trace logs every executed instruction at debug level.
	Trace bool `json:"trace"`

	Logger *slog.Logger `json:"-"`
}

func DefaultSettings() *Settings {
	return &Settings{
		StrictTypes:     true,
		MaxCallDepth:    1024,
		BreakInterrupts: true,
	}
}

type RunMode uint8

const (
	Complete RunMode = iota
	StepByStep
)

func (m RunMode) String() string {
	switch m {
	case Complete:
		return "complete"
	case StepByStep:
		return "step"
	}
	return "unknown"
}
