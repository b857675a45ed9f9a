package tyvm

import (
	"errors"
	"fmt"

	"github.com/reusee/tyvm/asms"
)

var (
	ErrUndefinedVariable  = errors.Join(asms.ErrResolution, errors.New("undefined variable"))
	ErrUnresolvedFunction = errors.Join(asms.ErrResolution, errors.New("unresolved function"))
	ErrCallDepth          = errors.New("call depth exceeded")
)

// Fault locates a runtime error at the instruction that raised it.
type Fault struct {
	Method string
	Offset int
	Inst   string
	Err    error
}

func (f *Fault) Error() string {
	method := f.Method
	if method == "" {
		method = "<global>"
	}
	return fmt.Sprintf("%s:%04d %s: %v", method, f.Offset, f.Inst, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func fault(inst *asms.Instruction, err error) error {
	var f *Fault
	if errors.As(err, &f) {
		return err
	}
	return &Fault{
		Method: inst.Method,
		Offset: inst.Offset,
		Inst:   inst.String(),
		Err:    err,
	}
}

func undefinedVariable(name string) error {
	return fmt.Errorf("%w: %s", ErrUndefinedVariable, name)
}

func unresolvedFunction(name string) error {
	return fmt.Errorf("%w: %s", ErrUnresolvedFunction, name)
}

func argumentErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", asms.ErrArgument, fmt.Sprintf(format, args...))
}

func assemblyErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", asms.ErrAssembly, fmt.Sprintf(format, args...))
}
