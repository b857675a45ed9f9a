package asms

import (
	"errors"
	"fmt"
)

var (
	ErrAssembly   = errors.New("assembly error")
	ErrResolution = errors.New("resolution error")
	ErrArgument   = errors.New("argument error")
)

func assemblyError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAssembly, fmt.Sprintf(format, args...))
}

func argumentError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArgument, fmt.Sprintf(format, args...))
}

func resolutionError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrResolution, fmt.Sprintf(format, args...))
}
