package tyvm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/reusee/tyvm/values"
)

var ErrAssertion = errors.New("assertion failed")

// Builtins returns the host functions every script can call.
func Builtins(out io.Writer) []HostFunc {
	return []HostFunc{
		{
			Name: "print",
			Func: func(_ *Runtime, args []values.Value) (values.Value, error) {
				_, err := io.WriteString(out, joinValues(args))
				return values.Unit(), err
			},
		},
		{
			Name: "println",
			Func: func(_ *Runtime, args []values.Value) (values.Value, error) {
				_, err := io.WriteString(out, joinValues(args)+"\n")
				return values.Unit(), err
			},
		},
		{
			Name: "str",
			Func: func(_ *Runtime, args []values.Value) (values.Value, error) {
				return values.String(joinValues(args)), nil
			},
		},
		{
			Name: "num",
			Func: func(_ *Runtime, args []values.Value) (values.Value, error) {
				if len(args) != 1 {
					return values.Unit(), argumentErrorf("num expects 1 argument, got %d", len(args))
				}
				if n, ok := args[0].AsNumber(); ok {
					return values.Number(n), nil
				}
				s, ok := args[0].AsString()
				if !ok {
					return values.Unit(), fmt.Errorf("%w: num of %s", values.ErrTypeMismatch, args[0].Kind())
				}
				f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil {
					return values.Unit(), fmt.Errorf("%w: %v", values.ErrConversion, err)
				}
				return values.Number(f), nil
			},
		},
		{
			Name: "interrupt",
			Func: func(rt *Runtime, _ []values.Value) (values.Value, error) {
				rt.Interrupt()
				return values.Unit(), nil
			},
		},
		{
			Name: "assert",
			Func: func(_ *Runtime, args []values.Value) (values.Value, error) {
				if len(args) == 0 {
					return values.Unit(), argumentErrorf("assert expects a condition")
				}
				ok, isBool := args[0].AsBool()
				if !isBool {
					return values.Unit(), fmt.Errorf("%w: assert of %s", values.ErrTypeMismatch, args[0].Kind())
				}
				if !ok {
					if len(args) > 1 {
						return values.Unit(), fmt.Errorf("%w: %s", ErrAssertion, joinValues(args[1:]))
					}
					return values.Unit(), ErrAssertion
				}
				return values.Unit(), nil
			},
		},
	}
}

func joinValues(args []values.Value) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(arg.String())
	}
	return sb.String()
}
