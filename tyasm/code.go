package tyasm

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/reusee/tyvm/asms"
)

// emitCode appends items to stream. m is the owning method, nil for global code.
func emitCode(stream *asms.Stream, m *asms.MethodDefinition, items []any) error {
	e := &emitter{
		stream: stream,
		method: m,
		labels: make(map[string]*asms.Label),
		marked: make(map[string]bool),
	}
	for i, item := range items {
		if err := e.emit(item); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return stream.Err()
}

type emitter struct {
	stream *asms.Stream
	method *asms.MethodDefinition
	labels map[string]*asms.Label
	marked map[string]bool
}

func (e *emitter) label(name string) *asms.Label {
	l, ok := e.labels[name]
	if !ok {
		l = asms.NewLabel(name)
		e.labels[name] = l
	}
	return l
}

func (e *emitter) emit(item any) error {
	switch item := item.(type) {

	case string:
		name, ok := strings.CutSuffix(item, ":")
		if !ok || name == "" {
			return fmt.Errorf("%w: bad label %q", ErrSource, item)
		}
		if e.marked[name] {
			return fmt.Errorf("%w: duplicated label %s", ErrSource, name)
		}
		e.marked[name] = true
		e.stream.EmitLabel(e.label(name))
		return nil

	case []any:
		if len(item) == 0 {
			return fmt.Errorf("%w: empty instruction", ErrSource)
		}
		mnemonic, ok := item[0].(string)
		if !ok {
			return fmt.Errorf("%w: bad mnemonic %v", ErrSource, item[0])
		}
		op, err := asms.ParseOpCode(mnemonic)
		if err != nil {
			return err
		}
		inst, err := e.instruction(op, item[1:])
		if err != nil {
			return fmt.Errorf("%s: %w", mnemonic, err)
		}
		_, err = e.stream.Append(inst)
		return err

	}
	return fmt.Errorf("%w: bad code item %v", ErrSource, item)
}

func (e *emitter) instruction(op asms.OpCode, args []any) (*asms.Instruction, error) {
	switch op {

	case asms.Jmp:
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: expecting a target label", ErrSource)
		}
		target, err := e.target(args[0])
		if err != nil {
			return nil, err
		}
		return asms.NewJump(target)

	case asms.Jmpt, asms.Jmpf:
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: expecting a test and a target label", ErrSource)
		}
		test, err := e.operand(args[0])
		if err != nil {
			return nil, err
		}
		target, err := e.target(args[1])
		if err != nil {
			return nil, err
		}
		return asms.NewCondJump(op, test, target)

	case asms.Call:
		if len(args) < 2 {
			return nil, fmt.Errorf("%w: expecting a method and a result", ErrSource)
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: bad method name %v", ErrSource, args[0])
		}
		var result asms.Operand
		if args[1] != nil {
			var err error
			result, err = e.operand(args[1])
			if err != nil {
				return nil, err
			}
		}
		callArgs, err := e.operands(args[2:])
		if err != nil {
			return nil, err
		}
		return asms.NewCall(asms.MethodRef{Name: name}, result, callArgs...)

	case asms.Define:
		if len(args) < 1 || len(args) > 2 {
			return nil, fmt.Errorf("%w: expecting a name and an optional type", ErrSource)
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: bad variable name %v", ErrSource, args[0])
		}
		decl := asms.Var(name)
		if len(args) == 2 {
			typ, ok := args[1].(string)
			if !ok {
				return nil, fmt.Errorf("%w: bad type %v", ErrSource, args[1])
			}
			decl.Type = typ
		}
		return asms.NewUnary(asms.Define, decl)

	}

	operands, err := e.operands(args)
	if err != nil {
		return nil, err
	}
	return asms.Build(op, operands...)
}

func (e *emitter) target(arg any) (*asms.Label, error) {
	s, ok := arg.(string)
	if !ok || !strings.HasPrefix(s, "@") || len(s) == 1 {
		return nil, fmt.Errorf("%w: bad target %v", ErrSource, arg)
	}
	return e.label(s[1:]), nil
}

func (e *emitter) operands(args []any) ([]asms.Operand, error) {
	ret := make([]asms.Operand, 0, len(args))
	for _, arg := range args {
		o, err := e.operand(arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, o)
	}
	return ret, nil
}

// operand decodes
//
//	x        variable, or parameter inside a method
//	<T>      struct type
//	.f       field
//	{s: ""}  string constant
//
// numbers and bools are constants.
func (e *emitter) operand(arg any) (asms.Operand, error) {
	switch arg := arg.(type) {

	case bool:
		return asms.Bool(arg), nil

	case map[string]any:
		s, ok := arg["s"].(string)
		if !ok || len(arg) != 1 {
			return nil, fmt.Errorf("%w: bad constant %v", ErrSource, arg)
		}
		return asms.Str(s), nil

	case string:
		switch {
		case arg == "":
			return nil, fmt.Errorf("%w: empty operand", ErrSource)
		case strings.HasPrefix(arg, "<") && strings.HasSuffix(arg, ">") && len(arg) > 2:
			return asms.TypeRef{Name: arg[1 : len(arg)-1]}, nil
		case strings.HasPrefix(arg, ".") && len(arg) > 1:
			return asms.FieldRef{Name: arg[1:]}, nil
		case strings.HasPrefix(arg, "@"):
			return nil, fmt.Errorf("%w: label %s used as operand", ErrSource, arg)
		}
		if e.method != nil {
			for i, p := range e.method.Params {
				if p.Name == arg {
					return e.method.Param(i)
				}
			}
		}
		return asms.Var(arg), nil

	}

	if f, ok := number(arg); ok {
		return asms.Num(f), nil
	}
	return nil, fmt.Errorf("%w: bad operand %v", ErrSource, arg)
}

func number(arg any) (float64, bool) {
	if i, ok := arg.(*big.Int); ok {
		f, _ := new(big.Float).SetInt(i).Float64()
		return f, true
	}
	if f, ok := arg.(*big.Float); ok {
		ret, _ := f.Float64()
		return ret, true
	}
	v := reflect.ValueOf(arg)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}
