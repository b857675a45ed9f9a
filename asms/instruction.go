package asms

import (
	"strings"
)

type Instruction struct {
	Offset      int
	OpCode      OpCode
	Target      *Label
	Args        []Operand
	OperandArgs []Operand // call arguments, call instructions only
	Method      string    // owning method, empty for global code

	stream *Stream
}

func (i *Instruction) IsJump() bool {
	return i.OpCode.IsJump()
}

// NewOp builds a zero-operand instruction.
func NewOp(op OpCode) (*Instruction, error) {
	return build(op, nil, shapeFixed, shapeReturn)
}

// NewUnary builds a single-operand instruction, like define or return with a value.
func NewUnary(op OpCode, arg Operand) (*Instruction, error) {
	return build(op, []Operand{arg}, shapeFixed, shapeReturn)
}

func NewBinary(op OpCode, dst, src Operand) (*Instruction, error) {
	return build(op, []Operand{dst, src}, shapeFixed, shapeVariadic)
}

func NewTernary(op OpCode, dst, a, b Operand) (*Instruction, error) {
	return build(op, []Operand{dst, a, b}, shapeFixed, shapeVariadic)
}

// NewVariadic builds an allocation instruction: newarray dst, elems... or newstruct dst, type, inits...
func NewVariadic(op OpCode, args ...Operand) (*Instruction, error) {
	return build(op, args, shapeVariadic)
}

// Build validates args against op's operand table. Jumps and calls have dedicated constructors.
func Build(op OpCode, args ...Operand) (*Instruction, error) {
	return build(op, args, shapeFixed, shapeVariadic, shapeReturn)
}

func NewJump(target *Label) (*Instruction, error) {
	if target == nil {
		return nil, argumentError("jmp without target label")
	}
	return &Instruction{
		OpCode: Jmp,
		Target: target,
	}, nil
}

func NewCondJump(op OpCode, test Operand, target *Label) (*Instruction, error) {
	if op != Jmpt && op != Jmpf {
		return nil, argumentError("%s is not a conditional jump", op)
	}
	if target == nil {
		return nil, argumentError("%s without target label", op)
	}
	if !maskValue.admits(test) {
		return nil, argumentError("%s: bad test operand %v", op, test)
	}
	return &Instruction{
		OpCode: op,
		Target: target,
		Args:   []Operand{test},
	}, nil
}

// NewCall builds call method -> result (args...). result may be nil to discard the produced value.
func NewCall(method MethodRef, result Operand, args ...Operand) (*Instruction, error) {
	if method.Name == "" {
		return nil, argumentError("call without method name")
	}
	inst := &Instruction{
		OpCode: Call,
		Args:   []Operand{method},
	}
	if result != nil {
		if !maskDest.admits(result) {
			return nil, argumentError("call %s: bad result operand %v", method.Name, result)
		}
		inst.Args = append(inst.Args, result)
	}
	for i, arg := range args {
		if !maskValue.admits(arg) {
			return nil, argumentError("call %s: bad argument %d: %v", method.Name, i, arg)
		}
	}
	inst.OperandArgs = append(inst.OperandArgs, args...)
	return inst, nil
}

// CallTarget returns the method and the optional result operand of a call instruction.
func (i *Instruction) CallTarget() (method MethodRef, result Operand, ok bool) {
	if i.OpCode != Call || len(i.Args) == 0 {
		return
	}
	method, ok = i.Args[0].(MethodRef)
	if len(i.Args) > 1 {
		result = i.Args[1]
	}
	return
}

func build(op OpCode, args []Operand, shapes ...shape) (*Instruction, error) {
	if !op.Valid() {
		return nil, argumentError("invalid opcode %d", op)
	}
	info := opInfos[op]
	accepted := false
	for _, s := range shapes {
		if s == info.shape {
			accepted = true
			break
		}
	}
	if !accepted {
		return nil, argumentError("%s cannot be built with %d operands", op, len(args))
	}

	switch info.shape {
	case shapeFixed:
		if len(args) != len(info.kinds) {
			return nil, argumentError("%s expects %d operands, got %d", op, len(info.kinds), len(args))
		}
	case shapeReturn:
		if len(args) > 1 {
			return nil, argumentError("%s expects at most 1 operand, got %d", op, len(args))
		}
	case shapeVariadic:
		if len(args) < len(info.kinds)-1 {
			return nil, argumentError("%s expects at least %d operands, got %d", op, len(info.kinds)-1, len(args))
		}
	}
	for idx, arg := range args {
		k := idx
		if k >= len(info.kinds) {
			k = len(info.kinds) - 1
		}
		if !info.kinds[k].admits(arg) {
			return nil, argumentError("%s: bad operand %d: %v", op, idx, arg)
		}
	}

	return &Instruction{
		OpCode: op,
		Args:   args,
	}, nil
}

func (i *Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(i.OpCode.String())
	if i.OpCode == Call {
		method, result, _ := i.CallTarget()
		sb.WriteString(" ")
		sb.WriteString(method.String())
		if result != nil {
			sb.WriteString(" -> ")
			sb.WriteString(result.String())
		}
		sb.WriteString(" (")
		writeOperands(&sb, i.OperandArgs)
		sb.WriteString(")")
		return sb.String()
	}
	if len(i.Args) > 0 {
		sb.WriteString(" ")
		writeOperands(&sb, i.Args)
	}
	if i.Target != nil {
		if len(i.Args) > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(" @")
		sb.WriteString(i.Target.String())
	}
	return sb.String()
}

func writeOperands(sb *strings.Builder, ops []Operand) {
	for idx, op := range ops {
		if idx > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(op.String())
	}
}
