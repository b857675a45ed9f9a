package asms

import "fmt"

type OpCode uint8

const (
	Nop OpCode = iota + 1
	Break

	// control flow
	Jmp
	Jmpt
	Jmpf
	Call
	Return
	EnterBlock
	LeaveBlock

	// data movement
	Assign
	Define
	LoadField
	StoreField
	LoadElement
	StoreElement
	Length

	// arithmetic and comparison
	Add
	Sub
	Mul
	Div
	Mod
	Neg
	Not
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte

	// allocation
	NewArray
	NewStruct
	Append

	numOpCodes
)

type shape uint8

const (
	shapeFixed shape = iota
	shapeVariadic
	shapeReturn
	shapeJump
	shapeCondJump
	shapeCall
)

type opInfo struct {
	name  string
	shape shape
	// operand kinds by position; for variadic shapes the last entry repeats
	kinds []operandMask
}

var opInfos = [numOpCodes]opInfo{
	Nop:        {name: "nop"},
	Break:      {name: "break"},
	Jmp:        {name: "jmp", shape: shapeJump},
	Jmpt:       {name: "jmpt", shape: shapeCondJump, kinds: []operandMask{maskValue}},
	Jmpf:       {name: "jmpf", shape: shapeCondJump, kinds: []operandMask{maskValue}},
	Call:       {name: "call", shape: shapeCall},
	Return:     {name: "return", shape: shapeReturn, kinds: []operandMask{maskValue}},
	EnterBlock: {name: "enterblock"},
	LeaveBlock: {name: "leaveblock"},

	Assign:       {name: "assign", kinds: []operandMask{maskDest, maskValue}},
	Define:       {name: "define", kinds: []operandMask{maskVariable}},
	LoadField:    {name: "loadfield", kinds: []operandMask{maskDest, maskValue, maskField}},
	StoreField:   {name: "storefield", kinds: []operandMask{maskDest, maskField, maskValue}},
	LoadElement:  {name: "loadelem", kinds: []operandMask{maskDest, maskValue, maskValue}},
	StoreElement: {name: "storeelem", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Length:       {name: "length", kinds: []operandMask{maskDest, maskValue}},

	Add: {name: "add", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Sub: {name: "sub", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Mul: {name: "mul", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Div: {name: "div", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Mod: {name: "mod", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Neg: {name: "neg", kinds: []operandMask{maskDest, maskValue}},
	Not: {name: "not", kinds: []operandMask{maskDest, maskValue}},
	Eq:  {name: "eq", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Neq: {name: "neq", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Lt:  {name: "lt", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Lte: {name: "lte", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Gt:  {name: "gt", kinds: []operandMask{maskDest, maskValue, maskValue}},
	Gte: {name: "gte", kinds: []operandMask{maskDest, maskValue, maskValue}},

	NewArray:  {name: "newarray", shape: shapeVariadic, kinds: []operandMask{maskDest, maskValue}},
	NewStruct: {name: "newstruct", shape: shapeVariadic, kinds: []operandMask{maskDest, maskType, maskValue}},
	Append:    {name: "append", kinds: []operandMask{maskDest, maskValue}},
}

var opCodesByName = func() map[string]OpCode {
	ret := make(map[string]OpCode, numOpCodes)
	for op := Nop; op < numOpCodes; op++ {
		ret[opInfos[op].name] = op
	}
	return ret
}()

func (o OpCode) Valid() bool {
	return o >= Nop && o < numOpCodes
}

func (o OpCode) String() string {
	if !o.Valid() {
		return fmt.Sprintf("opcode(%d)", uint8(o))
	}
	return opInfos[o].name
}

// IsJump reports whether o transfers control to a label.
func (o OpCode) IsJump() bool {
	return o == Jmp || o == Jmpt || o == Jmpf
}

// ParseOpCode looks up an opcode by its mnemonic.
func ParseOpCode(name string) (OpCode, error) {
	op, ok := opCodesByName[name]
	if !ok {
		return 0, argumentError("unknown opcode %q", name)
	}
	return op, nil
}
