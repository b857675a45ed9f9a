package asms

import (
	"github.com/reusee/tyvm/values"
)

type OperandKind uint8

const (
	OperandVariable OperandKind = iota + 1
	OperandParam
	OperandType
	OperandMethod
	OperandField
	OperandConst
)

// Operand is a structural reference carried by an instruction.
type Operand interface {
	Kind() OperandKind
	String() string
}

// VariableRef names a variable; Type is only meaningful in declarations.
type VariableRef struct {
	Name string
	Type string
}

type ParamRef struct {
	Name  string
	Type  string
	Index int
}

type TypeRef struct {
	Name string
}

type MethodRef struct {
	Name string
}

type FieldRef struct {
	Name string
}

type Const struct {
	Value values.Value
}

func Var(name string) VariableRef {
	return VariableRef{Name: name}
}

func Typed(name, typ string) VariableRef {
	return VariableRef{Name: name, Type: typ}
}

func Num(f float64) Const {
	return Const{Value: values.Number(f)}
}

func Str(s string) Const {
	return Const{Value: values.String(s)}
}

func Bool(b bool) Const {
	return Const{Value: values.Bool(b)}
}

func (VariableRef) Kind() OperandKind { return OperandVariable }
func (ParamRef) Kind() OperandKind    { return OperandParam }
func (TypeRef) Kind() OperandKind     { return OperandType }
func (MethodRef) Kind() OperandKind   { return OperandMethod }
func (FieldRef) Kind() OperandKind    { return OperandField }
func (Const) Kind() OperandKind       { return OperandConst }

func (v VariableRef) String() string { return v.Name }
func (p ParamRef) String() string    { return p.Name }
func (t TypeRef) String() string     { return "<" + t.Name + ">" }
func (m MethodRef) String() string   { return m.Name + "()" }
func (f FieldRef) String() string    { return "." + f.Name }
func (c Const) String() string       { return c.Value.GoString() }

// VariableName returns the variable a destination or value operand names.
func VariableName(o Operand) (string, bool) {
	switch o := o.(type) {
	case VariableRef:
		return o.Name, true
	case ParamRef:
		return o.Name, true
	}
	return "", false
}

type operandMask uint8

const (
	maskVariable operandMask = 1 << iota
	maskParam
	maskConst
	maskType
	maskMethod
	maskField

	maskDest  = maskVariable | maskParam
	maskValue = maskVariable | maskParam | maskConst
)

func (m operandMask) admits(o Operand) bool {
	if o == nil {
		return false
	}
	switch o.Kind() {
	case OperandVariable:
		return m&maskVariable != 0
	case OperandParam:
		return m&maskParam != 0
	case OperandConst:
		return m&maskConst != 0
	case OperandType:
		return m&maskType != 0
	case OperandMethod:
		return m&maskMethod != 0
	case OperandField:
		return m&maskField != 0
	}
	return false
}
