package values

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindStruct
	KindHost
)

var kindNames = [...]string{
	KindUnit:   "unit",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindStruct: "struct",
	KindHost:   "host",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is the dynamically typed slot content of a runtime variable.
// The zero Value is unit.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	ref  any // *Array, *Struct or host value
}

func Unit() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func String(s string) Value {
	return Value{kind: KindString, str: s}
}

func Host(v any) Value {
	if v == nil {
		return Unit()
	}
	return Value{kind: KindHost, ref: v}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsUnit() bool {
	return v.kind == KindUnit
}

func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsArray() (*Array, bool) {
	a, ok := v.ref.(*Array)
	return a, ok && v.kind == KindArray
}

func (v Value) AsStruct() (*Struct, bool) {
	s, ok := v.ref.(*Struct)
	return s, ok && v.kind == KindStruct
}

func (v Value) AsHost() (any, bool) {
	return v.ref, v.kind == KindHost
}

// Interface returns the plain Go representation of v.
// Arrays become []any, structs map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		a := v.ref.(*Array)
		ret := make([]any, len(a.Elems))
		for i, e := range a.Elems {
			ret[i] = e.Interface()
		}
		return ret
	case KindStruct:
		s := v.ref.(*Struct)
		ret := make(map[string]any, len(s.names))
		for name, field := range s.Fields() {
			ret[name] = field.Interface()
		}
		return ret
	case KindHost:
		return v.ref
	}
	return nil
}

func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb, false)
	return sb.String()
}

// GoString renders strings quoted, for listings and debugger output.
func (v Value) GoString() string {
	var sb strings.Builder
	v.write(&sb, true)
	return sb.String()
}

func (v Value) write(sb *strings.Builder, quote bool) {
	switch v.kind {
	case KindUnit:
		if quote {
			sb.WriteString("unit")
		}
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(strconv.FormatFloat(v.num, 'g', -1, 64))
	case KindString:
		if quote {
			sb.WriteString(strconv.Quote(v.str))
		} else {
			sb.WriteString(v.str)
		}
	case KindArray:
		sb.WriteString("[")
		for i, e := range v.ref.(*Array).Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb, true)
		}
		sb.WriteString("]")
	case KindStruct:
		s := v.ref.(*Struct)
		sb.WriteString(s.TypeName)
		sb.WriteString("{")
		i := 0
		for name, field := range s.Fields() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			field.write(sb, true)
			i++
		}
		sb.WriteString("}")
	case KindHost:
		fmt.Fprintf(sb, "%v", v.ref)
	}
}

// Equal reports value equality for scalars and identity for arrays and structs.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUnit:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindHost:
		if !reflect.TypeOf(a.ref).Comparable() || !reflect.TypeOf(b.ref).Comparable() {
			return false
		}
	}
	return a.ref == b.ref
}

// Compare orders two numbers or two strings.
func Compare(a, b Value) (int, error) {
	switch {
	case a.kind == KindNumber && b.kind == KindNumber:
		switch {
		case a.num < b.num:
			return -1, nil
		case a.num > b.num:
			return 1, nil
		}
		return 0, nil
	case a.kind == KindString && b.kind == KindString:
		return strings.Compare(a.str, b.str), nil
	}
	return 0, fmt.Errorf("%w: cannot compare %s with %s", ErrTypeMismatch, a.kind, b.kind)
}
