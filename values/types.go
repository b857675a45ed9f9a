package values

import "strings"

const (
	TypeAny    = "any"
	TypeVoid   = "void"
	TypeBool   = "bool"
	TypeNumber = "number"
	TypeString = "string"
	TypeArray  = "array"
)

var numberTypes = map[string]bool{
	TypeNumber: true,
	"i8":       true,
	"i16":      true,
	"i32":      true,
	"i64":      true,
	"u8":       true,
	"u16":      true,
	"u32":      true,
	"u64":      true,
	"f32":      true,
	"f64":      true,
}

// KindOfType maps a declared type name to the value kind it admits.
// constrained is false for "any" and the empty name.
func KindOfType(name string) (kind Kind, constrained bool) {
	switch {
	case name == "" || name == TypeAny:
		return KindUnit, false
	case name == TypeVoid:
		return KindUnit, true
	case name == TypeBool:
		return KindBool, true
	case name == TypeString || name == "char":
		return KindString, true
	case numberTypes[name]:
		return KindNumber, true
	case name == TypeArray || strings.HasSuffix(name, "[]"):
		return KindArray, true
	}
	return KindStruct, true
}

// Admits reports whether a variable declared as typeName may hold v.
// Unit is admitted by every type.
func Admits(typeName string, v Value) bool {
	if v.kind == KindUnit {
		return true
	}
	kind, constrained := KindOfType(typeName)
	if !constrained {
		return true
	}
	if v.kind == KindHost {
		return false
	}
	if kind == KindStruct {
		s, ok := v.AsStruct()
		return ok && (s.TypeName == "" || s.TypeName == typeName)
	}
	return v.kind == kind
}

// Zero returns the initial value of a variable declared as typeName.
func Zero(typeName string) Value {
	kind, constrained := KindOfType(typeName)
	if !constrained {
		return Unit()
	}
	switch kind {
	case KindBool:
		return Bool(false)
	case KindNumber:
		return Number(0)
	case KindString:
		return String("")
	case KindArray:
		return NewArray()
	}
	return Unit()
}
