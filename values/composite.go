package values

import (
	"iter"
	"slices"
)

type Array struct {
	Elems []Value
}

func NewArray(elems ...Value) Value {
	return Value{
		kind: KindArray,
		ref: &Array{
			Elems: slices.Clone(elems),
		},
	}
}

func (a *Array) Len() int {
	return len(a.Elems)
}

func (a *Array) Get(i int) (Value, bool) {
	if i < 0 || i >= len(a.Elems) {
		return Value{}, false
	}
	return a.Elems[i], true
}

func (a *Array) Set(i int, v Value) bool {
	if i < 0 || i >= len(a.Elems) {
		return false
	}
	a.Elems[i] = v
	return true
}

func (a *Array) Append(v Value) {
	a.Elems = append(a.Elems, v)
}

// Struct holds the fields of a struct instance in declaration order.
type Struct struct {
	TypeName string
	names    []string
	fields   map[string]Value
}

func NewStruct(typeName string, names []string, inits ...Value) Value {
	s := &Struct{
		TypeName: typeName,
		names:    slices.Clone(names),
		fields:   make(map[string]Value, len(names)),
	}
	for i, name := range names {
		var v Value
		if i < len(inits) {
			v = inits[i]
		}
		s.fields[name] = v
	}
	return Value{
		kind: KindStruct,
		ref:  s,
	}
}

func (s *Struct) Get(name string) (Value, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// Set assigns a declared field. Undeclared names are rejected.
func (s *Struct) Set(name string, v Value) bool {
	if _, ok := s.fields[name]; !ok {
		return false
	}
	s.fields[name] = v
	return true
}

func (s *Struct) Names() []string {
	return slices.Clone(s.names)
}

func (s *Struct) Fields() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, name := range s.names {
			if !yield(name, s.fields[name]) {
				return
			}
		}
	}
}
