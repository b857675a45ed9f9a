package tyvm

import (
	"iter"

	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/values"
)

// Scope is an activation: a cursor over an instruction stream plus the variables it owns.
type Scope struct {
	Parent   *Scope
	Position int
	Code     []*asms.Instruction
	Method   *asms.MethodDefinition
	// Result holds the value the scope returned, set when it ends.
	Result values.Value

	vars  map[string]*RuntimeVariable
	order []*RuntimeVariable
	depth int
	block bool
	ended bool
	// call site in Parent, nil for the global scope, blocks and host invocations
	call *asms.Instruction
}

func newScope(parent *Scope, code []*asms.Instruction) *Scope {
	s := &Scope{
		Parent: parent,
		Code:   code,
		vars:   make(map[string]*RuntimeVariable),
	}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

func (s *Scope) IsGlobal() bool {
	return s.Parent == nil
}

func (s *Scope) IsBlock() bool {
	return s.block
}

func (s *Scope) Ended() bool {
	return s.ended
}

// Depth counts the scopes between s and the global scope.
func (s *Scope) Depth() int {
	return s.depth
}

// Current returns the instruction at the cursor, nil at the end of the stream.
func (s *Scope) Current() *asms.Instruction {
	if s.Position < 0 || s.Position >= len(s.Code) {
		return nil
	}
	return s.Code[s.Position]
}

func (s *Scope) atEnd() bool {
	return s.Position >= len(s.Code)
}

// Lookup resolves name locally, then through the parent chain.
func (s *Scope) Lookup(name string) (*RuntimeVariable, bool) {
	for scope := s; scope != nil; scope = scope.Parent {
		if v, ok := scope.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (s *Scope) FindVariable(name string) (*RuntimeVariable, error) {
	v, ok := s.Lookup(name)
	if !ok {
		return nil, undefinedVariable(name)
	}
	return v, nil
}

// Declare adds a local variable initialized to v. Names are unique within a scope.
func (s *Scope) Declare(name, typ string, v values.Value) (*RuntimeVariable, error) {
	if _, ok := s.vars[name]; ok {
		return nil, argumentErrorf("variable %s declared twice", name)
	}
	return s.bind(name, typ, v), nil
}

// bind declares or overwrites a local variable.
func (s *Scope) bind(name, typ string, v values.Value) *RuntimeVariable {
	if existing, ok := s.vars[name]; ok {
		existing.Type = typ
		existing.Value = v
		return existing
	}
	variable := &RuntimeVariable{
		Name:  name,
		Type:  typ,
		Value: v,
		Scope: s,
	}
	s.vars[name] = variable
	s.order = append(s.order, variable)
	return variable
}

// AddVariables declares zero-valued variables for decls.
func (s *Scope) AddVariables(decls ...asms.VariableRef) error {
	for _, decl := range decls {
		if _, err := s.Declare(decl.Name, decl.Type, values.Zero(decl.Type)); err != nil {
			return err
		}
	}
	return nil
}

// Variables iterates the scope's own variables in declaration order.
func (s *Scope) Variables() iter.Seq[*RuntimeVariable] {
	return func(yield func(*RuntimeVariable) bool) {
		for _, v := range s.order {
			if !yield(v) {
				return
			}
		}
	}
}

// BeginScope creates a child scope running code.
func (s *Scope) BeginScope(code []*asms.Instruction) *Scope {
	return newScope(s, code)
}

// EndScope records result and returns the parent.
func (s *Scope) EndScope(result values.Value) *Scope {
	s.Result = result
	s.ended = true
	return s.Parent
}

func (s *Scope) methodName() string {
	if s.Method == nil {
		return ""
	}
	return s.Method.Name
}
