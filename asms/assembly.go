package asms

import (
	"fmt"
	"io"
	"strings"
)

// StructDef declares a struct type and its fields in order.
type StructDef struct {
	Name   string
	Fields []VariableRef
}

func (s StructDef) FieldNames() []string {
	ret := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		ret[i] = f.Name
	}
	return ret
}

// Assembly is a compiled program: global code, global variables, struct types and methods.
// It is frozen by Finalize and may then be shared by any number of runtimes.
type Assembly struct {
	Globals   *Stream
	Variables []VariableRef
	Types     []StructDef
	Methods   []*MethodDefinition

	methods   map[string]*MethodDefinition
	types     map[string]int
	finalized bool
}

func New() *Assembly {
	return &Assembly{
		Globals: NewStream(""),
		methods: make(map[string]*MethodDefinition),
		types:   make(map[string]int),
	}
}

func (a *Assembly) Finalized() bool {
	return a.finalized
}

func (a *Assembly) checkMutable() error {
	if a.finalized {
		return assemblyError("assembly is finalized")
	}
	return nil
}

func (a *Assembly) DefineGlobal(v VariableRef) error {
	if err := a.checkMutable(); err != nil {
		return err
	}
	if v.Name == "" {
		return argumentError("global without name")
	}
	for _, g := range a.Variables {
		if g.Name == v.Name {
			return argumentError("duplicated global %s", v.Name)
		}
	}
	a.Variables = append(a.Variables, v)
	return nil
}

func (a *Assembly) DefineType(def StructDef) error {
	if err := a.checkMutable(); err != nil {
		return err
	}
	if def.Name == "" {
		return argumentError("struct type without name")
	}
	if _, ok := a.types[def.Name]; ok {
		return argumentError("duplicated struct type %s", def.Name)
	}
	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if seen[f.Name] {
			return argumentError("struct %s: duplicated field %s", def.Name, f.Name)
		}
		seen[f.Name] = true
	}
	a.types[def.Name] = len(a.Types)
	a.Types = append(a.Types, def)
	return nil
}

// DefineMethod adds a script method with an empty body stream.
func (a *Assembly) DefineMethod(name string, returns string, params ...VariableRef) (*MethodDefinition, error) {
	return a.defineMethod(name, returns, false, params)
}

// DefineNative adds a stub bound to a host function at run time.
func (a *Assembly) DefineNative(name string, returns string, params ...VariableRef) (*MethodDefinition, error) {
	return a.defineMethod(name, returns, true, params)
}

func (a *Assembly) defineMethod(name, returns string, native bool, params []VariableRef) (*MethodDefinition, error) {
	if err := a.checkMutable(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, argumentError("method without name")
	}
	if _, ok := a.methods[name]; ok {
		return nil, argumentError("duplicated method %s", name)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p.Name == "" {
			return nil, argumentError("method %s: parameter without name", name)
		}
		if seen[p.Name] {
			return nil, argumentError("method %s: duplicated parameter %s", name, p.Name)
		}
		seen[p.Name] = true
	}
	m := &MethodDefinition{
		Name:    name,
		Params:  params,
		Returns: returns,
		Native:  native,
	}
	if !native {
		m.Body = NewStream(name)
	}
	a.methods[name] = m
	a.Methods = append(a.Methods, m)
	return m, nil
}

// FindMethod resolves a method by exact name.
func (a *Assembly) FindMethod(name string) *MethodDefinition {
	return a.methods[name]
}

func (a *Assembly) FindType(name string) (StructDef, error) {
	idx, ok := a.types[name]
	if !ok {
		return StructDef{}, resolutionError("unknown struct type %s", name)
	}
	return a.Types[idx], nil
}

// Finalize resolves all labels of the global stream and every method body, then freezes the assembly.
func (a *Assembly) Finalize() error {
	if a.finalized {
		return assemblyError("assembly finalized twice")
	}
	if err := a.Globals.finalize(); err != nil {
		return err
	}
	for _, m := range a.Methods {
		if m.Body == nil {
			continue
		}
		if err := m.Body.finalize(); err != nil {
			return err
		}
	}
	if err := a.checkReferences(); err != nil {
		return err
	}
	a.finalized = true
	return nil
}

func (a *Assembly) checkReferences() error {
	check := func(code []*Instruction) error {
		for _, inst := range code {
			for _, arg := range inst.Args {
				if t, ok := arg.(TypeRef); ok {
					if _, err := a.FindType(t.Name); err != nil {
						return fmt.Errorf("%s: %04d %v: %w", inst.Method, inst.Offset, inst, err)
					}
				}
			}
		}
		return nil
	}
	if err := check(a.Globals.Code()); err != nil {
		return err
	}
	for _, m := range a.Methods {
		if err := check(m.Code()); err != nil {
			return err
		}
	}
	return nil
}

// Code returns the finalized global instructions.
func (a *Assembly) Code() []*Instruction {
	return a.Globals.Code()
}

func (a *Assembly) String() string {
	var sb strings.Builder
	_ = a.WriteListing(&sb)
	return sb.String()
}

// WriteListing renders a textual disassembly.
func (a *Assembly) WriteListing(w io.Writer) error {
	var sb strings.Builder
	for _, v := range a.Variables {
		sb.WriteString(".global ")
		writeDecl(&sb, v)
		sb.WriteString("\n")
	}
	for _, t := range a.Types {
		sb.WriteString(".type ")
		sb.WriteString(t.Name)
		sb.WriteString(" {")
		for i, f := range t.Fields {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" ")
			writeDecl(&sb, f)
		}
		sb.WriteString(" }\n")
	}
	sb.WriteString(".code\n")
	writeCode(&sb, a.Globals)
	for _, m := range a.Methods {
		if m.Native {
			sb.WriteString(".native ")
		} else {
			sb.WriteString(".method ")
		}
		sb.WriteString(m.Signature())
		sb.WriteString("\n")
		for _, l := range m.Locals {
			sb.WriteString(".local ")
			writeDecl(&sb, l)
			sb.WriteString("\n")
		}
		if m.Body != nil {
			writeCode(&sb, m.Body)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCode(sb *strings.Builder, s *Stream) {
	offset := 0
	for _, inst := range s.All() {
		fmt.Fprintf(sb, "%04d %s\n", offset, inst)
		offset++
	}
}
