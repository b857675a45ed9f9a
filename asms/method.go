package asms

import (
	"strings"
)

type MethodDefinition struct {
	Name    string
	Params  []VariableRef
	Locals  []VariableRef
	Returns string
	// Native methods have no body; calls dispatch to the host function of the same name.
	Native bool
	Body   *Stream
}

func (m *MethodDefinition) Code() []*Instruction {
	if m.Body == nil {
		return nil
	}
	return m.Body.Code()
}

// DefineLocal declares a local variable, created when the method's scope begins.
func (m *MethodDefinition) DefineLocal(v VariableRef) error {
	if v.Name == "" {
		return argumentError("method %s: local without name", m.Name)
	}
	for _, p := range m.Params {
		if p.Name == v.Name {
			return argumentError("method %s: local %s shadows a parameter", m.Name, v.Name)
		}
	}
	for _, l := range m.Locals {
		if l.Name == v.Name {
			return argumentError("method %s: duplicated local %s", m.Name, v.Name)
		}
	}
	m.Locals = append(m.Locals, v)
	return nil
}

// Param returns a reference to the i-th parameter.
func (m *MethodDefinition) Param(i int) (ParamRef, error) {
	if i < 0 || i >= len(m.Params) {
		return ParamRef{}, resolutionError("method %s has no parameter %d", m.Name, i)
	}
	return ParamRef{
		Name:  m.Params[i].Name,
		Type:  m.Params[i].Type,
		Index: i,
	}, nil
}

func (m *MethodDefinition) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteString("(")
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeDecl(&sb, p)
	}
	sb.WriteString(")")
	if m.Returns != "" {
		sb.WriteString(": ")
		sb.WriteString(m.Returns)
	}
	return sb.String()
}

func writeDecl(sb *strings.Builder, v VariableRef) {
	sb.WriteString(v.Name)
	if v.Type != "" {
		sb.WriteString(": ")
		sb.WriteString(v.Type)
	}
}
