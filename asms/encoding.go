package asms

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/reusee/tyvm/values"
)

const wireVersion = 1

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("asms: cbor enc mode: %v", err))
	}
	cborEncMode = em
}

type wireAssembly struct {
	Version   int          `cbor:"v"`
	Variables []wireDecl   `cbor:"vars,omitempty"`
	Types     []wireType   `cbor:"types,omitempty"`
	Code      []wireInst   `cbor:"code,omitempty"`
	Methods   []wireMethod `cbor:"methods,omitempty"`
}

type wireDecl struct {
	Name string `cbor:"n"`
	Type string `cbor:"t,omitempty"`
}

type wireType struct {
	Name   string     `cbor:"n"`
	Fields []wireDecl `cbor:"f,omitempty"`
}

type wireMethod struct {
	Name    string     `cbor:"n"`
	Returns string     `cbor:"r,omitempty"`
	Native  bool       `cbor:"native,omitempty"`
	Params  []wireDecl `cbor:"p,omitempty"`
	Locals  []wireDecl `cbor:"l,omitempty"`
	Code    []wireInst `cbor:"code,omitempty"`
}

type wireInst struct {
	Op          OpCode        `cbor:"op"`
	Target      *int          `cbor:"t,omitempty"`
	Label       string        `cbor:"l,omitempty"`
	Args        []wireOperand `cbor:"a,omitempty"`
	OperandArgs []wireOperand `cbor:"o,omitempty"`
}

type wireOperand struct {
	Kind  OperandKind `cbor:"k"`
	Name  string      `cbor:"n,omitempty"`
	Type  string      `cbor:"t,omitempty"`
	Index int         `cbor:"i,omitempty"`
	Value *wireValue  `cbor:"v,omitempty"`
}

type wireValue struct {
	Kind   values.Kind `cbor:"k"`
	Bool   bool        `cbor:"b,omitempty"`
	Number float64     `cbor:"n,omitempty"`
	String string      `cbor:"s,omitempty"`
}

// Marshal encodes a finalized assembly as canonical CBOR. Labels travel as resolved offsets.
func Marshal(a *Assembly) ([]byte, error) {
	if !a.finalized {
		return nil, assemblyError("marshal: assembly is not finalized")
	}
	w := wireAssembly{
		Version:   wireVersion,
		Variables: toWireDecls(a.Variables),
	}
	for _, t := range a.Types {
		w.Types = append(w.Types, wireType{
			Name:   t.Name,
			Fields: toWireDecls(t.Fields),
		})
	}
	var err error
	w.Code, err = toWireCode(a.Code())
	if err != nil {
		return nil, err
	}
	for _, m := range a.Methods {
		wm := wireMethod{
			Name:    m.Name,
			Returns: m.Returns,
			Native:  m.Native,
			Params:  toWireDecls(m.Params),
			Locals:  toWireDecls(m.Locals),
		}
		wm.Code, err = toWireCode(m.Code())
		if err != nil {
			return nil, err
		}
		w.Methods = append(w.Methods, wm)
	}
	return cborEncMode.Marshal(w)
}

// Unmarshal decodes and finalizes an assembly produced by Marshal.
func Unmarshal(data []byte) (*Assembly, error) {
	var w wireAssembly
	if err := cbor.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("asms: unmarshal assembly: %w", err)
	}
	if w.Version != wireVersion {
		return nil, assemblyError("unsupported wire version %d", w.Version)
	}

	a := New()
	for _, v := range w.Variables {
		if err := a.DefineGlobal(fromWireDecl(v)); err != nil {
			return nil, err
		}
	}
	for _, t := range w.Types {
		def := StructDef{Name: t.Name}
		for _, f := range t.Fields {
			def.Fields = append(def.Fields, fromWireDecl(f))
		}
		if err := a.DefineType(def); err != nil {
			return nil, err
		}
	}
	if err := fromWireCode(a.Globals, w.Code); err != nil {
		return nil, err
	}
	for _, wm := range w.Methods {
		params := make([]VariableRef, 0, len(wm.Params))
		for _, p := range wm.Params {
			params = append(params, fromWireDecl(p))
		}
		m, err := a.defineMethod(wm.Name, wm.Returns, wm.Native, params)
		if err != nil {
			return nil, err
		}
		for _, l := range wm.Locals {
			if err := m.DefineLocal(fromWireDecl(l)); err != nil {
				return nil, err
			}
		}
		if m.Body != nil {
			if err := fromWireCode(m.Body, wm.Code); err != nil {
				return nil, err
			}
		} else if len(wm.Code) > 0 {
			return nil, assemblyError("native method %s carries code", wm.Name)
		}
	}
	if err := a.Finalize(); err != nil {
		return nil, err
	}
	return a, nil
}

func toWireDecls(decls []VariableRef) []wireDecl {
	var ret []wireDecl
	for _, d := range decls {
		ret = append(ret, wireDecl{Name: d.Name, Type: d.Type})
	}
	return ret
}

func fromWireDecl(d wireDecl) VariableRef {
	return VariableRef{Name: d.Name, Type: d.Type}
}

func toWireCode(code []*Instruction) ([]wireInst, error) {
	ret := make([]wireInst, 0, len(code))
	for _, inst := range code {
		wi := wireInst{
			Op: inst.OpCode,
		}
		if inst.Target != nil {
			offset, ok := inst.Target.Offset()
			if !ok {
				return nil, assemblyError("%04d %v: unresolved label %s", inst.Offset, inst, inst.Target)
			}
			wi.Target = &offset
			wi.Label = inst.Target.Name
		}
		for _, arg := range inst.Args {
			wo, err := toWireOperand(arg)
			if err != nil {
				return nil, err
			}
			wi.Args = append(wi.Args, wo)
		}
		for _, arg := range inst.OperandArgs {
			wo, err := toWireOperand(arg)
			if err != nil {
				return nil, err
			}
			wi.OperandArgs = append(wi.OperandArgs, wo)
		}
		ret = append(ret, wi)
	}
	return ret, nil
}

func toWireOperand(o Operand) (wireOperand, error) {
	ret := wireOperand{Kind: o.Kind()}
	switch o := o.(type) {
	case VariableRef:
		ret.Name, ret.Type = o.Name, o.Type
	case ParamRef:
		ret.Name, ret.Type, ret.Index = o.Name, o.Type, o.Index
	case TypeRef:
		ret.Name = o.Name
	case MethodRef:
		ret.Name = o.Name
	case FieldRef:
		ret.Name = o.Name
	case Const:
		wv := &wireValue{Kind: o.Value.Kind()}
		switch o.Value.Kind() {
		case values.KindUnit:
		case values.KindBool:
			wv.Bool, _ = o.Value.AsBool()
		case values.KindNumber:
			wv.Number, _ = o.Value.AsNumber()
		case values.KindString:
			wv.String, _ = o.Value.AsString()
		default:
			return ret, argumentError("constant of kind %s cannot be encoded", o.Value.Kind())
		}
		ret.Value = wv
	default:
		return ret, argumentError("unknown operand %T", o)
	}
	return ret, nil
}

func fromWireOperand(w wireOperand) (Operand, error) {
	switch w.Kind {
	case OperandVariable:
		return VariableRef{Name: w.Name, Type: w.Type}, nil
	case OperandParam:
		return ParamRef{Name: w.Name, Type: w.Type, Index: w.Index}, nil
	case OperandType:
		return TypeRef{Name: w.Name}, nil
	case OperandMethod:
		return MethodRef{Name: w.Name}, nil
	case OperandField:
		return FieldRef{Name: w.Name}, nil
	case OperandConst:
		if w.Value == nil {
			return Const{}, nil
		}
		switch w.Value.Kind {
		case values.KindUnit:
			return Const{}, nil
		case values.KindBool:
			return Bool(w.Value.Bool), nil
		case values.KindNumber:
			return Num(w.Value.Number), nil
		case values.KindString:
			return Str(w.Value.String), nil
		}
		return nil, argumentError("constant of kind %s cannot be decoded", w.Value.Kind)
	}
	return nil, argumentError("unknown operand kind %d", w.Kind)
}

type wireLabel struct {
	offset int
	name   string
}

// fromWireCode rebuilds labels per target offset and name, so labels sharing an offset keep their names.
func fromWireCode(s *Stream, code []wireInst) error {
	labels := make(map[wireLabel]*Label)
	var byOffset map[int][]*Label
	for _, wi := range code {
		if wi.Target == nil {
			continue
		}
		key := wireLabel{offset: *wi.Target, name: wi.Label}
		if key.offset < 0 || key.offset > len(code) {
			return assemblyError("%s: jump target %d out of range", s.owner, key.offset)
		}
		if _, ok := labels[key]; ok {
			continue
		}
		label := NewLabel(key.name)
		labels[key] = label
		if byOffset == nil {
			byOffset = make(map[int][]*Label)
		}
		byOffset[key.offset] = append(byOffset[key.offset], label)
	}

	markAt := func(offset int) error {
		for _, label := range byOffset[offset] {
			if err := s.Mark(label); err != nil {
				return err
			}
		}
		return nil
	}

	for i, wi := range code {
		if err := markAt(i); err != nil {
			return err
		}
		inst, err := fromWireInst(wi, labels)
		if err != nil {
			return err
		}
		if _, err := s.Append(inst); err != nil {
			return err
		}
	}
	return markAt(len(code))
}

func fromWireInst(wi wireInst, labels map[wireLabel]*Label) (*Instruction, error) {
	args := make([]Operand, 0, len(wi.Args))
	for _, wa := range wi.Args {
		o, err := fromWireOperand(wa)
		if err != nil {
			return nil, err
		}
		args = append(args, o)
	}
	opArgs := make([]Operand, 0, len(wi.OperandArgs))
	for _, wa := range wi.OperandArgs {
		o, err := fromWireOperand(wa)
		if err != nil {
			return nil, err
		}
		opArgs = append(opArgs, o)
	}

	switch wi.Op {
	case Jmp:
		if wi.Target == nil {
			return nil, argumentError("jmp without target")
		}
		return NewJump(labels[wireLabel{offset: *wi.Target, name: wi.Label}])
	case Jmpt, Jmpf:
		if wi.Target == nil || len(args) != 1 {
			return nil, argumentError("%s: malformed", wi.Op)
		}
		return NewCondJump(wi.Op, args[0], labels[wireLabel{offset: *wi.Target, name: wi.Label}])
	case Call:
		if len(args) == 0 || len(args) > 2 {
			return nil, argumentError("call: malformed")
		}
		method, ok := args[0].(MethodRef)
		if !ok {
			return nil, argumentError("call: bad method operand %v", args[0])
		}
		var result Operand
		if len(args) == 2 {
			result = args[1]
		}
		return NewCall(method, result, opArgs...)
	}
	return Build(wi.Op, args...)
}
