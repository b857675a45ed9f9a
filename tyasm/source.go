package tyasm

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/reusee/tyvm/asms"
)

//go:embed schema.cue
var schemaSrc string

var ErrSource = errors.New("bad assembly source")

type source struct {
	Globals []string     `json:"globals"`
	Types   []typeSource `json:"types"`
	Methods []methodSrc  `json:"methods"`
	Code    []any        `json:"code"`
}

type typeSource struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

type methodSrc struct {
	Name    string   `json:"name"`
	Returns string   `json:"returns"`
	Params  []string `json:"params"`
	Locals  []string `json:"locals"`
	Native  bool     `json:"native"`
	Code    []any    `json:"code"`
}

// LoadFile reads a CUE assembly source and returns the finalized assembly.
func LoadFile(path string) (*asms.Assembly, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(path, content)
}

// Load compiles src, validates it and builds the finalized assembly.
func Load(name string, src []byte) (*asms.Assembly, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString("close({"+schemaSrc+"})", cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, err
	}
	value := ctx.CompileBytes(src, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, errors.Join(ErrSource, err)
	}
	value = schema.Unify(value)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, errors.Join(ErrSource, err)
	}
	var s source
	if err := value.Decode(&s); err != nil {
		return nil, errors.Join(ErrSource, err)
	}

	asm, err := s.build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if err := asm.Finalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return asm, nil
}

func (s source) build() (*asms.Assembly, error) {
	asm := asms.New()

	for _, decl := range s.Globals {
		if err := asm.DefineGlobal(parseDecl(decl)); err != nil {
			return nil, err
		}
	}

	for _, t := range s.Types {
		def := asms.StructDef{
			Name: t.Name,
		}
		for _, field := range t.Fields {
			def.Fields = append(def.Fields, parseDecl(field))
		}
		if err := asm.DefineType(def); err != nil {
			return nil, err
		}
	}

	// methods are declared before any code is emitted so calls may refer forward
	methods := make([]*asms.MethodDefinition, len(s.Methods))
	for i, src := range s.Methods {
		var params []asms.VariableRef
		for _, p := range src.Params {
			params = append(params, parseDecl(p))
		}
		var m *asms.MethodDefinition
		var err error
		if src.Native {
			if len(src.Code) > 0 {
				return nil, fmt.Errorf("%w: native method %s has code", ErrSource, src.Name)
			}
			m, err = asm.DefineNative(src.Name, src.Returns, params...)
		} else {
			m, err = asm.DefineMethod(src.Name, src.Returns, params...)
		}
		if err != nil {
			return nil, err
		}
		for _, l := range src.Locals {
			if err := m.DefineLocal(parseDecl(l)); err != nil {
				return nil, err
			}
		}
		methods[i] = m
	}

	for i, src := range s.Methods {
		m := methods[i]
		if m.Native {
			continue
		}
		if err := emitCode(m.Body, m, src.Code); err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
	}

	if err := emitCode(asm.Globals, nil, s.Code); err != nil {
		return nil, err
	}

	return asm, nil
}

func parseDecl(decl string) asms.VariableRef {
	name, typ, _ := strings.Cut(decl, ":")
	return asms.Typed(strings.TrimSpace(name), strings.TrimSpace(typ))
}
