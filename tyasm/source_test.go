package tyasm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/tyvm"
)

func TestLoadFile(t *testing.T) {
	asm, err := LoadFile("testdata/sample.cue")
	if err != nil {
		t.Fatal(err)
	}
	listing := asm.String()
	for _, line := range []string{
		".global n: number",
		".type Point { x: number, y: number }",
		"0000 call inc() -> n (n)",
		"0002 jmpt t, @loop",
		"0003 newstruct p, <Point>, 1, 2",
		`0004 call print() ("done", true)`,
		"0005 jmp @end",
		".method inc(v: number): number",
		".local r: number",
		"0000 add r, v, 1",
		".native print(s: any): void",
	} {
		if !strings.Contains(listing, line) {
			t.Fatalf("missing %q in\n%s", line, listing)
		}
	}

	inc := asm.FindMethod("inc")
	if inc == nil {
		t.Fatal("inc not defined")
	}
	if _, ok := inc.Code()[0].Args[1].(asms.ParamRef); !ok {
		t.Fatalf("got %#v", inc.Code()[0].Args[1])
	}
	if offset, _ := asm.Code()[2].Target.Offset(); offset != 0 {
		t.Fatalf("got %v", offset)
	}
}

func TestRun(t *testing.T) {
	asm, err := LoadFile("testdata/sum.cue")
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	vm := tyvm.NewVM()
	vm.Register(tyvm.Builtins(buf)...)
	rt, err := tyvm.New(vm, asm, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(tyvm.Complete); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "total 10\n" {
		t.Fatalf("got %q", buf.String())
	}
	total, err := tyvm.GetVariableValue[int](rt, "total")
	if err != nil {
		t.Fatal(err)
	}
	if total != 10 {
		t.Fatalf("got %v", total)
	}
}

func TestLoadErrors(t *testing.T) {
	for _, c := range []struct {
		name string
		src  string
		err  error
	}{
		{"syntax", `code: [`, ErrSource},
		{"unknown field", `foo: 1`, ErrSource},
		{"bad decl", `globals: ["1x"]`, ErrSource},
		{"bad label", `code: ["loop"]`, ErrSource},
		{"unknown opcode", `code: [["frob"]]`, asms.ErrArgument},
		{"operand count", `code: [["add", "x", 1]]`, asms.ErrArgument},
		{"label operand", `code: [["assign", "x", "@l"]]`, ErrSource},
		{"duplicated label", `code: ["a:", ["nop"], "a:"]`, ErrSource},
		{"unresolved label", `code: [["jmp", "@nowhere"]]`, asms.ErrResolution},
		{"unknown type", `code: [["newstruct", "p", "<Nope>"]]`, asms.ErrResolution},
		{"native code", `methods: [{name: "f", native: true, code: [["nop"]]}]`, ErrSource},
		{"duplicated method", `methods: [{name: "f"}, {name: "f"}]`, asms.ErrArgument},
	} {
		_, err := Load(c.name+".cue", []byte(c.src))
		if !errors.Is(err, c.err) {
			t.Fatalf("%s: got %v", c.name, err)
		}
	}
}

func TestDefine(t *testing.T) {
	asm, err := Load("define.cue", []byte(`
code: [
	["define", "x", "number"],
	["define", "y"],
	["assign", "x", 2],
]
`))
	if err != nil {
		t.Fatal(err)
	}
	code := asm.Code()
	if len(code) != 3 {
		t.Fatalf("got %v", len(code))
	}
	decl, ok := code[0].Args[0].(asms.VariableRef)
	if !ok || decl.Name != "x" || decl.Type != "number" {
		t.Fatalf("got %#v", code[0].Args[0])
	}
	rt, err := tyvm.New(tyvm.NewVM(), asm, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Run(tyvm.Complete); err != nil {
		t.Fatal(err)
	}
}
