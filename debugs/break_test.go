package debugs

import (
	"context"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/tyvm"
)

func TestBreakHandler(t *testing.T) {
	asm := asms.New()
	if err := asm.DefineGlobal(asms.Typed("x", "number")); err != nil {
		t.Fatal(err)
	}
	s := asm.Globals
	s.Emit(asms.NewBinary(asms.Assign, asms.Var("x"), asms.Num(3)))
	s.Emit(asms.NewOp(asms.Break))
	if err := asm.Finalize(); err != nil {
		t.Fatal(err)
	}

	var what string
	var globals map[string]any
	dscope.New(
		new(Module),
	).Fork(
		func() Tap {
			return func(_ context.Context, w string, g map[string]any) {
				what = w
				globals = g
			}
		},
	).Call(func(
		handler BreakHandler,
	) {
		vm := tyvm.NewVM()
		vm.OnBreak(handler)
		rt, err := tyvm.New(vm, asm, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := rt.RegisterGlobalVariable("limit", 10); err != nil {
			t.Fatal(err)
		}
		if err := rt.Run(tyvm.Complete); err != nil {
			t.Fatal(err)
		}
	})

	if what != "break at <global>:0001" {
		t.Fatalf("got %q", what)
	}
	x, err := ToStarlark(globals["x"])
	if err != nil {
		t.Fatal(err)
	}
	if x.String() != "3.0" {
		t.Fatalf("got %v", x)
	}
	if _, ok := globals["g_limit"]; !ok {
		t.Fatalf("got %v", globals)
	}
	if globals["steps"] != 2 {
		t.Fatalf("got %v", globals["steps"])
	}
}
