package cmds

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestVar(t *testing.T) {
	a := Var[int]("TestVar.int")
	b := Var[string]("TestVar.string")
	GlobalExecutor.MustExecute([]string{
		"TestVar.int", "42",
		"TestVar.string", "bar",
	})
	if *a != 42 {
		t.Fatalf("got %v", *a)
	}
	if *b != "bar" {
		t.Fatalf("got %v", *b)
	}
	GlobalExecutor.MustExecute([]string{"TestVar.int."})
	if *a != 0 {
		t.Fatalf("got %v", *a)
	}
}

func TestSwitch(t *testing.T) {
	e := NewExecutor()
	foo := SwitchOf(e, "-foo")
	e.MustExecute([]string{"-foo"})
	if !*foo {
		t.Fatal("should be on")
	}
	e.MustExecute([]string{"!-foo"})
	if *foo {
		t.Fatal("should be off")
	}
}

func TestCollect(t *testing.T) {
	e := NewExecutor()
	list := CollectOf[string](e, "run")
	e.MustExecute([]string{
		"run", "a.cue",
		"run", "b.cue",
	})
	if str := fmt.Sprintf("%v", *list); str != "[a.cue b.cue]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type Depth int
	e := NewExecutor()
	v := VarOf[Depth](e, "-depth")
	d := VarOf[time.Duration](e, "-timeout")
	e.MustExecute([]string{
		"-depth", "8",
		"-timeout", "2s",
	})
	if *v != 8 {
		t.Fatalf("got %v", *v)
	}
	if *d != 2*time.Second {
		t.Fatalf("got %v", *d)
	}

	buf := new(strings.Builder)
	e.WriteUsage(buf)
	if !strings.Contains(buf.String(), "-depth <cmds.Depth>") || !strings.Contains(buf.String(), "reset -timeout") {
		t.Fatalf("got\n%s", buf.String())
	}
}

func TestFuncChecks(t *testing.T) {
	for _, fn := range []any{
		42,
		func() (int, error) { return 0, nil },
		func() int { return 0 },
		func(...string) {},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%T should panic", fn)
				}
			}()
			Func(fn)
		}()
	}
}
