package configs

import (
	"maps"
	"testing"

	"github.com/reusee/dscope"
)

type testDepth int

func (testDepth) ConfigKey() string {
	return "depth"
}

type testName string

func (testName) ConfigKey() string {
	return "str"
}

var (
	_ Configurable = testDepth(0)
	_ Configurable = testName("")
)

func decls(pairs ...any) func(func(string, any) bool) {
	return func(yield func(string, any) bool) {
		for i := 0; i+1 < len(pairs); i += 2 {
			if !yield(pairs[i].(string), pairs[i+1]) {
				return
			}
		}
	}
}

func TestFork(t *testing.T) {
	scope := dscope.New(
		dscope.Provide(testDepth(1)),
		dscope.Provide(testName("a")),
	)

	scope, err := Fork(scope, decls(
		"testDepth", 8.0,
		"unrelated", true,
		"depth", 42.0,
	))
	if err != nil {
		t.Fatal(err)
	}
	if d := dscope.Get[testDepth](scope); d != 42 {
		t.Fatalf("got %v", d)
	}
	if n := dscope.Get[testName](scope); n != "a" {
		t.Fatalf("got %v", n)
	}

	if _, err := Fork(scope, decls("depth", "deep")); err == nil {
		t.Fatal("should error")
	}

	same, err := Fork(scope, maps.All(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	if d := dscope.Get[testDepth](same); d != 42 {
		t.Fatalf("got %v", d)
	}
}

func TestForkLoaded(t *testing.T) {
	scope := dscope.New(
		dscope.Provide(testDepth(1)),
		dscope.Provide(testName("a")),
	)
	loader := NewLoader([]string{"testdata/test2.cue"}, testSchema)
	scope, err := ForkLoaded(scope, loader)
	if err != nil {
		t.Fatal(err)
	}
	if n := dscope.Get[testName](scope); n != "foo" {
		t.Fatalf("got %v", n)
	}
	if d := dscope.Get[testDepth](scope); d != 1 {
		t.Fatalf("got %v", d)
	}
}
