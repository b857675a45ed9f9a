package configs

import (
	"strings"
	"testing"
)

func TestFirst(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)

	str := First[string](loader, "str")
	if str != "bar" {
		t.Fatalf("got %v", str)
	}

	if n := First[int](loader, "count"); n != 0 {
		t.Fatalf("got %v", n)
	}

}

func TestFirstOr(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)
	if n := FirstOr(loader, "count", 3); n != 3 {
		t.Fatalf("got %v", n)
	}
	if s := FirstOr(loader, "str", "x"); s != "bar" {
		t.Fatalf("got %v", s)
	}

	bad := NewLoader([]string{"testdata/bad.cue"}, testSchema)
	func() {
		defer func() {
			if p := recover(); p == nil {
				t.Fatal("should panic")
			}
		}()
		FirstOr(bad, "str", "x")
	}()
}

func TestAllDecodeError(t *testing.T) {
	loader := NewLoader([]string{"testdata/test.cue"}, testSchema)
	defer func() {
		p := recover()
		if p == nil {
			t.Fatal("should panic")
		}
		if err, ok := p.(error); !ok || !strings.Contains(err.Error(), "config str") {
			t.Fatalf("got %v", p)
		}
	}()
	for range All[int](loader, "str") {
	}
}
