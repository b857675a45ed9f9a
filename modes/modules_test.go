package modes

import (
	"context"
	"testing"

	"github.com/reusee/dscope"
)

func TestForProduction(t *testing.T) {
	dscope.New(ForProduction()).Call(func(
		pt *testing.T,
		mode Mode,
		ctx context.Context,
	) {
		if pt != nil {
			t.Fatal("production scope has no test")
		}
		if mode != ModeProduction || mode.IsDevelopment() {
			t.Fatalf("got %v", mode)
		}
		if mode.String() != "production" {
			t.Fatalf("got %v", mode)
		}
		if ctx.Err() != nil {
			t.Fatal(ctx.Err())
		}
	})
}

func TestForTest(t *testing.T) {
	dscope.New(ForTest(t)).Call(func(
		st *testing.T,
		mode Mode,
		ctx context.Context,
	) {
		if st != t {
			t.Fatal("should provide the test")
		}
		if !mode.IsDevelopment() {
			t.Fatalf("got %v", mode)
		}
		if ctx != t.Context() {
			t.Fatal("should provide the test context")
		}
		if Mode(0).String() != "unknown" {
			t.Fatal()
		}
	})
}
