package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/modes"
)

func testScope(t *testing.T) dscope.Scope {
	return dscope.New(
		new(Module),
		modes.ForTest(t),
	)
}

func TestRunFile(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := runFile(t.Context(), testScope(t), "testdata/hello.cue", buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "hello 42\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestBuildAndLoad(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hello.tyb")
	if err := buildAssembly("testdata/hello.cue", out); err != nil {
		t.Fatal(err)
	}
	asm, err := loadAssembly(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(asm.String(), `0003 call println() ("hello", n)`) {
		t.Fatalf("got\n%s", asm.String())
	}

	if _, err := loadAssembly("testdata/nope.tyb"); err == nil {
		t.Fatal("should error")
	}
}

func TestTimeout(t *testing.T) {
	asm, err := loadAssembly("testdata/forever.cue")
	if err != nil {
		t.Fatal(err)
	}
	rt, err := newRuntime(testScope(t), asm, new(bytes.Buffer))
	if err != nil {
		t.Fatal(err)
	}
	if err := runToEnd(t.Context(), rt, 20*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !rt.Running() || rt.Steps() == 0 {
		t.Fatalf("should be interrupted while running, steps %d", rt.Steps())
	}
}

func TestTimeoutAfterBreak(t *testing.T) {
	asm, err := loadAssembly("testdata/break_forever.cue")
	if err != nil {
		t.Fatal(err)
	}
	rt, err := newRuntime(testScope(t), asm, new(bytes.Buffer))
	if err != nil {
		t.Fatal(err)
	}
	// the deadline passes while paused at the break
	if err := runToEnd(t.Context(), rt, time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if !rt.Running() {
		t.Fatal("should be interrupted while running")
	}
}

func TestDebugger(t *testing.T) {
	asm, err := loadAssembly("testdata/hello.cue")
	if err != nil {
		t.Fatal(err)
	}
	out := new(bytes.Buffer)
	rt, err := newRuntime(testScope(t), asm, out)
	if err != nil {
		t.Fatal(err)
	}
	d := &debugger{
		rt:  rt,
		out: out,
	}

	d.exec("s")
	if !strings.Contains(out.String(), "<global> 0001 break") {
		t.Fatalf("got %q", out.String())
	}
	out.Reset()
	d.exec("vars")
	if !strings.Contains(out.String(), "n = 41") {
		t.Fatalf("got %q", out.String())
	}
	out.Reset()
	d.exec("c")
	if !strings.Contains(out.String(), "<global> 0002 add n, n, 1") {
		t.Fatalf("got %q", out.String())
	}
	out.Reset()
	d.exec("continue")
	if !strings.Contains(out.String(), "hello 42") || !strings.Contains(out.String(), "end after") {
		t.Fatalf("got %q", out.String())
	}
	out.Reset()
	d.exec("help")
	if !strings.Contains(out.String(), "commands:") {
		t.Fatalf("got %q", out.String())
	}
	if !d.exec("q") {
		t.Fatal("should quit")
	}
}

func TestRunFiles(t *testing.T) {
	buf := new(bytes.Buffer)
	paths := []string{"testdata/hello.cue", "testdata/hello.cue", "testdata/hello.cue"}
	if err := runFiles(t.Context(), testScope(t), paths, 2, buf); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "hello 42\n"); n != 3 {
		t.Fatalf("got %q", buf.String())
	}

	err := runFiles(t.Context(), testScope(t), []string{"testdata/hello.cue", "testdata/nope.cue"}, 1, buf)
	if err == nil || !strings.Contains(err.Error(), "testdata/nope.cue") {
		t.Fatalf("got %v", err)
	}
}
