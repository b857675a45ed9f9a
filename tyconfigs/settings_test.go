package tyconfigs

import (
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/configs"
	"github.com/reusee/tyvm/modes"
	"github.com/reusee/tyvm/tyvm"
)

func testScope(t *testing.T, paths ...string) dscope.Scope {
	return dscope.New(
		new(Module),
		modes.ForTest(t),
	).Fork(
		func() configs.Loader {
			return configs.NewLoader(paths, schema)
		},
	)
}

func TestDefaultSettings(t *testing.T) {
	testScope(t).Call(func(
		settings *tyvm.Settings,
	) {
		if !settings.StrictTypes {
			t.Fatal("should be strict")
		}
		if settings.MaxCallDepth != tyvm.DefaultSettings().MaxCallDepth {
			t.Fatalf("got %v", settings.MaxCallDepth)
		}
		if !settings.BreakInterrupts {
			t.Fatal("break should interrupt")
		}
		if !settings.Trace {
			t.Fatal("development mode traces")
		}
		if settings.Logger == nil {
			t.Fatal("no logger")
		}
	})

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		trace Trace,
	) {
		if trace {
			t.Fatal("production does not trace")
		}
	})
}

func TestConfigFiles(t *testing.T) {
	testScope(t, "testdata/tyvm.toml", "testdata/tyvm.cue").Call(func(
		settings *tyvm.Settings,
	) {
		if settings.StrictTypes {
			t.Fatal("toml disables strict types")
		}
		// earlier files win
		if settings.MaxCallDepth != 64 {
			t.Fatalf("got %v", settings.MaxCallDepth)
		}
		if settings.BreakInterrupts {
			t.Fatal("cue disables break interrupts")
		}
		if !settings.Trace {
			t.Fatal("should trace")
		}
	})
}

func TestScriptFork(t *testing.T) {
	scope := testScope(t, "testdata/tyvm.toml")
	scope, err := ScriptFork(scope, "testdata/tyvmrc.cue")
	if err != nil {
		t.Fatal(err)
	}
	scope.Call(func(
		settings *tyvm.Settings,
		depth MaxCallDepth,
	) {
		if depth != 32 {
			t.Fatalf("got %v", depth)
		}
		if settings.MaxCallDepth != 32 {
			t.Fatalf("got %v", settings.MaxCallDepth)
		}
		if !settings.StrictTypes {
			t.Fatal("script enables strict types")
		}
	})

	if _, err := ScriptFork(scope, "testdata/nope.cue"); err == nil {
		t.Fatal("should error")
	}
}
