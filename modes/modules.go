package modes

import (
	"context"
	"testing"

	"github.com/reusee/dscope"
)

// ModuleForProduction provides the production mode and a background context.
type ModuleForProduction struct {
	dscope.Module
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

func (ModuleForProduction) T() *testing.T {
	return nil
}

func (ModuleForProduction) Mode() Mode {
	return ModeProduction
}

func (ModuleForProduction) Context() context.Context {
	return context.Background()
}

// ModuleForTest provides the development mode, the running test and its context.
type ModuleForTest struct {
	dscope.Module
	t *testing.T
}

func ForTest(t *testing.T) ModuleForTest {
	return ModuleForTest{
		t: t,
	}
}

func (m ModuleForTest) T() *testing.T {
	return m.t
}

func (ModuleForTest) Mode() Mode {
	return ModeDevelopment
}

func (m ModuleForTest) Context() context.Context {
	return m.t.Context()
}
