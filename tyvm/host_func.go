package tyvm

import (
	"fmt"

	"github.com/reusee/tyvm/values"
)

// HostFunc is a Go function callable from scripts by name.
type HostFunc struct {
	Name string
	Func func(rt *Runtime, args []values.Value) (values.Value, error)
}

func (h HostFunc) IsMissing() bool {
	return h.Func == nil
}

func (h HostFunc) Call(rt *Runtime, args []values.Value) (values.Value, error) {
	if h.Func == nil {
		return values.Unit(), fmt.Errorf("host function %s is missing", h.Name)
	}
	return h.Func(rt, args)
}
