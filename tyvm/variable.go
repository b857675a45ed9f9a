package tyvm

import (
	"fmt"

	"github.com/reusee/tyvm/values"
)

// RuntimeVariable is a named, typed slot owned by a scope.
type RuntimeVariable struct {
	Name  string
	Type  string
	Value values.Value
	Scope *Scope
}

// Assign stores v. With strict set, v must be admitted by the declared type.
func (r *RuntimeVariable) Assign(v values.Value, strict bool) error {
	if strict && !values.Admits(r.Type, v) {
		return fmt.Errorf("%w: cannot assign %s to %s (%s)", values.ErrTypeMismatch, v.Kind(), r.Name, r.Type)
	}
	r.Value = v
	return nil
}

func (r *RuntimeVariable) String() string {
	if r.Type == "" {
		return fmt.Sprintf("%s = %#v", r.Name, r.Value)
	}
	return fmt.Sprintf("%s: %s = %#v", r.Name, r.Type, r.Value)
}
