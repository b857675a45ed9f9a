package configs

import (
	"errors"
	"fmt"
	"iter"
	"reflect"

	"github.com/reusee/dscope"
)

// Fork overrides the configurable types of scope with declared values.
// A declaration matches a type by its Go name or its config key; later declarations win.
func Fork(scope dscope.Scope, decls iter.Seq2[string, any]) (dscope.Scope, error) {
	byName := make(map[string]reflect.Type)
	for t := range configurableTypes(scope) {
		byName[t.Name()] = t
		byName[reflect.Zero(t).Interface().(Configurable).ConfigKey()] = t
	}

	values := make(map[reflect.Type]reflect.Value)
	var order []reflect.Type
	for name, decl := range decls {
		t, ok := byName[name]
		if !ok || decl == nil {
			continue
		}
		v := reflect.ValueOf(decl)
		if !v.Type().ConvertibleTo(t) {
			return scope, fmt.Errorf("config %s: cannot use %T as %v", name, decl, t)
		}
		if _, ok := values[t]; !ok {
			order = append(order, t)
		}
		values[t] = v.Convert(t)
	}

	var defs []any
	for _, t := range order {
		defs = append(defs, values[t].Interface())
	}
	if len(defs) == 0 {
		return scope, nil
	}
	return scope.Fork(defs...), nil
}

// ForkLoaded overrides the configurable types of scope with the first value found by loader.
func ForkLoaded(scope dscope.Scope, loader Loader) (dscope.Scope, error) {
	var defs []any
	for t := range configurableTypes(scope) {
		key := reflect.Zero(t).Interface().(Configurable).ConfigKey()
		ptr := reflect.New(t)
		if err := loader.AssignFirst(key, ptr.Interface()); err != nil {
			if errors.Is(err, ErrValueNotFound) {
				continue
			}
			return scope, fmt.Errorf("config %s: %w", key, err)
		}
		defs = append(defs, ptr.Elem().Interface())
	}
	if len(defs) == 0 {
		return scope, nil
	}
	return scope.Fork(defs...), nil
}

func configurableTypes(scope dscope.Scope) iter.Seq[reflect.Type] {
	return func(yield func(reflect.Type) bool) {
		for t := range scope.AllTypes() {
			if t.Kind() == reflect.Interface || !t.Implements(configurableType) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
