package configs

import (
	"errors"
	"fmt"
	"iter"
)

// First returns the value at path from the first file that sets it, or the zero T.
func First[T any](loader Loader, path string) T {
	var value T
	return FirstOr(loader, path, value)
}

// FirstOr returns def when no file sets path. Other errors panic.
func FirstOr[T any](loader Loader, path string, def T) T {
	var value T
	if err := loader.AssignFirst(path, &value); err != nil {
		if errors.Is(err, ErrValueNotFound) {
			return def
		}
		panic(fmt.Errorf("config %s: %w", path, err))
	}
	return value
}

// All iterates the values at path across files, in file order.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for value, err := range loader.IterCueValues(path) {
			if err != nil {
				panic(fmt.Errorf("config %s: %w", path, err))
			}
			var v T
			if err := value.Decode(&v); err != nil {
				panic(fmt.Errorf("config %s: %w", path, err))
			}
			if !yield(v) {
				return
			}
		}
	}
}
