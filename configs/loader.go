package configs

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
)

// Loader reads CUE and TOML files in order and validates each against a closed schema.
// Lookups return values from earlier files first.
type Loader struct {
	load func() ([]cue.Value, error)
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{
		load: sync.OnceValues(func() ([]cue.Value, error) {
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("schema: %w", err)
				}
			}

			roots := make([]cue.Value, 0, len(filePaths))
			for _, filePath := range filePaths {
				value, err := compileFile(ctx, filePath)
				if err != nil {
					return nil, err
				}
				if schema.Exists() {
					if err := schema.Unify(value).Validate(); err != nil {
						return nil, fmt.Errorf("%s: %w", filePath, err)
					}
				}
				roots = append(roots, value)
			}
			return roots, nil
		}),
	}
}

// compileFile decodes TOML files into CUE values, all other files are CUE sources.
func compileFile(ctx *cue.Context, filePath string) (cue.Value, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return cue.Value{}, err
	}
	var value cue.Value
	if strings.EqualFold(filepath.Ext(filePath), ".toml") {
		var m map[string]any
		if _, err := toml.Decode(string(content), &m); err != nil {
			return cue.Value{}, fmt.Errorf("%s: %w", filePath, err)
		}
		value = ctx.Encode(m)
	} else {
		value = ctx.CompileBytes(content, cue.Filename(filePath))
	}
	if err := value.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("%s: %w", filePath, err)
	}
	return value, nil
}

// IterCueValues yields the value at path of every file that defines it.
// A load error is yielded once and ends the iteration.
func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		roots, err := l.load()
		if err != nil {
			yield(nil, err)
			return
		}
		cuePath := cue.ParsePath(path)
		for _, root := range roots {
			value := root.LookupPath(cuePath)
			if !value.Exists() || value.Err() != nil {
				continue
			}
			if !yield(&value, nil) {
				return
			}
		}
	}
}

func (l Loader) AssignFirst(path string, target any) error {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return err
		}
		return value.Decode(target)
	}
	return ErrValueNotFound
}
