package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/reusee/tyvm/asms"
	"github.com/reusee/tyvm/tyasm"
)

// loadAssembly reads a CUE source, or a binary assembly produced by build.
func loadAssembly(path string) (*asms.Assembly, error) {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		asm, err := tyasm.LoadFile(path)
		if err != nil {
			return nil, wrap(err)
		}
		return asm, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err)
	}
	asm, err := asms.Unmarshal(content)
	if err != nil {
		return nil, wrap(err)
	}
	return asm, nil
}

func buildAssembly(src, out string) error {
	asm, err := tyasm.LoadFile(src)
	if err != nil {
		return wrap(err)
	}
	bs, err := asms.Marshal(asm)
	if err != nil {
		return wrap(err)
	}
	if err := os.WriteFile(out, bs, 0644); err != nil {
		return wrap(err)
	}
	return nil
}
