package debugs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/tyvm/logs"
	"github.com/reusee/tyvm/values"
)

func TestTap(t *testing.T) {
	buf := new(bytes.Buffer)
	dscope.New(
		new(Module),
	).Fork(
		func() logs.Writer {
			return buf
		},
	).Call(func(
		tap Tap,
	) {
		tap(t.Context(), "test", map[string]any{
			"foo":  42,
			"bar":  values.NewArray(values.Number(1)),
			"pipe": make(chan int),
		})
	})
	if !strings.Contains(buf.String(), "skip global") || !strings.Contains(buf.String(), "name=pipe") {
		t.Fatalf("got %q", buf.String())
	}
}
