package logs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/reusee/dscope"
)

func withBuffer(buf *bytes.Buffer) dscope.Scope {
	return dscope.New(new(Module)).Fork(
		func() Writer {
			return buf
		},
	)
}

func TestLogger(t *testing.T) {
	SetLevel(slog.LevelInfo)
	defer SetLevel(slog.LevelWarn)
	buf := new(bytes.Buffer)
	withBuffer(buf).Call(func(
		logger Logger,
	) {
		logger.Info("test", "hello", "world!")
		logger.Debug("hidden")
	})
	if !strings.Contains(buf.String(), "hello=world!") {
		t.Fatalf("got %v", buf.String())
	}
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("got %v", buf.String())
	}
}

func TestNewSpan(t *testing.T) {
	SetLevel(slog.LevelDebug)
	defer SetLevel(slog.LevelWarn)
	buf := new(bytes.Buffer)
	withBuffer(buf).Call(func(
		newSpan NewSpan,
	) {
		ctx := context.Background()
		ctx1, span1 := newSpan(ctx, "")
		ctx11, span11 := newSpan(ctx1, "")
		_, span12 := newSpan(ctx11, span1)

		var lines []string
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.Contains(line, "new span") {
				lines = append(lines, line)
			}
		}
		if len(lines) != 3 {
			t.Fatalf("got %v", lines)
		}
		if !strings.Contains(lines[0], "span="+string(span1)) {
			t.Fatalf("got %v", lines[0])
		}
		if !strings.Contains(lines[1], "span="+string(span11)) {
			t.Fatalf("got %v", lines[1])
		}
		if !strings.Contains(lines[1], "parent="+string(span1)) {
			t.Fatalf("got %v", lines[1])
		}
		if !strings.Contains(lines[2], "span="+string(span12)) {
			t.Fatalf("got %v", lines[2])
		}
		if !strings.Contains(lines[2], "creator="+string(span11)) {
			t.Fatalf("got %v", lines[2])
		}
	})
}

func TestWrapSpan(t *testing.T) {
	base := errors.New("boom")
	if err := WrapSpan(context.Background(), base); err != base {
		t.Fatalf("got %v", err)
	}
	ctx := WithSpan(context.Background(), "abc")
	err := WrapSpan(ctx, base)
	if !errors.Is(err, base) {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(err.Error(), "span: abc") {
		t.Fatalf("got %v", err)
	}
	if WrapSpan(ctx, nil) != nil {
		t.Fatal("nil should stay nil")
	}
}

func TestContextAttrs(t *testing.T) {
	SetLevel(slog.LevelInfo)
	defer SetLevel(slog.LevelWarn)
	buf := new(bytes.Buffer)
	withBuffer(buf).Call(func(
		logger Logger,
	) {
		ctx := WithAttrs(context.Background(), "file", "a.cue")
		ctx = WithAttrs(ctx, "method", "main")
		ctx = WithSpan(ctx, "s1")
		logger.InfoContext(ctx, "run")
		logger.Info("plain")
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %v", lines)
	}
	for _, expected := range []string{"file=a.cue", "method=main", "span=s1"} {
		if !strings.Contains(lines[0], expected) {
			t.Fatalf("got %v", lines[0])
		}
	}
	if strings.Contains(lines[1], "file=") {
		t.Fatalf("got %v", lines[1])
	}
}
