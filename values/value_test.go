package values

import (
	"errors"
	"math"
	"testing"
)

func TestFromTo(t *testing.T) {
	v := From(42)
	if v.Kind() != KindNumber {
		t.Fatalf("got %v", v.Kind())
	}
	i, err := To[int32](v)
	if err != nil {
		t.Fatal(err)
	}
	if i != 42 {
		t.Fatalf("got %v", i)
	}

	s, err := To[string](v)
	if err != nil {
		t.Fatal(err)
	}
	if s != "42" {
		t.Fatalf("got %v", s)
	}

	f, err := To[float64](From("2.5"))
	if err != nil {
		t.Fatal(err)
	}
	if f != 2.5 {
		t.Fatalf("got %v", f)
	}

	b, err := To[bool](From("true"))
	if err != nil {
		t.Fatal(err)
	}
	if !b {
		t.Fatal("should be true")
	}

	a, err := To[any](From([]any{1, "a"}))
	if err != nil {
		t.Fatal(err)
	}
	elems := a.([]any)
	if len(elems) != 2 || elems[0] != 1.0 || elems[1] != "a" {
		t.Fatalf("got %v", elems)
	}

	type point struct{ X, Y int }
	h, err := To[point](From(point{1, 2}))
	if err != nil {
		t.Fatal(err)
	}
	if h.X != 1 || h.Y != 2 {
		t.Fatalf("got %v", h)
	}
}

func TestToRounding(t *testing.T) {
	for _, c := range []struct {
		in       float64
		expected int
	}{
		{2.5, 2},
		{3.5, 4},
		{-2.5, -2},
		{1.4, 1},
	} {
		got, err := To[int](Number(c.in))
		if err != nil {
			t.Fatal(err)
		}
		if got != c.expected {
			t.Fatalf("%v: got %v", c.in, got)
		}
	}
}

func TestToErrors(t *testing.T) {
	if _, err := To[uint8](Number(256)); !errors.Is(err, ErrConversion) {
		t.Fatalf("got %v", err)
	}
	if _, err := To[uint](Number(-1)); !errors.Is(err, ErrConversion) {
		t.Fatalf("got %v", err)
	}
	if _, err := To[int64](Number(math.Pow(2, 63))); !errors.Is(err, ErrConversion) {
		t.Fatalf("got %v", err)
	}
	if _, err := To[int](Number(math.NaN())); !errors.Is(err, ErrConversion) {
		t.Fatalf("got %v", err)
	}
	if _, err := To[int](String("abc")); !errors.Is(err, ErrConversion) {
		t.Fatalf("got %v", err)
	}
	v, err := To[int](String("abc"))
	if err == nil || v != 0 {
		t.Fatalf("got %v", v)
	}
	if _, err := To[[]Value](Number(1)); !errors.Is(err, ErrConversion) {
		t.Fatalf("got %v", err)
	}
}

func TestAdmits(t *testing.T) {
	for _, c := range []struct {
		typ      string
		v        Value
		expected bool
	}{
		{"number", Number(1), true},
		{"i32", Number(1), true},
		{"i32", String("1"), false},
		{"string", String("x"), true},
		{"bool", Bool(true), true},
		{"bool", Number(0), false},
		{"any", String("x"), true},
		{"", Number(1), true},
		{"number", Unit(), true},
		{"number[]", NewArray(Number(1)), true},
		{"array", Number(1), false},
		{"Point", NewStruct("Point", []string{"x"}), true},
		{"Point", NewStruct("Other", []string{"x"}), false},
		{"void", Number(1), false},
		{"number", Host(struct{}{}), false},
	} {
		if got := Admits(c.typ, c.v); got != c.expected {
			t.Fatalf("%s %#v: got %v", c.typ, c.v, got)
		}
	}
}

func TestZero(t *testing.T) {
	if n, ok := Zero("i64").AsNumber(); !ok || n != 0 {
		t.Fatal("bad number zero")
	}
	if s, ok := Zero("string").AsString(); !ok || s != "" {
		t.Fatal("bad string zero")
	}
	if b, ok := Zero("bool").AsBool(); !ok || b {
		t.Fatal("bad bool zero")
	}
	if !Zero("any").IsUnit() {
		t.Fatal("any zero should be unit")
	}
	if !Zero("Point").IsUnit() {
		t.Fatal("struct zero should be unit")
	}
}

func TestCompare(t *testing.T) {
	c, err := Compare(Number(1), Number(2))
	if err != nil {
		t.Fatal(err)
	}
	if c != -1 {
		t.Fatalf("got %v", c)
	}
	c, err = Compare(String("b"), String("a"))
	if err != nil {
		t.Fatal(err)
	}
	if c != 1 {
		t.Fatalf("got %v", c)
	}
	if _, err := Compare(Number(1), String("a")); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Number(1), Number(1)) {
		t.Fatal("should equal")
	}
	if Equal(Number(1), String("1")) {
		t.Fatal("should not equal")
	}
	a := NewArray(Number(1))
	if !Equal(a, a) {
		t.Fatal("should equal itself")
	}
	if Equal(a, NewArray(Number(1))) {
		t.Fatal("arrays compare by identity")
	}
	if Equal(Host([]int{1}), Host([]int{1})) {
		t.Fatal("incomparable host values are never equal")
	}
	if !Equal(Unit(), Unit()) {
		t.Fatal("units should equal")
	}
}

func TestString(t *testing.T) {
	s := NewStruct("Point", []string{"x", "y"}, Number(1), String("a"))
	if got := s.String(); got != `Point{x: 1, y: "a"}` {
		t.Fatalf("got %v", got)
	}
	if got := NewArray(Number(1.5), Bool(true)).String(); got != "[1.5, true]" {
		t.Fatalf("got %v", got)
	}
	if got := Unit().GoString(); got != "unit" {
		t.Fatalf("got %v", got)
	}
	if got := String("x").GoString(); got != `"x"` {
		t.Fatalf("got %v", got)
	}
}

func TestComposite(t *testing.T) {
	v := NewArray()
	arr, _ := v.AsArray()
	arr.Append(Number(1))
	if arr.Len() != 1 {
		t.Fatalf("got %v", arr.Len())
	}
	if arr.Set(1, Number(2)) {
		t.Fatal("out of range set should fail")
	}
	if _, ok := arr.Get(-1); ok {
		t.Fatal("negative get should fail")
	}

	sv := NewStruct("P", []string{"x"})
	st, _ := sv.AsStruct()
	if st.Set("nope", Number(1)) {
		t.Fatal("undeclared field")
	}
	if !st.Set("x", Number(3)) {
		t.Fatal("declared field")
	}
	m, err := To[map[string]any](sv)
	if err != nil {
		t.Fatal(err)
	}
	if m["x"] != 3.0 {
		t.Fatalf("got %v", m)
	}
}
