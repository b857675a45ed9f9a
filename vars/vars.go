package vars

import "strings"

// Deref returns def for a nil ptr, such as an unset flag.
func Deref[T any](ptr *T, def T) T {
	if ptr != nil {
		return *ptr
	}
	return def
}

// PositiveOr returns n when it is positive and def otherwise.
func PositiveOr[T ~int | ~int64 | ~float64](n, def T) T {
	if n > 0 {
		return n
	}
	return def
}

// StrToBool reports false for anything it does not recognize as true.
func StrToBool(str string) bool {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true", "t", "yes", "y", "on", "1":
		return true
	}
	return false
}
