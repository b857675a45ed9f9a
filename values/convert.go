package values

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	ErrTypeMismatch = errors.New("type mismatch")
	ErrConversion   = errors.New("conversion failed")
)

// From converts a host value. Types without a script counterpart become host values.
func From(v any) Value {
	switch v := v.(type) {
	case nil:
		return Unit()
	case Value:
		return v
	case bool:
		return Bool(v)
	case string:
		return String(v)
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case float32:
		return Number(float64(v))
	case float64:
		return Number(v)
	case []Value:
		return NewArray(v...)
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = From(e)
		}
		return NewArray(elems...)
	case []string:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = String(e)
		}
		return NewArray(elems...)
	}
	return Host(v)
}

// To converts v to T.
// Numbers convert to every numeric type, rounding half to even and failing on overflow.
// Strings parse into numbers and booleans, and every scalar renders into a string.
func To[T any](v Value) (ret T, err error) {
	switch p := any(&ret).(type) {
	case *Value:
		*p = v
		return
	case *any:
		*p = v.Interface()
		return
	case *bool:
		*p, err = toBool(v)
	case *string:
		*p, err = toString(v)
	case *float64:
		*p, err = toFloat(v)
	case *float32:
		var f float64
		f, err = toFloat(v)
		*p = float32(f)
	case *int:
		*p, err = toInt[int](v, math.MinInt, math.MaxInt)
	case *int8:
		*p, err = toInt[int8](v, math.MinInt8, math.MaxInt8)
	case *int16:
		*p, err = toInt[int16](v, math.MinInt16, math.MaxInt16)
	case *int32:
		*p, err = toInt[int32](v, math.MinInt32, math.MaxInt32)
	case *int64:
		*p, err = toInt[int64](v, math.MinInt64, math.MaxInt64)
	case *uint:
		*p, err = toInt[uint](v, 0, math.MaxUint)
	case *uint8:
		*p, err = toInt[uint8](v, 0, math.MaxUint8)
	case *uint16:
		*p, err = toInt[uint16](v, 0, math.MaxUint16)
	case *uint32:
		*p, err = toInt[uint32](v, 0, math.MaxUint32)
	case *uint64:
		*p, err = toInt[uint64](v, 0, math.MaxUint64)
	case *[]any:
		if _, ok := v.AsArray(); !ok {
			return ret, conversionError(v, "[]any")
		}
		*p = v.Interface().([]any)
	case *[]Value:
		a, ok := v.AsArray()
		if !ok {
			return ret, conversionError(v, "[]Value")
		}
		*p = a.Elems
	case *map[string]any:
		if _, ok := v.AsStruct(); !ok {
			return ret, conversionError(v, "map[string]any")
		}
		*p = v.Interface().(map[string]any)
	default:
		if h, ok := v.ref.(T); ok && v.kind == KindHost {
			return h, nil
		}
		return ret, conversionError(v, fmt.Sprintf("%T", ret))
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return
}

func conversionError(v Value, target string) error {
	return fmt.Errorf("%w: %s to %s", ErrConversion, v.kind, target)
}

func toBool(v Value) (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindNumber:
		return v.num != 0, nil
	case KindString:
		b, err := strconv.ParseBool(v.str)
		if err != nil {
			return false, conversionError(v, "bool")
		}
		return b, nil
	}
	return false, conversionError(v, "bool")
}

func toString(v Value) (string, error) {
	switch v.kind {
	case KindString, KindBool, KindNumber:
		return v.String(), nil
	}
	return "", conversionError(v, "string")
}

func toFloat(v Value) (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, conversionError(v, "number")
		}
		return f, nil
	}
	return 0, conversionError(v, "number")
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func toInt[I integer](v Value, lo, hi float64) (I, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) {
		return 0, conversionError(v, "integer")
	}
	f = math.RoundToEven(f)
	// 64-bit bounds are not representable and round up past the range
	if f < lo || f > hi || (f == hi && hi >= 1<<53) {
		return 0, fmt.Errorf("%w: %v overflows", ErrConversion, f)
	}
	return I(f), nil
}
