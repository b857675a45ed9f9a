package debugs

import (
	"fmt"
	"reflect"

	"github.com/reusee/starlarkutil"
	"github.com/reusee/tyvm/values"
	"go.starlark.net/starlark"
)

// ToStarlark converts Go values and VM values for the tap REPL.
// Arrays and slices become lists; maps and structs become dicts of exported fields.
func ToStarlark(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case nil:
		return starlark.None, nil
	case starlark.Value:
		return v, nil
	case []byte:
		return starlark.Bytes(v), nil
	case values.Value:
		if v.Kind() == values.KindHost {
			// host references are opaque to scripts
			return starlark.String(v.String()), nil
		}
		return ToStarlark(v.Interface())
	}
	return reflectToStarlark(reflect.ValueOf(v))
}

func reflectToStarlark(value reflect.Value) (starlark.Value, error) {
	switch value.Kind() {

	case reflect.Bool:
		return starlark.Bool(value.Bool()), nil

	case reflect.String:
		return starlark.String(value.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return starlark.MakeUint64(value.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float()), nil

	case reflect.Slice, reflect.Array:
		elems := make([]starlark.Value, value.Len())
		for i := range elems {
			elem, err := ToStarlark(value.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = elem
		}
		return starlark.NewList(elems), nil

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			k, err := ToStarlark(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			v, err := ToStarlark(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			if err := d.SetKey(k, v); err != nil {
				return nil, err
			}
		}
		return d, nil

	case reflect.Struct:
		typ := value.Type()
		d := starlark.NewDict(typ.NumField())
		for i := range typ.NumField() {
			field := typ.Field(i)
			if !field.IsExported() {
				continue
			}
			v, err := ToStarlark(value.Field(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			if err := d.SetKey(starlark.String(field.Name), v); err != nil {
				return nil, err
			}
		}
		return d, nil

	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return starlark.None, nil
		}
		return ToStarlark(value.Elem().Interface())

	case reflect.Func:
		if value.IsNil() {
			return starlark.None, nil
		}
		return starlarkutil.MakeFunc("", value.Interface()), nil

	}

	return nil, fmt.Errorf("unsupported type for starlark: %v", value.Type())
}
