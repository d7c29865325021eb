package deserialize

import (
	"fmt"
	"reflect"
	"strings"
)

// ForStruct derives a Creator for struct type T. Positional arguments fill
// the exported fields in declaration order; keyword arguments match a field
// by json tag, by name, or case-insensitively. Numeric values are converted
// when the raw decoder's type (e.g. float64 from JSON) differs from the
// field's.
func ForStruct[T any]() Creator {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct {
		panic("deserialize: ForStruct requires a struct type, got " + t.String())
	}
	fields := exportedFields(t)
	return func(args []any, kwargs map[string]any) (any, error) {
		v := reflect.New(t).Elem()
		if len(args) > len(fields) {
			return nil, fmt.Errorf("%s takes at most %d positional arguments, got %d",
				t.Name(), len(fields), len(args))
		}
		for i, a := range args {
			if err := setField(v, fields[i], a); err != nil {
				return nil, err
			}
		}
		for kw, a := range kwargs {
			f, ok := fieldByKeyword(fields, kw)
			if !ok {
				return nil, fmt.Errorf("%s has no field for keyword %q", t.Name(), kw)
			}
			if err := setField(v, f, a); err != nil {
				return nil, err
			}
		}
		return v.Interface(), nil
	}
}

type structField struct {
	index int
	name  string
	tag   string
	typ   reflect.Type
}

func exportedFields(t reflect.Type) []structField {
	var out []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		out = append(out, structField{index: i, name: f.Name, tag: tag, typ: f.Type})
	}
	return out
}

func fieldByKeyword(fields []structField, kw string) (structField, bool) {
	for _, f := range fields {
		if f.tag == kw || f.name == kw {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, kw) {
			return f, true
		}
	}
	return structField{}, false
}

func setField(v reflect.Value, f structField, raw any) error {
	fv := v.Field(f.index)
	if raw == nil {
		return nil
	}
	rv := reflect.ValueOf(raw)
	switch {
	case rv.Type().AssignableTo(f.typ):
		fv.Set(rv)
	case f.typ.Kind() == reflect.String && rv.Kind() != reflect.String:
		// reflect would happily convert an integer to a one-rune string.
		return fmt.Errorf("cannot use %T as field %s (%s)", raw, f.name, f.typ)
	case rv.Type().ConvertibleTo(f.typ):
		fv.Set(rv.Convert(f.typ))
	default:
		return fmt.Errorf("cannot use %T as field %s (%s)", raw, f.name, f.typ)
	}
	return nil
}
