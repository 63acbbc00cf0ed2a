package mdconfig

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag read by WithSchema and Store.Scan.
const TagName = "mdconfig"

// WithSchema declares type families from the fields of a struct.
// The key is taken from the `mdconfig` tag, or the field name when the tag is empty.
// Integer fields become int singletons, float fields float singletons,
// integer and float slices the multi-valued families. Other fields keep the
// text default. Nested structs are walked without adding a key prefix,
// since line-oriented formats have a flat key space.
func (b *Builder) WithSchema(schema any) *Builder {
	v := reflect.ValueOf(schema)

	// Handle pointer or direct struct value
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			b.setErr(fmt.Errorf("%w: WithSchema requires a non-nil struct pointer or value", ErrInvalidDialect))
			return b
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		b.setErr(fmt.Errorf("%w: WithSchema requires a struct or struct pointer, got %T", ErrInvalidDialect, schema))
		return b
	}

	b.declareFields(v.Type())
	return b
}

// declareFields handles the recursive field walk.
func (b *Builder) declareFields(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get(TagName)
		if tag == "-" {
			continue
		}

		key := field.Name
		if tag != "" {
			if name, _, _ := strings.Cut(tag, ","); name != "" {
				key = name
			}
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		switch ft.Kind() {
		case reflect.Struct:
			b.declareFields(ft)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			b.WithIntSingletonParams(key)
		case reflect.Float32, reflect.Float64:
			b.WithFloatSingletonParams(key)
		case reflect.Slice, reflect.Array:
			switch ft.Elem().Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				b.WithIntParams(key)
			case reflect.Float32, reflect.Float64:
				b.WithFloatParams(key)
			}
		}
	}
}
