// FILE: lixenwraith/mdconfig/decode.go
package mdconfig

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the current entries into target, a non-nil pointer to a
// struct or map. Struct fields are matched by the `mdconfig` tag.
// One-element lists decode into scalar fields, and text lists into string
// fields joined by the dialect's value separator.
func (s *Store) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	data := make(map[string]any, len(s.entries))
	for key, v := range s.All() {
		data[key] = v.Native()
	}

	_, inter := s.dialect.separators()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			sliceToScalarHookFunc(inter),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("scan into %T failed: %w", target, err)
	}
	return nil
}

// sliceToScalarHookFunc unwraps single-element slices for scalar targets and
// joins string slices for string targets.
func sliceToScalarHookFunc(joiner string) mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.Slice {
			return data, nil
		}
		switch t.Kind() {
		case reflect.Slice, reflect.Array, reflect.Interface, reflect.Map, reflect.Struct:
			return data, nil
		}

		if strs, ok := data.([]string); ok && t.Kind() == reflect.String {
			return strings.Join(strs, joiner), nil
		}

		rv := reflect.ValueOf(data)
		switch rv.Len() {
		case 0:
			return reflect.Zero(t).Interface(), nil
		case 1:
			return rv.Index(0).Interface(), nil
		default:
			return nil, fmt.Errorf("cannot decode %d values into %s", rv.Len(), t)
		}
	}
}
