// File: lixenwraith/mdconfig/helper.go
package mdconfig

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ToText converts common types to their textual form. Only nil is rejected.
func ToText(v any) (string, error) {
	if v == nil {
		return "", fmt.Errorf("nil value")
	}

	switch val := v.(type) {
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	case []byte:
		return string(val), nil
	case float32:
		return formatFloat(float64(val)), nil
	case float64:
		return formatFloat(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case error:
		return val.Error(), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.String:
		return rv.String(), nil
	}
	return fmt.Sprint(v), nil
}

// ToInt converts numeric types, booleans and base-10 strings to int64.
// Floats are truncated toward zero; strings holding a fraction are rejected.
func ToInt(v any) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("unsigned integer %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("cannot truncate %v", f)
		}
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, fmt.Errorf("float %v overflows int64", f)
		}
		return int64(f), nil
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, err
		}
		return i, nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("unsupported type %T", v)
}

// ToFloat converts numeric types, booleans and parsable strings to float64.
func ToFloat(v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return 0, err
		}
		return f, nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("unsupported type %T", v)
}

// formatFloat renders the shortest representation that parses back to f.
// Integral values keep a trailing ".0" and very large or small magnitudes use
// exponent notation, matching what MD engines and their tooling emit.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp := 0
	if i := strings.IndexByte(sci, 'e'); i >= 0 {
		exp, _ = strconv.Atoi(sci[i+1:])
	}
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// formatElement renders one list element for output.
func formatElement(v any) string {
	s, err := ToText(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// isValidKey reports whether key can be written back as a single line.
func isValidKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	return !strings.ContainsAny(key, "\r\n")
}

// typeName returns the printable name of T.
func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
