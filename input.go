// FILE: lixenwraith/mdconfig/input.go
package mdconfig

// Input is the value handed to a coercion rule. It is either a scalar or a
// sequence; the distinction is made by the caller, never by inspecting the
// value, so a scalar string is always one element.
type Input struct {
	items []any
}

// Scalar wraps a single value. Strings are never split into characters.
func Scalar(v any) Input {
	return Input{items: []any{v}}
}

// Sequence wraps zero or more values.
func Sequence(vs ...any) Input {
	items := make([]any, len(vs))
	copy(items, vs)
	return Input{items: items}
}

// SequenceOf wraps a typed slice, e.g. the raw []string produced by a line parser.
func SequenceOf[T any](vs []T) Input {
	items := make([]any, len(vs))
	for i, v := range vs {
		items[i] = v
	}
	return Input{items: items}
}

// Len returns the number of wrapped values (1 for a scalar).
func (in Input) Len() int {
	return len(in.items)
}

// Values returns a copy of the wrapped values.
func (in Input) Values() []any {
	out := make([]any, len(in.items))
	copy(out, in.items)
	return out
}
