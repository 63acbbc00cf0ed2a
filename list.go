// FILE: lixenwraith/mdconfig/list.go
package mdconfig

import (
	"fmt"
	"strings"
)

// Value is a coerced configuration entry held by a Store.
type Value interface {
	// Changed reports whether the value was mutated in place after it was created.
	Changed() bool
	// Fields returns the textual form of every element, in order.
	Fields() []string
	// Native returns the plain Go form: a slice for containers, the scalar otherwise.
	Native() any
	// IsContainer reports whether the value holds a list of elements.
	IsContainer() bool
}

// List is an ordered sequence that records whether it has been modified.
// The flag is set by the first successful Set, Insert, Append or Delete and never cleared.
type List[T any] struct {
	data    []T
	changed bool
}

// NewList returns a List holding a copy of data.
func NewList[T any](data []T) *List[T] {
	l := &List[T]{data: make([]T, len(data))}
	copy(l.data, data)
	return l
}

// index resolves i, counting negative values from the end.
func (l *List[T]) index(i int) (int, error) {
	n := len(l.data)
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, i, n)
	}
	return i, nil
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return len(l.data)
}

// At returns the element at i.
func (l *List[T]) At(i int) (T, error) {
	idx, err := l.index(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.data[idx], nil
}

// Values returns a copy of the elements.
func (l *List[T]) Values() []T {
	out := make([]T, len(l.data))
	copy(out, l.data)
	return out
}

// Set replaces the element at i.
func (l *List[T]) Set(i int, v T) error {
	idx, err := l.index(i)
	if err != nil {
		return err
	}
	l.data[idx] = v
	l.changed = true
	return nil
}

// Insert places v before position i. Indices beyond either end are clamped.
func (l *List[T]) Insert(i int, v T) {
	n := len(l.data)
	if i < 0 {
		i += n
	}
	i = max(0, min(i, n))
	var zero T
	l.data = append(l.data, zero)
	copy(l.data[i+1:], l.data[i:])
	l.data[i] = v
	l.changed = true
}

// Append adds vs at the end.
func (l *List[T]) Append(vs ...T) {
	l.data = append(l.data, vs...)
	l.changed = true
}

// Delete removes the element at i.
func (l *List[T]) Delete(i int) error {
	idx, err := l.index(i)
	if err != nil {
		return err
	}
	l.data = append(l.data[:idx], l.data[idx+1:]...)
	l.changed = true
	return nil
}

// Changed reports whether the list was modified after construction.
func (l *List[T]) Changed() bool {
	return l.changed
}

func (l *List[T]) Fields() []string {
	out := make([]string, len(l.data))
	for i, v := range l.data {
		out[i] = formatElement(v)
	}
	return out
}

func (l *List[T]) Native() any {
	return l.Values()
}

func (l *List[T]) IsContainer() bool {
	return true
}

func (l *List[T]) String() string {
	return "[" + strings.Join(l.Fields(), ", ") + "]"
}

// Converter coerces an arbitrary value to T.
type Converter[T any] func(v any) (T, error)

// TypedList is a List whose elements are always of the declared type T.
// Every element is coerced at construction and on each mutation; a failed
// coercion leaves the list untouched.
type TypedList[T any] struct {
	list    List[T]
	convert Converter[T]
}

// NewTypedList coerces every element of in. A scalar input becomes a one-element list.
func NewTypedList[T any](in Input, convert Converter[T]) (*TypedList[T], error) {
	t := &TypedList[T]{convert: convert}
	data := make([]T, 0, in.Len())
	for i, v := range in.items {
		typed, err := t.coerce(i, v)
		if err != nil {
			return nil, err
		}
		data = append(data, typed)
	}
	t.list.data = data
	return t, nil
}

func (t *TypedList[T]) coerce(i int, v any) (T, error) {
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	typed, err := t.convert(v)
	if err != nil {
		var zero T
		return zero, &CoercionError{Index: i, Value: v, Target: typeName[T](), Err: err}
	}
	return typed, nil
}

func (t *TypedList[T]) Len() int {
	return t.list.Len()
}

func (t *TypedList[T]) At(i int) (T, error) {
	return t.list.At(i)
}

func (t *TypedList[T]) Values() []T {
	return t.list.Values()
}

// Set coerces v and replaces the element at i.
func (t *TypedList[T]) Set(i int, v any) error {
	if _, err := t.list.index(i); err != nil {
		return err
	}
	typed, err := t.coerce(i, v)
	if err != nil {
		return err
	}
	return t.list.Set(i, typed)
}

// Insert coerces v and places it before position i.
func (t *TypedList[T]) Insert(i int, v any) error {
	typed, err := t.coerce(i, v)
	if err != nil {
		return err
	}
	t.list.Insert(i, typed)
	return nil
}

// Append coerces all of vs before adding any of them.
func (t *TypedList[T]) Append(vs ...any) error {
	typed := make([]T, 0, len(vs))
	for i, v := range vs {
		tv, err := t.coerce(t.list.Len()+i, v)
		if err != nil {
			return err
		}
		typed = append(typed, tv)
	}
	t.list.Append(typed...)
	return nil
}

func (t *TypedList[T]) Delete(i int) error {
	return t.list.Delete(i)
}

func (t *TypedList[T]) Changed() bool {
	return t.list.Changed()
}

func (t *TypedList[T]) Fields() []string {
	return t.list.Fields()
}

func (t *TypedList[T]) Native() any {
	return t.list.Values()
}

func (t *TypedList[T]) IsContainer() bool {
	return true
}

func (t *TypedList[T]) String() string {
	return t.list.String()
}

// Singleton is a scalar entry. It has no in-place mutation; it is replaced
// through the store, so it never reports changed.
type Singleton[T any] struct {
	value T
}

// NewSingleton coerces a scalar or a one-element sequence to T.
func NewSingleton[T any](in Input, convert Converter[T]) (Singleton[T], error) {
	if in.Len() != 1 {
		return Singleton[T]{}, &CoercionError{
			Index:  -1,
			Value:  in.Values(),
			Target: typeName[T](),
			Err:    fmt.Errorf("singleton requires exactly one value, got %d", in.Len()),
		}
	}
	v := in.items[0]
	if typed, ok := v.(T); ok {
		return Singleton[T]{value: typed}, nil
	}
	typed, err := convert(v)
	if err != nil {
		return Singleton[T]{}, &CoercionError{Index: -1, Value: v, Target: typeName[T](), Err: err}
	}
	return Singleton[T]{value: typed}, nil
}

// Get returns the scalar.
func (s Singleton[T]) Get() T {
	return s.value
}

func (s Singleton[T]) Changed() bool {
	return false
}

func (s Singleton[T]) Fields() []string {
	return []string{formatElement(s.value)}
}

func (s Singleton[T]) Native() any {
	return s.value
}

func (s Singleton[T]) IsContainer() bool {
	return false
}

func (s Singleton[T]) String() string {
	return formatElement(s.value)
}
