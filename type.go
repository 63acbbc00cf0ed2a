// File: lixenwraith/mdconfig/type.go
package mdconfig

import "fmt"

// Strings returns the text list stored under key.
func (s *Store) Strings(key string) (*TypedList[string], error) {
	return listAs[string](s, key)
}

// Ints returns the integer list stored under key.
func (s *Store) Ints(key string) (*TypedList[int64], error) {
	return listAs[int64](s, key)
}

// Floats returns the float list stored under key.
func (s *Store) Floats(key string) (*TypedList[float64], error) {
	return listAs[float64](s, key)
}

// Int returns the integer singleton stored under key.
func (s *Store) Int(key string) (int64, error) {
	return singletonAs[int64](s, key)
}

// Float returns the float singleton stored under key.
// Integer singletons are widened.
func (s *Store) Float(key string) (float64, error) {
	v, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	if i, ok := v.(Singleton[int64]); ok {
		return float64(i.Get()), nil
	}
	return singletonAs[float64](s, key)
}

// Text returns a singleton's string form, or the first element of a list.
// An empty list yields "".
func (s *Store) Text(key string) (string, error) {
	v, err := s.Get(key)
	if err != nil {
		return "", err
	}
	fields := v.Fields()
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

func listAs[T any](s *Store, key string) (*TypedList[T], error) {
	v, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	l, ok := v.(*TypedList[T])
	if !ok {
		return nil, fmt.Errorf("%w: key %q holds %T, not a list of %s", ErrTypeCoercion, key, v, typeName[T]())
	}
	return l, nil
}

func singletonAs[T any](s *Store, key string) (T, error) {
	var zero T
	v, err := s.Get(key)
	if err != nil {
		return zero, err
	}
	single, ok := v.(Singleton[T])
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T, not a %s singleton", ErrTypeCoercion, key, v, typeName[T]())
	}
	return single.Get(), nil
}
