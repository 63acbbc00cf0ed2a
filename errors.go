// FILE: lixenwraith/mdconfig/errors.go
package mdconfig

import (
	"errors"
	"fmt"
)

// Errors returned by store operations. Structured errors below wrap one of these,
// so callers can always test with errors.Is.
var (
	// ErrFileAccess indicates the original file does not exist, is not a regular file or cannot be read.
	ErrFileAccess = errors.New("cannot access config file")

	// ErrFileExists indicates a write target exists and overwrite was not requested.
	ErrFileExists = errors.New("output file exists")

	// ErrParse indicates the line grammar rejected a line.
	ErrParse = errors.New("parse error")

	// ErrTypeCoercion indicates a value cannot be converted to its declared type.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrKeyNotFound indicates a read or delete of an absent key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKey indicates a key that could not be written back as a line.
	ErrInvalidKey = errors.New("invalid key")

	// ErrIndexOutOfRange indicates a list index outside the list bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrConstraint indicates a dialect constraint did not hold.
	ErrConstraint = errors.New("constraint violated")

	// ErrSnapshot indicates a state snapshot that cannot be encoded or restored.
	ErrSnapshot = errors.New("invalid state snapshot")

	// ErrInvalidDialect indicates an incomplete or contradictory dialect declaration.
	ErrInvalidDialect = errors.New("invalid dialect")
)

// ParseError describes a line rejected during Parse.
type ParseError struct {
	// Path is the file being parsed.
	Path string
	// Line is the 1-based line number.
	Line int
	// Text is the offending line.
	Text string
	// Err is the error returned by the line parser.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse error in %s at line %d (%q): %v", e.Path, e.Line, e.Text, e.Err)
	}
	return fmt.Sprintf("parse error in %s at line %d (%q)", e.Path, e.Line, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse so callers need not unwrap the parser's own error.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// CoercionError describes a value that could not be converted.
type CoercionError struct {
	// Key is the configuration key, empty when the conversion happened outside a store.
	Key string
	// Index is the element position, -1 for singleton values.
	Index int
	// Value is the rejected input.
	Value any
	// Target names the declared type.
	Target string
	// Err is the underlying conversion error, if any.
	Err error
}

func (e *CoercionError) Error() string {
	where := "value"
	if e.Index >= 0 {
		where = fmt.Sprintf("element %d", e.Index)
	}
	msg := fmt.Sprintf("cannot convert %s %v (type %T) to %s", where, e.Value, e.Value, e.Target)
	if e.Key != "" {
		msg = fmt.Sprintf("key %q: %s", e.Key, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CoercionError) Unwrap() error {
	return e.Err
}

func (e *CoercionError) Is(target error) bool {
	return target == ErrTypeCoercion
}

// ConstraintError describes a dialect constraint that evaluated to false or failed to evaluate.
type ConstraintError struct {
	Expression string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("constraint %q: %v", e.Expression, e.Err)
	}
	return fmt.Sprintf("constraint %q does not hold", e.Expression)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConstraint
}

// DuplicateKeyWarning records a key that appeared on more than one line during Parse.
// The values of the last occurrence are kept.
type DuplicateKeyWarning struct {
	Key          string
	Line         int // line of the occurrence that won
	PreviousLine int // line of the occurrence that was discarded
}

func (w DuplicateKeyWarning) String() string {
	return fmt.Sprintf("duplicate configuration option %q on line %d (previous on line %d), last value takes precedence",
		w.Key, w.Line, w.PreviousLine)
}

// keyNotFound wraps ErrKeyNotFound with the key.
func keyNotFound(key string) error {
	return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
}
