// File: lixenwraith/mdconfig/builder.go
package mdconfig

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
)

// ValidatorFunc checks a finished Dialect before Build returns it.
type ValidatorFunc func(d *Dialect) error

// Builder provides a fluent interface for declaring a Dialect
type Builder struct {
	dialect    *Dialect
	err        error
	validators []ValidatorFunc
}

// NewDialect starts a Dialect declaration with the given name and line grammar
func NewDialect(name string, parser LineParser) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:                name,
			Parser:              parser,
			KeyValueSeparator:   DefaultKeyValueSeparator,
			InterValueSeparator: DefaultInterValueSeparator,
			CustomRules:         make(map[string]CustomRule),
		},
		validators: make([]ValidatorFunc, 0),
	}
}

// WithSeparators sets the output key/value separator and value joiner
func (b *Builder) WithSeparators(keyValue, interValue string) *Builder {
	if keyValue == "" || interValue == "" {
		b.setErr(fmt.Errorf("%w: separators must not be empty", ErrInvalidDialect))
		return b
	}
	b.dialect.KeyValueSeparator = keyValue
	b.dialect.InterValueSeparator = interValue
	return b
}

// WithFloatParams declares keys holding one or more floats
func (b *Builder) WithFloatParams(keys ...string) *Builder {
	b.dialect.FloatParams = append(b.dialect.FloatParams, keys...)
	return b
}

// WithFloatSingletonParams declares keys holding exactly one float
func (b *Builder) WithFloatSingletonParams(keys ...string) *Builder {
	b.dialect.FloatSingletonParams = append(b.dialect.FloatSingletonParams, keys...)
	return b
}

// WithIntParams declares keys holding one or more integers
func (b *Builder) WithIntParams(keys ...string) *Builder {
	b.dialect.IntParams = append(b.dialect.IntParams, keys...)
	return b
}

// WithIntSingletonParams declares keys holding exactly one integer
func (b *Builder) WithIntSingletonParams(keys ...string) *Builder {
	b.dialect.IntSingletonParams = append(b.dialect.IntSingletonParams, keys...)
	return b
}

// WithCustomRule installs a coercion rule for key, overriding any family declaration
func (b *Builder) WithCustomRule(key string, rule CustomRule) *Builder {
	if rule == nil {
		b.setErr(fmt.Errorf("%w: nil custom rule for key %q", ErrInvalidDialect, key))
		return b
	}
	b.dialect.CustomRules[key] = rule
	return b
}

// WithKeyNormalizer sets the key canonicalization function
func (b *Builder) WithKeyNormalizer(fn func(string) string) *Builder {
	b.dialect.KeyNormalizer = fn
	return b
}

// WithConstraint adds a boolean expression checked by Store.Validate.
// The expression is compiled here so syntax errors surface at Build.
func (b *Builder) WithConstraint(expression string) *Builder {
	if _, err := expr.Compile(expression, expr.AllowUndefinedVariables()); err != nil {
		b.setErr(fmt.Errorf("%w: constraint %q: %w", ErrInvalidDialect, expression, err))
		return b
	}
	b.dialect.Constraints = append(b.dialect.Constraints, expression)
	return b
}

// WithValidator adds a validation function that runs at the end of Build.
// Validators are executed in the order they are added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build returns the declared Dialect
func (b *Builder) Build() (*Dialect, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.dialect.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidDialect)
	}
	if b.dialect.Parser == nil {
		return nil, fmt.Errorf("%w: dialect %q has no line parser", ErrInvalidDialect, b.dialect.Name)
	}

	for _, validator := range b.validators {
		if err := validator(b.dialect); err != nil {
			return nil, fmt.Errorf("dialect validation failed: %w", err)
		}
	}

	return b.dialect, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Dialect {
	d, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("dialect build failed: %v", err))
	}
	return d
}

// setErr records a declaration error; Build reports all of them joined.
func (b *Builder) setErr(err error) {
	b.err = errors.Join(b.err, err)
}

// DisjointFamilies is a ValidatorFunc rejecting keys declared in more than one
// numeric family. Without it, later families silently win.
func DisjointFamilies(d *Dialect) error {
	seen := make(map[string]string)
	families := []struct {
		name string
		keys []string
	}{
		{"float", d.FloatParams},
		{"float singleton", d.FloatSingletonParams},
		{"int", d.IntParams},
		{"int singleton", d.IntSingletonParams},
	}
	var errs []error
	for _, family := range families {
		for _, key := range family.keys {
			k := d.normalize(key)
			if prev, ok := seen[k]; ok && prev != family.name {
				errs = append(errs, fmt.Errorf("%w: key %q declared as %s and %s", ErrInvalidDialect, k, prev, family.name))
				continue
			}
			seen[k] = family.name
		}
	}
	return errors.Join(errs...)
}
