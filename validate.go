package mdconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Validate evaluates the dialect's constraints against the current entries.
//
// Each key is visible to expressions by its name, and with '-' replaced by
// '_' so that keys like "tau-t" can be referenced as tau_t. Absent keys are
// nil. All failing constraints are reported, joined.
func (s *Store) Validate() error {
	if len(s.dialect.Constraints) == 0 {
		return nil
	}

	env := s.exprEnv()
	var errs []error
	for _, constraint := range s.dialect.Constraints {
		program, err := expr.Compile(constraint, expr.Env(env), expr.AllowUndefinedVariables(), expr.AsBool())
		if err != nil {
			errs = append(errs, &ConstraintError{Expression: constraint, Err: err})
			continue
		}
		out, err := expr.Run(program, env)
		if err != nil {
			errs = append(errs, &ConstraintError{Expression: constraint, Err: err})
			continue
		}
		if ok, _ := out.(bool); !ok {
			errs = append(errs, &ConstraintError{Expression: constraint})
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d constraints failed: %w", len(errs), len(s.dialect.Constraints), errors.Join(errs...))
	}
	return nil
}

func (s *Store) exprEnv() map[string]any {
	env := make(map[string]any, 2*len(s.entries))
	for key, v := range s.All() {
		native := v.Native()
		env[key] = native
		if alias := strings.ReplaceAll(key, "-", "_"); alias != key {
			if _, taken := s.entries[alias]; !taken {
				env[alias] = native
			}
		}
	}
	return env
}
