// FILE: lixenwraith/mdconfig/builder_test.go
package mdconfig

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder tests the dialect builder
func TestBuilder(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		d, err := NewDialect("plain", LineParserFunc(testParser)).Build()
		require.NoError(t, err)
		assert.Equal(t, " = ", d.KeyValueSeparator)
		assert.Equal(t, " ", d.InterValueSeparator)
		assert.Nil(t, d.KeyNormalizer)
	})

	t.Run("MissingName", func(t *testing.T) {
		_, err := NewDialect("", LineParserFunc(testParser)).Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})

	t.Run("MissingParser", func(t *testing.T) {
		_, err := NewDialect("p", nil).Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})

	t.Run("EmptySeparators", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).WithSeparators("", " ").Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})

	t.Run("NilCustomRule", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).WithCustomRule("k", nil).Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})

	t.Run("BadConstraint", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).WithConstraint("nsteps >=").Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})

	t.Run("ErrorsAccumulate", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).
			WithSeparators("", "").
			WithConstraint("(").
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "separators")
		assert.Contains(t, err.Error(), "constraint")
	})

	t.Run("ValidatorsRunInOrder", func(t *testing.T) {
		var calls []string
		_, err := NewDialect("p", LineParserFunc(testParser)).
			WithValidator(func(*Dialect) error { calls = append(calls, "first"); return nil }).
			WithValidator(func(*Dialect) error { calls = append(calls, "second"); return errors.New("rejected") }).
			WithValidator(func(*Dialect) error { calls = append(calls, "third"); return nil }).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect validation failed")
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewDialect("", nil).MustBuild()
		})
	})
}

func TestDisjointFamilies(t *testing.T) {
	t.Run("Overlap", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).
			WithFloatParams("a", "b").
			WithIntSingletonParams("b").
			WithValidator(DisjointFamilies).
			Build()
		require.ErrorIs(t, err, ErrInvalidDialect)
		assert.Contains(t, err.Error(), `"b"`)
	})

	t.Run("OverlapAfterNormalization", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).
			WithKeyNormalizer(func(k string) string { return k + "!" }).
			WithFloatParams("a").
			WithIntParams("a").
			WithValidator(DisjointFamilies).
			Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})

	t.Run("RepeatWithinFamily", func(t *testing.T) {
		_, err := NewDialect("p", LineParserFunc(testParser)).
			WithIntParams("a", "a").
			WithValidator(DisjointFamilies).
			Build()
		assert.NoError(t, err)
	})
}

func TestWithSchema(t *testing.T) {
	type Pressure struct {
		RefP []float64 `mdconfig:"ref-p"`
		TauP float64   `mdconfig:"tau-p"`
	}
	type Run struct {
		Nsteps     int64     `mdconfig:"nsteps"`
		Dt         float64   `mdconfig:"dt"`
		RefT       []float64 `mdconfig:"ref-t"`
		Npoints    []int     `mdconfig:"annealing-npoints"`
		Integrator string    `mdconfig:"integrator"`
		Seed       uint32
		Raw        []byte `mdconfig:"raw"`
		Ignored    int    `mdconfig:"-"`
		Pressure   *Pressure
		hidden     int
	}

	d, err := NewDialect("schema", LineParserFunc(testParser)).
		WithSchema(&Run{}).
		WithValidator(DisjointFamilies).
		Build()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"nsteps", "Seed"}, d.IntSingletonParams)
	assert.ElementsMatch(t, []string{"dt", "tau-p"}, d.FloatSingletonParams)
	assert.ElementsMatch(t, []string{"ref-t", "ref-p"}, d.FloatParams)
	assert.ElementsMatch(t, []string{"annealing-npoints"}, d.IntParams)

	table := newDispatchTable(d)
	assert.Equal(t, RuleDefault, table.resolve("integrator").Variant)
	assert.Equal(t, RuleDefault, table.resolve("raw").Variant)

	t.Run("ValueSchema", func(t *testing.T) {
		d, err := NewDialect("schema", LineParserFunc(testParser)).WithSchema(Pressure{}).Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"tau-p"}, d.FloatSingletonParams)
	})

	t.Run("InvalidSchema", func(t *testing.T) {
		_, err := NewDialect("schema", LineParserFunc(testParser)).WithSchema(42).Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)

		var nilRun *Run
		_, err = NewDialect("schema", LineParserFunc(testParser)).WithSchema(nilRun).Build()
		assert.ErrorIs(t, err, ErrInvalidDialect)
	})
}
