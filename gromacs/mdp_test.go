// FILE: lixenwraith/mdconfig/gromacs/mdp_test.go
package gromacs

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/mdconfig"
)

const sampleMDP = `; Run control
define                   = -DPOSRES -DPOSRES_FC=1000
integrator               = md
dt                       = 0.002    ; ps
nsteps                   = 500000
tinit                    = 0

; Output control
nstxout                  = 5000
nstvout                  = 0
nstxout_compressed       = 500

; Temperature coupling
tcoupl                   = V-rescale
tc-grps                  = Protein Non-Protein
tau_t                    = 0.1     0.1
ref_t                    = 300     300

gen-vel                  = yes
annealing-npoints        = 2 3
`

func writeMDP(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "md.mdp")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want map[string][]string
	}{
		{"Blank", "", map[string][]string{}},
		{"Whitespace", "   \t", map[string][]string{}},
		{"Comment", "; nsteps = 10", map[string][]string{}},
		{"Simple", "nsteps = 10", map[string][]string{"nsteps": {"10"}}},
		{"NoSpaces", "nsteps=10", map[string][]string{"nsteps": {"10"}}},
		{"TrailingComment", "dt = 0.002 ; ps", map[string][]string{"dt": {"0.002"}}},
		{"MultiValue", "ref-t = 300   310", map[string][]string{"ref-t": {"300", "310"}}},
		{"Underscore", "ref_t = 300", map[string][]string{"ref-t": {"300"}}},
		{"EmptyValue", "define =", map[string][]string{"define": {}}},
		{"EqualsInComment", "a = b ; x = y", map[string][]string{"a": {"b"}}},
		{"EqualsInValue", "define = -DPOSRES -DPOSRES_FC=1000", map[string][]string{"define": {"-DPOSRES", "-DPOSRES_FC=1000"}}},
		{"SplitAtFirstEquals", "a = b=c", map[string][]string{"a": {"b=c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, line := range []string{"just words", " = 10", "=", "words ; a = b"} {
		t.Run("Invalid/"+line, func(t *testing.T) {
			_, err := ParseLine(line)
			assert.Error(t, err)
		})
	}
}

func TestOpen(t *testing.T) {
	store, err := Open(writeMDP(t, sampleMDP))
	require.NoError(t, err)

	assert.Equal(t, DialectName, store.Dialect().Name)
	assert.False(t, store.Changed())

	nsteps, err := store.Int("nsteps")
	require.NoError(t, err)
	assert.Equal(t, int64(500000), nsteps)

	dt, err := store.Float("dt")
	require.NoError(t, err)
	assert.Equal(t, 0.002, dt)

	tinit, err := store.Float("tinit")
	require.NoError(t, err)
	assert.Equal(t, 0.0, tinit)

	refT, err := store.Floats("ref-t")
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 300}, refT.Values())

	groups, err := store.Strings("tc-grps")
	require.NoError(t, err)
	assert.Equal(t, []string{"Protein", "Non-Protein"}, groups.Values())

	define, err := store.Strings("define")
	require.NoError(t, err)
	assert.Equal(t, []string{"-DPOSRES", "-DPOSRES_FC=1000"}, define.Values())

	npoints, err := store.Ints("annealing-npoints")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, npoints.Values())

	t.Run("UnderscoreSpellingsResolve", func(t *testing.T) {
		assert.True(t, store.Has("tau_t"))
		assert.True(t, store.Has("nstxout-compressed"))
		assert.Contains(t, slices.Collect(store.Keys()), "tau-t")
	})

	t.Run("ConstraintsHold", func(t *testing.T) {
		assert.NoError(t, store.Validate())
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := Open(writeMDP(t, "nsteps = many\n"))
		assert.ErrorIs(t, err, mdconfig.ErrTypeCoercion)

		_, err = Open(writeMDP(t, "nsteps = 10\nthis is not mdp\n"))
		assert.ErrorIs(t, err, mdconfig.ErrParse)

		_, err = Open(filepath.Join(t.TempDir(), "none.mdp"))
		assert.ErrorIs(t, err, mdconfig.ErrFileAccess)
	})
}

func TestConstraints(t *testing.T) {
	store, err := Open(writeMDP(t, "nsteps = -5\ndt = 0\n"))
	require.NoError(t, err)
	err = store.Validate()
	require.ErrorIs(t, err, mdconfig.ErrConstraint)
	assert.Contains(t, err.Error(), "2 of 2")

	require.NoError(t, store.Set("nsteps", mdconfig.Scalar(-1)))
	require.NoError(t, store.Set("dt", mdconfig.Scalar(0.004)))
	assert.NoError(t, store.Validate())
}

func TestDialectFamiliesAreDisjoint(t *testing.T) {
	assert.NotPanics(t, func() { Dialect() })
	assert.NoError(t, mdconfig.DisjointFamilies(Dialect()))
}

func TestRewrite(t *testing.T) {
	store, err := Open(writeMDP(t, sampleMDP))
	require.NoError(t, err)

	refT, err := store.Floats("ref_t")
	require.NoError(t, err)
	require.NoError(t, refT.Set(1, 310))
	require.NoError(t, store.Set("nsteps", mdconfig.Scalar(1000)))

	out := filepath.Join(t.TempDir(), "out.mdp")
	require.NoError(t, store.Write(out, false))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ref-t = 300.0 310.0\n")
	assert.Contains(t, string(data), "nsteps = 1000\n")
	assert.Contains(t, string(data), "tc-grps = Protein Non-Protein\n")
	assert.Contains(t, string(data), "define = -DPOSRES -DPOSRES_FC=1000\n")
	assert.NotContains(t, string(data), ";")

	reread, err := Open(out)
	require.NoError(t, err)
	assert.Equal(t, slices.Collect(store.Keys()), slices.Collect(reread.Keys()))
	got, err := reread.Floats("ref-t")
	require.NoError(t, err)
	assert.Equal(t, []float64{300, 310}, got.Values())
	define, err := reread.Strings("define")
	require.NoError(t, err)
	assert.Equal(t, []string{"-DPOSRES", "-DPOSRES_FC=1000"}, define.Values())
}

func TestSetRejectsUnparsableKeys(t *testing.T) {
	store, err := Open(writeMDP(t, sampleMDP))
	require.NoError(t, err)

	for _, key := range []string{"x;y", "a = b", "a=b", "; nsteps"} {
		assert.ErrorIs(t, store.Set(key, mdconfig.Scalar("v")), mdconfig.ErrInvalidKey, key)
	}
	assert.False(t, store.Changed())

	require.NoError(t, store.Set("gen_vel", mdconfig.Scalar("no")))
	genVel, err := store.Text("gen-vel")
	require.NoError(t, err)
	assert.Equal(t, "no", genVel)
}
