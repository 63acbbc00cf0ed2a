// FILE: lixenwraith/mdconfig/decode_test.go
package mdconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScan tests decoding store entries into structs and maps
func TestScan(t *testing.T) {
	s := openTest(t, `n = 5
dt = 0.002
x = 1 2
name = a b
t = 300
timeout = 5s
single = 9
flag = true
`)

	t.Run("Struct", func(t *testing.T) {
		var cfg struct {
			N       int           `mdconfig:"n"`
			Dt      float64       `mdconfig:"dt"`
			X       []int         `mdconfig:"x"`
			Name    string        `mdconfig:"name"`
			T       []float64     `mdconfig:"t"`
			Timeout time.Duration `mdconfig:"timeout"`
			Single  int           `mdconfig:"single"`
			Flag    bool          `mdconfig:"flag"`
			Missing string        `mdconfig:"missing"`
		}
		require.NoError(t, s.Scan(&cfg))

		assert.Equal(t, 5, cfg.N)
		assert.Equal(t, 0.002, cfg.Dt)
		assert.Equal(t, []int{1, 2}, cfg.X)
		assert.Equal(t, "a b", cfg.Name)
		assert.Equal(t, []float64{300}, cfg.T)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, 9, cfg.Single)
		assert.True(t, cfg.Flag)
		assert.Empty(t, cfg.Missing)
	})

	t.Run("ScalarFromSingleElementList", func(t *testing.T) {
		var cfg struct {
			T float64 `mdconfig:"t"`
		}
		require.NoError(t, s.Scan(&cfg))
		assert.Equal(t, 300.0, cfg.T)
	})

	t.Run("Map", func(t *testing.T) {
		m := make(map[string]any)
		require.NoError(t, s.Scan(&m))
		assert.Equal(t, int64(5), m["n"])
		assert.Equal(t, []int64{1, 2}, m["x"])
		assert.Equal(t, []string{"a", "b"}, m["name"])
	})

	t.Run("TooManyValuesForScalar", func(t *testing.T) {
		var cfg struct {
			X int `mdconfig:"x"`
		}
		assert.Error(t, s.Scan(&cfg))
	})

	t.Run("NonPointer", func(t *testing.T) {
		var cfg struct{}
		assert.Error(t, s.Scan(cfg))
		assert.Error(t, s.Scan(nil))
	})
}
