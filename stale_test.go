// FILE: lixenwraith/mdconfig/stale_test.go
package mdconfig

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStale tests detection of on-disk changes to the bound file
func TestStale(t *testing.T) {
	later := time.Now().Add(time.Hour)

	t.Run("Fresh", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		stale, err := s.Stale()
		require.NoError(t, err)
		assert.False(t, stale)
		assert.Len(t, s.Digest(), 64)
	})

	t.Run("TouchedOnly", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		require.NoError(t, os.Chtimes(s.OriginalFile(), later, later))
		stale, err := s.Stale()
		require.NoError(t, err)
		assert.False(t, stale)
	})

	t.Run("SameSizeNewContent", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		require.NoError(t, os.WriteFile(s.OriginalFile(), []byte("a = 2\n"), 0644))
		require.NoError(t, os.Chtimes(s.OriginalFile(), later, later))
		stale, err := s.Stale()
		require.NoError(t, err)
		assert.True(t, stale)
	})

	t.Run("Resized", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		require.NoError(t, os.WriteFile(s.OriginalFile(), []byte("a = 1\nb = 2\n"), 0644))
		stale, err := s.Stale()
		require.NoError(t, err)
		assert.True(t, stale)
	})

	t.Run("Removed", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		require.NoError(t, os.Remove(s.OriginalFile()))
		stale, err := s.Stale()
		assert.ErrorIs(t, err, ErrFileAccess)
		assert.True(t, stale)
	})

	t.Run("ReparseClears", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		require.NoError(t, os.WriteFile(s.OriginalFile(), []byte("a = 22\n"), 0644))
		require.NoError(t, s.Parse())
		stale, err := s.Stale()
		require.NoError(t, err)
		assert.False(t, stale)
	})

	t.Run("RestoredFromSnapshot", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		restored, err := Restore(testDialect(t), s.Snapshot())
		require.NoError(t, err)
		stale, err := restored.Stale()
		require.NoError(t, err)
		assert.False(t, stale)

		require.NoError(t, os.WriteFile(s.OriginalFile(), []byte("a = 3\n"), 0644))
		require.NoError(t, os.Chtimes(s.OriginalFile(), later, later))
		stale, err = restored.Stale()
		require.NoError(t, err)
		assert.True(t, stale)
	})

	t.Run("NoDigest", func(t *testing.T) {
		s := openTest(t, "a = 1\n")
		st := s.Snapshot()
		st.Digest = ""
		restored, err := Restore(testDialect(t), st)
		require.NoError(t, err)
		stale, err := restored.Stale()
		require.NoError(t, err)
		assert.True(t, stale)
	})
}
