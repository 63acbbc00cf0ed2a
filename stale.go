// FILE: lixenwraith/mdconfig/stale.go
package mdconfig

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/zeebo/blake3"
)

// fingerprint identifies the content of the bound file at parse time.
type fingerprint struct {
	size    int64
	modTime time.Time
	digest  [32]byte
	valid   bool
}

func newFingerprint(info os.FileInfo, data []byte) fingerprint {
	return fingerprint{
		size:    info.Size(),
		modTime: info.ModTime(),
		digest:  blake3.Sum256(data),
		valid:   true,
	}
}

// Digest returns the hex BLAKE3 digest of the bound file as it was parsed.
func (s *Store) Digest() string {
	if !s.fingerprint.valid {
		return ""
	}
	return hex.EncodeToString(s.fingerprint.digest[:])
}

// Stale reports whether the bound file on disk no longer matches what was
// parsed. Size and modification time are compared first; the content digest
// decides when they differ, so touching a file does not make it stale.
func (s *Store) Stale() (bool, error) {
	info, err := os.Stat(s.originalFile)
	if err != nil {
		return true, fmt.Errorf("%w: %s: %w", ErrFileAccess, s.originalFile, err)
	}
	if !s.fingerprint.valid {
		return true, nil
	}

	if info.Size() == s.fingerprint.size && info.ModTime().Equal(s.fingerprint.modTime) {
		return false, nil
	}
	if info.Size() != s.fingerprint.size && !s.fingerprint.modTime.IsZero() {
		return true, nil
	}

	data, err := os.ReadFile(s.originalFile)
	if err != nil {
		return true, fmt.Errorf("%w: %s: %w", ErrFileAccess, s.originalFile, err)
	}
	if blake3.Sum256(data) != s.fingerprint.digest {
		return true, nil
	}

	// Same content; remember the new stat so the next check is cheap.
	s.fingerprint.size = info.Size()
	s.fingerprint.modTime = info.ModTime()
	return false, nil
}
