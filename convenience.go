// File: lixenwraith/mdconfig/convenience.go
package mdconfig

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// Open is an alias of New
func Open(d *Dialect, originalFile string, opts ...Option) (*Store, error) {
	return New(d, originalFile, opts...)
}

// MustNew is like New but panics on error
func MustNew(d *Dialect, originalFile string, opts ...Option) *Store {
	s, err := New(d, originalFile, opts...)
	if err != nil {
		panic(fmt.Sprintf("config store initialization failed: %v", err))
	}
	return s
}

// Clone returns an independent copy of the store. Values are rebuilt from
// their textual form, so custom rules must accept what their values print.
// The clone reports the same Changed state as the original.
func (s *Store) Clone() (*Store, error) {
	clone, err := Restore(s.dialect, s.Snapshot(), WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("clone failed: %w", err)
	}
	clone.fingerprint = s.fingerprint
	clone.warnings = s.Warnings()
	return clone, nil
}

// Debug returns the store's TOML state dump followed by the rule and change
// state of every entry
func (s *Store) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	if err := s.Dump(&b); err != nil {
		b.WriteString(fmt.Sprintf("State: %v\n", err))
	}

	b.WriteString("Rules:\n")
	for key, v := range s.All() {
		b.WriteString(fmt.Sprintf("  %s: %s (changed: %v)\n", key, s.rules.resolve(key), v.Changed()))
	}

	for _, w := range s.warnings {
		b.WriteString(fmt.Sprintf("Warning: %s\n", w))
	}

	return b.String()
}

// Dump writes the store's state snapshot to w in TOML format
func (s *Store) Dump(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(s.Snapshot()); err != nil {
		return fmt.Errorf("failed to dump state: %w", err)
	}
	return nil
}
