// FILE: lixenwraith/mdconfig/store.go
package mdconfig

import (
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger receiving parse warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is a mutable key/value view of one line-oriented config file.
//
// Keys keep their first-insertion order: parse order, then keys added by Set.
// A Store is not safe for concurrent use; callers serialize access.
type Store struct {
	dialect      *Dialect
	rules        *dispatchTable
	logger       *slog.Logger
	originalFile string
	entries      map[string]Value
	order        []string
	changed      bool // table-level changes only; see Changed
	warnings     []DuplicateKeyWarning
	fingerprint  fingerprint
}

// New binds a Store to an existing file and parses it.
func New(d *Dialect, originalFile string, opts ...Option) (*Store, error) {
	s, err := newStore(d, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.SetOriginalFile(originalFile); err != nil {
		return nil, err
	}
	return s, nil
}

// newStore builds an empty store with the dispatch table for d.
func newStore(d *Dialect, opts ...Option) (*Store, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil dialect", ErrInvalidDialect)
	}
	if d.Parser == nil {
		return nil, fmt.Errorf("%w: dialect %q has no line parser", ErrInvalidDialect, d.Name)
	}
	s := &Store{
		dialect: d,
		rules:   newDispatchTable(d),
		logger:  slog.Default(),
		entries: make(map[string]Value),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Dialect returns the dialect the store was built with.
func (s *Store) Dialect() *Dialect {
	return s.dialect
}

// OriginalFile returns the absolute path of the bound file.
func (s *Store) OriginalFile() string {
	return s.originalFile
}

// SetOriginalFile re-points the store at path and replaces the whole table
// with what is parsed from it. All change flags are reset.
// On error the previous file and table are kept.
func (s *Store) SetOriginalFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
	}
	parsed, err := s.load(abs)
	if err != nil {
		return err
	}
	s.commit(parsed)
	return nil
}

// Parse re-reads the bound file, discarding all current state.
func (s *Store) Parse() error {
	if s.originalFile == "" {
		return fmt.Errorf("%w: no file bound", ErrFileAccess)
	}
	return s.SetOriginalFile(s.originalFile)
}

// Get returns the current value for key.
func (s *Store) Get(key string) (Value, error) {
	v, ok := s.entries[s.dialect.normalize(key)]
	if !ok {
		return nil, keyNotFound(key)
	}
	return v, nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.entries[s.dialect.normalize(key)]
	return ok
}

// Set coerces in through the rule for key and stores the result.
// Keys that would not survive a write and re-parse fail with ErrInvalidKey.
// On error the previous entry is left untouched.
func (s *Store) Set(key string, in Input) error {
	key = s.dialect.normalize(key)
	if !isValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if !s.dialect.keyRoundTrips(key) {
		return fmt.Errorf("%w: %q would not parse back from a %s line", ErrInvalidKey, key, s.dialect.Name)
	}
	v, err := s.rules.coerce(key, in)
	if err != nil {
		return err
	}
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = v
	s.changed = true
	return nil
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	key = s.dialect.normalize(key)
	if _, ok := s.entries[key]; !ok {
		return keyNotFound(key)
	}
	delete(s.entries, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.changed = true
	return nil
}

// Keys returns the current keys in table order. Each range starts over from
// the current state; keys deleted mid-iteration are skipped.
func (s *Store) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, key := range slices.Clone(s.order) {
			if _, ok := s.entries[key]; !ok {
				continue
			}
			if !yield(key) {
				return
			}
		}
	}
}

// All returns key/value pairs in table order.
func (s *Store) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for key := range s.Keys() {
			if !yield(key, s.entries[key]) {
				return
			}
		}
	}
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Changed reports whether the configuration differs from the bound file:
// a key was added, removed or reassigned, or any value was mutated in place.
func (s *Store) Changed() bool {
	if s.changed {
		return true
	}
	for _, v := range s.entries {
		if v.Changed() {
			return true
		}
	}
	return false
}

// Rule returns the coercion rule applied to key.
func (s *Store) Rule(key string) Rule {
	return s.rules.resolve(s.dialect.normalize(key))
}

// Warnings returns the duplicate keys found by the last parse.
func (s *Store) Warnings() []DuplicateKeyWarning {
	return slices.Clone(s.warnings)
}

func (s *Store) String() string {
	parts := make([]string, 0, len(s.order))
	for key, v := range s.All() {
		parts = append(parts, fmt.Sprintf("%q: %v", key, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// commit replaces the whole table with a freshly parsed one.
func (s *Store) commit(p *parsedFile) {
	s.originalFile = p.path
	s.entries = p.entries
	s.order = p.order
	s.warnings = p.warnings
	s.fingerprint = p.fingerprint
	s.changed = false
}

