// FILE: lixenwraith/mdconfig/state.go
package mdconfig

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a State encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// State is the persistable form of a Store. Coercion rules are never part
// of it: Restore rebuilds them from the dialect's declarations.
type State struct {
	Dialect      string       `toml:"dialect" json:"dialect" yaml:"dialect" cbor:"dialect"`
	OriginalFile string       `toml:"original_file" json:"original_file" yaml:"original_file" cbor:"original_file"`
	Changed      bool         `toml:"changed" json:"changed" yaml:"changed" cbor:"changed"`
	Digest       string       `toml:"digest,omitempty" json:"digest,omitempty" yaml:"digest,omitempty" cbor:"digest,omitempty"`
	Entries      []EntryState `toml:"entries" json:"entries" yaml:"entries" cbor:"entries"`
}

// EntryState is one key with the textual form of its values.
type EntryState struct {
	Key    string   `toml:"key" json:"key" yaml:"key" cbor:"key"`
	Values []string `toml:"values" json:"values" yaml:"values" cbor:"values"`
}

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding: same state, same bytes.
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("mdconfig: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("mdconfig: CBOR decoder initialization failed: " + err.Error())
	}
}

// Snapshot captures the store's state. Changed holds the derived flag.
func (s *Store) Snapshot() State {
	st := State{
		Dialect:      s.dialect.Name,
		OriginalFile: s.originalFile,
		Changed:      s.Changed(),
		Digest:       s.Digest(),
		Entries:      make([]EntryState, 0, len(s.order)),
	}
	for key, v := range s.All() {
		st.Entries = append(st.Entries, EntryState{Key: key, Values: v.Fields()})
	}
	return st
}

// Restore rebuilds a Store from a snapshot without reading the original file.
// Every entry is coerced again through the dialect's rules.
func Restore(d *Dialect, st State, opts ...Option) (*Store, error) {
	s, err := newStore(d, opts...)
	if err != nil {
		return nil, err
	}
	if st.Dialect != d.Name {
		return nil, fmt.Errorf("%w: snapshot of dialect %q cannot be restored as %q", ErrSnapshot, st.Dialect, d.Name)
	}

	for _, e := range st.Entries {
		key := d.normalize(e.Key)
		if _, dup := s.entries[key]; dup {
			return nil, fmt.Errorf("%w: duplicate entry %q", ErrSnapshot, key)
		}
		v, err := s.rules.coerce(key, SequenceOf(e.Values))
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %w", ErrSnapshot, key, err)
		}
		s.entries[key] = v
		s.order = append(s.order, key)
	}

	if st.Digest != "" {
		raw, err := hex.DecodeString(st.Digest)
		if err != nil || len(raw) != len(s.fingerprint.digest) {
			return nil, fmt.Errorf("%w: malformed digest %q", ErrSnapshot, st.Digest)
		}
		copy(s.fingerprint.digest[:], raw)
		s.fingerprint.valid = true
	}

	s.originalFile = st.OriginalFile
	s.changed = st.Changed
	return s, nil
}

// MarshalState encodes the store's snapshot.
func (s *Store) MarshalState(format Format) ([]byte, error) {
	st := s.Snapshot()
	switch format {
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(st); err != nil {
			return nil, fmt.Errorf("failed to marshal state to TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(st, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal state to JSON: %w", err)
		}
		return data, nil
	case FormatYAML:
		data, err := yaml.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal state to YAML: %w", err)
		}
		return data, nil
	case FormatCBOR:
		data, err := cborEnc.Marshal(st)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal state to CBOR: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrSnapshot, format)
	}
}

// UnmarshalState decodes a snapshot. An empty format detects it from content.
// JSON input may contain comments and trailing commas.
func UnmarshalState(data []byte, format Format) (State, error) {
	if format == "" {
		format = detectFormatFromContent(data)
		if format == "" {
			return State{}, fmt.Errorf("%w: unrecognized state encoding", ErrSnapshot)
		}
	}
	st, err := decodeState(data, format)
	if err != nil {
		return State{}, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	return st, nil
}

func decodeState(data []byte, format Format) (State, error) {
	var st State
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &st)
	case FormatJSON:
		err = json.Unmarshal(jsonc.ToJSON(data), &st)
	case FormatYAML:
		err = yaml.Unmarshal(data, &st)
	case FormatCBOR:
		err = cborDec.Unmarshal(data, &st)
	default:
		return State{}, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to decode %s state: %w", format, err)
	}
	return st, nil
}

// SaveState writes the store's snapshot to path, choosing the format from the extension.
func (s *Store) SaveState(path string) error {
	format := detectFileFormat(path)
	if format == "" {
		return fmt.Errorf("%w: cannot infer state format from %q", ErrSnapshot, path)
	}
	data, err := s.MarshalState(format)
	if err != nil {
		return err
	}
	return atomicWriteFile(path, data, 0644)
}

// LoadState reads a snapshot from path and restores it with d.
func LoadState(d *Dialect, path string, opts ...Option) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file '%s': %w", path, err)
	}
	st, err := UnmarshalState(data, detectFileFormat(path))
	if err != nil {
		return nil, fmt.Errorf("state file '%s': %w", path, err)
	}
	return Restore(d, st, opts...)
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return FormatTOML
	case ".json", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return ""
	}
}

// detectFormatFromContent tries each decoder in turn and accepts the first
// that yields a state naming a dialect.
func detectFormatFromContent(data []byte) Format {
	for _, format := range []Format{FormatJSON, FormatTOML, FormatYAML, FormatCBOR} {
		if st, err := decodeState(data, format); err == nil && st.Dialect != "" {
			return format
		}
	}
	return ""
}
