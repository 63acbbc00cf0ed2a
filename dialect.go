// FILE: lixenwraith/mdconfig/dialect.go
package mdconfig

import "strings"

const (
	// DefaultKeyValueSeparator separates a key from its values on output.
	DefaultKeyValueSeparator = " = "
	// DefaultInterValueSeparator joins multiple values on output.
	DefaultInterValueSeparator = " "
)

// LineParser turns one line of a config file into zero or one entries.
//
// ParseLine must return an empty map for comments and blank lines, {key: []}
// for a key without value and {key: [v1, v2, ...]} otherwise. An error
// aborts the whole parse.
type LineParser interface {
	ParseLine(line string) (map[string][]string, error)
}

// LineParserFunc adapts a function to LineParser.
type LineParserFunc func(line string) (map[string][]string, error)

func (f LineParserFunc) ParseLine(line string) (map[string][]string, error) {
	return f(line)
}

// Dialect is the static description of one line-oriented file format: its
// line grammar, output separators and per-key type declarations.
// Build one with NewDialect; a Dialect must not be modified once a Store uses it.
type Dialect struct {
	// Name identifies the format in snapshots.
	Name string

	// Parser is the line grammar.
	Parser LineParser

	// KeyValueSeparator is written between key and values.
	KeyValueSeparator string

	// InterValueSeparator joins values of multi-valued keys.
	InterValueSeparator string

	// Keys holding one or more floats.
	FloatParams []string
	// Keys holding exactly one float.
	FloatSingletonParams []string
	// Keys holding one or more integers.
	IntParams []string
	// Keys holding exactly one integer.
	IntSingletonParams []string

	// CustomRules take precedence over the family lists.
	CustomRules map[string]CustomRule

	// KeyNormalizer canonicalizes keys from the parser and from every key
	// argument. Nil leaves keys unchanged.
	KeyNormalizer func(string) string

	// Constraints are boolean expressions checked by Store.Validate.
	Constraints []string
}

func (d *Dialect) normalize(key string) string {
	if d.KeyNormalizer == nil {
		return key
	}
	return d.KeyNormalizer(key)
}

func (d *Dialect) separators() (kv, inter string) {
	kv, inter = d.KeyValueSeparator, d.InterValueSeparator
	if kv == "" {
		kv = DefaultKeyValueSeparator
	}
	if inter == "" {
		inter = DefaultInterValueSeparator
	}
	return kv, inter
}

// formatLine renders one entry as it is written on output.
func (d *Dialect) formatLine(key string, v Value) string {
	kv, inter := d.separators()
	return key + kv + strings.Join(v.Fields(), inter)
}

// keyRoundTrips reports whether key, rendered as an output line, parses back
// to the same key. Keys holding the separator or a comment marker do not.
func (d *Dialect) keyRoundTrips(key string) bool {
	kv, _ := d.separators()
	if sep := strings.TrimSpace(kv); sep != "" && strings.Contains(key, sep) {
		return false
	}
	parsed, err := d.Parser.ParseLine(key + kv)
	if err != nil || len(parsed) != 1 {
		return false
	}
	for k := range parsed {
		return d.normalize(k) == key
	}
	return false
}
