// File: lixenwraith/mdconfig/io.go
package mdconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// parsedFile is the staged result of parsing, committed only when complete.
type parsedFile struct {
	path        string
	entries     map[string]Value
	order       []string
	warnings    []DuplicateKeyWarning
	fingerprint fingerprint
}

// load reads and parses path without touching the store's state.
func (s *Store) load(path string) (*parsedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileAccess, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileAccess, path, err)
	}

	raw := make(map[string][]string)
	lineOf := make(map[string]int)
	var order []string
	var warnings []DuplicateKeyWarning

	for i, line := range splitLines(string(data)) {
		lineNo := i + 1
		parsed, err := s.dialect.Parser.ParseLine(line)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
		if len(parsed) > 1 {
			return nil, &ParseError{
				Path: path,
				Line: lineNo,
				Text: line,
				Err:  fmt.Errorf("line parser returned %d entries, expected at most one", len(parsed)),
			}
		}

		for key, values := range parsed {
			key = s.dialect.normalize(key)
			if prev, dup := lineOf[key]; dup {
				w := DuplicateKeyWarning{Key: key, Line: lineNo, PreviousLine: prev}
				warnings = append(warnings, w)
				s.logger.Warn("parsed duplicate configuration option, last values encountered take precedence",
					"file", path, "key", key, "line", lineNo, "previous_line", prev)
			} else {
				order = append(order, key)
			}
			lineOf[key] = lineNo
			raw[key] = values
		}
	}

	entries := make(map[string]Value, len(raw))
	for _, key := range order {
		v, err := s.rules.coerce(key, SequenceOf(raw[key]))
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file '%s' line %d: %w", path, lineOf[key], err)
		}
		entries[key] = v
	}

	return &parsedFile{
		path:        path,
		entries:     entries,
		order:       order,
		warnings:    warnings,
		fingerprint: newFingerprint(info, data),
	}, nil
}

// splitLines splits on universal newline boundaries (\n, \r\n, \r).
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// Write writes the current configuration to outfile.
//
// An unchanged store copies the bound file byte for byte, keeping its
// permissions and modification time. A changed store writes one
// "key<sep>values" line per entry in table order, joined by "\n".
// An existing outfile is only replaced when overwrite is true.
func (s *Store) Write(outfile string, overwrite bool) error {
	out, err := filepath.Abs(outfile)
	if err != nil {
		return fmt.Errorf("failed to resolve output path '%s': %w", outfile, err)
	}

	if _, err := os.Lstat(out); err == nil {
		if !overwrite {
			return fmt.Errorf("%w: %s (overwrite disabled)", ErrFileExists, out)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check output file '%s': %w", out, err)
	}

	if !s.Changed() {
		if out == s.originalFile {
			// Unchanged and writing onto itself: the bytes are already there.
			return nil
		}
		return copyFile(s.originalFile, out)
	}

	return atomicWriteFile(out, s.Render(), 0644)
}

// Render returns the serialized form of the current entries, the content
// Write produces for a changed store.
func (s *Store) Render() []byte {
	lines := make([]string, 0, len(s.order))
	for key, v := range s.All() {
		lines = append(lines, s.dialect.formatLine(key, v))
	}
	return []byte(strings.Join(lines, "\n"))
}

// copyFile copies src to dst atomically, carrying over permission bits and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileAccess, src, err)
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileAccess, src, err)
	}

	if err := atomicWriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}

	// Zero atime leaves the access time alone.
	if err := os.Chtimes(dst, time.Time{}, info.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve modification time on '%s': %w", dst, err)
	}
	return nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in '%s': %w", dir, err)
	}

	tempPath := tempFile.Name()
	removed := false
	defer func() {
		if !removed {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file '%s': %w", tempPath, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file '%s': %w", tempPath, err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file '%s' to '%s': %w", tempPath, path, err)
	}
	removed = true

	return nil
}
