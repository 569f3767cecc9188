// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package symbols

import (
	"sort"

	"github.com/spf13/afero"
)

// Table is a read-only symbol lookup keyed by "label:field" paths.
type Table interface {
	Symbol(path string) (Symbol, bool)
}

// Path joins a label and a field name into a lookup path.
func Path(label, field string) string {
	return label + ":" + field
}

// Map is an in-memory Table.
type Map map[string]Symbol

// Symbol implements Table.
func (m Map) Symbol(path string) (Symbol, bool) {
	s, ok := m[path]
	return s, ok
}

// Paths returns every path in sorted order.
func (m Map) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Source produces a Table on demand. Sources backed by files re-read them
// on every call so that a reload observes edits.
type Source interface {
	Table() (Table, error)
}

// Static returns a Source that always yields t.
func Static(t Table) Source { return staticSource{t} }

type staticSource struct{ t Table }

func (s staticSource) Table() (Table, error) { return s.t, nil }

// SourceFunc adapts a function to Source.
type SourceFunc func() (Table, error)

// Table implements Source.
func (f SourceFunc) Table() (Table, error) { return f() }

// FileSource parses a configuration file each time Table is called.
type FileSource struct {
	FS   afero.Fs
	Path string
}

// NewFileSource returns a FileSource over the OS filesystem.
func NewFileSource(path string) *FileSource {
	return &FileSource{FS: afero.NewOsFs(), Path: path}
}

// Table implements Source.
func (s *FileSource) Table() (Table, error) {
	fs := s.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	m, err := LoadFile(fs, s.Path)
	if err != nil {
		return nil, err
	}
	return m, nil
}
