// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package symbols

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file syntax.
type Format uint8

// Supported formats.
const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ErrUnknownFormat is returned when a file extension maps to no parser.
var ErrUnknownFormat = errors.New("symbols: unknown configuration format")

// FormatOf returns the format implied by a file extension.
// ".toml" and ".koml" are TOML, ".yaml" and ".yml" are YAML.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".koml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// ParseError reports a syntax or structure problem in a configuration file.
type ParseError struct {
	Path   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("symbols: parse %s: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("symbols: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadFile reads and parses a configuration file from fsys.
func LoadFile(fsys afero.Fs, path string) (Map, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("symbols: read %s: %w", path, err)
	}
	m, err := Parse(format, data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse decodes data in the given format and flattens it into a Map.
func Parse(format Format, data []byte) (Map, error) {
	var root map[string]any
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &root)
	case FormatYAML:
		err = yaml.Unmarshal(data, &root)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	m := make(Map)
	if err := flatten(m, "", root); err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}
	return m, nil
}

// ParseTOML is Parse(FormatTOML, data).
func ParseTOML(data []byte) (Map, error) { return Parse(FormatTOML, data) }

// ParseYAML is Parse(FormatYAML, data).
func ParseYAML(data []byte) (Map, error) { return Parse(FormatYAML, data) }

// flatten walks nested tables. Table keys extend the dotted label; leaf
// values are stored under "label:key", or under the bare key at top level.
func flatten(m Map, label string, table map[string]any) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := table[k]
		if sub, ok := asTable(v); ok {
			next := k
			if label != "" {
				next = label + "." + k
			}
			if err := flatten(m, next, sub); err != nil {
				return err
			}
			continue
		}
		path := k
		if label != "" {
			path = Path(label, k)
		}
		sym, err := toSymbol(v)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		m[path] = sym
	}
	return nil
}

func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toSymbol(v any) (Symbol, error) {
	switch t := v.(type) {
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInt(int64(t)), nil
	case int64:
		return NewInt(t), nil
	case uint64:
		if t > 1<<63-1 {
			return Symbol{}, fmt.Errorf("integer %d overflows int64", t)
		}
		return NewInt(int64(t)), nil
	case float64:
		return NewFloat(t), nil
	case []any:
		items := make([]Symbol, len(t))
		for i, it := range t {
			if _, ok := asTable(it); ok {
				return Symbol{}, fmt.Errorf("item %d: tables inside arrays are not supported", i)
			}
			s, err := toSymbol(it)
			if err != nil {
				return Symbol{}, fmt.Errorf("item %d: %w", i, err)
			}
			items[i] = s
		}
		return NewArray(items...)
	case nil:
		return Symbol{}, errors.New("null values are not supported")
	default:
		return Symbol{}, fmt.Errorf("unsupported value type %T", v)
	}
}
