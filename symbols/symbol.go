// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package symbols provides typed lookup over a labeled key space.
//
// A configuration file is flattened into symbols addressed by
// colon-delimited paths: the label is the dotted chain of section names and
// the field follows the colon.
//
//	[shaders.default]
//	vertexPath = "basic.wgsl"
//
// yields the symbol "shaders.default:vertexPath". Symbols are immutable once
// parsed.
package symbols

import "fmt"

// Kind is the type tag of a symbol.
type Kind uint8

// Symbol kinds.
const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindString
	KindBool
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Symbol is a typed configuration value.
type Symbol struct {
	kind  Kind
	elem  Kind
	i     int64
	f     float64
	s     string
	b     bool
	items []Symbol
}

// NewInt returns an integer symbol.
func NewInt(v int64) Symbol { return Symbol{kind: KindInt, i: v} }

// NewFloat returns a float symbol.
func NewFloat(v float64) Symbol { return Symbol{kind: KindFloat, f: v} }

// NewString returns a string symbol.
func NewString(v string) Symbol { return Symbol{kind: KindString, s: v} }

// NewBool returns a boolean symbol.
func NewBool(v bool) Symbol { return Symbol{kind: KindBool, b: v} }

// NewArray returns an array symbol. All items must share one kind and must
// not themselves be arrays. An empty array has element kind KindUnknown.
func NewArray(items ...Symbol) (Symbol, error) {
	sym := Symbol{kind: KindArray, items: append([]Symbol(nil), items...)}
	for i, it := range items {
		if it.kind == KindArray {
			return Symbol{}, fmt.Errorf("symbols: nested arrays are not supported (item %d)", i)
		}
		if i == 0 {
			sym.elem = it.kind
			continue
		}
		if it.kind != sym.elem {
			return Symbol{}, fmt.Errorf("symbols: mixed array: item %d is %s, want %s", i, it.kind, sym.elem)
		}
	}
	return sym, nil
}

// NewStrings returns an array of string symbols.
func NewStrings(v ...string) Symbol {
	sym := Symbol{kind: KindArray, items: make([]Symbol, len(v))}
	if len(v) > 0 {
		sym.elem = KindString
	}
	for i, s := range v {
		sym.items[i] = NewString(s)
	}
	return sym
}

// Kind returns the type tag.
func (s Symbol) Kind() Kind { return s.kind }

// Elem returns the element kind of an array symbol, or KindUnknown.
func (s Symbol) Elem() Kind { return s.elem }

// Len returns the number of items of an array symbol.
func (s Symbol) Len() int { return len(s.items) }

// TypeName describes the symbol type for diagnostics, e.g. "array<string>".
func (s Symbol) TypeName() string {
	if s.kind == KindArray {
		if len(s.items) == 0 {
			return "array"
		}
		return "array<" + s.elem.String() + ">"
	}
	return s.kind.String()
}

// AsInt returns the integer payload.
func (s Symbol) AsInt() (int64, bool) { return s.i, s.kind == KindInt }

// AsFloat returns the float payload. Integers are widened.
func (s Symbol) AsFloat() (float64, bool) {
	switch s.kind {
	case KindFloat:
		return s.f, true
	case KindInt:
		return float64(s.i), true
	default:
		return 0, false
	}
}

// AsString returns the string payload.
func (s Symbol) AsString() (string, bool) { return s.s, s.kind == KindString }

// AsBool returns the boolean payload.
func (s Symbol) AsBool() (bool, bool) { return s.b, s.kind == KindBool }

// AsStrings returns the items of a string array. An empty array qualifies.
func (s Symbol) AsStrings() ([]string, bool) {
	if s.kind != KindArray || (len(s.items) > 0 && s.elem != KindString) {
		return nil, false
	}
	out := make([]string, len(s.items))
	for i, it := range s.items {
		out[i] = it.s
	}
	return out, true
}

// Items returns a copy of the items of an array symbol.
func (s Symbol) Items() []Symbol {
	return append([]Symbol(nil), s.items...)
}

// GoString renders the symbol for debugging output.
func (s Symbol) GoString() string {
	switch s.kind {
	case KindInt:
		return fmt.Sprintf("%d", s.i)
	case KindFloat:
		return fmt.Sprintf("%g", s.f)
	case KindString:
		return fmt.Sprintf("%q", s.s)
	case KindBool:
		return fmt.Sprintf("%t", s.b)
	case KindArray:
		out := "["
		for i, it := range s.items {
			if i > 0 {
				out += ", "
			}
			out += it.GoString()
		}
		return out + "]"
	default:
		return "<unknown>"
	}
}
