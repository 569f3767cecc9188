// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaderconf

import (
	"math"

	"github.com/gogpu/pipeconf/symbols"
)

const (
	typeString      = "string"
	typeUint        = "uint"
	typeStringArray = "array<string>"
)

// Decode reads the shader description rooted at label.
//
// Decoding stops at the first missing or mistyped field, including fields
// of nested pipeline, binding, attribute and descriptor set labels, and no
// partial descriptor is returned.
func Decode(table symbols.Table, label string) (*RawShader, error) {
	d := decoder{table: table, label: label}
	raw := &RawShader{Label: label}

	var err error
	if raw.Name, err = d.str(FieldName); err != nil {
		return nil, err
	}
	if raw.VertexPath, err = d.str(FieldVertexPath); err != nil {
		return nil, err
	}
	if raw.VertexEntry, err = d.optStr(FieldVertexEntry, DefaultEntryPoint); err != nil {
		return nil, err
	}
	if raw.VertexMedium, err = d.str(FieldVertexMedium); err != nil {
		return nil, err
	}
	if raw.FragmentPath, err = d.str(FieldFragmentPath); err != nil {
		return nil, err
	}
	if raw.FragmentEntry, err = d.optStr(FieldFragmentEntry, DefaultEntryPoint); err != nil {
		return nil, err
	}
	if raw.FragmentMedium, err = d.str(FieldFragmentMedium); err != nil {
		return nil, err
	}

	desc, err := d.str(FieldDescription)
	if err != nil {
		return nil, err
	}
	pipeline, err := decodePipeline(table, desc)
	if err != nil {
		return nil, err
	}
	raw.Description = *pipeline
	return raw, nil
}

func decodePipeline(table symbols.Table, label string) (*RawPipeline, error) {
	d := decoder{table: table, label: label}
	p := &RawPipeline{Label: label}

	var err error
	if p.CullMode, err = d.str(FieldCullMode); err != nil {
		return nil, err
	}
	if p.FrontFace, err = d.str(FieldFrontFace); err != nil {
		return nil, err
	}
	if p.FillMode, err = d.str(FieldFillMode); err != nil {
		return nil, err
	}
	if p.Topology, err = d.str(FieldTopology); err != nil {
		return nil, err
	}

	bindings, err := d.labels(FieldBindings)
	if err != nil {
		return nil, err
	}
	for _, l := range bindings {
		b, err := decodeBinding(table, l)
		if err != nil {
			return nil, err
		}
		p.Bindings = append(p.Bindings, *b)
	}

	sets, err := d.labels(FieldDescriptorSets)
	if err != nil {
		return nil, err
	}
	for _, l := range sets {
		s, err := decodeDescriptorSet(table, l)
		if err != nil {
			return nil, err
		}
		p.DescriptorSets = append(p.DescriptorSets, *s)
	}
	return p, nil
}

func decodeBinding(table symbols.Table, label string) (*RawBinding, error) {
	d := decoder{table: table, label: label}
	b := &RawBinding{Label: label}

	var err error
	if b.InputRate, err = d.str(FieldInputRate); err != nil {
		return nil, err
	}
	attrs, err := d.labels(FieldAttributes)
	if err != nil {
		return nil, err
	}
	for _, l := range attrs {
		a, err := decodeAttribute(table, l)
		if err != nil {
			return nil, err
		}
		b.Attributes = append(b.Attributes, *a)
	}
	if b.Bindpoint, err = d.str(FieldBindpoint); err != nil {
		return nil, err
	}
	if b.Binding, err = d.uint(FieldBinding); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeAttribute(table symbols.Table, label string) (*RawAttribute, error) {
	d := decoder{table: table, label: label}
	a := &RawAttribute{Label: label}

	var err error
	if a.SemanticName, err = d.str(FieldSemanticName); err != nil {
		return nil, err
	}
	if a.SemanticIndex, err = d.uint(FieldSemanticIndex); err != nil {
		return nil, err
	}
	if a.Type, err = d.str(FieldType); err != nil {
		return nil, err
	}
	if a.Location, err = d.uint(FieldLocation); err != nil {
		return nil, err
	}
	return a, nil
}

func decodeDescriptorSet(table symbols.Table, label string) (*RawDescriptorSet, error) {
	d := decoder{table: table, label: label}
	s := &RawDescriptorSet{Label: label}

	var err error
	if s.Bindpoint, err = d.str(FieldBindpoint); err != nil {
		return nil, err
	}
	if s.Binding, err = d.uint(FieldBinding); err != nil {
		return nil, err
	}
	if s.Usage, err = d.str(FieldUsage); err != nil {
		return nil, err
	}
	if s.Size, err = d.uint(FieldSize); err != nil {
		return nil, err
	}
	return s, nil
}

// decoder performs typed lookups of fields under one label.
type decoder struct {
	table symbols.Table
	label string
}

func (d decoder) lookup(field string) (symbols.Symbol, error) {
	sym, ok := d.table.Symbol(symbols.Path(d.label, field))
	if !ok {
		return symbols.Symbol{}, &MissingFieldError{Label: d.label, Field: field}
	}
	return sym, nil
}

func (d decoder) mismatch(field, expected string, sym symbols.Symbol) error {
	return &TypeMismatchError{Label: d.label, Field: field, Expected: expected, Actual: sym.TypeName()}
}

func (d decoder) str(field string) (string, error) {
	sym, err := d.lookup(field)
	if err != nil {
		return "", err
	}
	v, ok := sym.AsString()
	if !ok {
		return "", d.mismatch(field, typeString, sym)
	}
	return v, nil
}

func (d decoder) optStr(field, def string) (string, error) {
	sym, ok := d.table.Symbol(symbols.Path(d.label, field))
	if !ok {
		return def, nil
	}
	v, ok := sym.AsString()
	if !ok {
		return "", d.mismatch(field, typeString, sym)
	}
	return v, nil
}

func (d decoder) uint(field string) (uint32, error) {
	sym, err := d.lookup(field)
	if err != nil {
		return 0, err
	}
	v, ok := sym.AsInt()
	if !ok || v < 0 || v > math.MaxUint32 {
		return 0, d.mismatch(field, typeUint, sym)
	}
	return uint32(v), nil
}

func (d decoder) labels(field string) ([]string, error) {
	sym, err := d.lookup(field)
	if err != nil {
		return nil, err
	}
	v, ok := sym.AsStrings()
	if !ok {
		return nil, d.mismatch(field, typeStringArray, sym)
	}
	return v, nil
}
