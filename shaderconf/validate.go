// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaderconf

import (
	"github.com/gogpu/pipeconf/gfx"
	"github.com/gogpu/pipeconf/symbols"
)

// Shader is a validated shader description. Every token has been mapped to
// a gfx enumeration. The zero value is not usable; obtain one from Validate.
type Shader struct {
	label string
	name  string

	vertex   stage
	fragment stage

	raster gfx.RasterState
	layout gfx.Layout
}

type stage struct {
	path   string
	entry  string
	medium gfx.Medium
}

// Validate maps the tokens of raw to gfx enumerations. The first unknown
// token aborts validation with a *FieldError naming its label and field.
func Validate(raw *RawShader) (*Shader, error) {
	s := &Shader{
		label: raw.Label,
		name:  raw.Name,
		vertex: stage{
			path:  raw.VertexPath,
			entry: raw.VertexEntry,
		},
		fragment: stage{
			path:  raw.FragmentPath,
			entry: raw.FragmentEntry,
		},
	}

	var err error
	if s.vertex.medium, err = field(raw.Label, FieldVertexMedium, raw.VertexMedium, gfx.ParseMedium); err != nil {
		return nil, err
	}
	if s.fragment.medium, err = field(raw.Label, FieldFragmentMedium, raw.FragmentMedium, gfx.ParseMedium); err != nil {
		return nil, err
	}

	p := &raw.Description
	if s.raster.CullMode, err = field(p.Label, FieldCullMode, p.CullMode, gfx.ParseCullMode); err != nil {
		return nil, err
	}
	if s.raster.FrontFace, err = field(p.Label, FieldFrontFace, p.FrontFace, gfx.ParseFrontFace); err != nil {
		return nil, err
	}
	if s.raster.FillMode, err = field(p.Label, FieldFillMode, p.FillMode, gfx.ParseFillMode); err != nil {
		return nil, err
	}
	if s.raster.Topology, err = field(p.Label, FieldTopology, p.Topology, gfx.ParseTopology); err != nil {
		return nil, err
	}

	for _, rb := range p.Bindings {
		b := gfx.Binding{Slot: rb.Binding}
		if b.InputRate, err = field(rb.Label, FieldInputRate, rb.InputRate, gfx.ParseInputRate); err != nil {
			return nil, err
		}
		for _, ra := range rb.Attributes {
			a := gfx.Attribute{
				SemanticName:  ra.SemanticName,
				SemanticIndex: ra.SemanticIndex,
				Location:      ra.Location,
			}
			if a.Type, err = field(ra.Label, FieldType, ra.Type, gfx.ParseDataType); err != nil {
				return nil, err
			}
			b.Attributes = append(b.Attributes, a)
		}
		if b.Bindpoint, err = field(rb.Label, FieldBindpoint, rb.Bindpoint, gfx.ParseBindpoints); err != nil {
			return nil, err
		}
		s.layout.Bindings = append(s.layout.Bindings, b)
	}

	for _, rs := range p.DescriptorSets {
		d := gfx.DescriptorSet{Binding: rs.Binding, Size: rs.Size}
		if d.Bindpoint, err = field(rs.Label, FieldBindpoint, rs.Bindpoint, gfx.ParseBindpoints); err != nil {
			return nil, err
		}
		if d.Usage, err = field(rs.Label, FieldUsage, rs.Usage, gfx.ParseDescriptorUsage); err != nil {
			return nil, err
		}
		s.layout.DescriptorSets = append(s.layout.DescriptorSets, d)
	}
	return s, nil
}

func field[T any](label, name, token string, parse func(string) (T, error)) (T, error) {
	v, err := parse(token)
	if err != nil {
		var zero T
		return zero, &FieldError{Label: label, Field: name, Err: err}
	}
	return v, nil
}

// Load decodes and validates the shader description rooted at label.
func Load(table symbols.Table, label string) (*Shader, error) {
	raw, err := Decode(table, label)
	if err != nil {
		return nil, err
	}
	return Validate(raw)
}

// Label returns the symbol label the shader was decoded from.
func (s *Shader) Label() string { return s.label }

// Name returns the catalog name.
func (s *Shader) Name() string { return s.name }

// VertexPath returns the vertex blob path relative to the shader directory.
func (s *Shader) VertexPath() string { return s.vertex.path }

// FragmentPath returns the fragment blob path relative to the shader directory.
func (s *Shader) FragmentPath() string { return s.fragment.path }

// VertexEntry returns the vertex entry point.
func (s *Shader) VertexEntry() string { return s.vertex.entry }

// FragmentEntry returns the fragment entry point.
func (s *Shader) FragmentEntry() string { return s.fragment.entry }

// VertexMedium returns the vertex blob medium.
func (s *Shader) VertexMedium() gfx.Medium { return s.vertex.medium }

// FragmentMedium returns the fragment blob medium.
func (s *Shader) FragmentMedium() gfx.Medium { return s.fragment.medium }

// SharedSource reports whether both stages read the same file.
func (s *Shader) SharedSource() bool { return s.vertex.path == s.fragment.path }

// Raster returns the fixed-function state.
func (s *Shader) Raster() gfx.RasterState { return s.raster }

// Layout returns a copy of the resource layout.
func (s *Shader) Layout() gfx.Layout { return s.layout.Clone() }

// ShaderDesc returns the creation descriptor for one stage.
func (s *Shader) ShaderDesc(st gfx.ShaderStage, code []byte) *gfx.ShaderDesc {
	src := s.vertex
	if st == gfx.StageFragment {
		src = s.fragment
	}
	return &gfx.ShaderDesc{
		Label:      s.name + "/" + st.String(),
		Stage:      st,
		Medium:     src.medium,
		Code:       code,
		EntryPoint: src.entry,
	}
}

// PipelineDesc returns the creation descriptor for the pipeline built from
// the given stage objects.
func (s *Shader) PipelineDesc(vertex, fragment gfx.Shader) *gfx.PipelineDesc {
	return &gfx.PipelineDesc{
		Label:         s.name,
		Vertex:        vertex,
		VertexEntry:   s.vertex.entry,
		Fragment:      fragment,
		FragmentEntry: s.fragment.entry,
		Raster:        s.raster,
		Layout:        s.layout.Clone(),
	}
}
