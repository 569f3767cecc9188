// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfx defines the closed enumeration sets used by pipeline
// descriptions, the strict token parsers that produce them, and the narrow
// graphics backend contract the pipeline builder drives.
//
// The package has no GPU dependency. A concrete backend on top of
// gogpu/wgpu lives in backend/native.
package gfx

// Shader is an opaque backend shader object.
//
// Handles are compared by identity, so backends must return comparable
// values (pointers or pointer-backed interfaces).
type Shader = any

// Pipeline is an opaque backend pipeline object. See Shader for the
// identity requirement.
type Pipeline = any

// ShaderDesc describes a single shader object to create.
type ShaderDesc struct {
	// Label is a debug name, usually "<shader name>/<stage>".
	Label string

	Stage  ShaderStage
	Medium Medium

	// Code is the raw file contents: source text or bytecode.
	Code []byte

	// EntryPoint names the function the stage starts at.
	EntryPoint string
}

// Attribute describes one vertex attribute within a binding.
type Attribute struct {
	SemanticName  string
	SemanticIndex uint32
	Type          DataType
	Location      uint32
}

// Binding describes one vertex buffer slot and its attributes.
type Binding struct {
	InputRate  InputRate
	Attributes []Attribute
	Bindpoint  Bindpoint
	Slot       uint32
}

// DescriptorSet describes one resource slot visible to shaders.
type DescriptorSet struct {
	Bindpoint Bindpoint
	Binding   uint32
	Usage     DescriptorUsage
	Size      uint32
}

// Layout is the resource layout of a pipeline.
type Layout struct {
	Bindings       []Binding
	DescriptorSets []DescriptorSet
}

// Clone returns a deep copy of the layout.
func (l Layout) Clone() Layout {
	out := Layout{
		Bindings:       make([]Binding, len(l.Bindings)),
		DescriptorSets: append([]DescriptorSet(nil), l.DescriptorSets...),
	}
	for i, b := range l.Bindings {
		b.Attributes = append([]Attribute(nil), b.Attributes...)
		out.Bindings[i] = b
	}
	return out
}

// RasterState is the fixed-function state of a pipeline.
type RasterState struct {
	CullMode  CullMode
	FrontFace FrontFace
	FillMode  FillMode
	Topology  Topology
}

// PipelineDesc describes a graphics pipeline to create.
type PipelineDesc struct {
	Label string

	Vertex        Shader
	VertexEntry   string
	Fragment      Shader
	FragmentEntry string

	Raster RasterState
	Layout Layout
}

// Backend is the graphics API surface consumed by the pipeline builder.
//
// Create methods return either a usable handle and a nil error, or an
// error. A nil handle with a nil error is treated as a creation failure by
// callers. Destroy methods must tolerate handles they did not create.
type Backend interface {
	CreateShader(desc *ShaderDesc) (Shader, error)
	DestroyShader(s Shader)
	CreatePipeline(desc *PipelineDesc) (Pipeline, error)
	DestroyPipeline(p Pipeline)
}

// Destroyer is implemented by backends that own a graphics context which
// must be released after every object created from it.
type Destroyer interface {
	Destroy()
}
