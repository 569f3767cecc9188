// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shaderconf decodes shader and pipeline descriptions from a symbol
// table and validates them into immutable descriptors.
//
// Decoding and validation are separate passes. Decode only checks presence
// and types and yields Raw* records whose tokens are still strings.
// Validate maps every token to a closed gfx enumeration; a *Shader exists
// only if all of them were recognized.
//
// A description is spread over several labels:
//
//	[shaders.default]
//	name = "default"
//	vertexPath = "basic.wgsl"
//	vertexMedium = "wgsl"
//	fragmentPath = "basic.wgsl"
//	fragmentMedium = "wgsl"
//	description = "pipelines.basic"
//
//	[pipelines.basic]
//	cullMode = "back"
//	frontFace = "ccw"
//	fillMode = "solid"
//	topology = "triangles"
//	bindings = ["bindings.vertex"]
//	descriptorSets = []
//
//	[bindings.vertex]
//	inputRate = "vertex"
//	bindpoint = "vertex"
//	binding = 0
//	attributes = ["attributes.position"]
//
//	[attributes.position]
//	semanticName = "POSITION"
//	semanticIndex = 0
//	type = "float3"
//	location = 0
package shaderconf

// DefaultEntryPoint is used when vertexEntry or fragmentEntry is absent.
const DefaultEntryPoint = "main"

// Field names looked up under a shader label.
const (
	FieldName           = "name"
	FieldVertexPath     = "vertexPath"
	FieldVertexEntry    = "vertexEntry"
	FieldVertexMedium   = "vertexMedium"
	FieldFragmentPath   = "fragmentPath"
	FieldFragmentEntry  = "fragmentEntry"
	FieldFragmentMedium = "fragmentMedium"
	FieldDescription    = "description"
)

// Field names looked up under a pipeline description label.
const (
	FieldCullMode       = "cullMode"
	FieldFrontFace      = "frontFace"
	FieldFillMode       = "fillMode"
	FieldTopology       = "topology"
	FieldBindings       = "bindings"
	FieldDescriptorSets = "descriptorSets"
)

// Field names looked up under binding, attribute and descriptor set labels.
const (
	FieldInputRate     = "inputRate"
	FieldAttributes    = "attributes"
	FieldBindpoint     = "bindpoint"
	FieldBinding       = "binding"
	FieldSemanticName  = "semanticName"
	FieldSemanticIndex = "semanticIndex"
	FieldType          = "type"
	FieldLocation      = "location"
	FieldUsage         = "usage"
	FieldSize          = "size"
)

// RawShader is a decoded but unvalidated shader description.
type RawShader struct {
	Label string

	Name           string
	VertexPath     string
	VertexEntry    string
	VertexMedium   string
	FragmentPath   string
	FragmentEntry  string
	FragmentMedium string

	Description RawPipeline
}

// RawPipeline is the fixed-function state and resource layout of a shader.
type RawPipeline struct {
	Label string

	CullMode       string
	FrontFace      string
	FillMode       string
	Topology       string
	Bindings       []RawBinding
	DescriptorSets []RawDescriptorSet
}

// RawBinding is one vertex buffer slot.
type RawBinding struct {
	Label string

	InputRate  string
	Attributes []RawAttribute
	Bindpoint  string
	Binding    uint32
}

// RawAttribute is one vertex attribute.
type RawAttribute struct {
	Label string

	SemanticName  string
	SemanticIndex uint32
	Type          string
	Location      uint32
}

// RawDescriptorSet is one shader-visible resource slot.
type RawDescriptorSet struct {
	Label string

	Bindpoint string
	Binding   uint32
	Usage     string
	Size      uint32
}
