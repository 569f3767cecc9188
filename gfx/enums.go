// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "strings"

// CullMode selects which triangle faces are discarded by the rasterizer.
type CullMode uint8

// Cull modes.
const (
	CullModeNone CullMode = iota
	CullModeFront
	CullModeBack
)

func (m CullMode) String() string {
	switch m {
	case CullModeNone:
		return "none"
	case CullModeFront:
		return "front"
	case CullModeBack:
		return "back"
	default:
		return "CullMode(?)"
	}
}

// FrontFace defines the winding order of front-facing triangles.
type FrontFace uint8

// Front face windings.
const (
	FrontFaceCCW FrontFace = iota
	FrontFaceCW
)

func (f FrontFace) String() string {
	switch f {
	case FrontFaceCCW:
		return "ccw"
	case FrontFaceCW:
		return "cw"
	default:
		return "FrontFace(?)"
	}
}

// FillMode selects how polygons are rasterized.
type FillMode uint8

// Fill modes.
const (
	FillModeSolid FillMode = iota
	FillModeLines
)

func (m FillMode) String() string {
	switch m {
	case FillModeSolid:
		return "solid"
	case FillModeLines:
		return "lines"
	default:
		return "FillMode(?)"
	}
}

// Topology is the primitive assembly mode.
type Topology uint8

// Primitive topologies.
const (
	TopologyPoints Topology = iota
	TopologyLines
	TopologyTriangles
	TopologyLineStrip
	TopologyTriangleStrip
)

func (t Topology) String() string {
	switch t {
	case TopologyPoints:
		return "points"
	case TopologyLines:
		return "lines"
	case TopologyTriangles:
		return "triangles"
	case TopologyLineStrip:
		return "line-strip"
	case TopologyTriangleStrip:
		return "triangle-strip"
	default:
		return "Topology(?)"
	}
}

// InputRate controls whether a vertex buffer advances per vertex or per instance.
type InputRate uint8

// Input rates.
const (
	InputRateVertex InputRate = iota
	InputRateInstance
)

func (r InputRate) String() string {
	switch r {
	case InputRateVertex:
		return "vertex"
	case InputRateInstance:
		return "instance"
	default:
		return "InputRate(?)"
	}
}

// Bindpoint is a set of shader stages a resource is visible to.
// Values are bit flags and may be OR-composed.
type Bindpoint uint8

// Bindpoint flags.
const (
	BindpointVertex   Bindpoint = 1 << iota // 1
	BindpointFragment                       // 2
	BindpointGeometry                       // 4
	BindpointCompute                        // 8
)

// Has reports whether every flag in f is set in b.
func (b Bindpoint) Has(f Bindpoint) bool { return b&f == f }

func (b Bindpoint) String() string {
	if b == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []Bindpoint{BindpointVertex, BindpointFragment, BindpointGeometry, BindpointCompute} {
		if b&f == 0 {
			continue
		}
		switch f {
		case BindpointVertex:
			parts = append(parts, "vertex")
		case BindpointFragment:
			parts = append(parts, "fragment")
		case BindpointGeometry:
			parts = append(parts, "geometry")
		case BindpointCompute:
			parts = append(parts, "compute")
		}
	}
	return strings.Join(parts, "|")
}

// DataType is the element type of a vertex attribute.
type DataType uint8

// Attribute data types. The zero value is invalid.
const (
	DataTypeFloat DataType = iota + 1
	DataTypeFloat2
	DataTypeFloat3
	DataTypeFloat4
	DataTypeInt
	DataTypeInt2
	DataTypeInt3
	DataTypeInt4
	DataTypeUint
	DataTypeUint2
	DataTypeUint3
	DataTypeUint4
	DataTypeMat2
	DataTypeMat3
	DataTypeMat4
	DataTypeTextureSampler
)

var dataTypeNames = [...]string{
	DataTypeFloat:          "float",
	DataTypeFloat2:         "float2",
	DataTypeFloat3:         "float3",
	DataTypeFloat4:         "float4",
	DataTypeInt:            "int",
	DataTypeInt2:           "int2",
	DataTypeInt3:           "int3",
	DataTypeInt4:           "int4",
	DataTypeUint:           "uint",
	DataTypeUint2:          "uint2",
	DataTypeUint3:          "uint3",
	DataTypeUint4:          "uint4",
	DataTypeMat2:           "mat2",
	DataTypeMat3:           "mat3",
	DataTypeMat4:           "mat4",
	DataTypeTextureSampler: "texture",
}

func (t DataType) String() string {
	if t == 0 || int(t) >= len(dataTypeNames) {
		return "DataType(?)"
	}
	return dataTypeNames[t]
}

// Columns returns the number of vector columns the type occupies.
// Scalars and vectors occupy one column, an NxN matrix occupies N.
func (t DataType) Columns() int {
	switch t {
	case DataTypeMat2:
		return 2
	case DataTypeMat3:
		return 3
	case DataTypeMat4:
		return 4
	default:
		return 1
	}
}

// DescriptorUsage is the kind of resource bound at a descriptor slot.
type DescriptorUsage uint8

// Descriptor usages. The zero value is invalid.
const (
	DescriptorUsageUniformBuffer DescriptorUsage = iota + 1
	DescriptorUsageStorageBuffer
	DescriptorUsageTexture
)

func (u DescriptorUsage) String() string {
	switch u {
	case DescriptorUsageUniformBuffer:
		return "uniform"
	case DescriptorUsageStorageBuffer:
		return "storage"
	case DescriptorUsageTexture:
		return "texture"
	default:
		return "DescriptorUsage(?)"
	}
}

// Medium is the source language of a shader blob.
type Medium uint8

// Shader media.
const (
	MediumSPIRV Medium = iota
	MediumGLSL
	MediumHLSL
	MediumMSL
	MediumWGSL
)

func (m Medium) String() string {
	switch m {
	case MediumSPIRV:
		return "spirv"
	case MediumGLSL:
		return "glsl"
	case MediumHLSL:
		return "hlsl"
	case MediumMSL:
		return "msl"
	case MediumWGSL:
		return "wgsl"
	default:
		return "Medium(?)"
	}
}

// ShaderStage identifies the pipeline stage a shader object is built for.
type ShaderStage uint8

// Shader stages.
const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "ShaderStage(?)"
	}
}
