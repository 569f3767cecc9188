// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import "strings"

// Token domains reported by UnknownTokenError.
const (
	DomainCullMode        = "cull mode"
	DomainFrontFace       = "front face"
	DomainFillMode        = "fill mode"
	DomainTopology        = "topology"
	DomainInputRate       = "input rate"
	DomainBindpoint       = "bindpoint"
	DomainDataType        = "data type"
	DomainDescriptorUsage = "descriptor usage"
	DomainMedium          = "shader medium"
)

// UnknownTokenError is returned when a configuration token is not a member
// of its domain. Parsing never falls back to a default value.
type UnknownTokenError struct {
	Domain string
	Token  string
}

func (e *UnknownTokenError) Error() string {
	return "gfx: unknown " + e.Domain + " " + `"` + e.Token + `"`
}

var (
	cullModes = map[string]CullMode{
		"none":  CullModeNone,
		"front": CullModeFront,
		"back":  CullModeBack,
	}
	frontFaces = map[string]FrontFace{
		"ccw": FrontFaceCCW,
		"cw":  FrontFaceCW,
	}
	fillModes = map[string]FillMode{
		"solid": FillModeSolid,
		"lines": FillModeLines,
	}
	topologies = map[string]Topology{
		"points":         TopologyPoints,
		"lines":          TopologyLines,
		"triangles":      TopologyTriangles,
		"line-strip":     TopologyLineStrip,
		"triangle-strip": TopologyTriangleStrip,
	}
	inputRates = map[string]InputRate{
		"vertex":   InputRateVertex,
		"instance": InputRateInstance,
	}
	bindpoints = map[string]Bindpoint{
		"vertex":   BindpointVertex,
		"fragment": BindpointFragment,
		"geometry": BindpointGeometry,
		"compute":  BindpointCompute,
	}
	descriptorUsages = map[string]DescriptorUsage{
		"uniform": DescriptorUsageUniformBuffer,
		"storage": DescriptorUsageStorageBuffer,
		"texture": DescriptorUsageTexture,
	}
	media = map[string]Medium{
		"spirv": MediumSPIRV,
		"glsl":  MediumGLSL,
		"hlsl":  MediumHLSL,
		"msl":   MediumMSL,
		"wgsl":  MediumWGSL,
	}
	dataTypes = func() map[string]DataType {
		m := make(map[string]DataType, len(dataTypeNames))
		for t, name := range dataTypeNames {
			if name != "" {
				m[name] = DataType(t)
			}
		}
		return m
	}()
)

func parse[T any](table map[string]T, domain, token string) (T, error) {
	v, ok := table[token]
	if !ok {
		var zero T
		return zero, &UnknownTokenError{Domain: domain, Token: token}
	}
	return v, nil
}

// ParseCullMode maps "none", "front" or "back".
func ParseCullMode(token string) (CullMode, error) {
	return parse(cullModes, DomainCullMode, token)
}

// ParseFrontFace maps "ccw" or "cw".
func ParseFrontFace(token string) (FrontFace, error) {
	return parse(frontFaces, DomainFrontFace, token)
}

// ParseFillMode maps "solid" or "lines".
func ParseFillMode(token string) (FillMode, error) {
	return parse(fillModes, DomainFillMode, token)
}

// ParseTopology maps "points", "lines", "triangles", "line-strip" or
// "triangle-strip".
func ParseTopology(token string) (Topology, error) {
	return parse(topologies, DomainTopology, token)
}

// ParseInputRate maps "vertex" or "instance".
func ParseInputRate(token string) (InputRate, error) {
	return parse(inputRates, DomainInputRate, token)
}

// ParseBindpoint maps a single stage name to its flag.
func ParseBindpoint(token string) (Bindpoint, error) {
	return parse(bindpoints, DomainBindpoint, token)
}

// ParseBindpoints maps a "|"-separated list of stage names, such as
// "vertex|fragment", to the OR of their flags. A single name behaves like
// ParseBindpoint. Empty members are rejected.
func ParseBindpoints(token string) (Bindpoint, error) {
	var b Bindpoint
	for _, part := range strings.Split(token, "|") {
		f, ok := bindpoints[strings.TrimSpace(part)]
		if !ok {
			return 0, &UnknownTokenError{Domain: DomainBindpoint, Token: token}
		}
		b |= f
	}
	return b, nil
}

// ParseDataType maps attribute type names such as "float3" or "mat4".
func ParseDataType(token string) (DataType, error) {
	return parse(dataTypes, DomainDataType, token)
}

// ParseDescriptorUsage maps "uniform", "storage" or "texture".
func ParseDescriptorUsage(token string) (DescriptorUsage, error) {
	return parse(descriptorUsages, DomainDescriptorUsage, token)
}

// ParseMedium maps "spirv", "glsl", "hlsl", "msl" or "wgsl".
func ParseMedium(token string) (Medium, error) {
	return parse(media, DomainMedium, token)
}
