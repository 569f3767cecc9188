// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfx

import (
	"errors"
	"testing"
)

func TestParseKnownTokens(t *testing.T) {
	tests := []struct {
		name  string
		parse func(string) (any, error)
		token string
		want  any
	}{
		{"cull none", wrap(ParseCullMode), "none", CullModeNone},
		{"cull front", wrap(ParseCullMode), "front", CullModeFront},
		{"cull back", wrap(ParseCullMode), "back", CullModeBack},
		{"front ccw", wrap(ParseFrontFace), "ccw", FrontFaceCCW},
		{"front cw", wrap(ParseFrontFace), "cw", FrontFaceCW},
		{"fill solid", wrap(ParseFillMode), "solid", FillModeSolid},
		{"fill lines", wrap(ParseFillMode), "lines", FillModeLines},
		{"topology points", wrap(ParseTopology), "points", TopologyPoints},
		{"topology lines", wrap(ParseTopology), "lines", TopologyLines},
		{"topology triangles", wrap(ParseTopology), "triangles", TopologyTriangles},
		{"topology strip", wrap(ParseTopology), "triangle-strip", TopologyTriangleStrip},
		{"rate vertex", wrap(ParseInputRate), "vertex", InputRateVertex},
		{"rate instance", wrap(ParseInputRate), "instance", InputRateInstance},
		{"bindpoint vertex", wrap(ParseBindpoint), "vertex", BindpointVertex},
		{"bindpoint fragment", wrap(ParseBindpoint), "fragment", BindpointFragment},
		{"bindpoint geometry", wrap(ParseBindpoint), "geometry", BindpointGeometry},
		{"bindpoint compute", wrap(ParseBindpoint), "compute", BindpointCompute},
		{"type float3", wrap(ParseDataType), "float3", DataTypeFloat3},
		{"type uint4", wrap(ParseDataType), "uint4", DataTypeUint4},
		{"type mat4", wrap(ParseDataType), "mat4", DataTypeMat4},
		{"type texture", wrap(ParseDataType), "texture", DataTypeTextureSampler},
		{"usage uniform", wrap(ParseDescriptorUsage), "uniform", DescriptorUsageUniformBuffer},
		{"usage texture", wrap(ParseDescriptorUsage), "texture", DescriptorUsageTexture},
		{"medium hlsl", wrap(ParseMedium), "hlsl", MediumHLSL},
		{"medium spirv", wrap(ParseMedium), "spirv", MediumSPIRV},
		{"medium wgsl", wrap(ParseMedium), "wgsl", MediumWGSL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.parse(tt.token)
			if err != nil {
				t.Fatalf("parse(%q) error: %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("parse(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func wrap[T any](f func(string) (T, error)) func(string) (any, error) {
	return func(s string) (any, error) {
		v, err := f(s)
		return v, err
	}
}

func TestParseUnknownTokens(t *testing.T) {
	tests := []struct {
		parse  func(string) (any, error)
		token  string
		domain string
	}{
		{wrap(ParseCullMode), "sideways", DomainCullMode},
		{wrap(ParseCullMode), "Back", DomainCullMode},
		{wrap(ParseFrontFace), "clockwise", DomainFrontFace},
		{wrap(ParseFillMode), "wireframe", DomainFillMode},
		{wrap(ParseTopology), "quads", DomainTopology},
		{wrap(ParseInputRate), "", DomainInputRate},
		{wrap(ParseBindpoint), "tessellation", DomainBindpoint},
		{wrap(ParseBindpoint), "vertex|fragment", DomainBindpoint},
		{wrap(ParseDataType), "double", DomainDataType},
		{wrap(ParseDescriptorUsage), "sampler", DomainDescriptorUsage},
		{wrap(ParseMedium), "cg", DomainMedium},
	}
	for _, tt := range tests {
		t.Run(tt.domain+"/"+tt.token, func(t *testing.T) {
			_, err := tt.parse(tt.token)
			var unknown *UnknownTokenError
			if !errors.As(err, &unknown) {
				t.Fatalf("parse(%q) error = %v, want *UnknownTokenError", tt.token, err)
			}
			if unknown.Domain != tt.domain || unknown.Token != tt.token {
				t.Errorf("got %+v, want domain %q token %q", unknown, tt.domain, tt.token)
			}
		})
	}
}

func TestParseBindpoints(t *testing.T) {
	got, err := ParseBindpoints("vertex|fragment")
	if err != nil {
		t.Fatalf("ParseBindpoints: %v", err)
	}
	if got != BindpointVertex|BindpointFragment {
		t.Errorf("got %v, want vertex|fragment", got)
	}
	if !got.Has(BindpointFragment) || got.Has(BindpointCompute) {
		t.Errorf("Has() mismatch for %v", got)
	}
	if got.String() != "vertex|fragment" {
		t.Errorf("String() = %q", got.String())
	}

	single, err := ParseBindpoints("compute")
	if err != nil || single != BindpointCompute {
		t.Errorf("ParseBindpoints(compute) = %v, %v", single, err)
	}

	for _, bad := range []string{"", "vertex|", "vertex|pixel"} {
		if _, err := ParseBindpoints(bad); err == nil {
			t.Errorf("ParseBindpoints(%q) succeeded, want error", bad)
		}
	}
}

func TestDataTypeRoundTrip(t *testing.T) {
	for dt := DataTypeFloat; dt <= DataTypeTextureSampler; dt++ {
		got, err := ParseDataType(dt.String())
		if err != nil {
			t.Fatalf("ParseDataType(%q): %v", dt.String(), err)
		}
		if got != dt {
			t.Errorf("round trip %v -> %v", dt, got)
		}
	}
	if DataType(0).String() != "DataType(?)" {
		t.Errorf("zero DataType should not have a name")
	}
}

func TestDataTypeColumns(t *testing.T) {
	if DataTypeFloat4.Columns() != 1 || DataTypeMat3.Columns() != 3 || DataTypeMat4.Columns() != 4 {
		t.Error("unexpected column counts")
	}
}

func TestLayoutClone(t *testing.T) {
	l := Layout{
		Bindings:       []Binding{{Attributes: []Attribute{{SemanticName: "POSITION"}}}},
		DescriptorSets: []DescriptorSet{{Binding: 1}},
	}
	c := l.Clone()
	c.Bindings[0].Attributes[0].SemanticName = "NORMAL"
	c.DescriptorSets[0].Binding = 7
	if l.Bindings[0].Attributes[0].SemanticName != "POSITION" || l.DescriptorSets[0].Binding != 1 {
		t.Error("Clone shares memory with the original")
	}
}
