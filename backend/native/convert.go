package native

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pipeconf/gfx"
)

func cullMode(m gfx.CullMode) gputypes.CullMode {
	switch m {
	case gfx.CullModeFront:
		return gputypes.CullModeFront
	case gfx.CullModeBack:
		return gputypes.CullModeBack
	default:
		return gputypes.CullModeNone
	}
}

func frontFace(f gfx.FrontFace) gputypes.FrontFace {
	if f == gfx.FrontFaceCW {
		return gputypes.FrontFaceCW
	}
	return gputypes.FrontFaceCCW
}

func topology(t gfx.Topology) gputypes.PrimitiveTopology {
	switch t {
	case gfx.TopologyPoints:
		return gputypes.PrimitiveTopologyPointList
	case gfx.TopologyLines:
		return gputypes.PrimitiveTopologyLineList
	case gfx.TopologyLineStrip:
		return gputypes.PrimitiveTopologyLineStrip
	case gfx.TopologyTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// primitiveState maps raster state. WebGPU has no polygon fill mode, so
// only solid fill is accepted.
func primitiveState(r gfx.RasterState) (gputypes.PrimitiveState, error) {
	if r.FillMode != gfx.FillModeSolid {
		return gputypes.PrimitiveState{}, fmt.Errorf("%w: fill mode %s", ErrUnsupported, r.FillMode)
	}
	return gputypes.PrimitiveState{
		Topology:  topology(r.Topology),
		FrontFace: frontFace(r.FrontFace),
		CullMode:  cullMode(r.CullMode),
	}, nil
}

func stepMode(r gfx.InputRate) gputypes.VertexStepMode {
	if r == gfx.InputRateInstance {
		return gputypes.VertexStepModeInstance
	}
	return gputypes.VertexStepModeVertex
}

// vertexFormats maps an attribute type to one format per shader location.
// Matrices occupy one float32 vector location per column.
func vertexFormats(t gfx.DataType) ([]gputypes.VertexFormat, error) {
	switch t {
	case gfx.DataTypeFloat:
		return []gputypes.VertexFormat{gputypes.VertexFormatFloat32}, nil
	case gfx.DataTypeFloat2:
		return []gputypes.VertexFormat{gputypes.VertexFormatFloat32x2}, nil
	case gfx.DataTypeFloat3:
		return []gputypes.VertexFormat{gputypes.VertexFormatFloat32x3}, nil
	case gfx.DataTypeFloat4:
		return []gputypes.VertexFormat{gputypes.VertexFormatFloat32x4}, nil
	case gfx.DataTypeInt:
		return []gputypes.VertexFormat{gputypes.VertexFormatSint32}, nil
	case gfx.DataTypeInt2:
		return []gputypes.VertexFormat{gputypes.VertexFormatSint32x2}, nil
	case gfx.DataTypeInt3:
		return []gputypes.VertexFormat{gputypes.VertexFormatSint32x3}, nil
	case gfx.DataTypeInt4:
		return []gputypes.VertexFormat{gputypes.VertexFormatSint32x4}, nil
	case gfx.DataTypeUint:
		return []gputypes.VertexFormat{gputypes.VertexFormatUint32}, nil
	case gfx.DataTypeUint2:
		return []gputypes.VertexFormat{gputypes.VertexFormatUint32x2}, nil
	case gfx.DataTypeUint3:
		return []gputypes.VertexFormat{gputypes.VertexFormatUint32x3}, nil
	case gfx.DataTypeUint4:
		return []gputypes.VertexFormat{gputypes.VertexFormatUint32x4}, nil
	case gfx.DataTypeMat2:
		return repeatFormat(gputypes.VertexFormatFloat32x2, 2), nil
	case gfx.DataTypeMat3:
		return repeatFormat(gputypes.VertexFormatFloat32x3, 3), nil
	case gfx.DataTypeMat4:
		return repeatFormat(gputypes.VertexFormatFloat32x4, 4), nil
	default:
		return nil, fmt.Errorf("%w: vertex attribute type %s", ErrUnsupported, t)
	}
}

func repeatFormat(f gputypes.VertexFormat, n int) []gputypes.VertexFormat {
	out := make([]gputypes.VertexFormat, n)
	for i := range out {
		out[i] = f
	}
	return out
}

// vertexBuffers packs attributes of each binding in declaration order. The
// stride of a binding is the sum of its attribute sizes. Buffers are
// ordered by slot; gaps are filled with unused layouts.
func vertexBuffers(bindings []gfx.Binding) ([]gputypes.VertexBufferLayout, error) {
	if len(bindings) == 0 {
		return nil, nil
	}
	var maxSlot uint32
	for _, b := range bindings {
		maxSlot = max(maxSlot, b.Slot)
	}
	out := make([]gputypes.VertexBufferLayout, maxSlot+1)
	for i := range out {
		out[i].StepMode = gputypes.VertexStepModeVertexBufferNotUsed
	}

	used := make(map[uint32]bool, len(bindings))
	for _, b := range bindings {
		if used[b.Slot] {
			return nil, fmt.Errorf("native: vertex buffer slot %d bound twice", b.Slot)
		}
		used[b.Slot] = true

		layout := gputypes.VertexBufferLayout{StepMode: stepMode(b.InputRate)}
		var offset uint64
		for _, a := range b.Attributes {
			formats, err := vertexFormats(a.Type)
			if err != nil {
				return nil, fmt.Errorf("attribute %s%d: %w", a.SemanticName, a.SemanticIndex, err)
			}
			for col, f := range formats {
				layout.Attributes = append(layout.Attributes, gputypes.VertexAttribute{
					Format:         f,
					Offset:         offset,
					ShaderLocation: a.Location + uint32(col),
				})
				offset += f.Size()
			}
		}
		layout.ArrayStride = offset
		out[b.Slot] = layout
	}
	return out, nil
}

// visibility maps bindpoint flags to shader stages. WebGPU has no geometry
// stage.
func visibility(b gfx.Bindpoint) (gputypes.ShaderStages, error) {
	if b.Has(gfx.BindpointGeometry) {
		return 0, fmt.Errorf("%w: geometry stage", ErrUnsupported)
	}
	var v gputypes.ShaderStages
	if b.Has(gfx.BindpointVertex) {
		v |= gputypes.ShaderStageVertex
	}
	if b.Has(gfx.BindpointFragment) {
		v |= gputypes.ShaderStageFragment
	}
	if b.Has(gfx.BindpointCompute) {
		v |= gputypes.ShaderStageCompute
	}
	return v, nil
}

// bindGroupEntries maps descriptor sets to entries of bind group 0.
func bindGroupEntries(sets []gfx.DescriptorSet) ([]gputypes.BindGroupLayoutEntry, error) {
	entries := make([]gputypes.BindGroupLayoutEntry, 0, len(sets))
	for _, s := range sets {
		vis, err := visibility(s.Bindpoint)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", s.Binding, err)
		}
		e := gputypes.BindGroupLayoutEntry{Binding: s.Binding, Visibility: vis}
		switch s.Usage {
		case gfx.DescriptorUsageUniformBuffer:
			e.Buffer = &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeUniform,
				MinBindingSize: uint64(s.Size),
			}
		case gfx.DescriptorUsageStorageBuffer:
			e.Buffer = &gputypes.BufferBindingLayout{
				Type:           gputypes.BufferBindingTypeStorage,
				MinBindingSize: uint64(s.Size),
			}
		case gfx.DescriptorUsageTexture:
			e.Texture = &gputypes.TextureBindingLayout{
				SampleType:    gputypes.TextureSampleTypeFloat,
				ViewDimension: gputypes.TextureViewDimension2D,
			}
		default:
			return nil, fmt.Errorf("binding %d: %w: usage %s", s.Binding, ErrUnsupported, s.Usage)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
