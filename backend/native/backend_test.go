package native

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/pipeconf/gfx"
)

const testVertexWGSL = `
@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    var pos = array<vec2<f32>, 3>(
        vec2<f32>(-0.5, -0.5),
        vec2<f32>(0.5, -0.5),
        vec2<f32>(0.0, 0.5)
    );
    return vec4<f32>(pos[idx], 0.0, 1.0);
}
`

const testFragmentWGSL = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

// minimalSPIRV returns a SPIR-V header with no instructions.
func minimalSPIRV() []byte {
	words := []uint32{spirvMagic, 0x00010300, 0, 1, 0}
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// handle is a non-empty HAL object so that captured handles are distinct.
type handle struct{ id int }

func (*handle) Destroy() {}

// captureDevice records descriptors and destroy calls on top of the noop device.
type captureDevice struct {
	noop.Device

	next      int
	pipelines []hal.RenderPipelineDescriptor
	groups    []hal.BindGroupLayoutDescriptor
	destroyed []string

	failLayout   error
	failPipeline error
}

func (d *captureDevice) newHandle() *handle {
	d.next++
	return &handle{id: d.next}
}

func (d *captureDevice) CreateShaderModule(*hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	return d.newHandle(), nil
}

func (d *captureDevice) DestroyShaderModule(hal.ShaderModule) {
	d.destroyed = append(d.destroyed, "shader")
}

func (d *captureDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	d.groups = append(d.groups, *desc)
	return d.newHandle(), nil
}

func (d *captureDevice) DestroyBindGroupLayout(hal.BindGroupLayout) {
	d.destroyed = append(d.destroyed, "group layout")
}

func (d *captureDevice) CreatePipelineLayout(*hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	if d.failLayout != nil {
		return nil, d.failLayout
	}
	return d.newHandle(), nil
}

func (d *captureDevice) DestroyPipelineLayout(hal.PipelineLayout) {
	d.destroyed = append(d.destroyed, "pipeline layout")
}

func (d *captureDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	if d.failPipeline != nil {
		return nil, d.failPipeline
	}
	d.pipelines = append(d.pipelines, *desc)
	return d.newHandle(), nil
}

func (d *captureDevice) DestroyRenderPipeline(hal.RenderPipeline) {
	d.destroyed = append(d.destroyed, "pipeline")
}

func createShaders(t *testing.T, b *Backend) (vs, fs gfx.Shader) {
	t.Helper()
	vs, err := b.CreateShader(&gfx.ShaderDesc{
		Label: "tri/vertex", Stage: gfx.StageVertex, Medium: gfx.MediumWGSL,
		Code: []byte(testVertexWGSL), EntryPoint: "vs_main",
	})
	if err != nil {
		t.Fatalf("CreateShader(vertex): %v", err)
	}
	fs, err = b.CreateShader(&gfx.ShaderDesc{
		Label: "tri/fragment", Stage: gfx.StageFragment, Medium: gfx.MediumSPIRV,
		Code: minimalSPIRV(), EntryPoint: "fs_main",
	})
	if err != nil {
		t.Fatalf("CreateShader(fragment): %v", err)
	}
	return vs, fs
}

func testPipelineDesc(vs, fs gfx.Shader) *gfx.PipelineDesc {
	return &gfx.PipelineDesc{
		Label:         "tri",
		Vertex:        vs,
		VertexEntry:   "vs_main",
		Fragment:      fs,
		FragmentEntry: "fs_main",
		Raster: gfx.RasterState{
			CullMode:  gfx.CullModeBack,
			FrontFace: gfx.FrontFaceCW,
			Topology:  gfx.TopologyTriangles,
		},
		Layout: gfx.Layout{
			Bindings: []gfx.Binding{
				{Slot: 0, InputRate: gfx.InputRateVertex, Attributes: []gfx.Attribute{
					{SemanticName: "POSITION", Type: gfx.DataTypeFloat3, Location: 0},
					{SemanticName: "TEXCOORD", Type: gfx.DataTypeFloat2, Location: 1},
				}},
				{Slot: 2, InputRate: gfx.InputRateInstance, Attributes: []gfx.Attribute{
					{SemanticName: "MODEL", Type: gfx.DataTypeMat4, Location: 2},
				}},
			},
			DescriptorSets: []gfx.DescriptorSet{
				{Bindpoint: gfx.BindpointVertex | gfx.BindpointFragment, Binding: 0, Usage: gfx.DescriptorUsageUniformBuffer, Size: 64},
				{Bindpoint: gfx.BindpointFragment, Binding: 1, Usage: gfx.DescriptorUsageTexture},
			},
		},
	}
}

func TestOpenNoopLifecycle(t *testing.T) {
	b, err := OpenNoop()
	if err != nil {
		t.Fatalf("OpenNoop: %v", err)
	}

	vs, fs := createShaders(t, b)
	p, err := b.CreatePipeline(testPipelineDesc(vs, fs))
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	if shaders, pipelines := b.Live(); shaders != 2 || pipelines != 1 {
		t.Errorf("Live() = %d, %d, want 2, 1", shaders, pipelines)
	}

	b.DestroyShader(fs)
	b.DestroyShader(vs)
	b.DestroyPipeline(p)
	b.DestroyPipeline(p)
	if shaders, pipelines := b.Live(); shaders != 0 || pipelines != 0 {
		t.Errorf("Live() after destroy = %d, %d", shaders, pipelines)
	}

	b.Destroy()
	b.Destroy()
	if _, err := b.CreateShader(&gfx.ShaderDesc{Medium: gfx.MediumSPIRV, Code: minimalSPIRV()}); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateShader after Destroy error = %v, want ErrClosed", err)
	}
}

func TestCreatePipelineDescriptor(t *testing.T) {
	dev := &captureDevice{}
	b := New(dev, WithColorFormat(gputypes.TextureFormatRGBA8Unorm))
	vs, fs := createShaders(t, b)

	if _, err := b.CreatePipeline(testPipelineDesc(vs, fs)); err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	if len(dev.pipelines) != 1 || len(dev.groups) != 1 {
		t.Fatalf("captured %d pipelines, %d group layouts", len(dev.pipelines), len(dev.groups))
	}
	got := dev.pipelines[0]

	if got.Primitive.CullMode != gputypes.CullModeBack ||
		got.Primitive.FrontFace != gputypes.FrontFaceCW ||
		got.Primitive.Topology != gputypes.PrimitiveTopologyTriangleList {
		t.Errorf("Primitive = %+v", got.Primitive)
	}
	if got.Vertex.EntryPoint != "vs_main" || got.Fragment.EntryPoint != "fs_main" {
		t.Errorf("entry points = %q, %q", got.Vertex.EntryPoint, got.Fragment.EntryPoint)
	}
	if f := got.Fragment.Targets[0].Format; f != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("color format = %v", f)
	}

	bufs := got.Vertex.Buffers
	if len(bufs) != 3 {
		t.Fatalf("len(Buffers) = %d, want 3", len(bufs))
	}
	if bufs[0].ArrayStride != 20 || len(bufs[0].Attributes) != 2 || bufs[0].Attributes[1].Offset != 12 {
		t.Errorf("slot 0 = %+v", bufs[0])
	}
	if bufs[1].StepMode != gputypes.VertexStepModeVertexBufferNotUsed {
		t.Errorf("slot 1 step mode = %v, want unused", bufs[1].StepMode)
	}
	if bufs[2].StepMode != gputypes.VertexStepModeInstance || bufs[2].ArrayStride != 64 || len(bufs[2].Attributes) != 4 {
		t.Errorf("slot 2 = %+v", bufs[2])
	}
	if loc := bufs[2].Attributes[3].ShaderLocation; loc != 5 {
		t.Errorf("last matrix column location = %d, want 5", loc)
	}

	entries := dev.groups[0].Entries
	if entries[0].Visibility != gputypes.ShaderStageVertex|gputypes.ShaderStageFragment ||
		entries[0].Buffer == nil || entries[0].Buffer.MinBindingSize != 64 {
		t.Errorf("uniform entry = %+v", entries[0])
	}
	if entries[1].Texture == nil {
		t.Errorf("texture entry = %+v", entries[1])
	}
}

func TestCreatePipelineWithoutDescriptorSets(t *testing.T) {
	dev := &captureDevice{}
	b := New(dev)
	vs, fs := createShaders(t, b)

	desc := testPipelineDesc(vs, fs)
	desc.Layout.DescriptorSets = nil
	p, err := b.CreatePipeline(desc)
	if err != nil {
		t.Fatalf("CreatePipeline: %v", err)
	}
	if len(dev.groups) != 0 {
		t.Errorf("created %d bind group layouts, want 0", len(dev.groups))
	}

	b.DestroyPipeline(p)
	want := []string{"pipeline", "pipeline layout"}
	if len(dev.destroyed) != len(want) || dev.destroyed[0] != want[0] || dev.destroyed[1] != want[1] {
		t.Errorf("destroyed = %v, want %v", dev.destroyed, want)
	}
}

func TestCreatePipelineReleasesPartialObjects(t *testing.T) {
	injected := errors.New("device lost")
	tests := []struct {
		name string
		dev  *captureDevice
		want []string
	}{
		{"layout fails", &captureDevice{failLayout: injected}, []string{"group layout"}},
		{"pipeline fails", &captureDevice{failPipeline: injected}, []string{"pipeline layout", "group layout"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(tt.dev)
			vs, fs := createShaders(t, b)

			if _, err := b.CreatePipeline(testPipelineDesc(vs, fs)); !errors.Is(err, injected) {
				t.Fatalf("CreatePipeline error = %v, want %v", err, injected)
			}
			if len(tt.dev.destroyed) != len(tt.want) {
				t.Fatalf("destroyed = %v, want %v", tt.dev.destroyed, tt.want)
			}
			for i := range tt.want {
				if tt.dev.destroyed[i] != tt.want[i] {
					t.Errorf("destroyed = %v, want %v", tt.dev.destroyed, tt.want)
				}
			}
			if _, pipelines := b.Live(); pipelines != 0 {
				t.Errorf("Live pipelines = %d, want 0", pipelines)
			}
		})
	}
}

func TestCreatePipelineRejects(t *testing.T) {
	b := New(&captureDevice{})
	vs, fs := createShaders(t, b)

	tests := []struct {
		name   string
		modify func(*gfx.PipelineDesc)
		want   error
	}{
		{"line fill", func(d *gfx.PipelineDesc) { d.Raster.FillMode = gfx.FillModeLines }, ErrUnsupported},
		{"geometry bindpoint", func(d *gfx.PipelineDesc) {
			d.Layout.DescriptorSets[0].Bindpoint = gfx.BindpointGeometry
		}, ErrUnsupported},
		{"texture attribute", func(d *gfx.PipelineDesc) {
			d.Layout.Bindings[0].Attributes[0].Type = gfx.DataTypeTextureSampler
		}, ErrUnsupported},
		{"foreign shader", func(d *gfx.PipelineDesc) { d.Vertex = "not a shader" }, ErrForeignHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := testPipelineDesc(vs, fs)
			tt.modify(desc)
			if _, err := b.CreatePipeline(desc); !errors.Is(err, tt.want) {
				t.Errorf("CreatePipeline error = %v, want %v", err, tt.want)
			}
		})
	}

	t.Run("swapped stages", func(t *testing.T) {
		if _, err := b.CreatePipeline(testPipelineDesc(fs, vs)); err == nil {
			t.Error("CreatePipeline with swapped stages succeeded")
		}
	})

	t.Run("destroyed shader", func(t *testing.T) {
		b.DestroyShader(fs)
		if _, err := b.CreatePipeline(testPipelineDesc(vs, fs)); !errors.Is(err, ErrForeignHandle) {
			t.Errorf("CreatePipeline error = %v, want ErrForeignHandle", err)
		}
	})
}

func TestCreateShaderErrors(t *testing.T) {
	b := New(&captureDevice{})

	tests := []struct {
		name string
		desc gfx.ShaderDesc
		want error
	}{
		{"hlsl", gfx.ShaderDesc{Medium: gfx.MediumHLSL, Code: []byte("float4 main() {}")}, ErrUnsupported},
		{"short spirv", gfx.ShaderDesc{Medium: gfx.MediumSPIRV, Code: []byte{0x03, 0x02, 0x23, 0x07}}, ErrInvalidSPIRV},
		{"bad magic", gfx.ShaderDesc{Medium: gfx.MediumSPIRV, Code: make([]byte, 20)}, ErrInvalidSPIRV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.CreateShader(&tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateShader error = %v, want %v", err, tt.want)
			}
		})
	}

	_, err := b.CreateShader(&gfx.ShaderDesc{Label: "broken", Medium: gfx.MediumWGSL, Code: []byte("fn (")})
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Label != "broken" {
		t.Errorf("CreateShader(bad wgsl) error = %v, want *CompileError", err)
	}
}

func TestDestroyReleasesLeftovers(t *testing.T) {
	dev := &captureDevice{}
	b := New(dev)
	vs, fs := createShaders(t, b)
	if _, err := b.CreatePipeline(testPipelineDesc(vs, fs)); err != nil {
		t.Fatal(err)
	}

	b.Destroy()
	if len(dev.destroyed) != 5 {
		t.Errorf("destroyed = %v, want pipeline parts and two shaders", dev.destroyed)
	}
	b.DestroyShader(vs)
	if len(dev.destroyed) != 5 {
		t.Error("DestroyShader after Destroy released the module again")
	}
}

type fakeProvider struct {
	device any
	format gputypes.TextureFormat
}

func (p fakeProvider) Device() gpucontext.Device             { return p.device }
func (p fakeProvider) Queue() gpucontext.Queue               { return nil }
func (p fakeProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p fakeProvider) Adapter() gpucontext.Adapter           { return nil }
func (p fakeProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// halWrapper exposes a device the way host applications wrap their HAL device.
type halWrapper struct{ dev hal.Device }

func (w halWrapper) HalDevice() any { return w.dev }

func TestNewFromProvider(t *testing.T) {
	dev := &captureDevice{}

	tests := []struct {
		name   string
		device any
		format gputypes.TextureFormat
		want   gputypes.TextureFormat
	}{
		{"direct device", dev, gputypes.TextureFormatUndefined, DefaultColorFormat},
		{"wrapped device", halWrapper{dev}, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewFromProvider(fakeProvider{device: tt.device, format: tt.format})
			if err != nil {
				t.Fatalf("NewFromProvider: %v", err)
			}
			if b.Device() != hal.Device(dev) {
				t.Error("backend does not use the provider device")
			}
			if b.colorFormat != tt.want {
				t.Errorf("color format = %v, want %v", b.colorFormat, tt.want)
			}
		})
	}

	if _, err := NewFromProvider(fakeProvider{device: "webgpu handle"}); !errors.Is(err, ErrNotHALDevice) {
		t.Errorf("NewFromProvider(foreign) error = %v, want ErrNotHALDevice", err)
	}
}
