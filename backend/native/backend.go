// Package native implements gfx.Backend on a gogpu/wgpu HAL device.
//
// Shader blobs are WGSL, compiled to SPIR-V with naga, or SPIR-V bytecode.
// Every pipeline owns its pipeline layout and its group 0 bind group
// layout; DestroyPipeline releases all three.
//
// Example (headless, for validation and tests):
//
//	backend, err := native.OpenNoop()
//	if err != nil {
//	    return err
//	}
//	defer backend.Destroy()
package native

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/pipeconf/gfx"
)

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// DefaultColorFormat is the color target format when none is configured.
const DefaultColorFormat = gputypes.TextureFormatBGRA8Unorm

// Option configures a Backend.
type Option func(*Backend)

// WithColorFormat sets the format of the single color target.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(b *Backend) {
		b.colorFormat = f
	}
}

// WithCompileCache sets how many compiled WGSL modules are kept across
// shader creations. Zero disables the cache.
func WithCompileCache(size int) Option {
	return func(b *Backend) {
		b.cache = newCompileCache(size)
	}
}

// WithCompileOptions sets the naga options used for WGSL blobs.
func WithCompileOptions(opts naga.CompileOptions) Option {
	return func(b *Backend) {
		b.compile = opts
	}
}

type shaderModule struct {
	label  string
	stage  gfx.ShaderStage
	module hal.ShaderModule
}

type renderPipeline struct {
	label       string
	pipeline    hal.RenderPipeline
	layout      hal.PipelineLayout
	groupLayout hal.BindGroupLayout
}

// Backend creates shader modules and render pipelines on a hal.Device.
// It is safe for concurrent use.
type Backend struct {
	device   hal.Device
	instance hal.Instance
	owned    bool

	colorFormat gputypes.TextureFormat
	compile     naga.CompileOptions
	cache       *compileCache

	mu        sync.Mutex
	logger    *slog.Logger
	shaders   map[*shaderModule]struct{}
	pipelines map[*renderPipeline]struct{}
	closed    bool
}

// New creates a backend on an existing device. The device stays owned by
// the caller and is not destroyed by Destroy.
func New(device hal.Device, opts ...Option) *Backend {
	b := &Backend{
		device:      device,
		colorFormat: DefaultColorFormat,
		compile:     naga.DefaultOptions(),
		cache:       newCompileCache(DefaultCompileCacheSize),
		logger:      slog.New(nopHandler{}),
		shaders:     make(map[*shaderModule]struct{}),
		pipelines:   make(map[*renderPipeline]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// halProvider is implemented by device providers that expose their HAL
// device directly.
type halProvider interface {
	HalDevice() any
}

// NewFromProvider creates a backend sharing the device of a host
// application. The provider keeps ownership of the device. When the
// provider reports a surface format it becomes the color target format
// unless WithColorFormat overrides it.
func NewFromProvider(p gpucontext.DeviceProvider, opts ...Option) (*Backend, error) {
	var device hal.Device
	switch {
	case asHAL(p) != nil:
		device = asHAL(p)
	case asHAL(p.Device()) != nil:
		device = asHAL(p.Device())
	default:
		if d, ok := p.Device().(hal.Device); ok {
			device = d
		}
	}
	if device == nil {
		return nil, ErrNotHALDevice
	}

	if f := p.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		opts = append([]Option{WithColorFormat(f)}, opts...)
	}
	return New(device, opts...), nil
}

func asHAL(v any) hal.Device {
	hp, ok := v.(halProvider)
	if !ok {
		return nil
	}
	d, _ := hp.HalDevice().(hal.Device)
	return d
}

// OpenNoop opens a device on the HAL noop backend. The backend owns the
// device and instance and releases them in Destroy.
func OpenNoop(opts ...Option) (*Backend, error) {
	return open(noop.API{}, opts...)
}

func open(api hal.Backend, opts ...Option) (*Backend, error) {
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	dev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	b := New(dev.Device, opts...)
	b.instance = instance
	b.owned = true
	return b, nil
}

// Device returns the underlying HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// SetLogger sets the logger for this backend. For backends that own their
// device the logger is also installed for the HAL layer.
func (b *Backend) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	b.mu.Lock()
	b.logger = l
	owned := b.owned
	b.mu.Unlock()

	if owned {
		hal.SetLogger(l)
	}
}

func (b *Backend) log() *slog.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.logger
}

// CreateShader implements gfx.Backend.
func (b *Backend) CreateShader(desc *gfx.ShaderDesc) (gfx.Shader, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}

	var words []uint32
	var err error
	switch desc.Medium {
	case gfx.MediumWGSL:
		words, err = b.cache.compile(desc.Label, desc.Code, b.compile)
	case gfx.MediumSPIRV:
		words, err = spirvWords(desc.Code)
	default:
		err = fmt.Errorf("%w: %s shaders", ErrUnsupported, desc.Medium)
	}
	if err != nil {
		return nil, err
	}

	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create shader module %s: %w", desc.Label, err)
	}

	s := &shaderModule{label: desc.Label, stage: desc.Stage, module: module}
	b.mu.Lock()
	b.shaders[s] = struct{}{}
	b.mu.Unlock()
	return s, nil
}

// DestroyShader implements gfx.Backend. Unknown handles are ignored.
func (b *Backend) DestroyShader(s gfx.Shader) {
	sm, ok := s.(*shaderModule)
	if !ok {
		return
	}
	b.mu.Lock()
	_, live := b.shaders[sm]
	delete(b.shaders, sm)
	b.mu.Unlock()

	if live {
		b.device.DestroyShaderModule(sm.module)
	}
}

// CreatePipeline implements gfx.Backend.
func (b *Backend) CreatePipeline(desc *gfx.PipelineDesc) (gfx.Pipeline, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}
	vs, err := b.liveShader(desc.Vertex, gfx.StageVertex)
	if err != nil {
		return nil, err
	}
	fs, err := b.liveShader(desc.Fragment, gfx.StageFragment)
	if err != nil {
		return nil, err
	}

	primitive, err := primitiveState(desc.Raster)
	if err != nil {
		return nil, err
	}
	buffers, err := vertexBuffers(desc.Layout.Bindings)
	if err != nil {
		return nil, err
	}
	entries, err := bindGroupEntries(desc.Layout.DescriptorSets)
	if err != nil {
		return nil, err
	}

	p := &renderPipeline{label: desc.Label}
	var groups []hal.BindGroupLayout
	if len(entries) > 0 {
		p.groupLayout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   desc.Label + "_group0",
			Entries: entries,
		})
		if err != nil {
			return nil, fmt.Errorf("native: create bind group layout: %w", err)
		}
		groups = []hal.BindGroupLayout{p.groupLayout}
	}

	p.layout, err = b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		b.release(p)
		return nil, fmt.Errorf("native: create pipeline layout: %w", err)
	}

	p.pipeline, err = b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     vs.module,
			EntryPoint: desc.VertexEntry,
			Buffers:    buffers,
		},
		Primitive:   primitive,
		Multisample: gputypes.DefaultMultisampleState(),
		Fragment: &hal.FragmentState{
			Module:     fs.module,
			EntryPoint: desc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{{
				Format:    b.colorFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		b.release(p)
		return nil, fmt.Errorf("native: create render pipeline %s: %w", desc.Label, err)
	}

	b.mu.Lock()
	b.pipelines[p] = struct{}{}
	b.mu.Unlock()
	b.log().Debug("native: render pipeline created", "label", desc.Label,
		"buffers", len(buffers), "bindings", len(entries))
	return p, nil
}

// DestroyPipeline implements gfx.Backend. Unknown handles are ignored.
func (b *Backend) DestroyPipeline(p gfx.Pipeline) {
	rp, ok := p.(*renderPipeline)
	if !ok {
		return
	}
	b.mu.Lock()
	_, live := b.pipelines[rp]
	delete(b.pipelines, rp)
	b.mu.Unlock()

	if live {
		b.release(rp)
	}
}

// release destroys the parts of p in reverse creation order.
func (b *Backend) release(p *renderPipeline) {
	if p.pipeline != nil {
		b.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		b.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.groupLayout != nil {
		b.device.DestroyBindGroupLayout(p.groupLayout)
		p.groupLayout = nil
	}
}

func (b *Backend) liveShader(s gfx.Shader, stage gfx.ShaderStage) (*shaderModule, error) {
	sm, ok := s.(*shaderModule)
	if !ok {
		return nil, fmt.Errorf("%w: %s stage", ErrForeignHandle, stage)
	}
	b.mu.Lock()
	_, live := b.shaders[sm]
	b.mu.Unlock()
	if !live {
		return nil, fmt.Errorf("%w: %s stage", ErrForeignHandle, stage)
	}
	if sm.stage != stage {
		return nil, fmt.Errorf("native: %s shader %s used as %s stage", sm.stage, sm.label, stage)
	}
	return sm, nil
}

func (b *Backend) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// CompileStats returns WGSL compile cache statistics.
func (b *Backend) CompileStats() CompileStats { return b.cache.stats() }

// Live returns the number of shader modules and pipelines not yet destroyed.
func (b *Backend) Live() (shaders, pipelines int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.shaders), len(b.pipelines)
}

// Destroy implements gfx.Destroyer. Objects still alive are released
// first with a warning. A device and instance opened by OpenNoop are
// released last. Destroy is idempotent.
func (b *Backend) Destroy() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	shaders, pipelines := b.shaders, b.pipelines
	b.shaders = make(map[*shaderModule]struct{})
	b.pipelines = make(map[*renderPipeline]struct{})
	log := b.logger
	b.mu.Unlock()

	if n := len(shaders) + len(pipelines); n > 0 {
		log.Warn("native: releasing objects still alive at destroy", "shaders", len(shaders), "pipelines", len(pipelines))
	}
	for p := range pipelines {
		b.release(p)
	}
	for s := range shaders {
		b.device.DestroyShaderModule(s.module)
	}

	if b.owned {
		b.device.Destroy()
		b.instance.Destroy()
	}
}
