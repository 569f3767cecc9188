// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds the game objects driven by the frame loop and the
// renderables that draw with catalog pipelines.
//
// Input and timing live in an explicit Frame passed to every update:
//
//	var in scene.Input
//	world := scene.NewWorld()
//	world.Add(scene.NewPlayer(&world.Camera))
//	tri := world.AddRenderable(&scene.Renderable{Shader: "default", VertexCount: 3})
//	world.ResolveAll(lib)
//
//	for running {
//	    // feed window events into in
//	    f := in.Next(16 * time.Millisecond)
//	    world.Update(&f)
//	    if f.KeyDown(scene.KeyLeftControl) && f.KeyPressed(scene.KeyR) {
//	        if err := lib.Reload(); err == nil {
//	            world.ResolveAll(lib)
//	        }
//	    }
//	}
package scene

// World owns game objects, renderables and the camera.
type World struct {
	Camera Camera

	objects     []Object
	renderables []*Renderable
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{}
}

// Add appends obj to the update list.
func (w *World) Add(obj Object) {
	w.objects = append(w.objects, obj)
}

// AddRenderable adds r together with a proxy object that keeps r's
// transform in sync. The proxy is returned so callers can move it.
func (w *World) AddRenderable(r *Renderable) *RenderableProxy {
	p := &RenderableProxy{Transform: r.Transform, Target: r}
	if p.Scale == (Vec3{}) {
		p.Transform = IdentityTransform()
		p.Position = r.Position
		p.Rotation = r.Rotation
	}
	w.renderables = append(w.renderables, r)
	w.Add(p)
	return p
}

// Update advances every object by one frame in insertion order.
func (w *World) Update(f *Frame) {
	for _, obj := range w.objects {
		Update(obj, f)
	}
}

// ResolveAll re-reads the pipeline of every renderable from c. It returns
// the number of renderables whose shader name is not in c.
func (w *World) ResolveAll(c Catalog) int {
	missing := 0
	for _, r := range w.renderables {
		if !r.Resolve(c) {
			missing++
		}
	}
	return missing
}

// Renderables returns the renderables in insertion order.
func (w *World) Renderables() []*Renderable {
	return append([]*Renderable(nil), w.renderables...)
}

// Drawables returns the renderables that can be drawn this frame.
func (w *World) Drawables() []*Renderable {
	var out []*Renderable
	for _, r := range w.renderables {
		if r.Drawable() {
			out = append(out, r)
		}
	}
	return out
}
