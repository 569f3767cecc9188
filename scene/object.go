// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"math"

	"github.com/gogpu/pipeconf/gfx"
)

// Vec3 is a three component vector.
type Vec3 [3]float32

// Transform places an object in the world.
type Transform struct {
	Position Vec3
	Rotation Vec3 // Euler angles in radians: pitch, yaw, roll
	Scale    Vec3
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

// Camera is the viewpoint the render loop draws from.
type Camera struct {
	Position    Vec3
	Rotation    Vec3
	AspectRatio float32
}

// Catalog resolves pipelines by shader name. *pipeconf.Library implements it.
type Catalog interface {
	Lookup(name string) (gfx.Pipeline, bool)
}

// Renderable is drawable geometry bound to a named pipeline.
//
// The pipeline handle is borrowed from the catalog and is never destroyed
// here. After a reload the handle is stale and Resolve must be called
// before the next draw.
type Renderable struct {
	Transform

	// Shader is the catalog name of the pipeline to draw with.
	Shader string

	VertexCount uint32
	IndexCount  uint32

	pipeline gfx.Pipeline
}

// Resolve looks up the pipeline for r.Shader. When the name is missing the
// renderable is left without a pipeline and Resolve returns false.
func (r *Renderable) Resolve(c Catalog) bool {
	p, ok := c.Lookup(r.Shader)
	if !ok {
		r.pipeline = nil
		return false
	}
	r.pipeline = p
	return true
}

// Pipeline returns the resolved pipeline, or nil.
func (r *Renderable) Pipeline() gfx.Pipeline { return r.pipeline }

// Drawable reports whether r has a pipeline and geometry.
func (r *Renderable) Drawable() bool {
	return r.pipeline != nil && (r.VertexCount > 0 || r.IndexCount > 0)
}

// Object is a game object. The set of objects is closed: RenderableProxy
// and Player.
type Object interface {
	object()
}

// RenderableProxy copies its transform into a Renderable every frame.
type RenderableProxy struct {
	Transform
	Target *Renderable
}

// Player is a first person controller driving a Camera.
type Player struct {
	Transform

	Speed        float32
	SensitivityX float32
	SensitivityY float32
	Health       float32

	Camera *Camera
}

// NewPlayer returns a player with default speed and sensitivity.
func NewPlayer(c *Camera) *Player {
	return &Player{
		Transform:    IdentityTransform(),
		Speed:        1,
		SensitivityX: 1,
		SensitivityY: 1,
		Health:       100,
		Camera:       c,
	}
}

func (*RenderableProxy) object() {}
func (*Player) object()          {}

// Update advances obj by one frame.
func Update(obj Object, f *Frame) {
	switch o := obj.(type) {
	case *RenderableProxy:
		updateProxy(o)
	case *Player:
		updatePlayer(o, f)
	}
}

func updateProxy(p *RenderableProxy) {
	if p.Target != nil {
		p.Target.Transform = p.Transform
	}
}

// updatePlayer moves along the camera heading with WASD, vertically with
// space and shift, and turns with the arrow keys and the mouse.
func updatePlayer(p *Player, f *Frame) {
	dt := float32(f.Seconds())

	var heading Vec3
	if p.Camera != nil {
		heading = p.Camera.Rotation
	}
	forward := Vec3{
		-float32(math.Sin(float64(heading[1]))),
		-float32(math.Cos(float64(heading[0]))),
		-float32(math.Cos(float64(heading[1]))),
	}
	// right = forward x up, with up = (0, 1, 0)
	right := Vec3{-forward[2], 0, forward[0]}

	var move Vec3
	axis := func(k Key, v Vec3, sign float32) {
		if f.KeyDown(k) {
			move[0] += sign * v[0] * p.Speed
			move[2] += sign * v[2] * p.Speed
		}
	}
	axis(KeyW, forward, -1)
	axis(KeyS, forward, 1)
	axis(KeyA, right, -1)
	axis(KeyD, right, 1)
	if f.KeyDown(KeySpace) {
		move[1] += p.Speed
	}
	if f.KeyDown(KeyShift) {
		move[1] -= p.Speed
	}
	for i := range move {
		p.Position[i] += move[i] * dt
	}

	if f.KeyDown(KeyLeft) {
		p.Rotation[1] -= dt
	}
	if f.KeyDown(KeyRight) {
		p.Rotation[1] += dt
	}
	if f.KeyDown(KeyUp) {
		p.Rotation[0] += dt
	}
	if f.KeyDown(KeyDown) {
		p.Rotation[0] -= dt
	}

	dx, dy, _ := f.MouseDelta()
	p.Rotation[1] += float32(dx) * p.SensitivityX / 1000
	p.Rotation[0] -= float32(dy) * p.SensitivityY / 1000

	if p.Camera != nil {
		p.Camera.Position = p.Position
		p.Camera.Rotation = p.Rotation
	}
}
