// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeconf

import (
	"errors"
	"log/slog"

	"github.com/gogpu/pipeconf/gfx"
	"github.com/gogpu/pipeconf/registry"
	"github.com/gogpu/pipeconf/shaderconf"
)

// BlobLoader reads shader files relative to the shader directory.
// *blob.Loader is the standard implementation.
type BlobLoader interface {
	Load(rel string) ([]byte, error)
}

// Builder turns validated shader descriptions into backend pipelines and
// registers them for destruction.
//
// A build either yields one registered pipeline or leaves no backend object
// behind. Stage shader objects are transient and never registered.
type Builder struct {
	backend  gfx.Backend
	registry *registry.Registry
	blobs    BlobLoader
	logger   func() *slog.Logger
}

// NewBuilder creates a builder. blobs may be nil if only Build is used.
func NewBuilder(backend gfx.Backend, reg *registry.Registry, blobs BlobLoader) *Builder {
	return &Builder{
		backend:  backend,
		registry: reg,
		blobs:    blobs,
		logger:   Logger,
	}
}

// Load reads the stage blobs of s and builds it. When both stages name the
// same file it is read once and the buffer is shared.
func (b *Builder) Load(s *shaderconf.Shader) (gfx.Pipeline, error) {
	vertex, err := b.blobs.Load(s.VertexPath())
	if err != nil {
		return nil, err
	}
	fragment := vertex
	if !s.SharedSource() {
		if fragment, err = b.blobs.Load(s.FragmentPath()); err != nil {
			return nil, err
		}
	}
	return b.Build(s, vertex, fragment)
}

// Build creates the stage shaders and the pipeline for s, destroys the
// stage shaders, and registers the pipeline.
func (b *Builder) Build(s *shaderconf.Shader, vertex, fragment []byte) (gfx.Pipeline, error) {
	log := b.logger()
	name := s.Name()

	vs, err := b.createShader(s, gfx.StageVertex, vertex)
	if err != nil {
		return nil, &BackendError{Name: name, Stage: StageVertexShader, Err: err}
	}
	fs, err := b.createShader(s, gfx.StageFragment, fragment)
	if err != nil {
		b.backend.DestroyShader(vs)
		return nil, &BackendError{Name: name, Stage: StageFragmentShader, Err: err}
	}

	p, err := b.backend.CreatePipeline(s.PipelineDesc(vs, fs))
	if err == nil && p == nil {
		err = errNilObject
	}
	b.backend.DestroyShader(fs)
	b.backend.DestroyShader(vs)
	if err != nil {
		return nil, &BackendError{Name: name, Stage: StagePipeline, Err: err}
	}

	backend := b.backend
	if err := b.registry.Register(p, "pipeline", func() { backend.DestroyPipeline(p) }); err != nil {
		// A handle the registry already tracks belongs to its first owner.
		if !errors.Is(err, registry.ErrAlreadyRegistered) {
			b.backend.DestroyPipeline(p)
		}
		return nil, &BackendError{Name: name, Stage: StageRegister, Err: err}
	}
	log.Debug("pipeconf: pipeline created", "name", name, "label", s.Label())
	return p, nil
}

func (b *Builder) createShader(s *shaderconf.Shader, stage gfx.ShaderStage, code []byte) (gfx.Shader, error) {
	sh, err := b.backend.CreateShader(s.ShaderDesc(stage, code))
	if err != nil {
		return nil, err
	}
	if sh == nil {
		return nil, errNilObject
	}
	return sh, nil
}
