// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gfxtest provides a recording gfx.Backend for tests.
package gfxtest

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/pipeconf/gfx"
)

// ErrInjected is the default error returned by injected failures.
var ErrInjected = errors.New("gfxtest: injected failure")

// Shader is a fake shader object.
type Shader struct {
	ID   int
	Desc gfx.ShaderDesc
}

// Pipeline is a fake pipeline object.
type Pipeline struct {
	ID   int
	Desc gfx.PipelineDesc
}

// Backend records every call and tracks live objects.
//
// Failure injection fields may be set before use. A failing create returns
// the error and creates nothing. When the Nil* fields are set the create
// call returns a nil handle with a nil error instead.
type Backend struct {
	FailVertex   error
	FailFragment error
	FailPipeline error

	NilShader   bool
	NilPipeline bool

	mu        sync.Mutex
	nextID    int
	calls     []string
	shaders   map[*Shader]bool
	pipelines map[*Pipeline]bool
	problems  []string
	closed    bool
	closes    int
}

// New returns an empty recording backend.
func New() *Backend {
	return &Backend{
		shaders:   make(map[*Shader]bool),
		pipelines: make(map[*Pipeline]bool),
	}
}

func (b *Backend) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

// CreateShader implements gfx.Backend.
func (b *Backend) CreateShader(desc *gfx.ShaderDesc) (gfx.Shader, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("CreateShader %s", desc.Label)
	b.checkOpen("CreateShader")
	fail := b.FailVertex
	if desc.Stage == gfx.StageFragment {
		fail = b.FailFragment
	}
	if fail != nil {
		return nil, fail
	}
	if b.NilShader {
		return nil, nil
	}
	b.nextID++
	s := &Shader{ID: b.nextID, Desc: *desc}
	b.shaders[s] = true
	return s, nil
}

// DestroyShader implements gfx.Backend.
func (b *Backend) DestroyShader(s gfx.Shader) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sh, ok := s.(*Shader)
	if !ok || !b.shaders[sh] {
		b.problems = append(b.problems, fmt.Sprintf("DestroyShader of unknown or dead shader %v", s))
		return
	}
	b.record("DestroyShader %s", sh.Desc.Label)
	delete(b.shaders, sh)
}

// CreatePipeline implements gfx.Backend.
func (b *Backend) CreatePipeline(desc *gfx.PipelineDesc) (gfx.Pipeline, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("CreatePipeline %s", desc.Label)
	b.checkOpen("CreatePipeline")
	for _, s := range []gfx.Shader{desc.Vertex, desc.Fragment} {
		if sh, ok := s.(*Shader); !ok || !b.shaders[sh] {
			b.problems = append(b.problems, fmt.Sprintf("CreatePipeline %s with dead shader %v", desc.Label, s))
		}
	}
	if b.FailPipeline != nil {
		return nil, b.FailPipeline
	}
	if b.NilPipeline {
		return nil, nil
	}
	b.nextID++
	p := &Pipeline{ID: b.nextID, Desc: *desc}
	b.pipelines[p] = true
	return p, nil
}

// DestroyPipeline implements gfx.Backend.
func (b *Backend) DestroyPipeline(p gfx.Pipeline) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pl, ok := p.(*Pipeline)
	if !ok || !b.pipelines[pl] {
		b.problems = append(b.problems, fmt.Sprintf("DestroyPipeline of unknown or dead pipeline %v", p))
		return
	}
	b.record("DestroyPipeline %s", pl.Desc.Label)
	delete(b.pipelines, pl)
}

// Destroy implements gfx.Destroyer. Objects still alive at that point are
// reported as problems.
func (b *Backend) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.record("Destroy")
	b.closes++
	if len(b.shaders) > 0 || len(b.pipelines) > 0 {
		b.problems = append(b.problems, fmt.Sprintf("context destroyed with %d shaders and %d pipelines alive",
			len(b.shaders), len(b.pipelines)))
	}
	b.closed = true
}

func (b *Backend) checkOpen(op string) {
	if b.closed {
		b.problems = append(b.problems, op+" after Destroy")
	}
}

// Calls returns the recorded call log.
func (b *Backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.calls...)
}

// CountCalls returns how many recorded calls start with prefix.
func (b *Backend) CountCalls(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// LiveShaders returns the number of shaders created and not destroyed.
func (b *Backend) LiveShaders() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.shaders)
}

// LivePipelines returns the number of pipelines created and not destroyed.
func (b *Backend) LivePipelines() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.pipelines)
}

// IsLive reports whether p is a pipeline that has not been destroyed.
func (b *Backend) IsLive(p gfx.Pipeline) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	pl, ok := p.(*Pipeline)
	return ok && b.pipelines[pl]
}

// Closes returns how many times Destroy was called.
func (b *Backend) Closes() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.closes
}

// CheckClean fails t if any double destroy, use after close or similar
// misuse was recorded.
func (b *Backend) CheckClean(t testing.TB) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, p := range b.problems {
		t.Errorf("backend misuse: %s", p)
	}
}
