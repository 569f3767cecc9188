// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeconf

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/pipeconf/gfx"
	"github.com/gogpu/pipeconf/internal/blob"
	"github.com/gogpu/pipeconf/registry"
	"github.com/gogpu/pipeconf/shaderconf"
	"github.com/gogpu/pipeconf/symbols"
)

// State is the lifecycle state of a Library.
type State int

const (
	// StateEmpty means the catalog holds no pipelines. This is the initial
	// state and the state after a failed reload.
	StateEmpty State = iota

	// StateLoaded means the last load succeeded.
	StateLoaded

	// StateClosed means Shutdown has run.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Library is the shader catalog: it loads every configured shader into a
// named pipeline, rebuilds them on Reload, and tears everything down on
// Shutdown.
//
// Every pipeline in the catalog has exactly one registry entry while it is
// live. A Library is safe for concurrent use.
type Library struct {
	mu sync.Mutex

	source   symbols.Source
	backend  gfx.Backend
	registry *registry.Registry
	builder  *Builder
	catalog  *catalog
	state    State

	entries []string
	logger  *slog.Logger
}

// NewLibrary creates an empty library. Nothing is loaded until LoadAll.
func NewLibrary(backend gfx.Backend, source symbols.Source, opts ...Option) *Library {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reg := o.registry
	if reg == nil {
		reg = registry.New()
	}
	blobs := o.blobs
	if blobs == nil {
		blobs = blob.NewLoader(o.fs, o.shaderDir)
	}

	l := &Library{
		source:   source,
		backend:  backend,
		registry: reg,
		catalog:  newCatalog(),
		entries:  o.entries,
		logger:   o.logger,
	}
	l.builder = NewBuilder(backend, reg, blobs)
	l.builder.logger = l.log
	if o.logger != nil {
		propagateLogger(backend, o.logger)
	} else {
		follow(l, backend)
	}
	return l
}

func (l *Library) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return Logger()
}

// LoadAll builds every configured shader and installs the results.
//
// Every description is decoded and validated before the backend is called.
// On the first failure pipelines built by this call are destroyed, the
// catalog is left as it was and the error is returned. On success each new
// pipeline replaces, and destroys, any previous pipeline of the same name.
func (l *Library) LoadAll() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateClosed {
		return ErrClosed
	}
	return l.loadLocked()
}

func (l *Library) loadLocked() error {
	table, err := l.source.Table()
	if err != nil {
		return fmt.Errorf("pipeconf: read shader config: %w", err)
	}
	shaders, err := Describe(table, l.entries...)
	if err != nil {
		return err
	}

	built := make([]gfx.Pipeline, 0, len(shaders))
	for _, s := range shaders {
		p, err := l.builder.Load(s)
		if err != nil {
			for _, b := range built {
				l.registry.UnregisterAndDestroy(b)
			}
			return err
		}
		built = append(built, p)
	}

	for i, s := range shaders {
		if old, ok := l.catalog.put(s.Name(), built[i]); ok {
			l.registry.UnregisterAndDestroy(old)
		}
	}
	l.state = StateLoaded
	l.log().Info("pipeconf: shader catalog loaded", "pipelines", l.catalog.size())
	return nil
}

// EntryLabels returns DefaultLabel, then the labels listed under
// EntriesPath, then extra, without duplicates.
func EntryLabels(table symbols.Table, extra ...string) ([]string, error) {
	labels := []string{DefaultLabel}
	if sym, ok := table.Symbol(EntriesPath); ok {
		listed, ok := sym.AsStrings()
		if !ok {
			return nil, &shaderconf.TypeMismatchError{
				Label:    "shaders",
				Field:    "entries",
				Expected: "array<string>",
				Actual:   sym.TypeName(),
			}
		}
		labels = append(labels, listed...)
	}
	labels = append(labels, extra...)

	seen := make(map[string]bool, len(labels))
	out := labels[:0]
	for _, label := range labels {
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out, nil
}

// Describe decodes and validates every shader EntryLabels names. No file
// is read and no backend is involved.
func Describe(table symbols.Table, extra ...string) ([]*shaderconf.Shader, error) {
	labels, err := EntryLabels(table, extra...)
	if err != nil {
		return nil, err
	}
	shaders := make([]*shaderconf.Shader, 0, len(labels))
	for _, label := range labels {
		s, err := shaderconf.Load(table, label)
		if err != nil {
			return nil, err
		}
		shaders = append(shaders, s)
	}
	return shaders, nil
}

// Reload destroys every catalog pipeline, clears the catalog and loads
// again. If the new load fails the catalog stays empty and the error wraps
// ErrReloadFailed; the old pipelines are gone and are not restored.
func (l *Library) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateClosed {
		return ErrClosed
	}

	for _, name := range l.catalog.names() {
		p, _ := l.catalog.get(name)
		l.registry.UnregisterAndDestroy(p)
	}
	l.catalog.reset()
	l.state = StateEmpty

	if err := l.loadLocked(); err != nil {
		l.log().Warn("pipeconf: reload failed, catalog is empty", "err", err)
		return fmt.Errorf("%w: %w", ErrReloadFailed, err)
	}
	l.log().Info("pipeconf: shader catalog reloaded")
	return nil
}

// Lookup returns the pipeline registered under name.
func (l *Library) Lookup(name string) (gfx.Pipeline, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.catalog.get(name)
}

// Names returns the catalog names in sorted order.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.catalog.names()
}

// State returns the lifecycle state.
func (l *Library) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Registry returns the registry that owns every pipeline of the library.
// Callers may register their own objects so Shutdown releases them before
// the graphics context.
func (l *Library) Registry() *registry.Registry { return l.registry }

// Shutdown destroys every registered object, then the graphics context if
// the backend implements gfx.Destroyer. It is safe to call more than once.
func (l *Library) Shutdown() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateClosed {
		return nil
	}
	n := l.registry.FlushAll()
	l.catalog.reset()
	unfollow(l)
	if d, ok := l.backend.(gfx.Destroyer); ok {
		d.Destroy()
	}
	l.state = StateClosed
	l.log().Info("pipeconf: shut down", "destroyed", n)
	return nil
}
