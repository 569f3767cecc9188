// Package pipeconf builds graphics pipelines from declarative shader
// descriptions and tracks the lifetime of every backend object they spawn.
//
// # Overview
//
// A shader configuration file names, for every shader, its stage files,
// entry points, source media and a pipeline description (raster state,
// vertex bindings, descriptor sets). pipeconf decodes it, validates every
// token against closed enumerations, creates the pipeline through a
// [gfx.Backend], and records the pipeline in a [registry.Registry] so it
// can be destroyed individually on hot reload or all at once on shutdown.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/pipeconf"
//	    "github.com/gogpu/pipeconf/backend/native"
//	    "github.com/gogpu/pipeconf/symbols"
//	)
//
//	backend, err := native.OpenNoop()
//	if err != nil {
//	    return err
//	}
//	lib := pipeconf.NewLibrary(backend, symbols.NewFileSource("shaders.toml"),
//	    pipeconf.WithShaderDir("assets/shaders"))
//	defer lib.Shutdown()
//
//	if err := lib.LoadAll(); err != nil {
//	    return err // no usable rendering state
//	}
//	pipeline, ok := lib.Lookup("default")
//
// # Reload
//
// [Library.Reload] destroys every catalog pipeline through the registry,
// clears the catalog and loads again. A failed reload leaves the catalog
// empty; callers keep running and retry after the configuration is fixed.
//
// # Architecture
//
// The module is organized into:
//   - symbols: typed lookup over TOML/YAML configuration files
//   - shaderconf: decoding and validation of shader descriptions
//   - gfx: enumerations, token parsers and the backend contract
//   - registry: object lifetime tracking
//   - backend/native: a backend on gogpu/wgpu HAL devices
//   - watch: debounced file watching for hot reload
//   - scene: per-frame input state and game objects that use pipelines
//
// # Logging
//
// pipeconf is silent by default. See [SetLogger] and [WithLogger].
package pipeconf
