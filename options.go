package pipeconf

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/gogpu/pipeconf/registry"
)

// DefaultLabel is the mandatory shader entry. A load fails when it is
// missing.
const DefaultLabel = "shaders.default"

// EntriesPath lists additional shader labels as an array of strings.
const EntriesPath = "shaders:entries"

// Option configures a Library during creation.
//
// Example:
//
//	lib := pipeconf.NewLibrary(backend, symbols.NewFileSource("shaders.toml"),
//	    pipeconf.WithShaderDir("assets/shaders"),
//	    pipeconf.WithLogger(logger))
type Option func(*libraryOptions)

// libraryOptions holds optional configuration for Library creation.
type libraryOptions struct {
	logger    *slog.Logger
	fs        afero.Fs
	shaderDir string
	registry  *registry.Registry
	entries   []string
	blobs     BlobLoader
}

// defaultOptions returns the default library options.
func defaultOptions() libraryOptions {
	return libraryOptions{
		logger:    nil, // Falls back to Logger() at log time
		fs:        nil, // OS filesystem
		shaderDir: ".",
	}
}

// WithLogger sets the logger used by the library and its backend.
// Without it the package-wide Logger is used and later SetLogger calls
// reach the backend until Shutdown.
func WithLogger(l *slog.Logger) Option {
	return func(o *libraryOptions) {
		o.logger = l
	}
}

// WithFS sets the filesystem shader blobs are read from.
// Ignored when WithBlobLoader is given.
func WithFS(fs afero.Fs) Option {
	return func(o *libraryOptions) {
		o.fs = fs
	}
}

// WithShaderDir sets the directory shader paths are relative to.
// Ignored when WithBlobLoader is given.
func WithShaderDir(dir string) Option {
	return func(o *libraryOptions) {
		o.shaderDir = dir
	}
}

// WithRegistry shares an existing registry, so that objects created outside
// the library (buffers, command lists) are flushed by Shutdown too.
func WithRegistry(r *registry.Registry) Option {
	return func(o *libraryOptions) {
		o.registry = r
	}
}

// WithEntries adds shader labels to load in addition to DefaultLabel and
// the labels listed under EntriesPath.
func WithEntries(labels ...string) Option {
	return func(o *libraryOptions) {
		o.entries = append(o.entries, labels...)
	}
}

// WithBlobLoader replaces the filesystem blob loader.
func WithBlobLoader(l BlobLoader) Option {
	return func(o *libraryOptions) {
		o.blobs = l
	}
}
