// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeconf

import (
	"errors"
	"fmt"
)

// Errors.
var (
	// ErrBackendCreationFailed is matched by every *BackendError.
	ErrBackendCreationFailed = errors.New("pipeconf: backend creation failed")

	// ErrReloadFailed is wrapped by Reload when the replacement catalog
	// could not be built. The catalog is empty afterwards.
	ErrReloadFailed = errors.New("pipeconf: reload failed")

	// ErrClosed is returned by operations on a library after Shutdown.
	ErrClosed = errors.New("pipeconf: library is shut down")

	// errNilObject stands in when a backend returns neither an object nor
	// an error.
	errNilObject = errors.New("backend returned a nil object")
)

// Build stages reported by BackendError.
const (
	StageVertexShader   = "vertex shader"
	StageFragmentShader = "fragment shader"
	StagePipeline       = "pipeline"
	StageRegister       = "register"
)

// BackendError is returned when the graphics backend fails to create an
// object for the named shader. Objects created earlier in the same attempt
// have already been destroyed.
type BackendError struct {
	Name  string
	Stage string
	Err   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("pipeconf: create %s for %q: %v", e.Stage, e.Name, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is reports ErrBackendCreationFailed as a match.
func (e *BackendError) Is(target error) bool { return target == ErrBackendCreationFailed }
