package native

import (
	"errors"
	"fmt"
)

// Package errors for the native backend.
var (
	// ErrUnsupported is returned for descriptions WebGPU cannot express:
	// geometry stages, line fill mode, texture-typed vertex attributes and
	// shader media other than WGSL and SPIR-V.
	ErrUnsupported = errors.New("native: unsupported by WebGPU")

	// ErrInvalidSPIRV is returned when a SPIR-V blob is truncated or does
	// not start with the SPIR-V magic number.
	ErrInvalidSPIRV = errors.New("native: invalid SPIR-V blob")

	// ErrNoAdapter is returned when the HAL instance exposes no adapter.
	ErrNoAdapter = errors.New("native: no GPU adapter available")

	// ErrNotHALDevice is returned when a device provider does not expose a
	// hal.Device.
	ErrNotHALDevice = errors.New("native: provider does not expose a hal.Device")

	// ErrForeignHandle is returned when a pipeline references a shader that
	// this backend did not create or already destroyed.
	ErrForeignHandle = errors.New("native: shader handle not created by this backend")

	// ErrClosed is returned by create calls after Destroy.
	ErrClosed = errors.New("native: backend destroyed")
)

// CompileError reports a WGSL compilation failure.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("native: compile %s: %v", e.Label, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
