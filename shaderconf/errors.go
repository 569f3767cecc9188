// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shaderconf

import "fmt"

// MissingFieldError is returned when a required field is absent.
type MissingFieldError struct {
	Label string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("shaderconf: missing field %s:%s", e.Label, e.Field)
}

// TypeMismatchError is returned when a field is present with the wrong type.
type TypeMismatchError struct {
	Label    string
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("shaderconf: field %s:%s is %s, want %s", e.Label, e.Field, e.Actual, e.Expected)
}

// FieldError attaches a label and field to a token that failed validation.
// Err is usually a *gfx.UnknownTokenError.
type FieldError struct {
	Label string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("shaderconf: %s:%s: %v", e.Label, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
