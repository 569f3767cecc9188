// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package blob reads shader source and bytecode files relative to a root
// directory.
package blob

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileNotFoundError is returned when the requested file does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("blob: file not found: %s", e.Path)
}

// Is reports fs.ErrNotExist as a match.
func (e *FileNotFoundError) Is(target error) bool { return target == fs.ErrNotExist }

// ReadError is returned for any other failure to read a file.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("blob: read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Errors wrapped by ReadError.
var (
	// ErrOutsideRoot is wrapped for absolute or escaping paths.
	ErrOutsideRoot = errors.New("blob: path escapes root directory")

	// ErrIsDirectory is wrapped when the path names a directory.
	ErrIsDirectory = errors.New("blob: path is a directory")
)

// Loader reads whole files below a root directory.
type Loader struct {
	fs   afero.Fs
	root string
}

// NewLoader returns a Loader reading from fsys below root. A nil fsys uses
// the OS filesystem.
func NewLoader(fsys afero.Fs, root string) *Loader {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Loader{fs: fsys, root: root}
}

// Root returns the root directory.
func (l *Loader) Root() string { return l.root }

// Resolve returns the filesystem path for rel.
func (l *Loader) Resolve(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", &ReadError{Path: rel, Err: ErrOutsideRoot}
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", &ReadError{Path: rel, Err: ErrOutsideRoot}
	}
	return filepath.Join(l.root, clean), nil
}

// Load returns the byte-exact contents of rel.
func (l *Loader) Load(rel string) ([]byte, error) {
	path, err := l.Resolve(rel)
	if err != nil {
		return nil, err
	}
	fi, err := l.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, &ReadError{Path: path, Err: err}
	}
	if fi.IsDir() {
		return nil, &ReadError{Path: path, Err: ErrIsDirectory}
	}
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, &ReadError{Path: path, Err: err}
	}
	return data, nil
}
