// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package watch signals when shader sources or the shader description
// file change on disk.
//
// Bursts of events are coalesced: a signal is sent once no relevant event
// arrived for the debounce interval. The watcher never reloads anything
// itself; the receiver of the signal calls Library.Reload on its own
// goroutine.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the debounce interval used when Config leaves it zero.
const DefaultDebounce = 250 * time.Millisecond

// DefaultExtensions lists the file extensions treated as shader blobs.
var DefaultExtensions = []string{".wgsl", ".spv", ".glsl", ".vert", ".frag", ".hlsl", ".msl"}

// Config holds watcher configuration.
type Config struct {
	// ShaderDir is watched, with every directory below it, for files with
	// one of Extensions.
	ShaderDir string

	// Extensions overrides DefaultExtensions. Matching ignores case.
	Extensions []string

	// Files are individual files to watch, such as the shader description.
	// Their parent directories are watched and events are matched by name.
	Files []string

	// Debounce is the quiet period before a signal is sent.
	Debounce time.Duration

	// Logger receives watch errors. Nil discards them.
	Logger *slog.Logger
}

// Watcher watches shader files and emits debounced change signals.
type Watcher struct {
	fsw      *fsnotify.Watcher
	dirs     []string
	shaders  string
	exts     []string
	files    map[string]bool
	debounce time.Duration
	logger   *slog.Logger

	onChange chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher. Nothing is watched until Start.
func New(cfg Config) (*Watcher, error) {
	if cfg.ShaderDir == "" && len(cfg.Files) == 0 {
		return nil, fmt.Errorf("watch: nothing to watch")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: creating fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		exts:     cfg.Extensions,
		files:    make(map[string]bool, len(cfg.Files)),
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
		onChange: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	if w.exts == nil {
		w.exts = DefaultExtensions
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}

	if cfg.ShaderDir != "" {
		w.shaders = filepath.Clean(cfg.ShaderDir)
	}
	for _, f := range cfg.Files {
		f = filepath.Clean(f)
		w.files[f] = true
		if dir := filepath.Dir(f); !slices.Contains(w.dirs, dir) {
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start begins watching. The returned channel receives a value after each
// debounced burst of relevant changes. Signals are dropped while a previous
// one is still unread.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if w.shaders != "" {
		if err := w.addTree(w.shaders); err != nil {
			return nil, err
		}
	}
	for _, dir := range w.dirs {
		if err := w.fsw.Add(dir); err != nil {
			return nil, fmt.Errorf("watch: watching directory %s: %w", dir, err)
		}
	}

	w.wg.Add(1)
	go w.loop()
	return w.onChange, nil
}

// Stop terminates the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

// Run calls fn after every debounced change until ctx is done. It starts
// and stops the watcher itself.
func (w *Watcher) Run(ctx context.Context, fn func()) error {
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
			fn()
		}
	}
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.isNewShaderDir(event) {
				// Files may already sit in it, so the directory counts as
				// a change.
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("watch: adding directory", "dir", event.Name, "err", err)
				}
				timer.Reset(w.debounce)
				continue
			}
			if !w.isRelevant(event) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch: fsnotify error", "err", err)

		case <-w.done:
			return
		}
	}
}

// isRelevant reports whether event may change the shader catalog. Chmod
// alone never does.
func (w *Watcher) isRelevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}

	name := filepath.Clean(event.Name)
	if w.files[name] {
		return true
	}
	if !w.underShaders(name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(w.exts, func(e string) bool { return strings.EqualFold(e, ext) })
}

// underShaders reports whether name lies below the shader directory.
func (w *Watcher) underShaders(name string) bool {
	if w.shaders == "" {
		return false
	}
	rel, err := filepath.Rel(w.shaders, name)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// isNewShaderDir reports whether event created a directory below the
// shader directory.
func (w *Watcher) isNewShaderDir(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) || !w.underShaders(filepath.Clean(event.Name)) {
		return false
	}
	fi, err := os.Stat(event.Name)
	return err == nil && fi.IsDir()
}

// addTree watches root and every directory below it.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: watching directory %s: %w", path, err)
		}
		return nil
	})
}
