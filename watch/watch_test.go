// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

const testDebounce = 50 * time.Millisecond

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func startWatcher(t *testing.T, cfg Config) <-chan struct{} {
	t.Helper()
	cfg.Debounce = testDebounce
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Stop() })

	changes, err := w.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return changes
}

func expectSignal(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change signal, got timeout")
	}
}

func expectQuiet(t *testing.T, changes <-chan struct{}) {
	t.Helper()
	select {
	case <-changes:
		t.Fatal("unexpected change signal")
	case <-time.After(4 * testDebounce):
	}
}

func TestDebounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.wgsl")
	writeFile(t, path, "v0")

	changes := startWatcher(t, Config{ShaderDir: dir})
	for i := range 10 {
		writeFile(t, path, fmt.Sprintf("v%d", i+1))
		time.Sleep(5 * time.Millisecond)
	}

	expectSignal(t, changes)
	expectQuiet(t, changes)
}

func TestIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	notes := filepath.Join(dir, "notes.txt")
	writeFile(t, notes, "initial")

	changes := startWatcher(t, Config{ShaderDir: dir})
	writeFile(t, notes, "changed")

	expectQuiet(t, changes)
}

func TestWatchesSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(sub, "blit.wgsl")
	writeFile(t, path, "v0")

	changes := startWatcher(t, Config{ShaderDir: dir})
	writeFile(t, path, "v1")

	expectSignal(t, changes)
}

func TestWatchesCreatedSubdirectories(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, Config{ShaderDir: dir})

	sub := filepath.Join(dir, "post")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	expectSignal(t, changes)
	expectQuiet(t, changes)

	writeFile(t, filepath.Join(sub, "blur.wgsl"), "v0")
	expectSignal(t, changes)
}

func TestWatchesDescriptionFile(t *testing.T) {
	shaders := t.TempDir()
	confDir := t.TempDir()
	conf := filepath.Join(confDir, "shaders.toml")
	writeFile(t, conf, "[shaders.default]\n")

	changes := startWatcher(t, Config{ShaderDir: shaders, Files: []string{conf}})
	writeFile(t, conf, "[shaders.default]\nname = \"default\"\n")

	expectSignal(t, changes)
}

func TestIsRelevant(t *testing.T) {
	dir := filepath.FromSlash("/assets/shaders")
	conf := filepath.FromSlash("/assets/shaders.toml")
	w, err := New(Config{ShaderDir: dir, Files: []string{conf}})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = w.Stop() })

	tests := []struct {
		name string
		file string
		op   fsnotify.Op
		want bool
	}{
		{"write wgsl", "/assets/shaders/basic.wgsl", fsnotify.Write, true},
		{"create spv", "/assets/shaders/sprite.SPV", fsnotify.Create, true},
		{"rename", "/assets/shaders/basic.wgsl", fsnotify.Rename, true},
		{"chmod only", "/assets/shaders/basic.wgsl", fsnotify.Chmod, false},
		{"other extension", "/assets/shaders/readme.md", fsnotify.Write, false},
		{"subdirectory", "/assets/shaders/post/blit.wgsl", fsnotify.Write, true},
		{"deep subdirectory", "/assets/shaders/a/b/c.spv", fsnotify.Create, true},
		{"sibling directory", "/assets/shaders2/basic.wgsl", fsnotify.Write, false},
		{"parent directory", "/assets/basic.wgsl", fsnotify.Write, false},
		{"description file", "/assets/shaders.toml", fsnotify.Write, true},
		{"sibling of description", "/assets/other.toml", fsnotify.Write, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := fsnotify.Event{Name: filepath.FromSlash(tt.file), Op: tt.op}
			if got := w.isRelevant(ev); got != tt.want {
				t.Errorf("isRelevant(%v) = %v, want %v", ev, got, tt.want)
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "basic.wgsl")
	writeFile(t, path, "v0")

	w, err := New(Config{ShaderDir: dir, Debounce: testDebounce})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() {
			calls.Add(1)
			cancel()
		})
	}()

	// Keep writing until the watcher is registered and reports a change.
	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("Run never reported a change")
		case <-time.After(testDebounce):
			writeFile(t, path, time.Now().String())
		}
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	w, err := New(Config{ShaderDir: t.TempDir(), Debounce: testDebounce})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestNewRequiresTarget(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New(Config{}) succeeded")
	}
}
