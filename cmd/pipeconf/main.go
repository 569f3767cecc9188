// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command pipeconf validates, builds and hot-reloads shader pipeline
// descriptions.
//
// Usage:
//
//	pipeconf check  [--config config.toml] [--shader-dir dir]
//	pipeconf build  [--config config.toml] [--shader-dir dir]
//	pipeconf watch  [--config config.toml] [--debounce 250ms]
package main

import (
	"fmt"
	"os"
)

// Build information injected via ldflags at build time.
var version = "dev"

func main() {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pipeconf:", err)
		os.Exit(1)
	}
}
