// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/pipeconf"
	"github.com/gogpu/pipeconf/backend/native"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build every pipeline on a headless device",
		Long: `build loads every configured shader, compiles WGSL with naga and creates
the pipelines on the HAL noop device, then releases everything again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBuild(cmd.OutOrStdout())
		},
	}
}

// openLibrary creates a library on a noop device. The caller must call
// Shutdown, which also releases the device.
func (a *app) openLibrary() (*pipeconf.Library, error) {
	backend, err := native.OpenNoop()
	if err != nil {
		return nil, err
	}
	return pipeconf.NewLibrary(backend, a.source(),
		pipeconf.WithShaderDir(a.cfg.ShaderDir()),
		pipeconf.WithEntries(a.cfg.Entries...),
		pipeconf.WithLogger(a.logger),
	), nil
}

func (a *app) runBuild(w io.Writer) error {
	lib, err := a.openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = lib.Shutdown() }()

	if err := lib.LoadAll(); err != nil {
		return err
	}
	names := lib.Names()
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintf(w, "%d pipeline(s) built, %d object(s) registered\n", len(names), lib.Registry().Len())
	return nil
}
