// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/pipeconf"
	"github.com/gogpu/pipeconf/internal/blob"
	"github.com/gogpu/pipeconf/shaderconf"
)

func newCheckCmd(a *app) *cobra.Command {
	var skipFiles bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Decode and validate every shader description",
		Long: `check decodes and validates every configured shader description and
verifies that the referenced shader files exist. No graphics device is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd.OutOrStdout(), !skipFiles)
		},
	}
	cmd.Flags().BoolVar(&skipFiles, "skip-files", false, "do not check that shader files exist")
	return cmd
}

func (a *app) runCheck(w io.Writer, files bool) error {
	table, err := a.source().Table()
	if err != nil {
		return err
	}
	shaders, err := pipeconf.Describe(table, a.cfg.Entries...)
	if err != nil {
		return err
	}

	if files {
		loader := blob.NewLoader(nil, a.cfg.ShaderDir())
		for _, s := range shaders {
			if err := checkFiles(loader, s); err != nil {
				return err
			}
		}
	}

	for _, s := range shaders {
		printShader(w, s)
	}
	fmt.Fprintf(w, "%d shader(s) ok\n", len(shaders))
	return nil
}

func checkFiles(loader *blob.Loader, s *shaderconf.Shader) error {
	paths := []string{s.VertexPath()}
	if !s.SharedSource() {
		paths = append(paths, s.FragmentPath())
	}
	for _, p := range paths {
		if _, err := loader.Load(p); err != nil {
			return fmt.Errorf("shader %s: %w", s.Name(), err)
		}
	}
	return nil
}

func printShader(w io.Writer, s *shaderconf.Shader) {
	r := s.Raster()
	layout := s.Layout()
	attrs := 0
	for _, b := range layout.Bindings {
		attrs += len(b.Attributes)
	}
	fmt.Fprintf(w, "%s (%s)\n", s.Name(), s.Label())
	fmt.Fprintf(w, "  vertex:   %s %s:%s\n", s.VertexMedium(), s.VertexPath(), s.VertexEntry())
	fmt.Fprintf(w, "  fragment: %s %s:%s\n", s.FragmentMedium(), s.FragmentPath(), s.FragmentEntry())
	fmt.Fprintf(w, "  raster:   %s, cull %s, front %s, fill %s\n", r.Topology, r.CullMode, r.FrontFace, r.FillMode)
	fmt.Fprintf(w, "  layout:   %d binding(s), %d attribute(s), %d descriptor set(s)\n",
		len(layout.Bindings), attrs, len(layout.DescriptorSets))
}
