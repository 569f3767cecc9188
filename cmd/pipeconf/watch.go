// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/pipeconf"
	"github.com/gogpu/pipeconf/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild on every shader change",
		Long: `watch loads every configured shader and reloads the catalog whenever a
shader file or the description changes. A failed reload leaves the catalog
empty and is logged; the next change retries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatchCmd(cmd, a)
		},
	}
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a reload")
	_ = a.v.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}

func runWatchCmd(cmd *cobra.Command, a *app) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.runWatch(ctx)
}

func (a *app) runWatch(ctx context.Context) error {
	lib, err := a.openLibrary()
	if err != nil {
		return err
	}
	defer func() { _ = lib.Shutdown() }()

	if err := lib.LoadAll(); err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		ShaderDir: a.cfg.ShaderDir(),
		Files:     []string{a.cfg.DescriptionPath()},
		Debounce:  a.cfg.Debounce,
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}

	a.logger.Info("watching for shader changes", "dir", a.cfg.ShaderDir(), "names", lib.Names())
	err = w.Run(ctx, func() { a.reload(lib) })
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// reload rebuilds the catalog. Failures leave the process running in a
// degraded state with an empty catalog.
func (a *app) reload(lib *pipeconf.Library) {
	start := time.Now()
	if err := lib.Reload(); err != nil {
		a.logger.Error("reload failed, running degraded", "err", err)
		return
	}
	a.logger.Info("reloaded", "names", lib.Names(), "took", time.Since(start))
}
