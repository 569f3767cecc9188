// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gogpu/pipeconf"
	"github.com/gogpu/pipeconf/symbols"
	"github.com/gogpu/pipeconf/watch"
)

// Config is the application configuration read from config.toml or
// config.yaml, environment variables (PIPECONF_*) and flags.
type Config struct {
	// AssetDirectory is the base for a relative ShaderDirectory.
	AssetDirectory string `mapstructure:"assetDirectory"`

	// ShaderDirectory holds the shader blobs.
	ShaderDirectory string `mapstructure:"shaderDirectory"`

	// ShaderConfig is the shader description file. Empty means
	// shaders.toml inside ShaderDirectory.
	ShaderConfig string `mapstructure:"shaderConfig"`

	// Entries are extra shader labels to load besides shaders.default.
	Entries []string `mapstructure:"entries"`

	// Watch makes the bare command behave like "pipeconf watch".
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
	LogLevel string        `mapstructure:"logLevel"`
}

// ShaderDir returns the shader directory resolved against AssetDirectory.
func (c Config) ShaderDir() string {
	if filepath.IsAbs(c.ShaderDirectory) {
		return c.ShaderDirectory
	}
	return filepath.Join(c.AssetDirectory, c.ShaderDirectory)
}

// DescriptionPath returns the shader description file.
func (c Config) DescriptionPath() string {
	if c.ShaderConfig != "" {
		return c.ShaderConfig
	}
	return filepath.Join(c.ShaderDir(), "shaders.toml")
}

// app carries state shared by all subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *slog.Logger
}

func newRootCmd(version string) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "pipeconf",
		Short:         "Config-driven shader pipeline builder",
		Long:          `pipeconf turns declarative shader descriptions into validated graphics pipelines and keeps them in sync with the files on disk.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Watch {
				return runWatchCmd(cmd, a)
			}
			return a.runBuild(cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./config.toml or ./config.yaml)")
	flags.String("shader-dir", "", "directory holding shader blobs")
	flags.String("shader-config", "", "shader description file (default: <shader-dir>/shaders.toml)")
	flags.StringSlice("entry", nil, "extra shader label to load (repeatable)")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	_ = a.v.BindPFlag("shaderDirectory", flags.Lookup("shader-dir"))
	_ = a.v.BindPFlag("shaderConfig", flags.Lookup("shader-config"))
	_ = a.v.BindPFlag("entries", flags.Lookup("entry"))
	_ = a.v.BindPFlag("logLevel", flags.Lookup("log-level"))

	root.AddCommand(newCheckCmd(a), newBuildCmd(a), newWatchCmd(a))
	return root
}

func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.v
	v.SetDefault("assetDirectory", ".")
	v.SetDefault("shaderDirectory", ".")
	v.SetDefault("shaderConfig", "")
	v.SetDefault("watch", false)
	v.SetDefault("debounce", watch.DefaultDebounce)
	v.SetDefault("logLevel", "info")

	v.SetEnvPrefix("pipeconf")
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	level, err := parseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	pipeconf.SetLogger(a.logger)

	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", "file", used)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// source returns the shader description source for the configured file.
func (a *app) source() *symbols.FileSource {
	return symbols.NewFileSource(a.cfg.DescriptionPath())
}
