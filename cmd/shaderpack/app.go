// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/invowk/shaderpack/internal/config"
	"github.com/invowk/shaderpack/internal/toolchain"
	"github.com/invowk/shaderpack/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and delegates through its fields.
	App struct {
		Config ConfigProvider
		Runner toolchain.Runner
		FS     afero.Fs
		Getenv func(string) string
		Now    func() time.Time
		stdout io.Writer
		stderr io.Writer

		// Global flag values.
		verbose    bool
		configPath string
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner toolchain.Runner
		FS     afero.Fs
		Getenv func(string) string
		Now    func() time.Time
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = toolchain.NewExecRunner(deps.Stdout, deps.Stderr)
	}
	if deps.FS == nil {
		deps.FS = afero.NewOsFs()
	}
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		FS:     deps.FS,
		Getenv: deps.Getenv,
		Now:    deps.Now,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

// loadConfig loads configuration honoring the global --config flag and
// applies ui.verbose when the flag was not given.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions())
	if err != nil {
		return nil, err
	}
	if cfg.UI.Verbose {
		a.verbose = true
	}
	return cfg, nil
}

func (a *App) loadOptions() config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: types.FilesystemPath(a.configPath)}
}

// logger returns the structured logger for pipeline progress.
func (a *App) logger() *log.Logger {
	level := log.InfoLevel
	if a.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Prefix: "shaderpack",
		Level:  level,
	})
}
