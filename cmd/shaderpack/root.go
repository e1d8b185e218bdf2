// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/shaderpack/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shaderpack",
		Short: "Package shader-compiler build outputs into distribution archives",
		Long: TitleStyle.Render("shaderpack") + SubtitleStyle.Render(" - shader compiler packaging") + `

shaderpack drives the CMake build of the shader compiler, finds the shared
libraries it produced, lays them out next to the public API headers and writes
one archive per platform: a tar.gz for Linux and macOS, a zip for Windows.

` + SubtitleStyle.Render("Examples:") + `
  shaderpack package                         Build and package for this host
  shaderpack package -c Debug -o dxc.tar.gz  Package a Debug build
  shaderpack package --skip-build -b build   Package an existing build tree
  shaderpack profiles                        Show what each platform ships`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default ./shaderpack.cue, then the user config directory)")

	rootCmd.AddCommand(newPackageCommand(app))
	rootCmd.AddCommand(newProfilesCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI with production dependencies and exits on failure.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError prints errors that the failing command has not rendered itself.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// failCommand renders err with its catalog help and converts it into an
// ExitError so that cobra does not print it a second time.
func failCommand(cmd *cobra.Command, app *App, err error) error {
	svcErr := classifyError(err, app.verbose)
	renderServiceError(app.stderr, svcErr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: exitCodeFor(svcErr), Err: svcErr}
}
