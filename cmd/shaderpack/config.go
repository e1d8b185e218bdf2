// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/invowk/shaderpack/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `shaderpack config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shaderpack configuration",
		Long: `Manage shaderpack configuration.

Configuration is read from the first file found:
  1. the file given with --config
  2. ./shaderpack.cue
  3. the user config file:
     - Linux: ~/.config/shaderpack/config.cue
     - macOS: ~/Library/Application Support/shaderpack/config.cue
     - Windows: %APPDATA%\shaderpack\config.cue

SHADERPACK_* environment variables override file values, e.g.
SHADERPACK_CONFIGURATION=Debug or SHADERPACK_PACKAGING_WRAP=always.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return failCommand(cmd, app, err)
			}
			path, _ := config.Resolve(app.loadOptions())
			showConfig(app, cfg, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(cmd, app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return failCommand(cmd, app, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	var force, local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, app, local, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&local, "local", false, "write ./shaderpack.cue instead of the user config file")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}

func showConfig(app *App, cfg *config.Config, path string) {
	w := app.stdout
	value := SuccessStyle.Render
	key := KeyStyle.Render

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)
	if path != "" {
		fmt.Fprintf(w, "%s: %s\n", key("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", key("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	platform := cfg.Platform.String()
	if platform == "" {
		platform = "(host)"
	}
	fmt.Fprintf(w, "%s: %s\n", key("configuration"), value(cfg.Configuration.String()))
	fmt.Fprintf(w, "%s: %s\n", key("platform"), value(platform))
	fmt.Fprintf(w, "%s: %s\n", key("jobs"), value(fmt.Sprint(cfg.Jobs)))

	fmt.Fprintf(w, "\n%s:\n", key("cmake"))
	fmt.Fprintf(w, "  binary: %s\n", value(cfg.CMake.Binary))
	fmt.Fprintf(w, "  generator: %s\n", value(cfg.CMake.Generator))
	fmt.Fprintf(w, "  extra_args: %s\n", value(cfg.CMake.ExtraArgs))

	fmt.Fprintf(w, "\n%s:\n", key("packaging"))
	fmt.Fprintf(w, "  headers_dir: %s\n", value(cfg.Package.HeadersDir))
	fmt.Fprintf(w, "  wrap: %s\n", value(cfg.Package.Wrap.String()))
	fmt.Fprintf(w, "  checksum: %s\n", value(fmt.Sprint(cfg.Package.Checksum)))
	fmt.Fprintf(w, "  install_tree: %s\n", value(fmt.Sprint(cfg.Package.InstallTree)))

	fmt.Fprintf(w, "\n%s:\n", key("ci"))
	fmt.Fprintf(w, "  result_file: %s\n", value(cfg.CI.ResultFile))
	fmt.Fprintf(w, "  groups: %s\n", value(cfg.CI.Groups.String()))

	fmt.Fprintf(w, "\n%s:\n", key("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", value(fmt.Sprint(cfg.UI.Verbose)))
}

func showConfigPath(cmd *cobra.Command, app *App) error {
	userPath, err := config.UserConfigPath("")
	if err != nil {
		return failCommand(cmd, app, err)
	}
	active, err := config.Resolve(app.loadOptions())
	if err != nil {
		return failCommand(cmd, app, err)
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", filepath.Dir(userPath))
	fmt.Fprintf(app.stdout, "User config file: %s\n", userPath)
	fmt.Fprintf(app.stdout, "Project config file: %s\n", config.LocalConfigFile)
	if active == "" {
		active = "(none, using defaults)"
	}
	fmt.Fprintf(app.stdout, "Active config file: %s\n", active)
	return nil
}

func initConfig(cmd *cobra.Command, app *App, local, force bool) error {
	path := config.LocalConfigFile
	if !local {
		userPath, err := config.UserConfigPath("")
		if err != nil {
			return failCommand(cmd, app, err)
		}
		path = userPath
	}

	if err := config.WriteFile(path, config.DefaultConfig(), force); err != nil {
		return failCommand(cmd, app, err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
