// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/invowk/shaderpack/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "shaderpack"
	// ConfigFileName is the name of the user config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFile is the project-local config file looked up in the working directory.
	LocalConfigFile = AppName + "." + ConfigFileExt
	// EnvPrefix prefixes environment variable overrides (SHADERPACK_JOBS, ...).
	EnvPrefix = "SHADERPACK"

	// maxConfigFileSize bounds the config files we are willing to parse.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the shaderpack configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// UserConfigPath returns the path of the per-user config file.
func UserConfigPath(configDirPath string) (string, error) {
	dir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// Resolve returns the config file that Load would read, or "" when no file
// exists and the defaults apply.
func Resolve(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		path := opts.ConfigFilePath.String()
		if !fileExists(path) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'shaderpack config init' to write a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				Build()
		}
		return path, nil
	}

	local := filepath.Join(opts.WorkDir.String(), LocalConfigFile)
	if fileExists(local) {
		return local, nil
	}

	userPath, err := UserConfigPath(opts.ConfigDirPath.String())
	if err != nil {
		return "", err
	}
	if fileExists(userPath) {
		return userPath, nil
	}
	return "", nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level state.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("configuration", defaults.Configuration.String())
	v.SetDefault("platform", defaults.Platform.String())
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("cmake.binary", defaults.CMake.Binary)
	v.SetDefault("cmake.generator", defaults.CMake.Generator)
	v.SetDefault("cmake.extra_args", defaults.CMake.ExtraArgs)
	v.SetDefault("packaging.headers_dir", defaults.Package.HeadersDir)
	v.SetDefault("packaging.wrap", defaults.Package.Wrap.String())
	v.SetDefault("packaging.checksum", defaults.Package.Checksum)
	v.SetDefault("packaging.install_tree", defaults.Package.InstallTree)
	v.SetDefault("ci.result_file", defaults.CI.ResultFile)
	v.SetDefault("ci.groups", defaults.CI.Groups.String())
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := Resolve(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'shaderpack config dump' to see every supported key").
				Wrap(err).
				Build()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Environment overrides bypass the CUE schema.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithResource(resolvedPath).
			WithSuggestion("Check SHADERPACK_* environment variables for typos").
			Wrap(err).
			Build()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	// Config fields are optional, so only the shape is validated here.
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// WriteFile writes cfg as CUE to path, creating parent directories. An
// existing file is only replaced when force is set.
func WriteFile(path string, cfg *Config, force bool) error {
	if !force && fileExists(path) {
		return issue.NewErrorContext().
			WithOperation("write configuration").
			WithResource(path).
			WithSuggestion("Pass --force to overwrite the existing file").
			Wrap(os.ErrExist).
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// shaderpack configuration\n\n")

	fmt.Fprintf(&sb, "configuration: %q\n", cfg.Configuration)
	if cfg.Platform != "" {
		fmt.Fprintf(&sb, "platform: %q\n", cfg.Platform)
	}
	fmt.Fprintf(&sb, "jobs: %d\n", cfg.Jobs)

	sb.WriteString("\ncmake: {\n")
	fmt.Fprintf(&sb, "\tbinary: %q\n", cfg.CMake.Binary)
	if cfg.CMake.Generator != "" {
		fmt.Fprintf(&sb, "\tgenerator: %q\n", cfg.CMake.Generator)
	}
	if cfg.CMake.ExtraArgs != "" {
		fmt.Fprintf(&sb, "\textra_args: %q\n", cfg.CMake.ExtraArgs)
	}
	sb.WriteString("}\n")

	sb.WriteString("\npackaging: {\n")
	if cfg.Package.HeadersDir != "" {
		fmt.Fprintf(&sb, "\theaders_dir: %q\n", cfg.Package.HeadersDir)
	}
	fmt.Fprintf(&sb, "\twrap: %q\n", cfg.Package.Wrap)
	fmt.Fprintf(&sb, "\tchecksum: %v\n", cfg.Package.Checksum)
	fmt.Fprintf(&sb, "\tinstall_tree: %v\n", cfg.Package.InstallTree)
	sb.WriteString("}\n")

	sb.WriteString("\nci: {\n")
	if cfg.CI.ResultFile != "" {
		fmt.Fprintf(&sb, "\tresult_file: %q\n", cfg.CI.ResultFile)
	}
	fmt.Fprintf(&sb, "\tgroups: %q\n", cfg.CI.Groups)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}
