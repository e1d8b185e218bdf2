// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/shaderpack/pkg/types"
)

const (
	// WrapAuto follows the platform profile's wrapping convention.
	WrapAuto WrapMode = "auto"
	// WrapAlways nests archive members under the archive stem directory.
	WrapAlways WrapMode = "always"
	// WrapNever stores archive members at the archive root.
	WrapNever WrapMode = "never"

	// GroupsAuto emits CI log groups when running inside GitHub Actions.
	GroupsAuto GroupMode = "auto"
	// GroupsAlways emits CI log groups unconditionally.
	GroupsAlways GroupMode = "always"
	// GroupsNever disables CI log groups.
	GroupsNever GroupMode = "never"
)

var (
	// ErrInvalidWrapMode is returned when a WrapMode value is not recognized.
	ErrInvalidWrapMode = errors.New("invalid wrap mode")
	// ErrInvalidGroupMode is returned when a GroupMode value is not recognized.
	ErrInvalidGroupMode = errors.New("invalid group mode")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// WrapMode selects whether archive members get a top-level directory.
	WrapMode string

	// InvalidWrapModeError is returned when a WrapMode value is not recognized.
	// It wraps ErrInvalidWrapMode for errors.Is() compatibility.
	InvalidWrapModeError struct {
		Value WrapMode
	}

	// GroupMode selects when pipeline steps are wrapped in CI log groups.
	GroupMode string

	// InvalidGroupModeError is returned when a GroupMode value is not recognized.
	// It wraps ErrInvalidGroupMode for errors.Is() compatibility.
	InvalidGroupModeError struct {
		Value GroupMode
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects the field-level errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Configuration is the build configuration (Debug, Release, ...).
		Configuration types.Configuration `json:"configuration" mapstructure:"configuration"`
		// Platform selects the packaging profile; empty means the host platform.
		Platform types.Platform `json:"platform" mapstructure:"platform"`
		// Jobs is the build parallelism; 0 uses every CPU.
		Jobs    int           `json:"jobs" mapstructure:"jobs"`
		CMake   CMakeConfig   `json:"cmake" mapstructure:"cmake"`
		Package PackageConfig `json:"packaging" mapstructure:"packaging"`
		CI      CIConfig      `json:"ci" mapstructure:"ci"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// CMakeConfig configures the external build.
	CMakeConfig struct {
		Binary    string `json:"binary" mapstructure:"binary"`
		Generator string `json:"generator" mapstructure:"generator"`
		// ExtraArgs is split with POSIX shell quoting rules.
		ExtraArgs string `json:"extra_args" mapstructure:"extra_args"`
	}

	// PackageConfig configures layout and archive creation.
	PackageConfig struct {
		HeadersDir  string   `json:"headers_dir" mapstructure:"headers_dir"`
		Wrap        WrapMode `json:"wrap" mapstructure:"wrap"`
		Checksum    bool     `json:"checksum" mapstructure:"checksum"`
		InstallTree bool     `json:"install_tree" mapstructure:"install_tree"`
	}

	// CIConfig configures CI integration.
	CIConfig struct {
		ResultFile string    `json:"result_file" mapstructure:"result_file"`
		Groups     GroupMode `json:"groups" mapstructure:"groups"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Configuration: types.ConfigurationRelease,
		CMake: CMakeConfig{
			Binary: "cmake",
		},
		Package: PackageConfig{
			Wrap:     WrapAuto,
			Checksum: true,
		},
		CI: CIConfig{
			Groups: GroupsAuto,
		},
	}
}

// Validate returns an *InvalidConfigError listing every invalid field.
func (c Config) Validate() error {
	var errs []error
	if err := c.Configuration.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Platform != "" {
		if err := c.Platform.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	if c.CMake.Binary != "" && strings.TrimSpace(c.CMake.Binary) == "" {
		errs = append(errs, fmt.Errorf("cmake.binary must not be whitespace-only"))
	}
	if err := c.Package.Wrap.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.CI.Groups.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the WrapMode.
func (m WrapMode) String() string { return string(m) }

// Validate returns an error if the WrapMode is not one of the defined modes.
func (m WrapMode) Validate() error {
	switch m {
	case WrapAuto, WrapAlways, WrapNever:
		return nil
	default:
		return &InvalidWrapModeError{Value: m}
	}
}

// Override converts the mode into a wrapping override; nil keeps the
// profile's convention.
func (m WrapMode) Override() *bool {
	var wrap bool
	switch m {
	case WrapAlways:
		wrap = true
	case WrapNever:
		wrap = false
	default:
		return nil
	}
	return &wrap
}

// Error implements the error interface for InvalidWrapModeError.
func (e *InvalidWrapModeError) Error() string {
	return fmt.Sprintf("invalid wrap mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidWrapModeError) Unwrap() error { return ErrInvalidWrapMode }

// String returns the string representation of the GroupMode.
func (m GroupMode) String() string { return string(m) }

// Validate returns an error if the GroupMode is not one of the defined modes.
func (m GroupMode) Validate() error {
	switch m {
	case GroupsAuto, GroupsAlways, GroupsNever:
		return nil
	default:
		return &InvalidGroupModeError{Value: m}
	}
}

// Enabled resolves the mode against whether the process runs in CI.
func (m GroupMode) Enabled(inCI bool) bool {
	switch m {
	case GroupsAlways:
		return true
	case GroupsNever:
		return false
	default:
		return inCI
	}
}

// Error implements the error interface for InvalidGroupModeError.
func (e *InvalidGroupModeError) Error() string {
	return fmt.Sprintf("invalid group mode %q (valid: auto, always, never)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidGroupModeError) Unwrap() error { return ErrInvalidGroupMode }
