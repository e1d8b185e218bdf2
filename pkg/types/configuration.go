// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ConfigurationDebug is the unoptimized build variant with full debug info.
	ConfigurationDebug Configuration = "Debug"
	// ConfigurationRelease is the optimized build variant.
	ConfigurationRelease Configuration = "Release"
	// ConfigurationRelWithDebInfo is the optimized build variant with debug info.
	ConfigurationRelWithDebInfo Configuration = "RelWithDebInfo"
	// ConfigurationMinSizeRel is the size-optimized build variant.
	ConfigurationMinSizeRel Configuration = "MinSizeRel"
)

// ErrInvalidConfiguration is the sentinel error wrapped by InvalidConfigurationError.
var ErrInvalidConfiguration = errors.New("invalid build configuration")

type (
	// Configuration names a CMake build variant. Inside the packaging core it is
	// only a hint used to disambiguate artifacts found in the build tree; the
	// external build receives it verbatim.
	Configuration string

	// InvalidConfigurationError is returned when a Configuration value is not one
	// of the known build variants.
	InvalidConfigurationError struct {
		Value Configuration
	}
)

// Configurations returns every known build variant in declaration order.
func Configurations() []Configuration {
	return []Configuration{
		ConfigurationDebug,
		ConfigurationRelease,
		ConfigurationRelWithDebInfo,
		ConfigurationMinSizeRel,
	}
}

// ParseConfiguration resolves s to a known build variant, ignoring case.
// The returned value always uses the canonical spelling ("RelWithDebInfo").
func ParseConfiguration(s string) (Configuration, error) {
	for _, c := range Configurations() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", &InvalidConfigurationError{Value: Configuration(s)}
}

// String returns the string representation of the Configuration.
func (c Configuration) String() string { return string(c) }

// Validate returns an error if c is not a known build variant.
func (c Configuration) Validate() error {
	for _, known := range Configurations() {
		if c == known {
			return nil
		}
	}
	return &InvalidConfigurationError{Value: c}
}

// Error implements the error interface.
func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid build configuration %q (valid: Debug, Release, RelWithDebInfo, MinSizeRel)", e.Value)
}

// Unwrap returns ErrInvalidConfiguration for errors.Is() compatibility.
func (e *InvalidConfigurationError) Unwrap() error { return ErrInvalidConfiguration }
