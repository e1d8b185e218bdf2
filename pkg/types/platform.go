// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"runtime"
)

const (
	// PlatformLinux packages ELF shared libraries as a gzip tarball.
	PlatformLinux Platform = "linux"
	// PlatformMacOS packages Mach-O dynamic libraries as a gzip tarball.
	PlatformMacOS Platform = "macos"
	// PlatformWindows packages DLLs and import libraries as a zip archive.
	PlatformWindows Platform = "windows"
)

// ErrInvalidPlatform is the sentinel error wrapped by InvalidPlatformError.
var ErrInvalidPlatform = errors.New("invalid platform")

type (
	// Platform identifies a packaging target.
	Platform string

	// InvalidPlatformError is returned when a Platform value is not recognized.
	InvalidPlatformError struct {
		Value Platform
	}
)

// Platforms returns every supported packaging target.
func Platforms() []Platform {
	return []Platform{PlatformLinux, PlatformMacOS, PlatformWindows}
}

// HostPlatform maps runtime.GOOS to a packaging target. Unknown operating
// systems fall back to linux, which shares the POSIX packaging convention.
func HostPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	default:
		return PlatformLinux
	}
}

// String returns the string representation of the Platform.
func (p Platform) String() string { return string(p) }

// IsPOSIX reports whether the platform uses POSIX packaging conventions.
func (p Platform) IsPOSIX() bool { return p == PlatformLinux || p == PlatformMacOS }

// Validate returns an error if p is not a supported packaging target.
func (p Platform) Validate() error {
	switch p {
	case PlatformLinux, PlatformMacOS, PlatformWindows:
		return nil
	default:
		return &InvalidPlatformError{Value: p}
	}
}

// Error implements the error interface.
func (e *InvalidPlatformError) Error() string {
	return fmt.Sprintf("invalid platform %q (valid: linux, macos, windows)", e.Value)
}

// Unwrap returns ErrInvalidPlatform for errors.Is() compatibility.
func (e *InvalidPlatformError) Unwrap() error { return ErrInvalidPlatform }
