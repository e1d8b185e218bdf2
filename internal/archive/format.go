// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatTarGz is a gzip-compressed tarball.
	FormatTarGz Format = "tar.gz"
	// FormatZip is a deflate-compressed zip file.
	FormatZip Format = "zip"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid archive format")

type (
	// Format selects the archive container and compression.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	InvalidFormatError struct {
		Value Format
	}
)

// String returns the format name.
func (f Format) String() string { return string(f) }

// Validate returns an error if f is not a supported format.
func (f Format) Validate() error {
	switch f {
	case FormatTarGz, FormatZip:
		return nil
	default:
		return &InvalidFormatError{Value: f}
	}
}

// Extensions returns the file name suffixes accepted for f, preferred first.
func (f Format) Extensions() []string {
	switch f {
	case FormatTarGz:
		return []string{".tar.gz", ".tgz"}
	case FormatZip:
		return []string{".zip"}
	default:
		return nil
	}
}

// Matches reports whether name carries one of f's extensions.
func (f Format) Matches(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range f.Extensions() {
		if strings.HasSuffix(lower, ext) && len(lower) > len(ext) {
			return true
		}
	}
	return false
}

// Stem returns name without f's extension ("dxc-linux.tar.gz" -> "dxc-linux").
// Names without a matching extension are returned unchanged.
func (f Format) Stem(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range f.Extensions() {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid archive format %q (valid: tar.gz, zip)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
