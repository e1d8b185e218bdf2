// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is the sentinel error wrapped by NotFoundError.
var ErrNotFound = errors.New("artifact not found")

type (
	// Spec binds a logical artifact name to the file it is searched for and
	// the package subdirectory it is copied into.
	Spec struct {
		// Name is the logical name used in diagnostics (e.g. "compiler-library").
		Name string
		// Pattern is a literal file name or a filepath.Match glob matched
		// against base names.
		Pattern string
		// DestDir is the package-relative directory (e.g. "lib", "bin").
		DestDir string
	}

	// Candidate is a file in the build tree that matched a Spec.
	Candidate struct {
		Path    string
		ModTime time.Time
	}

	// NotFoundError is returned when a pattern matches no file in the build tree.
	NotFoundError struct {
		BuildTree string
		Pattern   string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no file matching %q under %s", e.Pattern, e.BuildTree)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }
