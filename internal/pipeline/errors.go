// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/invowk/shaderpack/internal/archive"
	"github.com/invowk/shaderpack/internal/artifact"
	"github.com/invowk/shaderpack/internal/issue"
	"github.com/invowk/shaderpack/internal/layout"
	"github.com/invowk/shaderpack/internal/toolchain"
)

// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
var ErrConfiguration = errors.New("invalid packaging request")

// ConfigurationError is returned when a request field is invalid or points at
// an unusable directory. It is detected before any artifact discovery.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes ErrConfiguration and the underlying cause, if any.
func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

func invalid(field, value, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

func invalidErr(field, value string, err error) error {
	return &ConfigurationError{Field: field, Value: value, Reason: "invalid value", Err: err}
}

// toolFailure attaches remediation hints to an error of an external CMake step.
func toolFailure(err error, binary string) error {
	var toolErr *toolchain.ExternalToolError
	if !errors.As(err, &toolErr) {
		return err
	}
	ctx := issue.NewErrorContext().
		WithOperation("run the CMake " + toolErr.Step + " step").
		Wrap(err)
	if errors.Is(err, exec.ErrNotFound) {
		return ctx.WithIssue(issue.CMakeNotFoundId).
			WithResource(binary).
			WithSuggestion("Install CMake or set cmake.binary to its path").
			Build()
	}
	return ctx.WithIssue(issue.ExternalToolFailedId).
		WithSuggestion("The CMake output above shows why the " + toolErr.Step + " step failed").
		WithSuggestion("Package an existing build with --skip-build --build-dir <dir>").
		Build()
}

// artifactMissing explains a spec that matched nothing in the build tree.
func artifactMissing(err error, spec artifact.Spec, configuration string) error {
	return issue.NewErrorContext().
		WithOperation("locate " + spec.Name).
		WithIssue(issue.ArtifactNotFoundId).
		WithSuggestion(fmt.Sprintf("Check that the %s build produced %s", configuration, spec.Pattern)).
		WithSuggestion("Point --build-dir at the tree that holds the libraries").
		Wrap(err).
		Build()
}

// layoutFailure explains a missing API header.
func layoutFailure(err error) error {
	var missing *layout.MissingHeaderError
	if !errors.As(err, &missing) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("copy API headers").
		WithIssue(issue.HeaderMissingId).
		WithSuggestion("Pass --headers-dir with the directory that contains " + missing.FileName).
		Wrap(err).
		Build()
}

// archiveFailure explains a failed archive write.
func archiveFailure(err error, artifactsDir string) error {
	if !errors.Is(err, archive.ErrArchiveTool) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("write the archive").
		WithIssue(issue.ArchiveFailedId).
		WithSuggestion("Check free space and write permission in " + artifactsDir).
		Wrap(err).
		Build()
}
