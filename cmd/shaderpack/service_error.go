// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os/exec"

	"github.com/invowk/shaderpack/internal/archive"
	"github.com/invowk/shaderpack/internal/artifact"
	"github.com/invowk/shaderpack/internal/config"
	"github.com/invowk/shaderpack/internal/issue"
	"github.com/invowk/shaderpack/internal/layout"
	"github.com/invowk/shaderpack/internal/pipeline"
	"github.com/invowk/shaderpack/internal/toolchain"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a failure to its issue catalog entry and a styled
// diagnostic. An issue attached by the failing step wins over the sentinel
// mapping.
func classifyError(err error, verbose bool) *ServiceError {
	issueID := issue.IssueOf(err)

	switch {
	case issueID != 0:
	case errors.Is(err, pipeline.ErrConfiguration):
		issueID = issue.InvalidRequestId
	case errors.Is(err, toolchain.ErrExternalTool) && errors.Is(err, exec.ErrNotFound):
		issueID = issue.CMakeNotFoundId
	case errors.Is(err, toolchain.ErrExternalTool):
		issueID = issue.ExternalToolFailedId
	case errors.Is(err, artifact.ErrNotFound):
		issueID = issue.ArtifactNotFoundId
	case errors.Is(err, layout.ErrMissingHeader):
		issueID = issue.HeaderMissingId
	case errors.Is(err, archive.ErrArchiveTool):
		issueID = issue.ArchiveFailedId
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrInvalidLoadOptions):
		issueID = issue.ConfigLoadFailedId
	}

	styled := fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	return newServiceError(err, issueID, styled)
}

// renderServiceError prints any styled message first, then the optional
// issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render("dark")
		if renderErr != nil {
			fmt.Fprintf(stderr, "%s failed to render help for issue %d: %v\n", WarningStyle.Render("!"), svcErr.IssueID, renderErr)
			return
		}
		fmt.Fprint(stderr, rendered)
	}
}
