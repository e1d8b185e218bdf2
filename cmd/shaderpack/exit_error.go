// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/invowk/shaderpack/internal/issue"
	"github.com/invowk/shaderpack/pkg/types"
)

// Exit statuses of a failed run, one per failure kind. Anything unclassified
// exits with types.ExitFailure.
const (
	// ExitInvalidRequest reports a bad flag, request or configuration file.
	ExitInvalidRequest types.ExitCode = 2
	// ExitBuildFailed reports that CMake is missing or one of its steps failed.
	ExitBuildFailed types.ExitCode = 3
	// ExitMissingInput reports a library or API header absent from its tree.
	ExitMissingInput types.ExitCode = 4
	// ExitArchiveFailed reports that the archive or its checksum could not be written.
	ExitArchiveFailed types.ExitCode = 5
)

// ExitError carries the exit status of a failed command back to Execute,
// which owns os.Exit.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the message of the wrapped error, or the bare status.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeFor maps a classified failure to its exit status.
func exitCodeFor(svcErr *ServiceError) types.ExitCode {
	switch svcErr.IssueID {
	case issue.InvalidRequestId, issue.ConfigLoadFailedId:
		return ExitInvalidRequest
	case issue.CMakeNotFoundId, issue.ExternalToolFailedId:
		return ExitBuildFailed
	case issue.ArtifactNotFoundId, issue.HeaderMissingId:
		return ExitMissingInput
	case issue.ArchiveFailedId:
		return ExitArchiveFailed
	default:
		return types.ExitFailure
	}
}
