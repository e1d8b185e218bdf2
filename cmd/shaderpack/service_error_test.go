// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"testing"

	"github.com/invowk/shaderpack/internal/archive"
	"github.com/invowk/shaderpack/internal/artifact"
	"github.com/invowk/shaderpack/internal/config"
	"github.com/invowk/shaderpack/internal/issue"
	"github.com/invowk/shaderpack/internal/layout"
	"github.com/invowk/shaderpack/internal/pipeline"
	"github.com/invowk/shaderpack/internal/toolchain"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{
			name: "configuration",
			err:  &pipeline.ConfigurationError{Field: "platform", Value: "beos", Reason: "unknown platform"},
			want: issue.InvalidRequestId,
		},
		{
			name: "cmake missing",
			err:  &toolchain.ExternalToolError{Step: "configure", Command: "cmake -S .", ExitCode: -1, Err: exec.ErrNotFound},
			want: issue.CMakeNotFoundId,
		},
		{
			name: "build failed",
			err:  &toolchain.ExternalToolError{Step: "build", Command: "cmake --build b", ExitCode: 2},
			want: issue.ExternalToolFailedId,
		},
		{
			name: "artifact not found",
			err:  fmt.Errorf("locate compiler-library: %w", &artifact.NotFoundError{BuildTree: "/b", Pattern: "libdxcompiler.so"}),
			want: issue.ArtifactNotFoundId,
		},
		{
			name: "missing header",
			err:  &layout.MissingHeaderError{SourceDir: "/p/include/dxc", FileName: "dxcapi.h"},
			want: issue.HeaderMissingId,
		},
		{
			name: "archive",
			err:  &archive.ToolError{Format: archive.FormatZip, Output: "/a/dxc.zip", Err: errors.New("disk full")},
			want: issue.ArchiveFailedId,
		},
		{
			name: "config",
			err:  &config.InvalidConfigError{FieldErrors: []error{errors.New("bad")}},
			want: issue.ConfigLoadFailedId,
		},
		{
			name: "issue attached by the failing step",
			err: issue.NewErrorContext().
				WithOperation("load configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(errors.New("config file not found: /x.cue")).
				Build(),
			want: issue.ConfigLoadFailedId,
		},
		{
			name: "attached issue wins over the sentinel",
			err: issue.NewErrorContext().
				WithOperation("copy API headers").
				WithIssue(issue.HeaderMissingId).
				Wrap(&pipeline.ConfigurationError{Field: "headers", Value: "x", Reason: "r"}).
				Build(),
			want: issue.HeaderMissingId,
		},
		{
			name: "unclassified",
			err:  errors.New("something else"),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svcErr := classifyError(tt.err, false)
			if svcErr.IssueID != tt.want {
				t.Errorf("IssueID = %d, want %d", svcErr.IssueID, tt.want)
			}
			if !errors.Is(svcErr, tt.err) {
				t.Error("ServiceError does not unwrap to the original error")
			}
			if !strings.Contains(svcErr.StyledMessage, tt.err.Error()) {
				t.Errorf("StyledMessage = %q, missing %q", svcErr.StyledMessage, tt.err.Error())
			}
		})
	}
}

func TestNewServiceError_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil) did not panic")
		}
	}()
	_ = newServiceError(nil, 0, "")
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error rendered %q", buf.String())
	}

	renderServiceError(&buf, newServiceError(errors.New("x"), 0, "styled message\n"))
	if buf.String() != "styled message\n" {
		t.Errorf("without issue = %q", buf.String())
	}

	buf.Reset()
	renderServiceError(&buf, newServiceError(errors.New("x"), issue.HeaderMissingId, "header gone\n"))
	out := buf.String()
	if !strings.HasPrefix(out, "header gone\n") || len(out) <= len("header gone\n") {
		t.Errorf("issue help not rendered after the message: %q", out)
	}
}
