// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/invowk/shaderpack/pkg/types"
)

// ErrExternalTool is the sentinel error wrapped by ExternalToolError.
var ErrExternalTool = errors.New("external tool failed")

type (
	// Invocation describes one external process.
	Invocation struct {
		// Step names the pipeline step for diagnostics ("configure", "build", "install").
		Step string
		Name string
		Args []string
		Dir  string
		// Env entries are appended to the inherited environment.
		Env []string
	}

	// Runner runs an external process to completion and reports its exit status.
	// A non-nil error means the process could not be run at all.
	Runner interface {
		Run(ctx context.Context, inv Invocation) (types.ExitCode, error)
	}

	// ExecRunner runs invocations as host processes.
	ExecRunner struct {
		Stdout io.Writer
		Stderr io.Writer
	}

	// ExternalToolError is returned when a delegated configure, build or
	// install step exits non-zero or cannot be started.
	ExternalToolError struct {
		Step     string
		Command  string
		ExitCode types.ExitCode
		Err      error
	}
)

// NewExecRunner creates a runner that forwards process output to stdout and stderr.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Run starts the process and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (types.ExitCode, error) {
	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return types.ExitCode(exitErr.ExitCode()), nil
		}
		return types.ExitFailure, fmt.Errorf("failed to run %s: %w", inv.Name, err)
	}
	return types.ExitSuccess, nil
}

// CommandLine renders the invocation for diagnostics.
func (inv Invocation) CommandLine() string {
	parts := make([]string, 0, 1+len(inv.Args))
	parts = append(parts, quote(inv.Name))
	for _, a := range inv.Args {
		parts = append(parts, quote(a))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'") {
		return s
	}
	return fmt.Sprintf("%q", s)
}

// run executes inv and converts any failure into an *ExternalToolError.
func run(ctx context.Context, r Runner, inv Invocation) error {
	code, err := r.Run(ctx, inv)
	if err != nil {
		return &ExternalToolError{Step: inv.Step, Command: inv.CommandLine(), ExitCode: types.ExitFailure, Err: err}
	}
	if !code.IsSuccess() {
		return &ExternalToolError{Step: inv.Step, Command: inv.CommandLine(), ExitCode: code}
	}
	return nil
}

// Error implements the error interface.
func (e *ExternalToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s step failed: %s: %v", e.Step, e.Command, e.Err)
	}
	return fmt.Sprintf("%s step failed with exit status %d: %s", e.Step, e.ExitCode, e.Command)
}

// Unwrap exposes ErrExternalTool and the underlying cause, if any.
func (e *ExternalToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExternalTool}
	}
	return []error{ErrExternalTool, e.Err}
}
