// SPDX-License-Identifier: MPL-2.0

// Package ci integrates with continuous-integration runners: collapsible log
// groups around pipeline steps and key=value result files consumed by
// downstream jobs (GitHub Actions $GITHUB_OUTPUT convention).
package ci

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"
)

// OutputEnv names the environment variable that points at the CI result file.
const OutputEnv = "GITHUB_OUTPUT"

// Groups wraps pipeline steps in collapsible log sections. The zero value and
// a nil *Groups print nothing.
type Groups struct {
	Out     io.Writer
	Enabled bool
}

// Detect reports whether the process runs inside GitHub Actions.
func Detect(getenv func(string) string) bool {
	return getenv("GITHUB_ACTIONS") == "true"
}

// DefaultResultFile returns the runner's result file when running inside
// GitHub Actions, or "".
func DefaultResultFile(getenv func(string) string) string {
	if !Detect(getenv) {
		return ""
	}
	return getenv(OutputEnv)
}

// Start opens a group titled title and returns the function that closes it.
func (g *Groups) Start(title string) (end func()) {
	if g == nil || !g.Enabled || g.Out == nil {
		return func() {}
	}
	fmt.Fprintf(g.Out, "::group::%s\n", title)
	return func() { fmt.Fprintln(g.Out, "::endgroup::") }
}

// AppendOutput appends a key=value line to the result file at path.
// Newlines in value would corrupt the file and are rejected.
func AppendOutput(fsys afero.Fs, path, key, value string) (err error) {
	if strings.ContainsAny(key, "=\n") || strings.Contains(value, "\n") {
		return fmt.Errorf("invalid CI output %q=%q", key, value)
	}

	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open CI result file %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("failed to write CI result file %s: %w", path, err)
	}
	return nil
}
