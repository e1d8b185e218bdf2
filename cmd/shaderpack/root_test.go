// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/invowk/shaderpack/internal/config"
	"github.com/invowk/shaderpack/internal/issue"
	"github.com/invowk/shaderpack/pkg/types"

	"github.com/charmbracelet/fang"
)

func TestGetVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version, Commit, BuildDate = "1.2.0", "abc1234", "2024-05-01"
	if got := getVersionString(); got != "1.2.0 (commit: abc1234, built: 2024-05-01)" {
		t.Errorf("getVersionString() = %q", got)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	if got := formatErrorForDisplay(plain, false); got != "boom" {
		t.Errorf("plain error = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource("shaderpack.cue").
		WithSuggestion("Run 'shaderpack config init --local'").
		Wrap(plain).
		Build()
	got := formatErrorForDisplay(ae, false)
	for _, want := range []string{"load configuration", "shaderpack.cue", "config init"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatErrorForDisplay() = %q, missing %q", got, want)
		}
	}
}

func TestHandleError_SkipsRenderedErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handleError(&buf, fang.Styles{}, &ExitError{Code: types.ExitFailure, Err: errors.New("already shown")})
	if buf.Len() != 0 {
		t.Errorf("ExitError was printed again: %q", buf.String())
	}

	handleError(&buf, fang.Styles{}, errors.New(`unknown flag: --bogus`))
	if !strings.Contains(buf.String(), "unknown flag: --bogus") {
		t.Errorf("usage error not printed: %q", buf.String())
	}
}

func TestRoot_RegistersCommands(t *testing.T) {
	t.Parallel()

	root := NewRootCommand(newTestApp(t, nil).App)
	for _, name := range []string{"package", "profiles", "config"} {
		c, _, err := root.Find([]string{name})
		if err != nil || c.Name() != name {
			t.Errorf("command %q not registered (got %v, %v)", name, c, err)
		}
	}
	for _, name := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
}

func TestRoot_VerboseFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.UI.Verbose = true
	ta := newTestApp(t, cfg)

	if err := ta.run(t, "config", "dump"); err != nil {
		t.Fatalf("config dump failed: %v", err)
	}
	if !ta.verbose {
		t.Error("ui.verbose did not enable verbose output")
	}
}
