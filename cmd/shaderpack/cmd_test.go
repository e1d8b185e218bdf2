// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/invowk/shaderpack/internal/config"
	"github.com/invowk/shaderpack/internal/testutil"
	"github.com/invowk/shaderpack/internal/toolchain"
	"github.com/invowk/shaderpack/pkg/types"

	"github.com/spf13/afero"
)

type (
	// stubConfig returns a fixed configuration.
	stubConfig struct {
		cfg *config.Config
		err error
	}

	// failingRunner fails every external step it is asked to run.
	failingRunner struct {
		calls []toolchain.Invocation
	}
)

func (s *stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cp := *s.cfg
	return &cp, nil
}

func (r *failingRunner) Run(_ context.Context, inv toolchain.Invocation) (types.ExitCode, error) {
	r.calls = append(r.calls, inv)
	return 3, nil
}

type testApp struct {
	*App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	env    map[string]string
}

func newTestApp(t *testing.T, cfg *config.Config) *testApp {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ta := &testApp{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		env:    map[string]string{},
	}
	ta.App = NewApp(Dependencies{
		Config: &stubConfig{cfg: cfg},
		Runner: &failingRunner{},
		Getenv: func(k string) string { return ta.env[k] },
		Now:    testutil.NewFakeClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).Now,
		Stdout: ta.stdout,
		Stderr: ta.stderr,
	})
	return ta
}

func (ta *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand(ta.App)
	root.SetArgs(args)
	root.SetOut(ta.stdout)
	root.SetErr(ta.stderr)
	return root.ExecuteContext(t.Context())
}

// linuxProject creates a project with headers and a finished linux build tree.
func linuxProject(t *testing.T) (project, build, artifacts string) {
	t.Helper()
	base := t.TempDir()
	osFs := afero.NewOsFs()
	project = filepath.Join(base, "dxc")
	build = filepath.Join(base, "build")
	artifacts = filepath.Join(base, "artifacts")
	testutil.MustWriteFiles(t, osFs, project, 0o644, map[string]string{
		"include/dxc/dxcapi.h":      "api",
		"include/dxc/d3d12shader.h": "reflection",
		"include/dxc/WinAdapter.h":  "adapter",
	})
	testutil.MustWriteFiles(t, osFs, build, 0o755, map[string]string{
		"Release/lib/libdxcompiler.so": "compiler",
		"Release/lib/libdxil.so":       "validator",
	})
	return project, build, artifacts
}
