// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/invowk/shaderpack/pkg/types"

	"mvdan.cc/sh/v3/shell"
)

// DefaultCMakeBinary is the CMake executable looked up on PATH.
const DefaultCMakeBinary = "cmake"

// CMake issues the configure, build and install steps of a CMake project.
type CMake struct {
	Runner Runner
	// Binary defaults to DefaultCMakeBinary.
	Binary string
	// Generator is passed as -G when set (e.g. "Ninja", "Visual Studio 17 2022").
	Generator string
	// ExtraArgs are appended to the configure step.
	ExtraArgs []string
}

// Configure generates the build system for sourceDir into buildDir.
func (c *CMake) Configure(ctx context.Context, sourceDir, buildDir string, cfg types.Configuration) error {
	args := []string{"-S", sourceDir, "-B", buildDir}
	if c.Generator != "" {
		args = append(args, "-G", c.Generator)
	}
	args = append(args, "-DCMAKE_BUILD_TYPE="+cfg.String())
	args = append(args, c.ExtraArgs...)
	return run(ctx, c.Runner, Invocation{Step: "configure", Name: c.binary(), Args: args, Dir: sourceDir})
}

// Build compiles buildDir with jobs parallel jobs; jobs <= 0 uses every CPU.
func (c *CMake) Build(ctx context.Context, buildDir string, cfg types.Configuration, jobs int) error {
	args := []string{
		"--build", buildDir,
		"--config", cfg.String(),
		"--parallel", strconv.Itoa(Jobs(jobs)),
	}
	return run(ctx, c.Runner, Invocation{Step: "build", Name: c.binary(), Args: args, Dir: buildDir})
}

// Install copies the project's install targets from buildDir into prefix.
func (c *CMake) Install(ctx context.Context, buildDir string, cfg types.Configuration, prefix string) error {
	args := []string{
		"--install", buildDir,
		"--config", cfg.String(),
		"--prefix", prefix,
	}
	return run(ctx, c.Runner, Invocation{Step: "install", Name: c.binary(), Args: args, Dir: buildDir})
}

func (c *CMake) binary() string {
	if c.Binary == "" {
		return DefaultCMakeBinary
	}
	return c.Binary
}

// Jobs resolves a requested parallelism; values <= 0 mean runtime.NumCPU().
func Jobs(requested int) int {
	if requested > 0 {
		return requested
	}
	return runtime.NumCPU()
}

// ParseArgs splits a user-supplied argument string using POSIX shell quoting
// rules, expanding $VAR references through env. A nil env expands nothing.
func ParseArgs(s string, env func(string) string) ([]string, error) {
	if env == nil {
		env = func(string) string { return "" }
	}
	fields, err := shell.Fields(s, env)
	if err != nil {
		return nil, fmt.Errorf("invalid argument list %q: %w", s, err)
	}
	return fields, nil
}
