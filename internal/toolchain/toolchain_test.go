// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/invowk/shaderpack/pkg/types"
)

type recordingRunner struct {
	calls []Invocation
	code  types.ExitCode
	err   error
}

func (r *recordingRunner) Run(_ context.Context, inv Invocation) (types.ExitCode, error) {
	r.calls = append(r.calls, inv)
	return r.code, r.err
}

func TestCMakeSteps(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	cm := &CMake{Runner: runner, Generator: "Ninja", ExtraArgs: []string{"-DENABLE_SPIRV_CODEGEN=ON"}}
	ctx := context.Background()

	if err := cm.Configure(ctx, "/src", "/src/build", types.ConfigurationRelease); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if err := cm.Build(ctx, "/src/build", types.ConfigurationRelease, 8); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := cm.Install(ctx, "/src/build", types.ConfigurationRelease, "/out/pkg"); err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	want := []Invocation{
		{Step: "configure", Name: "cmake", Dir: "/src", Args: []string{
			"-S", "/src", "-B", "/src/build", "-G", "Ninja",
			"-DCMAKE_BUILD_TYPE=Release", "-DENABLE_SPIRV_CODEGEN=ON",
		}},
		{Step: "build", Name: "cmake", Dir: "/src/build", Args: []string{
			"--build", "/src/build", "--config", "Release", "--parallel", "8",
		}},
		{Step: "install", Name: "cmake", Dir: "/src/build", Args: []string{
			"--install", "/src/build", "--config", "Release", "--prefix", "/out/pkg",
		}},
	}
	if len(runner.calls) != len(want) {
		t.Fatalf("runner saw %d calls, want %d", len(runner.calls), len(want))
	}
	for i, w := range want {
		got := runner.calls[i]
		if got.Step != w.Step || got.Name != w.Name || got.Dir != w.Dir || !slices.Equal(got.Args, w.Args) {
			t.Errorf("call[%d] = %+v, want %+v", i, got, w)
		}
	}
}

func TestCMakeBuildDefaultsToAllCPUs(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	cm := &CMake{Runner: runner, Binary: "/opt/cmake/bin/cmake"}
	if err := cm.Build(context.Background(), "/b", types.ConfigurationDebug, 0); err != nil {
		t.Fatal(err)
	}
	call := runner.calls[0]
	if call.Name != "/opt/cmake/bin/cmake" {
		t.Errorf("binary = %q", call.Name)
	}
	if call.Args[len(call.Args)-1] != strconv.Itoa(runtime.NumCPU()) {
		t.Errorf("parallel = %q, want %d", call.Args[len(call.Args)-1], runtime.NumCPU())
	}
}

func TestExternalToolError(t *testing.T) {
	t.Parallel()

	t.Run("non-zero exit", func(t *testing.T) {
		t.Parallel()

		cm := &CMake{Runner: &recordingRunner{code: 2}}
		err := cm.Configure(context.Background(), "/src", "/b", types.ConfigurationRelease)

		var toolErr *ExternalToolError
		if !errors.As(err, &toolErr) {
			t.Fatalf("Configure() error = %v, want *ExternalToolError", err)
		}
		if toolErr.Step != "configure" || toolErr.ExitCode != 2 {
			t.Errorf("ExternalToolError = %+v", toolErr)
		}
		if !errors.Is(err, ErrExternalTool) {
			t.Error("error should wrap ErrExternalTool")
		}
		if !strings.Contains(err.Error(), "cmake -S /src -B /b") {
			t.Errorf("error should name the command line: %v", err)
		}
	})

	t.Run("process could not start", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("executable file not found in $PATH")
		cm := &CMake{Runner: &recordingRunner{code: 1, err: cause}}
		err := cm.Build(context.Background(), "/b", types.ConfigurationRelease, 1)
		if !errors.Is(err, ErrExternalTool) || !errors.Is(err, cause) {
			t.Errorf("Build() error = %v, want ErrExternalTool wrapping the cause", err)
		}
	})
}

func TestParseArgs(t *testing.T) {
	t.Parallel()

	env := func(name string) string {
		if name == "VULKAN_SDK" {
			return "/opt/vulkan"
		}
		return ""
	}

	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"-DA=1 -DB=2", []string{"-DA=1", "-DB=2"}},
		{`-DCMAKE_C_FLAGS="-O2 -g"`, []string{"-DCMAKE_C_FLAGS=-O2 -g"}},
		{"-DVULKAN_SDK=$VULKAN_SDK", []string{"-DVULKAN_SDK=/opt/vulkan"}},
		{"'-DLITERAL=$HOME'", []string{"-DLITERAL=$HOME"}},
	}
	for _, tt := range tests {
		got, err := ParseArgs(tt.in, env)
		if err != nil {
			t.Errorf("ParseArgs(%q) error = %v", tt.in, err)
			continue
		}
		if !slices.Equal(got, tt.want) {
			t.Errorf("ParseArgs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := ParseArgs(`-DBROKEN="unterminated`, env); err == nil {
		t.Error("ParseArgs() with unterminated quote returned nil error")
	}
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	t.Parallel()

	var stdout bytes.Buffer
	r := NewExecRunner(&stdout, &bytes.Buffer{})

	code, err := r.Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "echo built; exit 3"}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if code != 3 {
		t.Errorf("Run() exit code = %d, want 3", code)
	}
	if strings.TrimSpace(stdout.String()) != "built" {
		t.Errorf("stdout = %q, want %q", stdout.String(), "built")
	}

	if _, err := r.Run(context.Background(), Invocation{Name: "/definitely/not/a/binary"}); err == nil {
		t.Error("Run() with missing binary returned nil error")
	}
}
