// SPDX-License-Identifier: MPL-2.0

package ci

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
)

func TestGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	g := &Groups{Out: &buf, Enabled: true}
	end := g.Start("Locate artifacts")
	buf.WriteString("work\n")
	end()

	want := "::group::Locate artifacts\nwork\n::endgroup::\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	(&Groups{Out: &buf}).Start("quiet")()
	var nilGroups *Groups
	nilGroups.Start("nil")()
	if buf.Len() != 0 {
		t.Errorf("disabled groups wrote %q", buf.String())
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	env := map[string]string{"GITHUB_ACTIONS": "true"}
	if !Detect(func(k string) string { return env[k] }) {
		t.Error("Detect() = false inside GitHub Actions")
	}
	if Detect(func(string) string { return "" }) {
		t.Error("Detect() = true outside CI")
	}
}

func TestDefaultResultFile(t *testing.T) {
	t.Parallel()

	inCI := map[string]string{"GITHUB_ACTIONS": "true", OutputEnv: "/runner/_temp/output"}
	if got := DefaultResultFile(func(k string) string { return inCI[k] }); got != "/runner/_temp/output" {
		t.Errorf("DefaultResultFile() in CI = %q", got)
	}
	local := map[string]string{OutputEnv: "/tmp/stray"}
	if got := DefaultResultFile(func(k string) string { return local[k] }); got != "" {
		t.Errorf("DefaultResultFile() outside CI = %q, want empty", got)
	}
}

func TestAppendOutput(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/gh/output", []byte("previous=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := AppendOutput(fsys, "/gh/output", "artifact", "/work/out/dxc-linux-Release.tar.gz"); err != nil {
		t.Fatalf("AppendOutput() error = %v", err)
	}

	data, err := afero.ReadFile(fsys, "/gh/output")
	if err != nil {
		t.Fatal(err)
	}
	want := "previous=1\nartifact=/work/out/dxc-linux-Release.tar.gz\n"
	if string(data) != want {
		t.Errorf("result file = %q, want %q", data, want)
	}

	if err := AppendOutput(fsys, "/gh/output", "artifact", "a\nb"); err == nil {
		t.Error("AppendOutput() accepted a multi-line value")
	}
}
