// SPDX-License-Identifier: MPL-2.0

package layout

import (
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

func seed(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o755); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

func listFiles(t *testing.T, fsys afero.Fs, root string) []string {
	t.Helper()
	var files []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk %s: %v", root, err)
	}
	slices.Sort(files)
	return files
}

func TestBuild(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{
		"/build/Release/bin/dxcompiler.dll": "dll",
		"/build/Release/bin/dxil.dll":       "dxil",
		"/build/Release/lib/dxcompiler.lib": "implib",
		"/src/include/dxc/dxcapi.h":         "api",
		"/src/include/dxc/d3d12shader.h":    "refl",
		"/pkg/stale/leftover.dll":           "stale",
	})

	entries := map[string]string{
		"bin/dxcompiler.dll": "/build/Release/bin/dxcompiler.dll",
		"bin/dxil.dll":       "/build/Release/bin/dxil.dll",
		"lib/dxcompiler.lib": "/build/Release/lib/dxcompiler.lib",
	}
	headers := &HeaderSet{
		SourceDir: "/src/include/dxc",
		Files:     []string{"dxcapi.h", "d3d12shader.h"},
		DestDir:   "include",
	}

	if err := Build(fsys, "/pkg", entries, headers); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got := listFiles(t, fsys, "/pkg")
	want := []string{
		"bin/dxcompiler.dll",
		"bin/dxil.dll",
		"include/d3d12shader.h",
		"include/dxcapi.h",
		"lib/dxcompiler.lib",
	}
	if !slices.Equal(got, want) {
		t.Errorf("layout files = %v, want %v", got, want)
	}

	data, err := afero.ReadFile(fsys, "/pkg/include/dxcapi.h")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "api" {
		t.Errorf("header content = %q, want %q", data, "api")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{"/build/libdxcompiler.so": "so"})
	entries := map[string]string{"lib/libdxcompiler.so": "/build/libdxcompiler.so"}

	for run := 1; run <= 2; run++ {
		if err := Build(fsys, "/pkg", entries, nil); err != nil {
			t.Fatalf("Build() run %d error = %v", run, err)
		}
	}
	if got := listFiles(t, fsys, "/pkg"); !slices.Equal(got, []string{"lib/libdxcompiler.so"}) {
		t.Errorf("layout files after rerun = %v", got)
	}
}

func TestBuildMissingHeader(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{
		"/build/libdxcompiler.so":   "so",
		"/src/include/dxc/dxcapi.h": "api",
	})

	err := Build(fsys, "/pkg", map[string]string{"lib/libdxcompiler.so": "/build/libdxcompiler.so"}, &HeaderSet{
		SourceDir: "/src/include/dxc",
		Files:     []string{"dxcapi.h", "WinAdapter.h"},
		DestDir:   "include",
	})

	var mh *MissingHeaderError
	if !errors.As(err, &mh) {
		t.Fatalf("Build() error = %v, want *MissingHeaderError", err)
	}
	if mh.FileName != "WinAdapter.h" || mh.SourceDir != "/src/include/dxc" {
		t.Errorf("MissingHeaderError = %+v", mh)
	}
	if !errors.Is(err, ErrMissingHeader) {
		t.Error("error should wrap ErrMissingHeader")
	}
	// Headers are checked before copying, so nothing was populated.
	if got := listFiles(t, fsys, "/pkg"); len(got) != 0 {
		t.Errorf("layout populated despite missing header: %v", got)
	}
}

func TestPopulateKeepsExistingTree(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	seed(t, fsys, map[string]string{
		"/pkg/bin/dxcompiler.dll": "installed",
		"/build/bin/dxil.dll":     "dxil",
	})

	if err := Populate(fsys, "/pkg", map[string]string{"bin/dxil.dll": "/build/bin/dxil.dll"}, nil); err != nil {
		t.Fatalf("Populate() error = %v", err)
	}
	want := []string{"bin/dxcompiler.dll", "bin/dxil.dll"}
	if got := listFiles(t, fsys, "/pkg"); !slices.Equal(got, want) {
		t.Errorf("layout files = %v, want %v", got, want)
	}
}
