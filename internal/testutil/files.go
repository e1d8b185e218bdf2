// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/afero"
)

// MustWriteFiles writes every name → content entry of files below root,
// creating parent directories. Names use forward slashes.
func MustWriteFiles(t testing.TB, fsys afero.Fs, root string, perm fs.FileMode, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := afero.WriteFile(fsys, path, []byte(content), perm); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}
}

// ListFiles returns the regular files below root as sorted slash-separated
// paths relative to root.
func ListFiles(t testing.TB, fsys afero.Fs, root string) []string {
	t.Helper()
	var files []string
	err := afero.Walk(fsys, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
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
