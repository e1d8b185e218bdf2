// SPDX-License-Identifier: MPL-2.0

package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// DirPerm is the permission used for every directory created by shaderpack.
const DirPerm fs.FileMode = 0o755

// ResetDir deletes dir recursively when present and recreates it empty.
func ResetDir(fsys afero.Fs, dir string) error {
	if err := fsys.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	if err := fsys.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// IsFile reports whether path exists and is a regular file.
func IsFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveFile deletes path if it exists. A missing file is not an error.
func RemoveFile(fsys afero.Fs, path string) error {
	if err := fsys.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// CopyFile copies src to dst, truncating dst if it exists and creating its
// parent directory. The source permission bits are carried over so shared
// libraries keep their executable bits.
func CopyFile(fsys afero.Fs, src, dst string) (err error) {
	info, err := fsys.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", src)
	}

	if err = fsys.MkdirAll(filepath.Dir(dst), DirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dst, err)
	}

	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }() // Read-only handle; close error non-critical

	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// OpenFile only applies perm on creation; an existing dst keeps its old mode.
	if err = fsys.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", dst, err)
	}
	return nil
}
