// SPDX-License-Identifier: MPL-2.0

// Package layout materializes the canonical package directory that is later
// archived: selected artifacts under lib/ or bin/, API headers under include/.
package layout

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/invowk/shaderpack/internal/fsutil"

	"github.com/spf13/afero"
)

// ErrMissingHeader is the sentinel error wrapped by MissingHeaderError.
var ErrMissingHeader = errors.New("missing header")

type (
	// HeaderSet is a fixed list of headers copied verbatim from SourceDir
	// into DestDir (relative to the package root).
	HeaderSet struct {
		SourceDir string
		Files     []string
		DestDir   string
	}

	// MissingHeaderError is returned when a header of the HeaderSet does not
	// exist in its source directory. It means the project layout does not
	// match the platform profile.
	MissingHeaderError struct {
		SourceDir string
		FileName  string
	}
)

// Error implements the error interface.
func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("header %s not found in %s", e.FileName, e.SourceDir)
}

// Unwrap returns ErrMissingHeader for errors.Is() compatibility.
func (e *MissingHeaderError) Unwrap() error { return ErrMissingHeader }

// Build resets root and populates it: every entry maps a root-relative
// destination path to an absolute source file. A nil headers skips the
// header copy.
func Build(fsys afero.Fs, root string, entries map[string]string, headers *HeaderSet) error {
	if err := Reset(fsys, root); err != nil {
		return err
	}
	return Populate(fsys, root, entries, headers)
}

// Reset deletes root recursively when present and recreates it empty.
func Reset(fsys afero.Fs, root string) error {
	if err := fsutil.ResetDir(fsys, root); err != nil {
		return fmt.Errorf("failed to reset package layout: %w", err)
	}
	return nil
}

// Populate copies entries and headers into an existing root, overwriting any
// file already there. Headers are all checked before anything is copied.
func Populate(fsys afero.Fs, root string, entries map[string]string, headers *HeaderSet) error {
	if headers != nil {
		if err := checkHeaders(fsys, headers); err != nil {
			return err
		}
	}

	for _, dir := range subdirs(entries, headers) {
		if err := fsys.MkdirAll(filepath.Join(root, dir), fsutil.DirPerm); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	// Sorted so that a failing copy is reported the same way on every run.
	dests := make([]string, 0, len(entries))
	for dest := range entries {
		dests = append(dests, dest)
	}
	slices.Sort(dests)

	for _, dest := range dests {
		if err := fsutil.CopyFile(fsys, entries[dest], filepath.Join(root, filepath.FromSlash(dest))); err != nil {
			return err
		}
	}

	if headers == nil {
		return nil
	}
	for _, name := range headers.Files {
		src := filepath.Join(headers.SourceDir, name)
		dst := filepath.Join(root, filepath.FromSlash(headers.DestDir), name)
		if err := fsutil.CopyFile(fsys, src, dst); err != nil {
			return err
		}
	}
	return nil
}

func checkHeaders(fsys afero.Fs, headers *HeaderSet) error {
	for _, name := range headers.Files {
		if !fsutil.IsFile(fsys, filepath.Join(headers.SourceDir, name)) {
			return &MissingHeaderError{SourceDir: headers.SourceDir, FileName: name}
		}
	}
	return nil
}

// subdirs returns the sorted, de-duplicated set of directories the layout needs.
func subdirs(entries map[string]string, headers *HeaderSet) []string {
	var dirs []string
	for dest := range entries {
		if dir := filepath.Dir(filepath.FromSlash(dest)); dir != "." {
			dirs = append(dirs, dir)
		}
	}
	if headers != nil && headers.DestDir != "" {
		dirs = append(dirs, filepath.FromSlash(headers.DestDir))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}
