// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/invowk/shaderpack/internal/fsutil"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// partialSuffix marks an archive that is still being written.
const partialSuffix = ".partial"

// ErrArchiveTool is the sentinel error wrapped by ToolError.
var ErrArchiveTool = errors.New("archive step failed")

type (
	// Options controls how an archive is written.
	Options struct {
		Format Format
		// WrapDir, when set, nests every member under one top-level directory.
		WrapDir string
		// ModTime, when non-zero, replaces every member timestamp so that
		// reruns produce byte-identical archives.
		ModTime time.Time
	}

	// Result describes a written archive.
	Result struct {
		Path   string
		Format Format
		// Files is the number of regular files stored.
		Files int
		Size  int64
		// Digest is the hex BLAKE3-256 digest of the archive bytes.
		Digest string
	}

	// ToolError is returned when compressing the package fails.
	ToolError struct {
		Format Format
		Output string
		Err    error
	}

	// member is a file or directory queued for the archive.
	member struct {
		name string // slash-separated archive name, directories end in "/"
		path string
		info fs.FileInfo
	}

	// countingWriter tracks the number of bytes written through it.
	countingWriter struct {
		w io.Writer
		n int64
	}
)

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("failed to write %s archive %s: %v", e.Format, e.Output, e.Err)
}

// Unwrap exposes both ErrArchiveTool and the underlying cause.
func (e *ToolError) Unwrap() []error { return []error{ErrArchiveTool, e.Err} }

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Create archives the contents of root into output, replacing any existing
// file at output. Every failure is reported as a *ToolError.
func Create(fsys afero.Fs, root, output string, opts Options) (Result, error) {
	fail := func(err error) (Result, error) {
		return Result{}, &ToolError{Format: opts.Format, Output: output, Err: err}
	}

	if err := opts.Format.Validate(); err != nil {
		return fail(err)
	}
	if within(root, output) {
		return fail(fmt.Errorf("output must not be inside the package root %s", root))
	}
	if err := fsutil.RemoveFile(fsys, output); err != nil {
		return fail(err)
	}
	if !fsutil.IsDir(fsys, root) {
		return fail(fmt.Errorf("package root %s is not a directory", root))
	}

	members, err := collect(fsys, root, opts.WrapDir)
	if err != nil {
		return fail(err)
	}

	partial := output + partialSuffix
	digest, size, err := writeFile(fsys, partial, members, opts)
	if err != nil {
		_ = fsys.Remove(partial) // Best-effort cleanup of the incomplete archive
		return fail(err)
	}
	if err := fsys.Rename(partial, output); err != nil {
		_ = fsys.Remove(partial)
		return fail(err)
	}

	files := 0
	for _, m := range members {
		if !m.info.IsDir() {
			files++
		}
	}

	return Result{
		Path:   output,
		Format: opts.Format,
		Files:  files,
		Size:   size,
		Digest: digest,
	}, nil
}

func writeFile(fsys afero.Fs, dst string, members []member, opts Options) (digest string, size int64, err error) {
	f, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	hasher := blake3.New()
	out := &countingWriter{w: io.MultiWriter(f, hasher)}

	switch opts.Format {
	case FormatTarGz:
		err = writeTarGz(out, fsys, members, opts.ModTime)
	case FormatZip:
		err = writeZip(out, fsys, members, opts.ModTime)
	}
	if err != nil {
		return "", 0, err
	}

	return hex.EncodeToString(hasher.Sum(nil)), out.n, nil
}

// collect walks root and returns its members sorted by archive name.
func collect(fsys afero.Fs, root, wrapDir string) ([]member, error) {
	var members []member
	wrapDir = strings.Trim(filepath.ToSlash(wrapDir), "/")

	if wrapDir != "" {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, err
		}
		members = append(members, member{name: wrapDir + "/", path: root, info: info})
	}

	err := afero.Walk(fsys, root, func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		name := path.Join(wrapDir, filepath.ToSlash(rel))
		switch {
		case info.IsDir():
			name += "/"
		case !info.Mode().IsRegular():
			return fmt.Errorf("unsupported file type %s for %s", info.Mode().Type(), p)
		}
		members = append(members, member{name: name, path: p, info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(members, func(a, b member) int { return strings.Compare(a.name, b.name) })
	return members, nil
}

// copyMember streams the content of a regular file member into w.
func copyMember(w io.Writer, fsys afero.Fs, m member) error {
	f, err := fsys.Open(m.path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }() // Read-only handle; close error non-critical

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to store %s: %w", m.name, err)
	}
	return nil
}

// memberTime returns the timestamp to record for m, truncated to whole
// seconds so both container formats store it exactly.
func memberTime(m member, override time.Time) time.Time {
	if !override.IsZero() {
		return override.UTC().Truncate(time.Second)
	}
	return m.info.ModTime().UTC().Truncate(time.Second)
}

func within(root, p string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
