// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// Locate recursively searches buildTree for regular files whose base name
// matches pattern and returns them sorted by full path. A symlink counts when
// it resolves to a regular file; the candidate keeps the link's path and the
// target's modification time. It returns a *NotFoundError when nothing matches.
func Locate(fsys afero.Fs, buildTree, pattern string) ([]Candidate, error) {
	// Validate the glob up front; filepath.Match only reports a bad pattern
	// when it reaches the malformed part of a name.
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid artifact pattern %q: %w", pattern, err)
	}

	var candidates []Candidate
	err := afero.Walk(fsys, buildTree, func(path string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			target, statErr := fsys.Stat(path)
			if statErr != nil {
				// Dangling link.
				return nil
			}
			info = namedInfo{FileInfo: target, name: info.Name()}
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		matched, matchErr := filepath.Match(pattern, info.Name())
		if matchErr != nil {
			return matchErr
		}
		if matched {
			candidates = append(candidates, Candidate{Path: path, ModTime: info.ModTime()})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", buildTree, err)
	}

	if len(candidates) == 0 {
		return nil, &NotFoundError{BuildTree: buildTree, Pattern: pattern}
	}

	sortByPath(candidates)
	return candidates, nil
}

// namedInfo reports a symlink target's metadata under the link's name.
type namedInfo struct {
	fs.FileInfo
	name string
}

func (i namedInfo) Name() string { return i.name }

func sortByPath(candidates []Candidate) {
	slices.SortFunc(candidates, func(a, b Candidate) int {
		return strings.Compare(a.Path, b.Path)
	})
}
