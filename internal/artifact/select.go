// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"slices"
	"strings"
)

// Select deterministically reduces candidates to one file.
//
// Candidates whose path contains configuration win, first in path order.
// Build trees often keep stale outputs of other configurations around, so the
// requested variant is preferred even when it is older. When no path encodes
// the configuration (single-config generators), the most recently modified
// candidate wins, with path order breaking ties.
//
// An empty configuration matches every path, so the first path wins. The
// second return value is false only when candidates is empty.
func Select(candidates []Candidate, configuration string) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	sorted := slices.Clone(candidates)
	sortByPath(sorted)

	for _, c := range sorted {
		if strings.Contains(c.Path, configuration) {
			return c, true
		}
	}

	newest := sorted[0]
	for _, c := range sorted[1:] {
		if c.ModTime.After(newest.ModTime) {
			newest = c
		}
	}
	return newest, true
}
