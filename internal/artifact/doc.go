// SPDX-License-Identifier: MPL-2.0

// Package artifact finds build outputs inside a build tree of unknown layout
// and reduces every logical artifact to exactly one file.
//
// Locate walks the tree and returns every file whose base name matches a
// literal name or glob, sorted by path. Select then picks one candidate:
// the first path containing the requested build configuration, or failing
// that the most recently modified file.
package artifact
