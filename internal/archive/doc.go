// SPDX-License-Identifier: MPL-2.0

// Package archive compresses an assembled package directory into a single
// distributable file.
//
// POSIX packages are gzip-compressed tarballs and Windows packages are zip
// files; both are written with klauspost/compress. Members are the
// directories and regular files under the package root, in path order, with
// names relative to the root and an optional wrapping directory. Permission
// bits are stored so shared libraries stay executable after extraction.
//
// The archive is written next to its final path and renamed into place, so a
// failed run never leaves a truncated archive at the output path.
package archive
