// SPDX-License-Identifier: MPL-2.0

// Package fsutil holds the small filesystem capability shared by the
// packaging stages: reset-then-use directories, permission-preserving file
// copies and existence checks.
//
// Every helper takes an afero.Fs so the artifact locator, layout builder and
// archiver run unchanged against the OS filesystem in production and against
// afero.NewMemMapFs() in tests.
package fsutil
