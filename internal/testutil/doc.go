// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers shared by the packaging packages:
// a manually driven clock for timestamped build directories and helpers that
// seed and list file trees on an afero filesystem.
package testutil
