// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the shaderpack command line interface.
//
// Commands are built around an App composition root so tests can swap the
// configuration provider, the external process runner and the filesystem.
package cmd
