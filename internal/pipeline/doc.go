// SPDX-License-Identifier: MPL-2.0

// Package pipeline packages shader-compiler build outputs into a distribution
// archive.
//
// A run is strictly sequential: validate the request, optionally drive the
// external CMake build, locate and select every artifact of the platform
// profile, assemble the package layout and archive it. The first failure
// aborts the run and no archive is left at the output path. Every error is
// one of the typed failures below or wraps one:
//
//   - *ConfigurationError: the request is unusable before discovery starts
//   - *toolchain.ExternalToolError: configure, build or install exited non-zero
//   - *artifact.NotFoundError: a required artifact matched no file
//   - *layout.MissingHeaderError: an API header is absent from the project
//   - *archive.ToolError: compressing the package failed
package pipeline
