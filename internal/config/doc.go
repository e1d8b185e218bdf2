// SPDX-License-Identifier: MPL-2.0

// Package config handles shaderpack configuration using Viper with CUE as the file format.
//
// A configuration file is looked up in order: the --config flag, shaderpack.cue in
// the working directory, then config.cue in the user configuration directory
// ($XDG_CONFIG_HOME/shaderpack on Linux, ~/Library/Application Support/shaderpack on
// macOS, %APPDATA%\shaderpack on Windows). Files are validated against the embedded
// config_schema.cue before being merged over the defaults. SHADERPACK_* environment
// variables override file values.
package config
