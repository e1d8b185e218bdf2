// SPDX-License-Identifier: MPL-2.0

// Package platform holds file naming rules imposed by target operating systems.
package platform

import "strings"

// windowsDeviceNames cannot be used as a file or directory name on Windows,
// with or without an extension.
var windowsDeviceNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName reports whether name, a single path element, would be
// rejected by Windows. Everything from the first dot on is ignored, so both
// "nul" and "NUL.tar.gz" are reserved. Names ending in a dot or space are
// reserved as well because Windows silently strips them.
func IsWindowsReservedName(name string) bool {
	if name == "" {
		return false
	}
	if strings.HasSuffix(name, ".") || strings.HasSuffix(name, " ") {
		return true
	}
	base, _, _ := strings.Cut(name, ".")
	return windowsDeviceNames[strings.ToUpper(base)]
}
