// SPDX-License-Identifier: MPL-2.0

// Package profile describes, per packaging target, which build outputs make up
// the shader-compiler package and how the package is laid out and archived.
package profile

import (
	"path/filepath"

	"github.com/invowk/shaderpack/internal/archive"
	"github.com/invowk/shaderpack/internal/artifact"
	"github.com/invowk/shaderpack/pkg/types"
)

// Package subdirectory names.
const (
	BinDir     = "bin"
	LibDir     = "lib"
	IncludeDir = "include"
)

// defaultHeadersDir is where the API headers live relative to the project.
var defaultHeadersDir = filepath.Join("include", "dxc")

// Profile is the packaging convention of one target platform.
type Profile struct {
	Platform types.Platform
	// Artifacts are located in the build tree and copied into the layout.
	Artifacts []artifact.Spec
	// Headers are copied from HeadersDir (relative to the project) into IncludeDir.
	Headers    []string
	HeadersDir string
	// Subdirs lists the top-level directories of a complete package.
	Subdirs []string
	Format  archive.Format
	// WrapArchive nests archive members under a directory named after the
	// archive stem.
	WrapArchive bool
	// Supplementary artifacts are copied on top of an install tree when the
	// external build's install step produces the layout.
	Supplementary []artifact.Spec
}

var profiles = map[types.Platform]*Profile{
	types.PlatformLinux: {
		Platform: types.PlatformLinux,
		Artifacts: []artifact.Spec{
			{Name: "compiler-library", Pattern: "libdxcompiler.so", DestDir: LibDir},
			{Name: "validator-library", Pattern: "libdxil.so", DestDir: LibDir},
		},
		Headers:    []string{"dxcapi.h", "d3d12shader.h", "WinAdapter.h"},
		HeadersDir: defaultHeadersDir,
		Subdirs:    []string{IncludeDir, LibDir},
		Format:     archive.FormatTarGz,
	},
	types.PlatformMacOS: {
		Platform: types.PlatformMacOS,
		Artifacts: []artifact.Spec{
			{Name: "compiler-library", Pattern: "libdxcompiler.dylib", DestDir: LibDir},
			{Name: "validator-library", Pattern: "libdxil.dylib", DestDir: LibDir},
		},
		Headers:    []string{"dxcapi.h", "d3d12shader.h", "WinAdapter.h"},
		HeadersDir: defaultHeadersDir,
		Subdirs:    []string{IncludeDir, LibDir},
		Format:     archive.FormatTarGz,
	},
	types.PlatformWindows: {
		Platform: types.PlatformWindows,
		Artifacts: []artifact.Spec{
			{Name: "compiler-dll", Pattern: "dxcompiler.dll", DestDir: BinDir},
			{Name: "validator-dll", Pattern: "dxil.dll", DestDir: BinDir},
			{Name: "compiler-import-library", Pattern: "dxcompiler.lib", DestDir: LibDir},
		},
		Headers:     []string{"dxcapi.h", "d3d12shader.h"},
		HeadersDir:  defaultHeadersDir,
		Subdirs:     []string{BinDir, IncludeDir, LibDir},
		Format:      archive.FormatZip,
		WrapArchive: true,
		Supplementary: []artifact.Spec{
			{Name: "validator-dll", Pattern: "dxil.dll", DestDir: BinDir},
		},
	},
}

// Lookup returns the profile of platform.
func Lookup(platform types.Platform) (*Profile, error) {
	if err := platform.Validate(); err != nil {
		return nil, err
	}
	return profiles[platform], nil
}

// All returns every profile in platform order.
func All() []*Profile {
	all := make([]*Profile, 0, len(profiles))
	for _, p := range types.Platforms() {
		all = append(all, profiles[p])
	}
	return all
}

// SupportsInstallTree reports whether the profile can package an install tree.
func (p *Profile) SupportsInstallTree() bool { return len(p.Supplementary) > 0 }

// DefaultArchiveName returns the conventional archive file name for a build
// configuration, e.g. "dxc-linux-Release.tar.gz".
func (p *Profile) DefaultArchiveName(cfg types.Configuration) string {
	return "dxc-" + p.Platform.String() + "-" + cfg.String() + p.Format.Extensions()[0]
}
