// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/invowk/shaderpack/internal/fsutil"
	"github.com/invowk/shaderpack/internal/layout"
	"github.com/invowk/shaderpack/internal/platform"
	"github.com/invowk/shaderpack/internal/profile"
	"github.com/invowk/shaderpack/pkg/types"

	"github.com/spf13/afero"
)

// buildDirLayout formats the timestamp of a generated build directory name.
const buildDirLayout = "20060102-150405"

type (
	// Request holds the inputs of one packaging run.
	Request struct {
		// ProjectDir is the CMake source tree; it is never modified.
		ProjectDir string
		// BuildDir receives the external build. When empty a fresh
		// build-<timestamp> directory inside ProjectDir is used.
		BuildDir      string
		Configuration types.Configuration
		// ArtifactsDir holds the package layout and the archive. It is reset
		// before the layout is assembled.
		ArtifactsDir string
		// ArchiveName is the archive file name inside ArtifactsDir. When empty
		// the profile's default name is used.
		ArchiveName string
		Platform    types.Platform
		// Jobs is the build parallelism; 0 uses every CPU.
		Jobs int
		// SkipBuild packages an existing BuildDir without running CMake.
		SkipBuild bool
		// InstallTree lets the CMake install step produce the layout; only
		// profiles with supplementary artifacts support it.
		InstallTree bool
		// HeadersDir overrides the profile's header location. Relative paths
		// are resolved against ProjectDir.
		HeadersDir string
		// Wrap overrides the profile's archive wrapping convention when set.
		Wrap *bool
		// ModTime pins archive member timestamps when non-zero.
		ModTime  time.Time
		Checksum bool
		// ReportPath, when set, receives a YAML package report.
		ReportPath string
		// ResultFile, when set, receives an "artifact=<absolute path>" line.
		ResultFile string
		CMake      CMakeOptions
	}

	// CMakeOptions configures the external build.
	CMakeOptions struct {
		Binary    string
		Generator string
		ExtraArgs []string
	}

	// plan is a validated request with every path resolved.
	plan struct {
		req          Request
		profile      *profile.Profile
		projectDir   string
		buildDir     string
		artifactsDir string
		layoutRoot   string
		archivePath  string
		wrapDir      string
		headers      *layout.HeaderSet
		reportPath   string
		resultFile   string
	}
)

// resolve validates req and resolves every path it names. All failures are
// *ConfigurationError values.
func resolve(fsys afero.Fs, req Request, now time.Time) (*plan, error) {
	if err := req.Configuration.Validate(); err != nil {
		return nil, invalidErr("configuration", req.Configuration.String(), err)
	}
	prof, err := profile.Lookup(req.Platform)
	if err != nil {
		return nil, invalidErr("platform", req.Platform.String(), err)
	}
	if req.Jobs < 0 {
		return nil, invalid("jobs", "", "must not be negative")
	}
	if req.InstallTree && !prof.SupportsInstallTree() {
		return nil, invalid("platform", req.Platform.String(), "does not support install-tree packaging")
	}

	p := &plan{req: req, profile: prof}

	if p.projectDir, err = absPath("project directory", req.ProjectDir); err != nil {
		return nil, err
	}
	if !fsutil.IsDir(fsys, p.projectDir) {
		return nil, invalid("project directory", p.projectDir, "is not an existing directory")
	}

	buildDir := req.BuildDir
	if buildDir == "" {
		if req.SkipBuild {
			return nil, invalid("build directory", "", "is required when the build is skipped")
		}
		buildDir = filepath.Join(p.projectDir, "build-"+now.Format(buildDirLayout))
	}
	if p.buildDir, err = absPath("build directory", buildDir); err != nil {
		return nil, err
	}
	if req.SkipBuild && !fsutil.IsDir(fsys, p.buildDir) {
		return nil, invalid("build directory", p.buildDir, "is not an existing directory")
	}
	if contains(p.buildDir, p.projectDir) {
		return nil, invalid("build directory", p.buildDir, "must not contain the project directory")
	}

	if p.artifactsDir, err = absPath("artifacts directory", req.ArtifactsDir); err != nil {
		return nil, err
	}
	// The artifacts directory is reset, so it must never hold the sources or
	// share files with the build tree that is searched for candidates.
	if contains(p.artifactsDir, p.projectDir) {
		return nil, invalid("artifacts directory", p.artifactsDir, "must not contain the project directory")
	}
	if contains(p.artifactsDir, p.buildDir) || contains(p.buildDir, p.artifactsDir) {
		return nil, invalid("artifacts directory", p.artifactsDir, "must not overlap the build directory "+p.buildDir)
	}

	name := req.ArchiveName
	if name == "" {
		name = prof.DefaultArchiveName(req.Configuration)
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return nil, invalid("archive name", name, "must be a file name without directories")
	}
	if !prof.Format.Matches(name) {
		return nil, invalid("archive name", name, "must end in "+strings.Join(prof.Format.Extensions(), " or ")+" for "+prof.Platform.String())
	}
	stem := prof.Format.Stem(name)
	if prof.Platform == types.PlatformWindows && platform.IsWindowsReservedName(stem) {
		return nil, invalid("archive name", name, "uses a name reserved on Windows")
	}
	p.layoutRoot = filepath.Join(p.artifactsDir, stem)
	p.archivePath = filepath.Join(p.artifactsDir, name)

	wrap := prof.WrapArchive
	if req.Wrap != nil {
		wrap = *req.Wrap
	}
	if wrap {
		p.wrapDir = stem
	}

	if !req.InstallTree {
		headersDir := req.HeadersDir
		if headersDir == "" {
			headersDir = prof.HeadersDir
		}
		if !filepath.IsAbs(headersDir) {
			headersDir = filepath.Join(p.projectDir, headersDir)
		}
		p.headers = &layout.HeaderSet{
			SourceDir: filepath.Clean(headersDir),
			Files:     prof.Headers,
			DestDir:   profile.IncludeDir,
		}
	}

	if req.ReportPath != "" {
		if p.reportPath, err = absPath("report path", req.ReportPath); err != nil {
			return nil, err
		}
	}
	if req.ResultFile != "" {
		if p.resultFile, err = absPath("CI result file", req.ResultFile); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func absPath(field, path string) (string, error) {
	abs, err := types.FilesystemPath(path).Abs()
	if err != nil {
		return "", invalidErr(field, path, err)
	}
	return abs.String(), nil
}

// contains reports whether dir is p or one of its ancestors.
func contains(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
