// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/invowk/shaderpack/internal/archive"
	"github.com/invowk/shaderpack/internal/artifact"
	"github.com/invowk/shaderpack/internal/ci"
	"github.com/invowk/shaderpack/internal/fsutil"
	"github.com/invowk/shaderpack/internal/layout"
	"github.com/invowk/shaderpack/internal/toolchain"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

type (
	// Pipeline runs packaging requests against a filesystem and an external
	// process runner.
	Pipeline struct {
		FS     afero.Fs
		Runner toolchain.Runner
		Logger *log.Logger
		// Groups wraps every step in a CI log group; nil disables grouping.
		Groups *ci.Groups
		// Now stamps generated build directory names.
		Now func() time.Time
	}

	// Result describes a successful run.
	Result struct {
		BuildDir     string
		LayoutRoot   string
		Archive      archive.Result
		ChecksumPath string
		ReportPath   string
		Selections   []Selection
	}

	// Selection records how one artifact spec was resolved.
	Selection struct {
		Spec       artifact.Spec
		Candidates int
		Selected   artifact.Candidate
		// Dest is the package-relative destination path.
		Dest string
	}
)

// New returns a Pipeline over fsys that runs external tools through runner.
// A nil logger discards all output.
func New(fsys afero.Fs, runner toolchain.Runner, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{FS: fsys, Runner: runner, Logger: logger, Now: time.Now}
}

// Run executes req. On failure no archive is left at the output path.
func (p *Pipeline) Run(ctx context.Context, req Request) (res *Result, err error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	logger := p.logger()

	pl, err := resolve(p.FS, req, now())
	if err != nil {
		return nil, err
	}
	logger.Info("packaging",
		"platform", pl.profile.Platform,
		"configuration", req.Configuration,
		"archive", pl.archivePath)

	if err = p.removeStale(pl); err != nil {
		return nil, err
	}

	res = &Result{BuildDir: pl.buildDir, LayoutRoot: pl.layoutRoot}

	cmake := &toolchain.CMake{
		Runner:    p.Runner,
		Binary:    req.CMake.Binary,
		Generator: req.CMake.Generator,
		ExtraArgs: req.CMake.ExtraArgs,
	}

	if req.SkipBuild {
		logger.Info("skipping build", "build_dir", pl.buildDir)
	} else if err = p.step("build", func() error { return p.build(ctx, cmake, pl) }); err != nil {
		return nil, err
	}

	specs := pl.profile.Artifacts
	if req.InstallTree {
		specs = pl.profile.Supplementary
	}
	var entries map[string]string
	err = p.step("locate artifacts", func() error {
		entries, res.Selections, err = p.locate(pl.buildDir, specs, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err = p.step("assemble layout", func() error { return p.assemble(ctx, cmake, pl, entries) }); err != nil {
		return nil, err
	}

	// From here on the outputs exist; any later failure removes them again.
	defer func() {
		if err != nil {
			_ = fsutil.RemoveFile(p.FS, pl.archivePath)
			_ = fsutil.RemoveFile(p.FS, archive.ChecksumPath(pl.archivePath))
			if pl.reportPath != "" {
				_ = fsutil.RemoveFile(p.FS, pl.reportPath)
			}
			res = nil
		}
	}()

	err = p.step("create archive", func() error {
		res.Archive, err = archive.Create(p.FS, pl.layoutRoot, pl.archivePath, archive.Options{
			Format:  pl.profile.Format,
			WrapDir: pl.wrapDir,
			ModTime: req.ModTime,
		})
		return archiveFailure(err, pl.artifactsDir)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("archive written",
		"path", res.Archive.Path,
		"files", res.Archive.Files,
		"bytes", res.Archive.Size,
		"blake3", res.Archive.Digest)

	if req.Checksum {
		if res.ChecksumPath, err = archive.WriteChecksum(p.FS, res.Archive); err != nil {
			return nil, err
		}
		logger.Debug("checksum written", "path", res.ChecksumPath)
	}

	if pl.reportPath != "" {
		if err = writeReport(p.FS, pl.reportPath, newReport(pl, res)); err != nil {
			return nil, err
		}
		res.ReportPath = pl.reportPath
		logger.Debug("report written", "path", pl.reportPath)
	}

	if pl.resultFile != "" {
		if err = ci.AppendOutput(p.FS, pl.resultFile, "artifact", res.Archive.Path); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (p *Pipeline) logger() *log.Logger {
	if p.Logger == nil {
		return log.New(io.Discard)
	}
	return p.Logger
}

func (p *Pipeline) step(title string, fn func() error) error {
	end := p.Groups.Start(title)
	defer end()
	p.logger().Info(title)
	return fn()
}

// removeStale deletes the outputs of a previous run so that a failing run
// cannot leave them behind.
func (p *Pipeline) removeStale(pl *plan) error {
	stale := []string{pl.archivePath, archive.ChecksumPath(pl.archivePath)}
	if pl.reportPath != "" {
		stale = append(stale, pl.reportPath)
	}
	for _, f := range stale {
		if err := fsutil.RemoveFile(p.FS, f); err != nil {
			return fmt.Errorf("remove stale output: %w", err)
		}
	}
	return nil
}

func (p *Pipeline) build(ctx context.Context, cmake *toolchain.CMake, pl *plan) error {
	if err := fsutil.ResetDir(p.FS, pl.buildDir); err != nil {
		return fmt.Errorf("reset build directory: %w", err)
	}
	if err := cmake.Configure(ctx, pl.projectDir, pl.buildDir, pl.req.Configuration); err != nil {
		return toolFailure(err, cmake.Binary)
	}
	return toolFailure(cmake.Build(ctx, pl.buildDir, pl.req.Configuration, pl.req.Jobs), cmake.Binary)
}

// locate resolves every spec to exactly one file and returns the layout
// entries keyed by package-relative destination.
func (p *Pipeline) locate(buildDir string, specs []artifact.Spec, req Request) (map[string]string, []Selection, error) {
	logger := p.logger()
	entries := make(map[string]string, len(specs))
	selections := make([]Selection, 0, len(specs))

	for _, spec := range specs {
		candidates, err := artifact.Locate(p.FS, buildDir, spec.Pattern)
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, nil, artifactMissing(err, spec, req.Configuration.String())
		}
		if err != nil {
			return nil, nil, fmt.Errorf("locate %s: %w", spec.Name, err)
		}
		for _, c := range candidates {
			logger.Debug("candidate", "artifact", spec.Name, "path", c.Path, "modified", c.ModTime)
		}
		selected, ok := artifact.Select(candidates, req.Configuration.String())
		if !ok {
			return nil, nil, artifactMissing(&artifact.NotFoundError{BuildTree: buildDir, Pattern: spec.Pattern}, spec, req.Configuration.String())
		}

		dest := path.Join(filepath.ToSlash(spec.DestDir), filepath.Base(selected.Path))
		if prev, dup := entries[dest]; dup {
			return nil, nil, invalid("artifact "+spec.Name, selected.Path, "collides with "+prev+" at "+dest)
		}
		entries[dest] = selected.Path
		selections = append(selections, Selection{
			Spec:       spec,
			Candidates: len(candidates),
			Selected:   selected,
			Dest:       dest,
		})
		logger.Info("selected", "artifact", spec.Name, "path", selected.Path, "of", len(candidates))
	}
	return entries, selections, nil
}

// assemble resets the artifacts directory and fills the layout root, either
// by copying the located artifacts and headers or by letting the external
// install step produce the tree.
func (p *Pipeline) assemble(ctx context.Context, cmake *toolchain.CMake, pl *plan, entries map[string]string) error {
	if err := fsutil.ResetDir(p.FS, pl.artifactsDir); err != nil {
		return fmt.Errorf("reset artifacts directory: %w", err)
	}
	logger := p.logger()
	for _, dest := range slices.Sorted(maps.Keys(entries)) {
		logger.Debug("copy", "from", entries[dest], "to", filepath.Join(pl.layoutRoot, filepath.FromSlash(dest)))
	}
	if pl.headers != nil {
		for _, name := range pl.headers.Files {
			logger.Debug("copy header", "name", name, "from", pl.headers.SourceDir, "to", pl.headers.DestDir)
		}
	}
	if !pl.req.InstallTree {
		return layoutFailure(layout.Build(p.FS, pl.layoutRoot, entries, pl.headers))
	}
	if err := layout.Reset(p.FS, pl.layoutRoot); err != nil {
		return err
	}
	if err := cmake.Install(ctx, pl.buildDir, pl.req.Configuration, pl.layoutRoot); err != nil {
		return toolFailure(err, cmake.Binary)
	}
	return layout.Populate(p.FS, pl.layoutRoot, entries, nil)
}
