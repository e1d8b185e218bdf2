// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/invowk/shaderpack/internal/fsutil"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

type (
	// Report is the YAML summary written next to a package.
	Report struct {
		Platform      string           `yaml:"platform"`
		Configuration string           `yaml:"configuration"`
		BuildTree     string           `yaml:"build_tree"`
		Artifacts     []ReportArtifact `yaml:"artifacts"`
		Archive       ReportArchive    `yaml:"archive"`
	}

	// ReportArtifact describes one selected artifact.
	ReportArtifact struct {
		Name       string    `yaml:"name"`
		Pattern    string    `yaml:"pattern"`
		Candidates int       `yaml:"candidates"`
		Selected   string    `yaml:"selected"`
		Modified   time.Time `yaml:"modified"`
		Dest       string    `yaml:"dest"`
	}

	// ReportArchive describes the written archive.
	ReportArchive struct {
		Path   string `yaml:"path"`
		Format string `yaml:"format"`
		Files  int    `yaml:"files"`
		Size   int64  `yaml:"size"`
		Blake3 string `yaml:"blake3"`
	}
)

func newReport(pl *plan, res *Result) Report {
	r := Report{
		Platform:      pl.profile.Platform.String(),
		Configuration: pl.req.Configuration.String(),
		BuildTree:     pl.buildDir,
		Artifacts:     make([]ReportArtifact, 0, len(res.Selections)),
		Archive: ReportArchive{
			Path:   res.Archive.Path,
			Format: res.Archive.Format.String(),
			Files:  res.Archive.Files,
			Size:   res.Archive.Size,
			Blake3: res.Archive.Digest,
		},
	}
	for _, s := range res.Selections {
		r.Artifacts = append(r.Artifacts, ReportArtifact{
			Name:       s.Spec.Name,
			Pattern:    s.Spec.Pattern,
			Candidates: s.Candidates,
			Selected:   s.Selected.Path,
			Modified:   s.Selected.ModTime.UTC(),
			Dest:       s.Dest,
		})
	}
	return r
}

func writeReport(fsys afero.Fs, path string, r Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), fsutil.DirPerm); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// ReadReport decodes a report written by a previous run.
func ReadReport(fsys afero.Fs, path string) (*Report, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &r, nil
}
