// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/invowk/shaderpack/internal/ci"
	"github.com/invowk/shaderpack/internal/config"
	"github.com/invowk/shaderpack/internal/pipeline"
	"github.com/invowk/shaderpack/internal/toolchain"
	"github.com/invowk/shaderpack/pkg/types"

	"github.com/spf13/cobra"
)

// sourceDateEpochEnv pins archive timestamps for reproducible builds.
const sourceDateEpochEnv = "SOURCE_DATE_EPOCH"

// packageFlags holds the raw flag values of `shaderpack package`.
type packageFlags struct {
	project       string
	buildDir      string
	configuration string
	artifactsDir  string
	output        string
	platform      string
	jobs          int
	skipBuild     bool
	installTree   bool
	headersDir    string
	wrap          string
	report        string
	resultFile    string
	noChecksum    bool
	generator     string
	cmakeArgs     string
}

func newPackageCommand(app *App) *cobra.Command {
	flags := &packageFlags{}

	packageCmd := &cobra.Command{
		Use:   "package",
		Short: "Build the project and package its artifacts",
		Long: `Build the project with CMake, locate the compiler libraries in the build
tree, assemble the package layout with the API headers and write the archive.

The archive and its layout directory are written into the artifacts directory,
which is emptied first. When a required library or header is missing nothing
is archived and the command exits non-zero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, app, flags)
		},
	}

	flags.register(packageCmd)

	return packageCmd
}

// register binds the package flags to cmd.
func (flags *packageFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&flags.project, "project", "p", ".", "CMake project directory")
	f.StringVarP(&flags.buildDir, "build-dir", "b", "", "build directory (default <project>/build-<timestamp>)")
	f.StringVarP(&flags.configuration, "configuration", "c", "", "build configuration: Debug, Release, RelWithDebInfo or MinSizeRel")
	f.StringVarP(&flags.artifactsDir, "artifacts-dir", "a", "artifacts", "directory receiving the package layout and archive")
	f.StringVarP(&flags.output, "output", "o", "", "archive file name (default dxc-<platform>-<configuration>.<ext>)")
	f.StringVar(&flags.platform, "platform", "", "target platform profile: linux, macos or windows (default host)")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "build parallelism (0 uses every CPU)")
	f.BoolVar(&flags.skipBuild, "skip-build", false, "package an existing build directory without running CMake")
	f.BoolVar(&flags.installTree, "install-tree", false, "let the CMake install step produce the layout")
	f.StringVar(&flags.headersDir, "headers-dir", "", "API header directory, relative to the project (default include/dxc)")
	f.StringVar(&flags.wrap, "wrap", "", "wrap archive members in a top-level directory: auto, always or never")
	f.StringVar(&flags.report, "report", "", "write a YAML package report to this path")
	f.StringVar(&flags.resultFile, "result-file", "", "append artifact=<path> to this file (default $GITHUB_OUTPUT inside GitHub Actions)")
	f.BoolVar(&flags.noChecksum, "no-checksum", false, "do not write the .b3 checksum file")
	f.StringVarP(&flags.generator, "generator", "G", "", "CMake generator")
	f.StringVar(&flags.cmakeArgs, "cmake-args", "", "extra CMake configure arguments, shell-quoted")
}

func runPackage(cmd *cobra.Command, app *App, flags *packageFlags) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return failCommand(cmd, app, err)
	}

	req, err := buildRequest(cmd, flags, cfg, app.Getenv)
	if err != nil {
		return failCommand(cmd, app, err)
	}

	p := pipeline.New(app.FS, app.Runner, app.logger())
	p.Now = app.Now
	p.Groups = &ci.Groups{
		Out:     app.stdout,
		Enabled: cfg.CI.Groups.Enabled(ci.Detect(app.Getenv)),
	}

	res, err := p.Run(ctx, req)
	if err != nil {
		return failCommand(cmd, app, err)
	}

	printResult(app, res)
	return nil
}

// buildRequest merges flags over the loaded configuration. Flags only win
// when they were given explicitly.
func buildRequest(cmd *cobra.Command, flags *packageFlags, cfg *config.Config, getenv func(string) string) (pipeline.Request, error) {
	changed := cmd.Flags().Changed

	req := pipeline.Request{
		ProjectDir:    flags.project,
		BuildDir:      flags.buildDir,
		Configuration: cfg.Configuration,
		ArtifactsDir:  flags.artifactsDir,
		ArchiveName:   flags.output,
		Platform:      cfg.Platform,
		Jobs:          cfg.Jobs,
		SkipBuild:     flags.skipBuild,
		InstallTree:   cfg.Package.InstallTree,
		HeadersDir:    cfg.Package.HeadersDir,
		Wrap:          cfg.Package.Wrap.Override(),
		Checksum:      cfg.Package.Checksum && !flags.noChecksum,
		ReportPath:    flags.report,
		ResultFile:    cfg.CI.ResultFile,
		CMake: pipeline.CMakeOptions{
			Binary:    cfg.CMake.Binary,
			Generator: cfg.CMake.Generator,
		},
	}

	if changed("configuration") {
		c, err := types.ParseConfiguration(flags.configuration)
		if err != nil {
			return req, flagError("configuration", flags.configuration, err)
		}
		req.Configuration = c
	}
	if changed("platform") {
		req.Platform = types.Platform(strings.ToLower(strings.TrimSpace(flags.platform)))
	}
	if req.Platform == "" {
		req.Platform = types.HostPlatform()
	}
	if changed("jobs") {
		req.Jobs = flags.jobs
	}
	if changed("install-tree") {
		req.InstallTree = flags.installTree
	}
	if changed("headers-dir") {
		req.HeadersDir = flags.headersDir
	}
	if changed("wrap") {
		mode := config.WrapMode(flags.wrap)
		if err := mode.Validate(); err != nil {
			return req, flagError("wrap", flags.wrap, err)
		}
		req.Wrap = mode.Override()
	}
	if changed("result-file") {
		req.ResultFile = flags.resultFile
	} else if req.ResultFile == "" {
		req.ResultFile = ci.DefaultResultFile(getenv)
	}
	if changed("generator") {
		req.CMake.Generator = flags.generator
	}

	extra := strings.TrimSpace(cfg.CMake.ExtraArgs + " " + flags.cmakeArgs)
	if extra != "" {
		args, err := toolchain.ParseArgs(extra, getenv)
		if err != nil {
			return req, flagError("cmake-args", extra, err)
		}
		req.CMake.ExtraArgs = args
	}

	if epoch := strings.TrimSpace(getenv(sourceDateEpochEnv)); epoch != "" {
		secs, err := strconv.ParseInt(epoch, 10, 64)
		if err != nil || secs < 0 {
			return req, flagError(sourceDateEpochEnv, epoch, fmt.Errorf("must be a non-negative integer"))
		}
		req.ModTime = time.Unix(secs, 0).UTC()
	}

	return req, nil
}

func flagError(field, value string, err error) error {
	return &pipeline.ConfigurationError{Field: field, Value: value, Reason: "invalid value", Err: err}
}

func printResult(app *App, res *pipeline.Result) {
	w := app.stdout
	fmt.Fprintf(w, "%s Packaged %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(res.Archive.Path))
	for _, s := range res.Selections {
		fmt.Fprintf(w, "  %s %s %s\n", s.Dest, SubtitleStyle.Render("<-"), s.Selected.Path)
	}
	fmt.Fprintf(w, "  %s %d files, %d bytes\n", SubtitleStyle.Render("size:"), res.Archive.Files, res.Archive.Size)
	fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("blake3:"), res.Archive.Digest)
	if res.ChecksumPath != "" {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("checksum:"), res.ChecksumPath)
	}
	if res.ReportPath != "" {
		fmt.Fprintf(w, "  %s %s\n", SubtitleStyle.Render("report:"), res.ReportPath)
	}
}
