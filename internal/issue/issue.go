// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a catalog entry.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidRequestId
	CMakeNotFoundId
	ExternalToolFailedId
	ArtifactNotFoundId
	HeaderMissingId
	ArchiveFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the entry as terminal markdown using the glamour style at
// stylePath ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(slices.Clone(i.docLinks), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The shaderpack configuration file could not be read or does not match the schema.

## Lookup order
1. The file passed with ` + "`--config`" + `
2. ` + "`shaderpack.cue`" + ` in the working directory
3. ` + "`config.cue`" + ` in the user configuration directory

## Things you can try:
- Show which file is used:
~~~
$ shaderpack config path
~~~

- Write a fresh file with every supported key:
~~~
$ shaderpack config init --force
~~~

## Example configuration:
~~~cue
configuration: "Release"
jobs: 8
cmake: generator: "Ninja"
packaging: checksum: true
~~~`,
	}

	invalidRequestIssue = &Issue{
		id: InvalidRequestId,
		mdMsg: `
# Invalid packaging request!

A directory, name or option passed to ` + "`shaderpack package`" + ` cannot be used.
Nothing was built and no archive was written.

## Common causes:
- The project directory does not exist
- The artifacts directory overlaps the project or build directory
- The archive name does not end in ` + "`.tar.gz`" + ` (Linux, macOS) or ` + "`.zip`" + ` (Windows)
- ` + "`--skip-build`" + ` was given without an existing ` + "`--build-dir`" + `
- ` + "`--install-tree`" + ` was requested for a platform that does not support it

## Things you can try:
~~~
$ shaderpack profiles
$ shaderpack package --help
~~~`,
	}

	cmakeNotFoundIssue = &Issue{
		id: CMakeNotFoundId,
		mdMsg: `
# CMake not found!

shaderpack drives the external build through CMake, but the binary could not be started.

## Things you can try:
- Install CMake and make sure it is on your PATH
- Point shaderpack at a specific binary:
~~~cue
cmake: binary: "/opt/cmake/bin/cmake"
~~~

- Package an existing build tree without running CMake:
~~~
$ shaderpack package --skip-build --build-dir ./build
~~~`,
		extLinks: []HttpLink{"https://cmake.org/download/"},
	}

	externalToolFailedIssue = &Issue{
		id: ExternalToolFailedId,
		mdMsg: `
# The external build failed!

CMake exited with a non-zero status while configuring, building or installing the
project. Its output above usually names the failing target.

## Things you can try:
- Re-run with verbose logging:
~~~
$ shaderpack --verbose package
~~~

- Pass extra configure arguments:
~~~
$ shaderpack package --cmake-args "-DLLVM_ENABLE_ASSERTIONS=OFF"
~~~

- Run the printed command line by hand inside the build directory`,
	}

	artifactNotFoundIssue = &Issue{
		id: ArtifactNotFoundId,
		mdMsg: `
# Build artifact not found!

A library required by the platform profile was not found anywhere in the build tree,
so the package would be incomplete. No archive was written.

## Common causes:
- The build did not produce the library (check the build output)
- The build directory points at a different or older build
- The packaging platform does not match the platform the project was built for

## Things you can try:
- List what the profile expects:
~~~
$ shaderpack profiles
~~~

- Package for the platform the tree was built for:
~~~
$ shaderpack package --skip-build --build-dir ./build --platform linux
~~~`,
	}

	headerMissingIssue = &Issue{
		id: HeaderMissingId,
		mdMsg: `
# API header missing!

A public header that belongs in the package is missing from the project's header
directory. No archive was written.

## Things you can try:
- Check that the project checkout is complete
- Point shaderpack at the directory holding the headers:
~~~
$ shaderpack package --headers-dir include/dxc
~~~`,
	}

	archiveFailedIssue = &Issue{
		id: ArchiveFailedId,
		mdMsg: `
# Failed to create the archive!

The package layout was assembled but compressing it failed. Any partial archive has
been removed.

## Common causes:
- The disk is full
- The artifacts directory is not writable
- The layout contains a file type that cannot be archived (sockets, devices)`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidRequestIssue.Id():     invalidRequestIssue,
		cmakeNotFoundIssue.Id():      cmakeNotFoundIssue,
		externalToolFailedIssue.Id(): externalToolFailedIssue,
		artifactNotFoundIssue.Id():   artifactNotFoundIssue,
		headerMissingIssue.Id():      headerMissingIssue,
		archiveFailedIssue.Id():      archiveFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
