// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path"
	"strings"

	"github.com/invowk/shaderpack/internal/profile"
	"github.com/invowk/shaderpack/pkg/types"

	"github.com/spf13/cobra"
)

func newProfilesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List platform profiles and the files each package contains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listProfiles(app)
			return nil
		},
	}
}

func listProfiles(app *App) {
	w := app.stdout
	host := types.HostPlatform()

	for i, p := range profile.All() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title := TitleStyle.Render(p.Platform.String())
		if p.Platform == host {
			title += " " + SubtitleStyle.Render("(host)")
		}
		fmt.Fprintln(w, title)
		fmt.Fprintf(w, "  %s %s, wrapped: %v\n", KeyStyle.Render("archive:"), p.Format, p.WrapArchive)
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render("layout:"), strings.Join(p.Subdirs, ", "))
		for _, a := range p.Artifacts {
			fmt.Fprintf(w, "  %-24s %s\n", a.Name, path.Join(a.DestDir, a.Pattern))
		}
		for _, h := range p.Headers {
			fmt.Fprintf(w, "  %-24s %s\n", "header", path.Join(profile.IncludeDir, h))
		}
		if p.SupportsInstallTree() {
			names := make([]string, 0, len(p.Supplementary))
			for _, s := range p.Supplementary {
				names = append(names, path.Join(s.DestDir, s.Pattern))
			}
			fmt.Fprintf(w, "  %s install tree + %s\n", KeyStyle.Render("install-tree:"), strings.Join(names, ", "))
		}
	}
}
