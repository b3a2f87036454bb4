// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newPathsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "paths [module]...",
		Short: "Show the module search path and candidate files",
		Long: `Show the module search directories in probing order with their origin,
the resource directories and the working directory. For every module
argument, list the files a load would probe and mark those that exist.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			reg, _ := s.newRegistry()
			defer reg.Close()

			fmt.Fprintln(app.stdout, TitleStyle.Render("module search path"))
			for _, d := range reg.SearchDirs() {
				fmt.Fprintf(app.stdout, "  %s %s\n", d.Path, SubtitleStyle.Render("("+d.Source.String()+")"))
			}
			fmt.Fprintln(app.stdout, TitleStyle.Render("resource path"))
			for _, d := range reg.ResourcePaths() {
				fmt.Fprintf(app.stdout, "  %s\n", d)
			}
			if wd := reg.WorkingDirectory(); wd != "" {
				fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("working directory"), wd)
			}

			for _, name := range args {
				candidates, err := reg.ModuleLoadTryPaths(name)
				if err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprintln(app.stdout, TitleStyle.Render("candidates for "+name))
				for _, p := range candidates {
					mark := " "
					if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
						mark = SuccessStyle.Render("*")
					}
					fmt.Fprintf(app.stdout, "%s %s\n", mark, p)
				}
			}
			return nil
		},
	}
}
