// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/strus/strusmod/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "strusmod",
		Short: "Inspect and load strus extension modules",
		Long: TitleStyle.Render("strusmod") + SubtitleStyle.Render(" - Inspect and load strus extension modules") + `

strusmod finds strus modules on the module search path, checks that
their binary interface matches this build and registers the analyzer,
storage and trace components they provide.

` + SubtitleStyle.Render("Module search order:") + `
  1. Directories given with --module-path or module_paths
  2. Directories listed in STRUS_MODULE_PATH
  3. The system module directories, when no directory was given

` + SubtitleStyle.Render("Examples:") + `
  strusmod info normalizer_snowball        Show the version of a module
  strusmod info ./modstrus_stem.so         Inspect a module file
  strusmod load -M ./modules stem          Load a module and list components
  strusmod paths stem                      Show where a module is searched`,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/strusmod/config.cue)")
	flags.BoolVarP(&app.flags.debug, "debug", "G", false, "enable debug logging")
	flags.BoolVar(&app.flags.verbose, "verbose", false, "show error chains and troubleshooting guides")
	flags.StringArrayVarP(&app.flags.modulePaths, "module-path", "M", nil, "add a module search directory (repeatable)")
	flags.StringArrayVarP(&app.flags.resourcePaths, "resource-path", "R", nil, "add a resource directory (repeatable)")
	flags.StringVarP(&app.flags.workdir, "workdir", "W", "", "working directory for storage files")
	flags.BoolVar(&app.flags.native, "native", false, "load modules as C shared libraries")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("%w\n\n%s", err, c.UsageString())}
	})
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newInfoCommand(app))
	rootCmd.AddCommand(newLoadCommand(app))
	rootCmd.AddCommand(newPathsCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with the status of the command.
func Execute() {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// fail prints err in its actionable form and returns an ExitError, so fang
// does not print the message a second time.
func (a *App) fail(cmd *cobra.Command, err error) error {
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.flags.verbose))
	cmd.SilenceErrors = true
	return &ExitError{Code: ExitFailure, Err: err}
}

// formatErrorForDisplay formats an error for user display, using the
// actionable form when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
