// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/strus/strusmod/internal/issue"
	"github.com/strus/strusmod/internal/loader"
	"github.com/strus/strusmod/internal/locator"
	"github.com/strus/strusmod/internal/objbuild"
	"github.com/strus/strusmod/pkg/errbuf"
	"github.com/strus/strusmod/pkg/module"

	"github.com/spf13/cobra"
)

// ErrLoadFailed is returned by load when at least one module failed.
var ErrLoadFailed = errors.New("failed to load modules")

type loadFlags struct {
	trace       string
	analyze     string
	normalizers []string
}

func newLoadCommand(app *App) *cobra.Command {
	var flags loadFlags

	cmd := &cobra.Command{
		Use:   "load [module|path]...",
		Short: "Load modules and list the components they provide",
		Long: `Load the modules listed in the configuration followed by the arguments,
then create the analyzer, storage and trace object builders and list every
extension point with the components defined for it.

Built-in components are always present; a module defining a name that is
already defined replaces it.`,
		Example: `  strusmod load -M ./build/modules normalizer_snowball
  strusmod load --analyze "Hello World" --normalizer stem stem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}
			if flags.trace == "" {
				flags.trace = s.cfg.Trace
			}
			return app.runLoad(cmd, s, append(append([]string(nil), s.cfg.Modules...), args...), flags)
		},
	}

	cmd.Flags().StringVar(&flags.trace, "trace", "", `trace builder configuration, e.g. "logger=count; file=trace.txt"`)
	cmd.Flags().StringVar(&flags.analyze, "analyze", "", "analyze a text with the loaded components and print its terms")
	cmd.Flags().StringArrayVar(&flags.normalizers, "normalizer", nil, "normalizer applied by --analyze (repeatable)")

	return cmd
}

func (a *App) runLoad(cmd *cobra.Command, s *session, names []string, flags loadFlags) error {
	reg, buf := s.newRegistry()
	defer func() {
		if err := reg.Close(); err != nil {
			s.logger.Warn("failed to close modules", "error", err)
		}
	}()

	tb, err := reg.CreateTraceObjectBuilder(flags.trace)
	if err != nil {
		return a.fail(cmd, err)
	}
	tracer, err := tb.CreateConfiguredTraceLogger()
	if err != nil {
		return a.fail(cmd, err)
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			s.logger.Warn("failed to close trace logger", "error", err)
		}
	}()

	failed := 0
	for _, name := range names {
		fmt.Fprintf(a.stdout, "load module %s\n", NameStyle.Render(name))
		err := loadOne(reg, name)
		tried := triedPaths(reg, err)
		for _, p := range tried {
			fmt.Fprintf(a.stdout, "try '%s'\n", p)
		}
		tracer.Log(module.TraceEvent{Component: "ModuleLoader", Method: "loadModule", Args: []any{name, err == nil}})
		if err != nil {
			failed++
			fmt.Fprintln(a.stdout, ErrorStyle.Render("failed."))
			a.reportLoadFailure(buf)
			continue
		}
		fmt.Fprintln(a.stdout, SuccessStyle.Render("ok."))
	}
	if failed > 0 {
		return a.fail(cmd, fmt.Errorf("%w: %d of %d", ErrLoadFailed, failed, len(names)))
	}

	// Builders see the modules loaded above, including the trace builder.
	tb, err = reg.CreateTraceObjectBuilder(flags.trace)
	if err != nil {
		return a.fail(cmd, err)
	}
	ab, err := reg.CreateAnalyzerObjectBuilder()
	if err != nil {
		return a.fail(cmd, err)
	}
	sb, err := reg.CreateStorageObjectBuilder()
	if err != nil {
		return a.fail(cmd, err)
	}

	printPoints(a.stdout, "analyzer", ab.Points())
	printPoints(a.stdout, "storage", sb.Points())
	printPoints(a.stdout, "trace", tb.Points())

	if flags.analyze != "" {
		return a.analyze(cmd, ab, flags)
	}
	return nil
}

func loadOne(reg *loader.Registry, name string) error {
	if locator.IsPath(name) {
		return reg.LoadModuleFile(name)
	}
	return reg.LoadModule(name)
}

// triedPaths returns the paths probed by the last load attempt.
func triedPaths(reg *loader.Registry, err error) []string {
	var le *loader.LoadError
	if errors.As(err, &le) {
		return le.Tried
	}
	if err != nil {
		return nil
	}
	records := reg.Records()
	return records[len(records)-1].Tried
}

// reportLoadFailure prints the pending error buffer message, and in verbose
// mode the troubleshooting guide for its error code.
func (a *App) reportLoadFailure(buf *errbuf.Buffer) {
	code, msg := buf.Fetch()
	if code == module.ErrorNone {
		return
	}
	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), msg)
	if !a.flags.verbose {
		return
	}
	if iss := issue.ForCode(code); iss != nil {
		if rendered, err := iss.Render("dark"); err == nil {
			fmt.Fprintln(a.stderr, rendered)
		}
	}
}

func printPoints(w io.Writer, title string, points []objbuild.ExtensionPoint) {
	fmt.Fprintln(w, TitleStyle.Render(title))
	for _, p := range points {
		names := strings.Join(p.Components, ", ")
		if p.HasDefault {
			names = strings.TrimPrefix(names+", (default)", ", ")
		}
		fmt.Fprintf(w, "  %s: %s\n", p.Name, names)
	}
}

func (a *App) analyze(cmd *cobra.Command, ab *objbuild.AnalyzerBuilder, flags loadFlags) error {
	an, err := ab.CreateAnalyzer(objbuild.AnalyzerConfig{Normalizers: flags.normalizers})
	if err != nil {
		return a.fail(cmd, err)
	}
	res, err := an.Analyze([]byte(flags.analyze))
	if err != nil {
		return a.fail(cmd, err)
	}
	fmt.Fprintln(a.stdout, TitleStyle.Render("analysis"))
	fmt.Fprintf(a.stdout, "  class: %s\n", res.Class.MimeType)
	for _, t := range res.Terms {
		fmt.Fprintf(a.stdout, "  %d %s\n", t.Pos, t.Value)
	}
	return nil
}
