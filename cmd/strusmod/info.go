// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/strus/strusmod/internal/loader"
	"github.com/strus/strusmod/internal/locator"
	"github.com/strus/strusmod/pkg/module"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentInspections bounds how many modules info opens at once.
const maxConcurrentInspections = 4

// moduleReport is the output for one info argument. Trace lines go to
// stderr and result lines to stdout.
type moduleReport struct {
	trace  []string
	result []string
}

func newInfoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info [module|path]...",
		Short: "Print the interface versions of modules",
		Long: `Print the module format and component interface versions of modules.

An argument containing a path separator or ending with the module file
extension is opened directly. Any other argument is a module name searched
on the module search path; every probed path is printed to stderr.

Each module ends with a line "status ok" or "status error: <message>".
The exit status is 0 whatever the status of the individual modules.`,
		Example: `  strusmod info normalizer_snowball
  strusmod info /usr/lib/strus/modules/modstrus_storage_vector.so`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stderr, "expected module path as argument")
				fmt.Fprint(app.stderr, cmd.UsageString())
				return nil
			}

			s, err := app.newSession(cmd.Context())
			if err != nil {
				return app.fail(cmd, err)
			}

			for _, r := range s.inspectModules(cmd.Context(), args) {
				for _, line := range r.trace {
					fmt.Fprintln(app.stderr, SubtitleStyle.Render(line))
				}
				for _, line := range r.result {
					fmt.Fprintln(app.stdout, line)
				}
			}
			return nil
		},
	}
}

// inspectModules inspects every argument concurrently and returns the
// reports in argument order.
func (s *session) inspectModules(ctx context.Context, args []string) []moduleReport {
	reports := make([]moduleReport, len(args))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentInspections)
	for i, arg := range args {
		g.Go(func() error {
			if ctx.Err() != nil {
				reports[i].status(ctx.Err())
				return nil
			}
			reports[i] = s.inspect(arg)
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

func (s *session) inspect(arg string) moduleReport {
	var r moduleReport

	reg, _ := s.newRegistry()
	defer func() {
		if err := reg.Close(); err != nil {
			s.logger.Warn("failed to close module", "module", arg, "error", err)
		}
	}()

	var err error
	if locator.IsPath(arg) {
		r.trace = append(r.trace, "load module "+arg)
		err = reg.LoadModuleFile(arg)
	} else {
		r.trace = append(r.trace, "search module "+arg)
		err = reg.LoadModule(arg)
		var tried []string
		var le *loader.LoadError
		switch {
		case err == nil:
			tried = reg.Records()[0].Tried
		case errors.As(err, &le):
			tried = le.Tried
		}
		for _, p := range tried {
			r.trace = append(r.trace, fmt.Sprintf("try path '%s'", p))
		}
	}
	if err != nil {
		r.status(err)
		return r
	}

	h := reg.Records()[0].EntryPoint.Header
	r.result = append(r.result, "module "+h.ModuleVersion())
	if major, minor, ok := module.Expected(h.Kind); ok {
		r.result = append(r.result, fmt.Sprintf("type %s %d.%d", h.Kind, major, minor))
	} else {
		r.result = append(r.result, "type unknown")
	}
	if h.ThirdPartyVersion != "" {
		r.result = append(r.result, "3rd party version "+h.ThirdPartyVersion)
	}
	if h.ThirdPartyLicense != "" {
		r.result = append(r.result, "3rd party license "+h.ThirdPartyLicense)
	}
	r.status(nil)
	return r
}

func (r *moduleReport) status(err error) {
	switch {
	case err == nil:
		r.result = append(r.result, "status ok")
	case errors.Is(err, locator.ErrModuleNotFound):
		r.result = append(r.result, "status error: not found")
	default:
		r.result = append(r.result, "status error: "+err.Error())
	}
}
