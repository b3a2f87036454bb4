// SPDX-License-Identifier: MPL-2.0

package objbuild

import (
	"io"

	"github.com/strus/strusmod/pkg/module"

	"github.com/charmbracelet/log"
)

// BuiltinSource is the source name of the built-in components.
const BuiltinSource = "builtin"

type (
	// Source is one module payload overlaid onto a builder, named for logging.
	Source[P module.Payload] struct {
		Name    string
		Payload P
	}

	// Option configures a builder.
	Option func(*options)

	options struct {
		logger      *log.Logger
		errbuf      module.ErrorBuffer
		fileLocator module.FileLocator
		statsProc   string
	}
)

// WithLogger sets the logger for skipped factories and definitions.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithErrorBuffer sets the error buffer passed to every factory.
func WithErrorBuffer(eb module.ErrorBuffer) Option {
	return func(o *options) { o.errbuf = eb }
}

// WithFileLocator sets the file locator handed to databases and vector storages.
func WithFileLocator(fl module.FileLocator) Option {
	return func(o *options) { o.fileLocator = fl }
}

// WithStatisticsProcessor makes the named statistics processor the default.
func WithStatisticsProcessor(name string) Option {
	return func(o *options) { o.statsProc = name }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	return o
}

// install defines every working factory of table in reg. A factory that
// returns an error, a nil component or reports into the error buffer is
// skipped and its report is cleared. An error already pending in the buffer
// is held aside while the factories run and restored afterwards.
func install[T any](reg *Registry[T], table []module.Constructor[T], source string, o *options) {
	if len(table) == 0 {
		return
	}
	if o.errbuf != nil && o.errbuf.HasError() {
		code, msg := o.errbuf.Fetch()
		defer o.errbuf.Report(code, "%s", msg)
	}
	module.Each(table, func(c module.Constructor[T]) {
		v, err := c.Create(o.errbuf)
		if err == nil && o.errbuf != nil && o.errbuf.HasError() {
			_, msg := o.errbuf.Fetch()
			err = errorString(msg)
		}
		if err == nil && any(v) == nil {
			err = errorString("factory returned nothing")
		}
		if err != nil {
			if o.errbuf != nil {
				o.errbuf.Fetch()
			}
			o.logger.Warn("skipping component", "point", reg.Point(), "name", c.Name, "module", source, "error", err)
			return
		}
		reg.Define(c.Name, v)
		o.logger.Debug("defined component", "point", reg.Point(), "name", c.Name, "module", source)
	})
}

type errorString string

func (e errorString) Error() string { return string(e) }
