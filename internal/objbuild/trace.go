// SPDX-License-Identifier: MPL-2.0

package objbuild

import (
	"fmt"

	"github.com/strus/strusmod/internal/builtin/trace"
	"github.com/strus/strusmod/internal/cfgstr"
	"github.com/strus/strusmod/pkg/module"
)

// PointTraceLogger is the trace extension point name.
const PointTraceLogger = "trace logger"

type (
	// TraceLoggerFactory creates trace loggers from a configuration string.
	TraceLoggerFactory func(config string, eb module.ErrorBuffer) (module.TraceLogger, error)

	// TraceBuilder resolves trace logger factories by name.
	TraceBuilder struct {
		loggers *Registry[TraceLoggerFactory]
		errbuf  module.ErrorBuffer

		logger       string
		loggerConfig string
	}
)

// NewTraceBuilder installs the built-in trace loggers and overlays the given
// module payloads in order. config is "logger=<name>; <logger parameters>";
// the named logger must be defined.
func NewTraceBuilder(sources []Source[*module.TraceModule], config string, opts ...Option) (*TraceBuilder, error) {
	o := newOptions(opts)
	cfg, err := cfgstr.Parse(config)
	if err != nil {
		return nil, err
	}
	b := &TraceBuilder{
		loggers: NewRegistry[TraceLoggerFactory](PointTraceLogger),
		errbuf:  o.errbuf,
	}
	b.logger, _ = cfg.Take("logger")
	b.loggerConfig = cfg.String()

	all := append([]Source[*module.TraceModule]{{Name: BuiltinSource, Payload: trace.Module()}}, sources...)
	for _, src := range all {
		if src.Payload == nil {
			continue
		}
		for _, c := range src.Payload.TraceLoggers {
			if c.Create == nil {
				continue
			}
			b.loggers.Define(c.Name, c.Create)
			o.logger.Debug("defined component", "point", PointTraceLogger, "name", c.Name, "module", src.Name)
		}
	}
	if _, err := b.loggers.Get(b.logger); err != nil {
		return nil, fmt.Errorf("invalid trace configuration: %w", err)
	}
	return b, nil
}

// CreateTraceLogger creates the named logger with config.
func (b *TraceBuilder) CreateTraceLogger(name, config string) (module.TraceLogger, error) {
	create, err := b.loggers.Get(name)
	if err != nil {
		return nil, err
	}
	l, err := create(config, b.errbuf)
	if err == nil && l == nil {
		err = errorString("factory returned nothing")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s '%s': %w", PointTraceLogger, name, err)
	}
	return l, nil
}

// CreateConfiguredTraceLogger creates the logger named by the builder configuration.
func (b *TraceBuilder) CreateConfiguredTraceLogger() (module.TraceLogger, error) {
	return b.CreateTraceLogger(b.logger, b.loggerConfig)
}

// Points lists the trace extension point.
func (b *TraceBuilder) Points() []ExtensionPoint {
	return []ExtensionPoint{b.loggers.ExtensionPoint()}
}
