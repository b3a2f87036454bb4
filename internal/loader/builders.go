// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"github.com/strus/strusmod/internal/objbuild"
	"github.com/strus/strusmod/pkg/module"
)

// CreateAnalyzerObjectBuilder builds the analyzer components of the built-ins
// and every loaded analyzer module.
func (r *Registry) CreateAnalyzerObjectBuilder() (*objbuild.AnalyzerBuilder, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return objbuild.NewAnalyzerBuilder(sources(r.records, (*module.EntryPoint).Analyzer), r.builderOptions()...), nil
}

// CreateStorageObjectBuilder builds the storage components of the built-ins
// and every loaded storage module.
func (r *Registry) CreateStorageObjectBuilder() (*objbuild.StorageBuilder, error) {
	if r.closed {
		return nil, ErrClosed
	}
	opts := append(r.builderOptions(), objbuild.WithStatisticsProcessor(r.statsProc))
	return objbuild.NewStorageBuilder(sources(r.records, (*module.EntryPoint).Storage), opts...)
}

// CreateTraceObjectBuilder builds the trace loggers of the built-ins and every
// loaded trace module. config selects the logger ("logger=<name>; ...").
func (r *Registry) CreateTraceObjectBuilder(config string) (*objbuild.TraceBuilder, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return objbuild.NewTraceBuilder(sources(r.records, (*module.EntryPoint).Trace), config, r.builderOptions()...)
}

func (r *Registry) builderOptions() []objbuild.Option {
	return []objbuild.Option{
		objbuild.WithLogger(r.logger),
		objbuild.WithErrorBuffer(r.errbuf),
		objbuild.WithFileLocator(r.files),
	}
}

func sources[P module.Payload](records []*Record, get func(*module.EntryPoint) (P, bool)) []objbuild.Source[P] {
	var out []objbuild.Source[P]
	for _, rec := range records {
		if p, ok := get(rec.EntryPoint); ok {
			out = append(out, objbuild.Source[P]{Name: rec.Name, Payload: p})
		}
	}
	return out
}
