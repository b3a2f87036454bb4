// SPDX-License-Identifier: MPL-2.0

package objbuild

import (
	"errors"
	"fmt"

	"github.com/strus/strusmod/internal/builtin/analyzer"
	"github.com/strus/strusmod/pkg/module"
)

// Analyzer extension point names.
const (
	PointDocumentClassDetector = "document class detector"
	PointSegmenter             = "segmenter"
	PointTokenizer             = "tokenizer"
	PointNormalizer            = "normalizer"
	PointAggregator            = "aggregator"
)

type (
	// AnalyzerBuilder resolves analyzer components by name.
	AnalyzerBuilder struct {
		detectors   *Registry[module.DocumentClassDetector]
		segmenters  *Registry[module.Segmenter]
		tokenizers  *Registry[module.Tokenizer]
		normalizers *Registry[module.Normalizer]
		aggregators *Registry[module.Aggregator]
	}

	// AnalyzerConfig names the components of an analyzer. Empty names select
	// the defaults; no normalizer means the default normalizer.
	AnalyzerConfig struct {
		Segmenter   string
		Tokenizer   string
		Normalizers []string
		Aggregators []string
	}

	// Analyzer turns documents into terms.
	Analyzer struct {
		detector    module.DocumentClassDetector
		segmenter   module.Segmenter
		tokenizer   module.Tokenizer
		normalizers []module.Normalizer
		aggregators []namedAggregator
	}

	namedAggregator struct {
		name string
		agg  module.Aggregator
	}

	// Analysis is the result of analyzing one document.
	Analysis struct {
		Class      module.DocumentClass
		Terms      []module.Term
		Aggregates map[string]float64
	}
)

// NewAnalyzerBuilder installs the built-in analyzer components and overlays
// the given module payloads in order.
func NewAnalyzerBuilder(sources []Source[*module.AnalyzerModule], opts ...Option) *AnalyzerBuilder {
	o := newOptions(opts)
	b := &AnalyzerBuilder{
		detectors:   NewRegistry[module.DocumentClassDetector](PointDocumentClassDetector),
		segmenters:  NewRegistry[module.Segmenter](PointSegmenter),
		tokenizers:  NewRegistry[module.Tokenizer](PointTokenizer),
		normalizers: NewRegistry[module.Normalizer](PointNormalizer),
		aggregators: NewRegistry[module.Aggregator](PointAggregator),
	}
	all := append([]Source[*module.AnalyzerModule]{{Name: BuiltinSource, Payload: analyzer.Module()}}, sources...)
	for _, src := range all {
		if src.Payload == nil {
			continue
		}
		install(b.detectors, src.Payload.DocumentClassDetectors, src.Name, &o)
		install(b.segmenters, src.Payload.Segmenters, src.Name, &o)
		install(b.tokenizers, src.Payload.Tokenizers, src.Name, &o)
		install(b.normalizers, src.Payload.Normalizers, src.Name, &o)
		install(b.aggregators, src.Payload.Aggregators, src.Name, &o)
	}
	return b
}

// DocumentClassDetector returns the named document class detector, or the default for "".
func (b *AnalyzerBuilder) DocumentClassDetector(name string) (module.DocumentClassDetector, error) {
	return b.detectors.Get(name)
}

// Segmenter returns the named segmenter.
func (b *AnalyzerBuilder) Segmenter(name string) (module.Segmenter, error) {
	return b.segmenters.Get(name)
}

// Tokenizer returns the named tokenizer.
func (b *AnalyzerBuilder) Tokenizer(name string) (module.Tokenizer, error) {
	return b.tokenizers.Get(name)
}

// Normalizer returns the named normalizer.
func (b *AnalyzerBuilder) Normalizer(name string) (module.Normalizer, error) {
	return b.normalizers.Get(name)
}

// Aggregator returns the named aggregator.
func (b *AnalyzerBuilder) Aggregator(name string) (module.Aggregator, error) {
	return b.aggregators.Get(name)
}

// Points lists the analyzer extension points and their components.
func (b *AnalyzerBuilder) Points() []ExtensionPoint {
	return []ExtensionPoint{
		b.detectors.ExtensionPoint(),
		b.segmenters.ExtensionPoint(),
		b.tokenizers.ExtensionPoint(),
		b.normalizers.ExtensionPoint(),
		b.aggregators.ExtensionPoint(),
	}
}

// CreateAnalyzer resolves every component named by cfg.
func (b *AnalyzerBuilder) CreateAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	var errs []error
	a := &Analyzer{}
	var err error

	// A missing detector is not fatal: documents are analyzed unclassified.
	a.detector, _ = b.detectors.Get("")
	if a.segmenter, err = b.segmenters.Get(cfg.Segmenter); err != nil {
		errs = append(errs, err)
	}
	if a.tokenizer, err = b.tokenizers.Get(cfg.Tokenizer); err != nil {
		errs = append(errs, err)
	}
	normalizers := cfg.Normalizers
	if len(normalizers) == 0 {
		normalizers = []string{""}
	}
	for _, name := range normalizers {
		n, err := b.normalizers.Get(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		a.normalizers = append(a.normalizers, n)
	}
	for _, name := range cfg.Aggregators {
		agg, err := b.aggregators.Get(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		a.aggregators = append(a.aggregators, namedAggregator{name: name, agg: agg})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to create analyzer: %w", errors.Join(errs...))
	}
	return a, nil
}

// Analyze segments, tokenizes and normalizes content. Terms are numbered
// from 1 in document order; tokens normalized to the empty string are dropped.
func (a *Analyzer) Analyze(content []byte) (*Analysis, error) {
	res := &Analysis{Aggregates: make(map[string]float64, len(a.aggregators))}
	if a.detector != nil {
		res.Class, _ = a.detector.Detect(content)
	}
	segs, err := a.segmenter.Segment(content)
	if err != nil {
		return nil, fmt.Errorf("failed to segment document: %w", err)
	}
	pos := 0
	for _, seg := range segs {
		for _, tok := range a.tokenizer.Tokenize(seg.Text) {
			value := tok.Text
			for _, n := range a.normalizers {
				value = n.Normalize(value)
			}
			if value == "" {
				continue
			}
			pos++
			res.Terms = append(res.Terms, module.Term{Pos: pos, Value: value})
		}
	}
	for _, na := range a.aggregators {
		res.Aggregates[na.name] = na.agg.Aggregate(res.Terms)
	}
	return res, nil
}
