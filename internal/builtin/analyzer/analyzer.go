// SPDX-License-Identifier: MPL-2.0

package analyzer

import (
	"github.com/strus/strusmod/pkg/module"
)

// Component names of the built-in defaults.
const (
	DefaultDetector   = "std"
	DefaultSegmenter  = "plain"
	DefaultTokenizer  = "word"
	DefaultNormalizer = "orig"
	DefaultAggregator = "count"
)

// Module returns the built-in components as an analyzer module payload.
// Entries named "" are the defaults used when a lookup gives no name.
func Module() *module.AnalyzerModule {
	return &module.AnalyzerModule{
		DocumentClassDetectors: []module.Constructor[module.DocumentClassDetector]{
			{Name: DefaultDetector, Create: newClassDetector},
			{Name: "", Create: newClassDetector},
		},
		Segmenters: []module.Constructor[module.Segmenter]{
			{Name: DefaultSegmenter, Create: constant[module.Segmenter](plainSegmenter{})},
			{Name: "lines", Create: constant[module.Segmenter](lineSegmenter{})},
			{Name: "", Create: constant[module.Segmenter](plainSegmenter{})},
		},
		Tokenizers: []module.Constructor[module.Tokenizer]{
			{Name: DefaultTokenizer, Create: constant[module.Tokenizer](wordTokenizer{})},
			{Name: "split", Create: constant[module.Tokenizer](splitTokenizer{})},
			{Name: "content", Create: constant[module.Tokenizer](contentTokenizer{})},
			{Name: "", Create: constant[module.Tokenizer](wordTokenizer{})},
		},
		Normalizers: []module.Constructor[module.Normalizer]{
			{Name: DefaultNormalizer, Create: constant[module.Normalizer](origNormalizer{})},
			{Name: "lc", Create: constant[module.Normalizer](lowercase{})},
			{Name: "uc", Create: constant[module.Normalizer](uppercase{})},
			{Name: "nfc", Create: constant[module.Normalizer](nfc{})},
			{Name: "nfkc", Create: constant[module.Normalizer](nfkc{})},
			{Name: "stem", Create: constant[module.Normalizer](suffixStemmer{})},
			{Name: "", Create: constant[module.Normalizer](origNormalizer{})},
		},
		Aggregators: []module.Constructor[module.Aggregator]{
			{Name: DefaultAggregator, Create: constant[module.Aggregator](countAggregator{})},
			{Name: "maxpos", Create: constant[module.Aggregator](maxPosAggregator{})},
			{Name: "", Create: constant[module.Aggregator](countAggregator{})},
		},
	}
}

// constant returns a factory for a stateless component.
func constant[T any](v T) func(module.ErrorBuffer) (T, error) {
	return func(module.ErrorBuffer) (T, error) { return v, nil }
}
