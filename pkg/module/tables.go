// SPDX-License-Identifier: MPL-2.0

package module

type (
	// Constructor is one factory table entry: a component name and the
	// function creating it. An entry with a nil Create is ignored.
	Constructor[T any] struct {
		Name   string
		Create func(eb ErrorBuffer) (T, error)
	}

	// TraceLoggerConstructor creates trace loggers from a configuration string.
	TraceLoggerConstructor struct {
		Name   string
		Create func(config string, eb ErrorBuffer) (TraceLogger, error)
	}

	// Payload is the kind-specific part of an entry point. It is implemented
	// only by *AnalyzerModule, *StorageModule and *TraceModule.
	Payload interface {
		Kind() Kind
		sealed()
	}

	// AnalyzerModule lists the analyzer factories a module contributes.
	AnalyzerModule struct {
		DocumentClassDetectors []Constructor[DocumentClassDetector]
		Segmenters             []Constructor[Segmenter]
		Tokenizers             []Constructor[Tokenizer]
		Normalizers            []Constructor[Normalizer]
		Aggregators            []Constructor[Aggregator]
	}

	// StorageModule lists the storage factories a module contributes.
	StorageModule struct {
		Databases             []Constructor[Database]
		StatisticsProcessors  []Constructor[StatisticsProcessor]
		VectorStorages        []Constructor[VectorStorage]
		PostingJoinOperators  []Constructor[PostingJoinOperator]
		WeightingFunctions    []Constructor[WeightingFunction]
		SummarizerFunctions   []Constructor[SummarizerFunction]
		ScalarFunctionParsers []Constructor[ScalarFunctionParser]
	}

	// TraceModule lists the trace logger factories a module contributes.
	TraceModule struct {
		TraceLoggers []TraceLoggerConstructor
	}
)

func (*AnalyzerModule) Kind() Kind { return KindAnalyzer }
func (*StorageModule) Kind() Kind  { return KindStorage }
func (*TraceModule) Kind() Kind    { return KindTrace }

func (*AnalyzerModule) sealed() {}
func (*StorageModule) sealed()  {}
func (*TraceModule) sealed()    {}

// Each calls fn for every entry of table that has a Create function, in table order.
func Each[T any](table []Constructor[T], fn func(c Constructor[T])) {
	for _, c := range table {
		if c.Create == nil {
			continue
		}
		fn(c)
	}
}

// EmptyPayload returns a payload of kind without any factory tables, or nil
// for an unknown kind.
func EmptyPayload(kind Kind) Payload {
	switch kind {
	case KindAnalyzer:
		return &AnalyzerModule{}
	case KindStorage:
		return &StorageModule{}
	case KindTrace:
		return &TraceModule{}
	default:
		return nil
	}
}
