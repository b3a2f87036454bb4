// SPDX-License-Identifier: MPL-2.0

package module

import "github.com/RoaringBitmap/roaring/v2"

// Collaborators handed to factories by the host.
type (
	// ErrorBuffer is the shared error-reporting sink. Factories and the host
	// report failures into it instead of panicking; callers check HasError
	// and Fetch the pending message.
	ErrorBuffer interface {
		// Report records a failure. A pending message is kept as context.
		Report(code ErrorCode, format string, args ...any)
		// Explain rewrites the pending message through format, which must
		// contain one %s verb. It does nothing without a pending error.
		Explain(format string)
		HasError() bool
		// Fetch returns the pending error and clears it.
		Fetch() (ErrorCode, string)
	}

	// FileLocator resolves resource files and the working directory for
	// components that read or write files.
	FileLocator interface {
		ResourcePaths() []string
		WorkingDirectory() string
		ResolveResource(name string) (string, error)
	}
)

// Analyzer components.
type (
	// DocumentClass describes the detected content type of a document.
	DocumentClass struct {
		MimeType string
		Encoding string
		Schema   string
	}

	// Segment is a contiguous piece of document content selected for analysis.
	Segment struct {
		Pos  int
		Text string
	}

	// Token is a unit produced by a tokenizer. Pos is the byte offset in the segment.
	Token struct {
		Pos  int
		Text string
	}

	// Term is a normalized token with its ordinal position in the document.
	Term struct {
		Pos   int
		Value string
	}

	DocumentClassDetector interface {
		Detect(content []byte) (DocumentClass, bool)
	}

	Segmenter interface {
		Segment(content []byte) ([]Segment, error)
	}

	Tokenizer interface {
		Tokenize(text string) []Token
	}

	Normalizer interface {
		Normalize(token string) string
	}

	Aggregator interface {
		Aggregate(terms []Term) float64
	}
)

// Storage components.
type (
	// DatabaseClient is an open key/value store.
	DatabaseClient interface {
		Get(key []byte) ([]byte, bool, error)
		Put(key, value []byte) error
		Delete(key []byte) error
		// Keys returns the stored keys with the given prefix in ascending order.
		Keys(prefix []byte) ([][]byte, error)
		Close() error
	}

	Database interface {
		CreateClient(config string, fl FileLocator) (DatabaseClient, error)
	}

	// DfChange is a document frequency delta for one term.
	DfChange struct {
		TermType  string
		TermValue string
		Delta     int64
	}

	// StatisticsMessage carries global statistics changes between storages.
	StatisticsMessage struct {
		NofDocumentsDelta int64
		DfChanges         []DfChange
	}

	StatisticsProcessor interface {
		Encode(msg StatisticsMessage) ([]byte, error)
		Decode(blob []byte) (StatisticsMessage, error)
	}

	// VectorMatch is one nearest neighbour result.
	VectorMatch struct {
		ID     uint32
		Weight float64
	}

	VectorStorageClient interface {
		Add(id uint32, vec []float32) error
		Nearest(vec []float32, k int) ([]VectorMatch, error)
		Close() error
	}

	VectorStorage interface {
		CreateClient(config string, fl FileLocator) (VectorStorageClient, error)
	}

	// PostingJoinOperator combines posting sets of document numbers.
	// Range is the operator-specific proximity argument, ignored by set operators.
	PostingJoinOperator interface {
		Join(args []*roaring.Bitmap, rng int) (*roaring.Bitmap, error)
	}

	// WeightingContext holds the statistics a weighting function reads.
	WeightingContext struct {
		TermFrequency     float64
		DocumentFrequency float64
		NofDocuments      float64
		DocumentLength    float64
		AvgDocumentLength float64
	}

	WeightingFunction interface {
		Weight(ctx WeightingContext, params map[string]float64) (float64, error)
	}

	// SummaryElement is one item of a result summary.
	SummaryElement struct {
		Name   string
		Value  string
		Weight float64
	}

	SummarizerFunction interface {
		Summarize(terms []Term, matches *roaring.Bitmap) []SummaryElement
	}

	ScalarFunction interface {
		Call(args ...float64) (float64, error)
	}

	ScalarFunctionParser interface {
		Parse(src string, args []string) (ScalarFunction, error)
	}
)

// Trace components.
type (
	// TraceEvent is one recorded method call.
	TraceEvent struct {
		Component string
		Method    string
		Args      []any
	}

	TraceLogger interface {
		Log(ev TraceEvent)
		Close() error
	}
)
