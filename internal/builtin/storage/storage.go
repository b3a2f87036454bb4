// SPDX-License-Identifier: MPL-2.0

package storage

import "github.com/strus/strusmod/pkg/module"

// Component names of the built-in defaults.
const (
	DefaultDatabase            = "memkv"
	DefaultStatisticsProcessor = "std"
	DefaultVectorStorage       = "std"
	DefaultScalarParser        = "cue"
)

// Module returns the built-in components as a storage module payload.
// Weighting functions, join operators and summarizers have no default.
func Module() *module.StorageModule {
	return &module.StorageModule{
		Databases: []module.Constructor[module.Database]{
			{Name: DefaultDatabase, Create: constant[module.Database](memDatabase{})},
			{Name: "", Create: constant[module.Database](memDatabase{})},
		},
		StatisticsProcessors: []module.Constructor[module.StatisticsProcessor]{
			{Name: DefaultStatisticsProcessor, Create: constant[module.StatisticsProcessor](zstdStatistics{})},
			{Name: "lz4", Create: constant[module.StatisticsProcessor](lz4Statistics{})},
			{Name: "", Create: constant[module.StatisticsProcessor](zstdStatistics{})},
		},
		VectorStorages: []module.Constructor[module.VectorStorage]{
			{Name: DefaultVectorStorage, Create: constant[module.VectorStorage](memVectorStorage{})},
			{Name: "", Create: constant[module.VectorStorage](memVectorStorage{})},
		},
		PostingJoinOperators: []module.Constructor[module.PostingJoinOperator]{
			{Name: "intersect", Create: constant[module.PostingJoinOperator](intersectOp{})},
			{Name: "union", Create: constant[module.PostingJoinOperator](unionOp{})},
			{Name: "diff", Create: constant[module.PostingJoinOperator](diffOp{})},
			{Name: "atleast", Create: constant[module.PostingJoinOperator](atLeastOp{})},
		},
		WeightingFunctions: []module.Constructor[module.WeightingFunction]{
			{Name: "tf", Create: constant[module.WeightingFunction](tfWeighting{})},
			{Name: "bm25", Create: constant[module.WeightingFunction](bm25Weighting{})},
			{Name: "constant", Create: constant[module.WeightingFunction](constantWeighting{})},
		},
		SummarizerFunctions: []module.Constructor[module.SummarizerFunction]{
			{Name: "matchpos", Create: constant[module.SummarizerFunction](matchPosSummarizer{})},
		},
		ScalarFunctionParsers: []module.Constructor[module.ScalarFunctionParser]{
			{Name: DefaultScalarParser, Create: constant[module.ScalarFunctionParser](cueParser{})},
			{Name: "", Create: constant[module.ScalarFunctionParser](cueParser{})},
		},
	}
}

func constant[T any](v T) func(module.ErrorBuffer) (T, error) {
	return func(module.ErrorBuffer) (T, error) { return v, nil }
}
