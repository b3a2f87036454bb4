// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"errors"
	"fmt"
	"math"

	"github.com/strus/strusmod/pkg/module"
)

var (
	// ErrUnknownParameter is returned for parameters a function does not take.
	ErrUnknownParameter = errors.New("unknown weighting function parameter")
	// ErrStatistics is returned when the statistics cannot be weighted.
	ErrStatistics = errors.New("invalid weighting statistics")
)

type (
	tfWeighting       struct{}
	bm25Weighting     struct{}
	constantWeighting struct{}
)

// Weight returns tf scaled by "weight" (default 1).
func (tfWeighting) Weight(ctx module.WeightingContext, params map[string]float64) (float64, error) {
	if err := checkParams("tf", params, "weight"); err != nil {
		return 0, err
	}
	return ctx.TermFrequency * param(params, "weight", 1), nil
}

// Weight returns "weight" (default 1) for every match.
func (constantWeighting) Weight(_ module.WeightingContext, params map[string]float64) (float64, error) {
	if err := checkParams("constant", params, "weight"); err != nil {
		return 0, err
	}
	return param(params, "weight", 1), nil
}

// Weight computes Okapi BM25 with parameters k1 (default 1.5), b (default
// 0.75) and avgdoclen (default from the context).
func (bm25Weighting) Weight(ctx module.WeightingContext, params map[string]float64) (float64, error) {
	if err := checkParams("bm25", params, "k1", "b", "avgdoclen"); err != nil {
		return 0, err
	}
	k1 := param(params, "k1", 1.5)
	b := param(params, "b", 0.75)
	avgdl := param(params, "avgdoclen", ctx.AvgDocumentLength)

	if ctx.NofDocuments <= 0 || avgdl <= 0 {
		return 0, fmt.Errorf("%w: bm25 needs document count and average document length", ErrStatistics)
	}
	if ctx.TermFrequency <= 0 {
		return 0, nil
	}
	df := min(ctx.DocumentFrequency, ctx.NofDocuments)
	idf := math.Log(1 + (ctx.NofDocuments-df+0.5)/(df+0.5))
	tf := ctx.TermFrequency
	return idf * tf * (k1 + 1) / (tf + k1*(1-b+b*ctx.DocumentLength/avgdl)), nil
}

func checkParams(function string, params map[string]float64, allowed ...string) error {
next:
	for name := range params {
		for _, a := range allowed {
			if name == a {
				continue next
			}
		}
		return fmt.Errorf("%w: %s does not take %q", ErrUnknownParameter, function, name)
	}
	return nil
}

func param(params map[string]float64, name string, def float64) float64 {
	if v, ok := params[name]; ok {
		return v
	}
	return def
}
