// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"strconv"

	"github.com/strus/strusmod/pkg/module"

	"github.com/RoaringBitmap/roaring/v2"
)

// matchPosSummarizer reports the terms whose position is in the match set.
type matchPosSummarizer struct{}

func (matchPosSummarizer) Summarize(terms []module.Term, matches *roaring.Bitmap) []module.SummaryElement {
	if matches == nil || matches.IsEmpty() {
		return nil
	}
	var out []module.SummaryElement
	for _, t := range terms {
		if t.Pos < 0 || !matches.Contains(uint32(t.Pos)) {
			continue
		}
		out = append(out, module.SummaryElement{
			Name:   "match:" + strconv.Itoa(t.Pos),
			Value:  t.Value,
			Weight: 1,
		})
	}
	return out
}
