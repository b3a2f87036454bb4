// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// ErrArity is returned when a join operator gets too few arguments.
var ErrArity = errors.New("wrong number of join arguments")

type (
	intersectOp struct{}
	unionOp     struct{}
	diffOp      struct{}
	// atLeastOp selects documents present in at least rng arguments; rng <= 0
	// means all of them.
	atLeastOp struct{}
)

func (intersectOp) Join(args []*roaring.Bitmap, _ int) (*roaring.Bitmap, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: intersect needs at least one argument", ErrArity)
	}
	return roaring.FastAnd(args...), nil
}

func (unionOp) Join(args []*roaring.Bitmap, _ int) (*roaring.Bitmap, error) {
	return roaring.FastOr(args...), nil
}

// Join returns the documents of the first argument missing from all others.
func (diffOp) Join(args []*roaring.Bitmap, _ int) (*roaring.Bitmap, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: diff needs at least one argument", ErrArity)
	}
	res := args[0].Clone()
	for _, b := range args[1:] {
		res.AndNot(b)
	}
	return res, nil
}

func (atLeastOp) Join(args []*roaring.Bitmap, rng int) (*roaring.Bitmap, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: atleast needs at least one argument", ErrArity)
	}
	if rng <= 0 || rng > len(args) {
		rng = len(args)
	}
	res := roaring.New()
	it := roaring.FastOr(args...).Iterator()
	for it.HasNext() {
		doc := it.Next()
		n := 0
		for _, b := range args {
			if b.Contains(doc) {
				n++
			}
		}
		if n >= rng {
			res.Add(doc)
		}
	}
	return res, nil
}
