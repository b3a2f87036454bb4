// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/strus/strusmod/pkg/module"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
)

// resultField holds the expression in the generated CUE source.
const resultField = "result"

var (
	// ErrScalarSyntax is returned for expressions or argument names CUE rejects.
	ErrScalarSyntax = errors.New("invalid scalar function")
	// ErrScalarEval is returned when a call does not yield a number.
	ErrScalarEval = errors.New("scalar function evaluation failed")
)

type (
	// cueParser compiles arithmetic expressions with CUE. Arguments are
	// declared as numbers and bound on every call:
	//
	//	f, _ := cueParser{}.Parse("x * 2 + y", []string{"x", "y"})
	//	f.Call(1, 3) // 5
	cueParser struct{}

	cueFunction struct {
		mu    sync.Mutex
		value cue.Value
		args  []string
	}
)

func (cueParser) Parse(src string, args []string) (module.ScalarFunction, error) {
	var sb strings.Builder
	for _, a := range args {
		if !ast.IsValidIdent(a) || a == resultField || strings.HasPrefix(a, "_") {
			return nil, fmt.Errorf("%w: bad argument name %q", ErrScalarSyntax, a)
		}
		fmt.Fprintf(&sb, "%s: number\n", a)
	}
	fmt.Fprintf(&sb, "%s: %s\n", resultField, src)

	v := cuecontext.New().CompileString(sb.String())
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScalarSyntax, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScalarSyntax, err)
	}
	return &cueFunction{value: v, args: append([]string(nil), args...)}, nil
}

// Call binds args in declaration order and evaluates the expression.
func (f *cueFunction) Call(args ...float64) (float64, error) {
	if len(args) != len(f.args) {
		return 0, fmt.Errorf("%w: got %d arguments, want %d", ErrScalarEval, len(args), len(f.args))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	v := f.value
	for i, name := range f.args {
		v = v.FillPath(cue.ParsePath(name), args[i])
	}
	res := v.LookupPath(cue.ParsePath(resultField))
	if err := res.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrScalarEval, err)
	}
	switch res.Kind() {
	case cue.IntKind:
		n, err := res.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrScalarEval, err)
		}
		return float64(n), nil
	case cue.FloatKind:
		x, err := res.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrScalarEval, err)
		}
		return x, nil
	default:
		return 0, fmt.Errorf("%w: result is %s, not a number", ErrScalarEval, res.IncompleteKind())
	}
}
