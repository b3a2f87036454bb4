// SPDX-License-Identifier: MPL-2.0

package dynlib

import (
	"errors"
	"fmt"

	"github.com/strus/strusmod/pkg/module"
)

var (
	// ErrClosed is returned by Lookup after Close.
	ErrClosed = errors.New("library handle closed")
	// ErrUnsupported is returned when the platform cannot load the module format.
	ErrUnsupported = errors.New("dynamic loading not supported on this platform")
)

type (
	// Library is an opened module.
	Library interface {
		// Path is the file the library was opened from.
		Path() string
		// Lookup resolves an exported symbol.
		Lookup(symbol string) (any, error)
		// Close releases the handle. Calls after the first are no-ops.
		Close() error
	}

	// Opener opens module files.
	Opener interface {
		Open(path string) (Library, error)
		// EntryPointSymbol is the symbol name modules of this format export.
		EntryPointSymbol() string
	}

	// OpenError carries the platform loader diagnostic verbatim.
	OpenError struct {
		Path string
		Err  error
	}

	// LookupError is returned when a symbol is missing.
	LookupError struct {
		Path   string
		Symbol string
		Err    error
	}
)

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("%s '%s': %v", module.ErrOpenModule, e.Path, e.Err)
}

// Unwrap returns module.ErrOpenModule and the platform error.
func (e *OpenError) Unwrap() []error { return []error{module.ErrOpenModule, e.Err} }

// ErrorCode implements module.Coded.
func (e *OpenError) ErrorCode() module.ErrorCode { return module.ErrorOpenModule }

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("%s (symbol '%s' in '%s'): %v", module.ErrNoEntryPoint, e.Symbol, e.Path, e.Err)
}

// Unwrap returns module.ErrNoEntryPoint and the lookup error.
func (e *LookupError) Unwrap() []error { return []error{module.ErrNoEntryPoint, e.Err} }

// ErrorCode implements module.Coded.
func (e *LookupError) ErrorCode() module.ErrorCode { return module.ErrorNoEntryPoint }

// LoadEntryPoint opens path, resolves the entry point and validates it with
// module.Match. On any failure after a successful open the handle is closed
// before returning, so the caller only owns the Library on success.
func LoadEntryPoint(o Opener, path string) (Library, *module.EntryPoint, error) {
	lib, err := o.Open(path)
	if err != nil {
		return nil, nil, err
	}

	ep, err := entryPoint(lib, o.EntryPointSymbol())
	if err == nil {
		err = module.Match(ep.Header)
	}
	if err != nil {
		if cerr := lib.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
		return nil, nil, err
	}
	return lib, ep, nil
}

func entryPoint(lib Library, symbol string) (*module.EntryPoint, error) {
	sym, err := lib.Lookup(symbol)
	if err != nil {
		return nil, &LookupError{Path: lib.Path(), Symbol: symbol, Err: err}
	}
	ep, err := module.EntryPointFromSymbol(sym)
	if err != nil {
		return nil, &LookupError{Path: lib.Path(), Symbol: symbol, Err: err}
	}
	return ep, nil
}
