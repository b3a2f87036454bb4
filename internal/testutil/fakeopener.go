// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"errors"
	"fmt"
	"sync"

	"github.com/strus/strusmod/internal/dynlib"
	"github.com/strus/strusmod/pkg/module"
)

// ErrNoSuchModule is the platform error FakeOpener reports for unknown paths.
var ErrNoSuchModule = errors.New("cannot open shared object file: No such file or directory")

type (
	// FakeOpener serves symbols from memory. Paths map to the value the entry
	// point symbol resolves to, usually a *module.EntryPoint. It records every
	// Open and Close so tests can assert which files were attempted and that
	// every handle was released.
	FakeOpener struct {
		mu sync.Mutex

		Symbols   map[string]any
		OpenErrs  map[string]error
		NoSymbols map[string]bool

		opened  []string
		closed  []string
		handles int
	}

	fakeLibrary struct {
		opener *FakeOpener
		path   string
		closed bool
	}
)

var _ dynlib.Opener = (*FakeOpener)(nil)

// NewFakeOpener returns an opener without any modules.
func NewFakeOpener() *FakeOpener {
	return &FakeOpener{
		Symbols:   map[string]any{},
		OpenErrs:  map[string]error{},
		NoSymbols: map[string]bool{},
	}
}

// Add registers ep under path and returns the opener for chaining.
func (o *FakeOpener) Add(path string, ep *module.EntryPoint) *FakeOpener {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Symbols[path] = ep
	return o
}

// EntryPointSymbol implements dynlib.Opener.
func (o *FakeOpener) EntryPointSymbol() string { return module.EntryPointSymbol }

// Open implements dynlib.Opener.
func (o *FakeOpener) Open(path string) (dynlib.Library, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.opened = append(o.opened, path)
	if err := o.OpenErrs[path]; err != nil {
		return nil, &dynlib.OpenError{Path: path, Err: err}
	}
	if _, ok := o.Symbols[path]; !ok && !o.NoSymbols[path] {
		return nil, &dynlib.OpenError{Path: path, Err: ErrNoSuchModule}
	}
	o.handles++
	return &fakeLibrary{opener: o, path: path}, nil
}

// Opened returns every path passed to Open, including failed attempts.
func (o *FakeOpener) Opened() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.opened...)
}

// Closed returns the closed paths in call order.
func (o *FakeOpener) Closed() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.closed...)
}

// OpenHandles returns how many opened libraries have not been closed yet.
func (o *FakeOpener) OpenHandles() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.handles
}

func (l *fakeLibrary) Path() string { return l.path }

func (l *fakeLibrary) Lookup(symbol string) (any, error) {
	if l.closed {
		return nil, dynlib.ErrClosed
	}
	l.opener.mu.Lock()
	defer l.opener.mu.Unlock()

	if symbol != module.EntryPointSymbol || l.opener.NoSymbols[l.path] {
		return nil, fmt.Errorf("symbol %s not found in %s", symbol, l.path)
	}
	return l.opener.Symbols[l.path], nil
}

func (l *fakeLibrary) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	l.opener.mu.Lock()
	defer l.opener.mu.Unlock()
	l.opener.closed = append(l.opener.closed, l.path)
	l.opener.handles--
	return nil
}
