// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin

package dynlib

import (
	"fmt"
	"unsafe"

	"github.com/strus/strusmod/pkg/module"

	"github.com/ebitengine/purego"
)

// maxAttributionLen bounds attribution strings read from module memory.
const maxAttributionLen = 64 * 1024

type (
	// NativeOpener opens C-ABI modules with the platform dynamic loader.
	// Symbols are resolved immediately and exported globally so modules can
	// depend on symbols of previously loaded modules.
	NativeOpener struct{}

	nativeLibrary struct {
		path   string
		handle uintptr
		closed bool
	}
)

var _ Opener = NativeOpener{}

// EntryPointSymbol implements Opener.
func (NativeOpener) EntryPointSymbol() string { return module.NativeEntryPointSymbol }

// Open implements Opener.
func (NativeOpener) Open(path string) (Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &nativeLibrary{path: path, handle: h}, nil
}

func (l *nativeLibrary) Path() string { return l.path }

// Lookup resolves symbol and decodes the entry point header it points to.
// The returned *module.EntryPoint carries an empty payload of the declared
// kind because C factory tables are not callable from Go.
func (l *nativeLibrary) Lookup(symbol string) (any, error) {
	if l.closed {
		return nil, ErrClosed
	}
	addr, err := purego.Dlsym(l.handle, symbol)
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, fmt.Errorf("symbol %s resolves to null", symbol)
	}

	raw := unsafe.Slice((*byte)(unsafe.Pointer(addr)), module.NativeHeaderSize)
	h, err := module.DecodeNativeHeader(raw)
	if err != nil {
		return nil, err
	}
	if h.Signature == module.HostSignature() && h.HasNativeAttribution() {
		ptrs := unsafe.Slice((*uintptr)(unsafe.Pointer(addr+uintptr(module.NativeAttributionOffset))), 2)
		h.ThirdPartyVersion = cString(ptrs[0])
		h.ThirdPartyLicense = cString(ptrs[1])
	}
	return &module.EntryPoint{Header: h, Payload: module.EmptyPayload(h.Kind)}, nil
}

func (l *nativeLibrary) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return purego.Dlclose(l.handle)
}

func cString(p uintptr) string {
	if p == 0 {
		return ""
	}
	var n int
	for n < maxAttributionLen && *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}
