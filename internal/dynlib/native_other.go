// SPDX-License-Identifier: MPL-2.0

//go:build !linux && !darwin

package dynlib

import "github.com/strus/strusmod/pkg/module"

// NativeOpener is unavailable on this platform; Open always fails.
type NativeOpener struct{}

var _ Opener = NativeOpener{}

// EntryPointSymbol implements Opener.
func (NativeOpener) EntryPointSymbol() string { return module.NativeEntryPointSymbol }

// Open implements Opener.
func (NativeOpener) Open(path string) (Library, error) {
	return nil, &OpenError{Path: path, Err: ErrUnsupported}
}
