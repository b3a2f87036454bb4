// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"fmt"
)

const (
	// Signature identifies the loader family. The trailing digit is the
	// module-format major version; a module built for another major version
	// carries another signature and is rejected outright.
	Signature = "strus0"
	// SignatureSize is the fixed width of the signature field. Unused bytes are zero.
	SignatureSize = 8

	// ModuleVersionMajor is the module-format major version embedded in Signature.
	ModuleVersionMajor = 0
	// ModuleVersionMinor is the newest module-format minor version this host understands.
	ModuleVersionMinor = 15

	// NamePrefix is prepended to logical module names to form file names.
	NamePrefix = "modstrus_"

	// EntryPointSymbol is the exported variable Go plugin modules declare.
	EntryPointSymbol = "EntryPoint"
	// NativeEntryPointSymbol is the symbol C-ABI modules export.
	NativeEntryPointSymbol = "entryPoint"
)

// Component family versions. A module must match the major version exactly
// and provide at least the minor version.
const (
	AnalyzerVersionMajor = 0
	AnalyzerVersionMinor = 17

	StorageVersionMajor = 1
	StorageVersionMinor = 4

	TraceVersionMajor = 2
	TraceVersionMinor = 1
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid module kind")

type (
	// Kind is the component family a module implements.
	// Its values are part of the binary contract and never renumbered.
	Kind int32

	// InvalidKindError is returned when a Kind is not one of the recognized values.
	InvalidKindError struct {
		Value Kind
	}
)

const (
	// KindAnalyzer modules contribute text analysis components.
	KindAnalyzer Kind = 0
	// KindStorage modules contribute storage and query evaluation components.
	KindStorage Kind = 1
	// KindTrace modules contribute trace loggers.
	KindTrace Kind = 2
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid module kind %d (expected analyzer, storage or trace)", int32(e.Value))
}

// Unwrap returns ErrInvalidKind so callers can use errors.Is for programmatic detection.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAnalyzer:
		return "analyzer"
	case KindStorage:
		return "storage"
	case KindTrace:
		return "trace"
	default:
		return fmt.Sprintf("kind(%d)", int32(k))
	}
}

// IsValid reports whether k is a recognized module kind.
func (k Kind) IsValid() bool {
	_, _, ok := Expected(k)
	return ok
}

// Validate returns an error if k is not a recognized module kind.
func (k Kind) Validate() error {
	if !k.IsValid() {
		return &InvalidKindError{Value: k}
	}
	return nil
}

// Expected returns the component version the host requires for kind.
// Every case returns on its own; there is no shared fallthrough path.
func Expected(kind Kind) (major, minor uint16, ok bool) {
	switch kind {
	case KindAnalyzer:
		return AnalyzerVersionMajor, AnalyzerVersionMinor, true
	case KindStorage:
		return StorageVersionMajor, StorageVersionMinor, true
	case KindTrace:
		return TraceVersionMajor, TraceVersionMinor, true
	default:
		return 0, 0, false
	}
}

// HostSignature returns Signature as the zero-padded fixed-size field.
func HostSignature() [SignatureSize]byte {
	var sig [SignatureSize]byte
	copy(sig[:], Signature)
	return sig
}
