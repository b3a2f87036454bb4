// SPDX-License-Identifier: MPL-2.0

package module

import (
	"bytes"
	"fmt"
)

type (
	// Header is the fixed, versioned part of an entry point.
	Header struct {
		Signature        [SignatureSize]byte
		Kind             Kind
		ModMinorVersion  uint16
		CompMajorVersion uint16
		CompMinorVersion uint16

		// Optional attribution for third-party code linked into the module.
		ThirdPartyVersion string
		ThirdPartyLicense string
	}

	// EntryPoint is the descriptor a module exports. Payload must agree with
	// Header.Kind; the host checks this once when it classifies the module.
	EntryPoint struct {
		Header
		Payload Payload
	}

	// Option sets optional entry point fields.
	Option func(*Header)
)

// WithThirdPartyVersion records version information of bundled third-party code.
func WithThirdPartyVersion(text string) Option {
	return func(h *Header) { h.ThirdPartyVersion = text }
}

// WithThirdPartyLicense records license texts of bundled third-party code.
func WithThirdPartyLicense(text string) Option {
	return func(h *Header) { h.ThirdPartyLicense = text }
}

// NewHeader returns the header the current host writes for kind.
func NewHeader(kind Kind, opts ...Option) Header {
	major, minor, _ := Expected(kind)
	h := Header{
		Signature:        HostSignature(),
		Kind:             kind,
		ModMinorVersion:  ModuleVersionMinor,
		CompMajorVersion: major,
		CompMinorVersion: minor,
	}
	for _, opt := range opts {
		opt(&h)
	}
	return h
}

// NewAnalyzerModule builds the entry point of an analyzer module. A nil m
// yields an empty payload.
func NewAnalyzerModule(m *AnalyzerModule, opts ...Option) *EntryPoint {
	if m == nil {
		m = &AnalyzerModule{}
	}
	return &EntryPoint{Header: NewHeader(KindAnalyzer, opts...), Payload: m}
}

// NewStorageModule builds the entry point of a storage module.
func NewStorageModule(m *StorageModule, opts ...Option) *EntryPoint {
	if m == nil {
		m = &StorageModule{}
	}
	return &EntryPoint{Header: NewHeader(KindStorage, opts...), Payload: m}
}

// NewTraceModule builds the entry point of a trace module.
func NewTraceModule(m *TraceModule, opts ...Option) *EntryPoint {
	if m == nil {
		m = &TraceModule{}
	}
	return &EntryPoint{Header: NewHeader(KindTrace, opts...), Payload: m}
}

// SignatureString returns the signature without its zero padding.
func (h *Header) SignatureString() string {
	if i := bytes.IndexByte(h.Signature[:], 0); i >= 0 {
		return string(h.Signature[:i])
	}
	return string(h.Signature[:])
}

// ModuleVersion renders the module-format version as "<signature>.<minor>".
func (h *Header) ModuleVersion() string {
	return fmt.Sprintf("%s.%d", h.SignatureString(), h.ModMinorVersion)
}

// ComponentVersion renders the component version as "<major>.<minor>".
func (h *Header) ComponentVersion() string {
	return fmt.Sprintf("%d.%d", h.CompMajorVersion, h.CompMinorVersion)
}

// Analyzer returns the analyzer payload if the entry point carries one.
func (e *EntryPoint) Analyzer() (*AnalyzerModule, bool) {
	m, ok := e.Payload.(*AnalyzerModule)
	return m, ok && m != nil
}

// Storage returns the storage payload if the entry point carries one.
func (e *EntryPoint) Storage() (*StorageModule, bool) {
	m, ok := e.Payload.(*StorageModule)
	return m, ok && m != nil
}

// Trace returns the trace payload if the entry point carries one.
func (e *EntryPoint) Trace() (*TraceModule, bool) {
	m, ok := e.Payload.(*TraceModule)
	return m, ok && m != nil
}

// EntryPointFromSymbol converts a looked-up symbol into an entry point.
// A plugin exporting `var EntryPoint = module.NewXModule(...)` yields
// **EntryPoint, one exporting `var EntryPoint module.EntryPoint` yields *EntryPoint.
func EntryPointFromSymbol(sym any) (*EntryPoint, error) {
	switch v := sym.(type) {
	case *EntryPoint:
		if v != nil {
			return v, nil
		}
	case **EntryPoint:
		if v != nil && *v != nil {
			return *v, nil
		}
	}
	return nil, fmt.Errorf("%w: unexpected symbol type %T", ErrNoEntryPoint, sym)
}
