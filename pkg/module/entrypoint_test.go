// SPDX-License-Identifier: MPL-2.0

package module

import (
	"errors"
	"testing"
)

func TestNewAnalyzerModule(t *testing.T) {
	t.Parallel()

	ep := NewAnalyzerModule(&AnalyzerModule{},
		WithThirdPartyVersion("snowball 2.2"),
		WithThirdPartyLicense("BSD-3-Clause"),
	)

	if got := ep.SignatureString(); got != Signature {
		t.Errorf("SignatureString() = %q, want %q", got, Signature)
	}
	for i := len(Signature); i < SignatureSize; i++ {
		if ep.Signature[i] != 0 {
			t.Errorf("Signature[%d] = %d, want zero padding", i, ep.Signature[i])
		}
	}
	if ep.Kind != KindAnalyzer {
		t.Errorf("Kind = %s, want analyzer", ep.Kind)
	}
	if ep.CompMajorVersion != AnalyzerVersionMajor || ep.CompMinorVersion != AnalyzerVersionMinor {
		t.Errorf("ComponentVersion() = %s", ep.ComponentVersion())
	}
	if ep.ThirdPartyVersion != "snowball 2.2" || ep.ThirdPartyLicense != "BSD-3-Clause" {
		t.Errorf("attribution = %q/%q", ep.ThirdPartyVersion, ep.ThirdPartyLicense)
	}
	if _, ok := ep.Analyzer(); !ok {
		t.Error("Analyzer() not ok")
	}
	if _, ok := ep.Storage(); ok {
		t.Error("Storage() ok on analyzer module")
	}
	if err := Match(ep.Header); err != nil {
		t.Errorf("Match() = %v", err)
	}
}

func TestHeader_Versions(t *testing.T) {
	t.Parallel()

	h := NewHeader(KindTrace)
	if got, want := h.ModuleVersion(), "strus0.15"; got != want {
		t.Errorf("ModuleVersion() = %q, want %q", got, want)
	}
	if got, want := h.ComponentVersion(), "2.1"; got != want {
		t.Errorf("ComponentVersion() = %q, want %q", got, want)
	}
}

func TestEntryPointFromSymbol(t *testing.T) {
	t.Parallel()

	ep := NewStorageModule(&StorageModule{})
	var nilEP *EntryPoint

	tests := []struct {
		name    string
		sym     any
		wantErr bool
	}{
		{"pointer", ep, false},
		{"pointer to pointer", &ep, false},
		{"nil pointer", nilEP, true},
		{"pointer to nil pointer", &nilEP, true},
		{"wrong type", "entryPoint", true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := EntryPointFromSymbol(tt.sym)
			if tt.wantErr {
				if !errors.Is(err, ErrNoEntryPoint) {
					t.Errorf("EntryPointFromSymbol() error = %v, want ErrNoEntryPoint", err)
				}
				return
			}
			if err != nil || got != ep {
				t.Errorf("EntryPointFromSymbol() = %p, %v, want %p", got, err, ep)
			}
		})
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	if err := Kind(5).Validate(); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Validate() = %v, want ErrInvalidKind", err)
	}
	if KindStorage.String() != "storage" {
		t.Errorf("String() = %q", KindStorage.String())
	}
	for _, kind := range []Kind{KindAnalyzer, KindStorage, KindTrace} {
		p := EmptyPayload(kind)
		if p == nil || p.Kind() != kind {
			t.Errorf("EmptyPayload(%s) = %v", kind, p)
		}
	}
	if EmptyPayload(Kind(-1)) != nil {
		t.Error("EmptyPayload(-1) != nil")
	}
}

func TestEach_SkipsNilCreate(t *testing.T) {
	t.Parallel()

	table := []Constructor[Normalizer]{
		{Name: "a", Create: func(ErrorBuffer) (Normalizer, error) { return nil, nil }},
		{Name: "end"},
		{Name: "b", Create: func(ErrorBuffer) (Normalizer, error) { return nil, nil }},
	}
	var names []string
	Each(table, func(c Constructor[Normalizer]) { names = append(names, c.Name) })
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Each() visited %v, want [a b]", names)
	}
}

func TestCodeOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want ErrorCode
	}{
		{nil, ErrorNone},
		{&VersionError{Code: ErrorSignature}, ErrorSignature},
		{ErrNoEntryPoint, ErrorNoEntryPoint},
		{errors.Join(errors.New("ctx"), ErrOpenModule), ErrorOpenModule},
		{errors.New("other"), ErrorLoadModuleFailed},
	}
	for _, tt := range tests {
		if got := CodeOf(tt.err); got != tt.want {
			t.Errorf("CodeOf(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
