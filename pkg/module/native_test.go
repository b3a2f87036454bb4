// SPDX-License-Identifier: MPL-2.0

package module

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestDecodeNativeHeader(t *testing.T) {
	t.Parallel()

	b := make([]byte, NativeHeaderSize)
	copy(b, "strus0")
	binary.NativeEndian.PutUint32(b[8:], uint32(KindStorage))
	binary.NativeEndian.PutUint16(b[12:], 14)
	binary.NativeEndian.PutUint16(b[14:], StorageVersionMajor)
	binary.NativeEndian.PutUint16(b[16:], StorageVersionMinor+2)

	h, err := DecodeNativeHeader(b)
	if err != nil {
		t.Fatalf("DecodeNativeHeader() error = %v", err)
	}
	if h.Kind != KindStorage || h.ModMinorVersion != 14 ||
		h.CompMajorVersion != StorageVersionMajor || h.CompMinorVersion != StorageVersionMinor+2 {
		t.Errorf("DecodeNativeHeader() = %+v", h)
	}
	if err := Match(h); err != nil {
		t.Errorf("Match() = %v", err)
	}
	if h.HasNativeAttribution() {
		t.Error("minor 14 header reports attribution pointers")
	}
}

func TestDecodeNativeHeader_Short(t *testing.T) {
	t.Parallel()

	_, err := DecodeNativeHeader(make([]byte, NativeHeaderSize-1))
	if !errors.Is(err, ErrNoEntryPoint) {
		t.Errorf("DecodeNativeHeader() error = %v, want ErrNoEntryPoint", err)
	}
}

func TestEncodeNativeHeader_RoundTrip(t *testing.T) {
	t.Parallel()

	want := NewHeader(KindTrace)
	got, err := DecodeNativeHeader(EncodeNativeHeader(want))
	if err != nil {
		t.Fatalf("DecodeNativeHeader() error = %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
	if NativeAttributionOffset < NativeHeaderSize {
		t.Errorf("NativeAttributionOffset = %d, inside header", NativeAttributionOffset)
	}
}
