// SPDX-License-Identifier: MPL-2.0

package module

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Layout of the C entry point header. Fields use the host byte order.
const (
	nativeSignatureOffset = 0
	nativeKindOffset      = 8
	nativeModMinorOffset  = 12
	nativeCompMajorOffset = 14
	nativeCompMinorOffset = 16
	nativeReservedOffset  = 20
	nativeReservedWords   = 6

	// NativeHeaderSize is the size of the fixed header in bytes.
	NativeHeaderSize = nativeReservedOffset + 4*nativeReservedWords

	// NativeAttributionMinorVersion is the first module-format minor version
	// whose header is followed by the two attribution string pointers.
	NativeAttributionMinorVersion = 15
)

// NativeAttributionOffset is the offset of the version text pointer; the
// license text pointer follows it.
var NativeAttributionOffset = alignUp(NativeHeaderSize, int(unsafe.Sizeof(uintptr(0))))

// DecodeNativeHeader decodes the fixed header of a C-ABI entry point.
// Attribution strings are not part of b and stay empty.
func DecodeNativeHeader(b []byte) (Header, error) {
	if len(b) < NativeHeaderSize {
		return Header{}, fmt.Errorf("%w: header has %d bytes, need %d", ErrNoEntryPoint, len(b), NativeHeaderSize)
	}
	var h Header
	copy(h.Signature[:], b[nativeSignatureOffset:nativeSignatureOffset+SignatureSize])
	h.Kind = Kind(int32(binary.NativeEndian.Uint32(b[nativeKindOffset:])))
	h.ModMinorVersion = binary.NativeEndian.Uint16(b[nativeModMinorOffset:])
	h.CompMajorVersion = binary.NativeEndian.Uint16(b[nativeCompMajorOffset:])
	h.CompMinorVersion = binary.NativeEndian.Uint16(b[nativeCompMinorOffset:])
	return h, nil
}

// EncodeNativeHeader writes h in the C-ABI layout. Reserved words are zero.
func EncodeNativeHeader(h Header) []byte {
	b := make([]byte, NativeHeaderSize)
	copy(b[nativeSignatureOffset:], h.Signature[:])
	binary.NativeEndian.PutUint32(b[nativeKindOffset:], uint32(h.Kind))
	binary.NativeEndian.PutUint16(b[nativeModMinorOffset:], h.ModMinorVersion)
	binary.NativeEndian.PutUint16(b[nativeCompMajorOffset:], h.CompMajorVersion)
	binary.NativeEndian.PutUint16(b[nativeCompMinorOffset:], h.CompMinorVersion)
	return b
}

// HasNativeAttribution reports whether a header of this module-format
// version is followed by attribution string pointers.
func (h *Header) HasNativeAttribution() bool {
	return h.ModMinorVersion >= NativeAttributionMinorVersion
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
