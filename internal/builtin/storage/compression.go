// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrCorrupt is returned for blobs that cannot be decoded.
var ErrCorrupt = errors.New("corrupt data")

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxDecodedSize))
	return dec
}

// zstdCompress appends the zstd frame of data to dst.
func zstdCompress(dst, data []byte) []byte {
	enc := getZstdEncoder()
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(data, dst)
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec := getZstdDecoder()
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return out, nil
}

// lz4 blocks: [raw size uint32][compressed size uint32][data].
// A compressed size of 0 marks data stored uncompressed.
const lz4HeaderSize = 8

// maxDecodedSize bounds a decompressed statistics blob.
const maxDecodedSize = 64 << 20

// lz4MaxRatio is the largest expansion an lz4 block can encode.
const lz4MaxRatio = 255

func lz4Compress(data []byte) ([]byte, error) {
	buf := make([]byte, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, buf[lz4HeaderSize:], nil)
	if err != nil {
		return nil, err
	}
	binary.LittleEndian.PutUint32(buf[0:], uint32(len(data)))
	if n == 0 || n >= len(data) {
		binary.LittleEndian.PutUint32(buf[4:], 0)
		copy(buf[lz4HeaderSize:], data)
		return buf[:lz4HeaderSize+len(data)], nil
	}
	binary.LittleEndian.PutUint32(buf[4:], uint32(n))
	return buf[:lz4HeaderSize+n], nil
}

func lz4Decompress(data []byte) ([]byte, error) {
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("%w: lz4 block too small for header", ErrCorrupt)
	}
	rawSize := binary.LittleEndian.Uint32(data[0:])
	compSize := binary.LittleEndian.Uint32(data[4:])
	body := data[lz4HeaderSize:]

	if compSize == 0 {
		if uint32(len(body)) < rawSize {
			return nil, fmt.Errorf("%w: lz4 block truncated", ErrCorrupt)
		}
		return body[:rawSize], nil
	}
	if uint32(len(body)) < compSize {
		return nil, fmt.Errorf("%w: lz4 block truncated", ErrCorrupt)
	}
	if rawSize > maxDecodedSize || uint64(rawSize) > uint64(compSize)*lz4MaxRatio {
		return nil, fmt.Errorf("%w: lz4 raw size %d out of range", ErrCorrupt, rawSize)
	}
	out := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(body[:compSize], out)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint32(n) != rawSize {
		return nil, fmt.Errorf("%w: lz4 size mismatch", ErrCorrupt)
	}
	return out, nil
}
