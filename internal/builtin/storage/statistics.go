// SPDX-License-Identifier: MPL-2.0

package storage

import (
	"encoding/binary"
	"fmt"

	"github.com/strus/strusmod/pkg/module"
)

const statisticsVersion = 1

type (
	zstdStatistics struct{}
	lz4Statistics  struct{}
)

func (zstdStatistics) Encode(msg module.StatisticsMessage) ([]byte, error) {
	return zstdCompress(nil, marshalStatistics(msg)), nil
}

func (zstdStatistics) Decode(blob []byte) (module.StatisticsMessage, error) {
	raw, err := zstdDecompress(blob)
	if err != nil {
		return module.StatisticsMessage{}, err
	}
	return unmarshalStatistics(raw)
}

func (lz4Statistics) Encode(msg module.StatisticsMessage) ([]byte, error) {
	return lz4Compress(marshalStatistics(msg))
}

func (lz4Statistics) Decode(blob []byte) (module.StatisticsMessage, error) {
	raw, err := lz4Decompress(blob)
	if err != nil {
		return module.StatisticsMessage{}, err
	}
	return unmarshalStatistics(raw)
}

// marshalStatistics writes the version byte, the document count delta and
// the df changes as varints and length-prefixed strings.
func marshalStatistics(msg module.StatisticsMessage) []byte {
	b := []byte{statisticsVersion}
	b = binary.AppendVarint(b, msg.NofDocumentsDelta)
	b = binary.AppendUvarint(b, uint64(len(msg.DfChanges)))
	for _, c := range msg.DfChanges {
		b = appendString(b, c.TermType)
		b = appendString(b, c.TermValue)
		b = binary.AppendVarint(b, c.Delta)
	}
	return b
}

func unmarshalStatistics(b []byte) (module.StatisticsMessage, error) {
	var msg module.StatisticsMessage
	if len(b) == 0 || b[0] != statisticsVersion {
		return msg, fmt.Errorf("%w: unknown statistics message version", ErrCorrupt)
	}
	r := reader{buf: b[1:]}
	msg.NofDocumentsDelta = r.varint()
	n := r.uvarint()
	if r.err == nil && n > uint64(len(r.buf)) {
		return msg, fmt.Errorf("%w: df change count %d exceeds message", ErrCorrupt, n)
	}
	for i := uint64(0); i < n && r.err == nil; i++ {
		msg.DfChanges = append(msg.DfChanges, module.DfChange{
			TermType:  r.string(),
			TermValue: r.string(),
			Delta:     r.varint(),
		})
	}
	if r.err != nil {
		return module.StatisticsMessage{}, r.err
	}
	return msg, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

// reader decodes varint fields and keeps the first error.
type reader struct {
	buf []byte
	err error
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated record", ErrCorrupt)
	}
	r.buf = nil
}

func (r *reader) varint() int64 {
	v, n := binary.Varint(r.buf)
	if n <= 0 {
		r.fail()
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *reader) uvarint() uint64 {
	v, n := binary.Uvarint(r.buf)
	if n <= 0 {
		r.fail()
		return 0
	}
	r.buf = r.buf[n:]
	return v
}

func (r *reader) bytes() []byte {
	n := r.uvarint()
	if r.err != nil || n > uint64(len(r.buf)) {
		r.fail()
		return nil
	}
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b
}

func (r *reader) string() string {
	return string(r.bytes())
}
