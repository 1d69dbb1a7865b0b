package hprof

import (
	"bytes"
	"encoding/binary"
)

// streamBuilder assembles synthetic HPROF byte streams for tests. It never
// validates what it writes — tests construct both well-formed and
// deliberately malformed streams with it.
type streamBuilder struct {
	buf            bytes.Buffer
	identifierSize int
}

func newStreamBuilder(identifierSize int) *streamBuilder {
	return &streamBuilder{identifierSize: identifierSize}
}

func (b *streamBuilder) header(format string, timestampMs int64) *streamBuilder {
	b.buf.WriteString(format)
	b.buf.WriteByte(0)
	b.u4(uint32(b.identifierSize))
	b.u4(uint32(timestampMs >> 32))
	b.u4(uint32(timestampMs))
	return b
}

func (b *streamBuilder) u1(v uint8) *streamBuilder {
	b.buf.WriteByte(v)
	return b
}

func (b *streamBuilder) u2(v uint16) *streamBuilder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *streamBuilder) u4(v uint32) *streamBuilder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *streamBuilder) u8(v uint64) *streamBuilder {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *streamBuilder) i4(v int32) *streamBuilder {
	return b.u4(uint32(v))
}

func (b *streamBuilder) id(v uint64) *streamBuilder {
	if b.identifierSize == 4 {
		return b.u4(uint32(v))
	}
	return b.u8(v)
}

func (b *streamBuilder) bytes(raw []byte) *streamBuilder {
	b.buf.Write(raw)
	return b
}

func (b *streamBuilder) asciiNoTerm(s string) *streamBuilder {
	b.buf.WriteString(s)
	return b
}

// frame appends a complete top-level record: tag, a zero time offset, the
// body's length, and the body itself.
func (b *streamBuilder) frame(tag RecordTag, body []byte) *streamBuilder {
	b.u1(byte(tag))
	b.u4(0)
	b.u4(uint32(len(body)))
	b.buf.Write(body)
	return b
}

func (b *streamBuilder) Bytes() []byte {
	return b.buf.Bytes()
}
