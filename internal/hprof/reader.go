package hprof

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// reader provides big-endian primitive reads over a buffered input source,
// tracking the logical cursor position and, once a frame has been entered
// via enterFrame, the number of bytes remaining in that frame.
type reader struct {
	src       *bufio.Reader
	bytesRead int64
	header    *Header

	inFrame  bool
	frameEnd int64
}

func newReader(r io.Reader) *reader {
	return &reader{src: bufio.NewReader(r)}
}

func (r *reader) BytesRead() int64 { return r.bytesRead }

// Header returns the parsed file header, or nil before it has been read.
func (r *reader) Header() *Header { return r.header }

func (r *reader) SetHeader(h *Header) { r.header = h }

// enterFrame bounds subsequent RemainingInFrame calls to the given length,
// measured from the current cursor position.
func (r *reader) enterFrame(length int64) {
	r.inFrame = true
	r.frameEnd = r.bytesRead + length
}

func (r *reader) exitFrame() {
	r.inFrame = false
}

// RemainingInFrame returns the bytes left in the currently-bounded frame, or
// -1 if no frame is currently bounded.
func (r *reader) RemainingInFrame() int64 {
	if !r.inFrame {
		return -1
	}
	return r.frameEnd - r.bytesRead
}

// ReadNBytes reads exactly n bytes and advances the cursor.
func (r *reader) ReadNBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r.src, buf)
	r.bytesRead += int64(got)
	if err != nil {
		return nil, newTruncatedStreamError(r.bytesRead, "expected %d bytes, got %d: %s", n, got, err)
	}
	return buf, nil
}

// ReadExact reads exactly n bytes into buf (which must have length n).
func (r *reader) ReadExact(buf []byte) error {
	got, err := io.ReadFull(r.src, buf)
	r.bytesRead += int64(got)
	if err != nil {
		return newTruncatedStreamError(r.bytesRead, "expected %d bytes, got %d: %s", len(buf), got, err)
	}
	return nil
}

// ReadNullTerminatedASCII reads bytes up to (not including) a 0x00 byte.
func (r *reader) ReadNullTerminatedASCII() (string, error) {
	str, err := r.src.ReadString('\x00')
	if err != nil {
		r.bytesRead += int64(len(str))
		return "", newTruncatedStreamError(r.bytesRead, "unterminated string: %s", err)
	}
	r.bytesRead += int64(len(str))
	return str[:len(str)-1], nil
}

// ReadBool reads a single byte: zero is false, nonzero is true.
func (r *reader) ReadBool() (bool, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		r.bytesRead++
		return false, newTruncatedStreamError(r.bytesRead, "reading bool: %s", err)
	}
	r.bytesRead++
	return b != 0, nil
}

// ReadU1 reads a single unsigned byte.
func (r *reader) ReadU1() (uint8, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		return 0, newTruncatedStreamError(r.bytesRead, "reading u1: %s", err)
	}
	r.bytesRead++
	return b, nil
}

// ReadU2 reads a 2-byte unsigned integer (big-endian).
func (r *reader) ReadU2() (uint16, error) {
	buf, err := r.ReadNBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadU4 reads a 4-byte unsigned integer (big-endian).
func (r *reader) ReadU4() (uint32, error) {
	buf, err := r.ReadNBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadU8 reads an 8-byte unsigned integer (big-endian).
func (r *reader) ReadU8() (uint64, error) {
	buf, err := r.ReadNBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf), nil
}

// ReadI4 reads a 4-byte signed integer (big-endian).
func (r *reader) ReadI4() (int32, error) {
	buf, err := r.ReadNBytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf)), nil
}

// ReadF32 reads an IEEE-754 big-endian 32-bit float.
func (r *reader) ReadF32() (float32, error) {
	buf, err := r.ReadNBytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(buf)), nil
}

// ReadF64 reads an IEEE-754 big-endian 64-bit float.
func (r *reader) ReadF64() (float64, error) {
	buf, err := r.ReadNBytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

// ReadID reads an object/class/string identifier; its width comes from the
// header's IdentifierSize, read once at the start of the stream.
func (r *reader) ReadID() (ID, error) {
	if r.header == nil {
		return 0, fmt.Errorf("hprof: read ID before header parsed")
	}
	switch r.header.IdentifierSize {
	case 4:
		v, err := r.ReadU4()
		return ID(v), err
	case 8:
		v, err := r.ReadU8()
		return ID(v), err
	default:
		return 0, fmt.Errorf("hprof: invalid identifier size: %d", r.header.IdentifierSize)
	}
}

// Skip discards n bytes without returning them.
func (r *reader) Skip(n int) error {
	_, err := r.ReadNBytes(n)
	return err
}

// frameHeader is the {tag, ts-delta, body-length} prefix of a top-level
// record.
type frameHeader struct {
	Tag        RecordTag
	TimeOffset uint32
	Length     uint32
}

// ReadFrameHeader reads the header of a top-level record. A clean io.EOF at
// this boundary is returned unwrapped so the outer loop can distinguish it
// from a truncated read mid-header.
func (r *reader) ReadFrameHeader() (*frameHeader, error) {
	tag, err := r.src.ReadByte()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, newTruncatedStreamError(r.bytesRead, "reading frame tag: %s", err)
	}
	r.bytesRead++

	offset, err := r.ReadU4()
	if err != nil {
		return nil, err
	}

	length, err := r.ReadU4()
	if err != nil {
		return nil, err
	}

	return &frameHeader{Tag: RecordTag(tag), TimeOffset: offset, Length: length}, nil
}

// ReadUTF8 reads length bytes of UTF-8 text with no terminator.
func (r *reader) ReadUTF8(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	buf, err := r.ReadNBytes(length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadValue reads one value of the given basic type. See value.go for
// TypedValue.
func (r *reader) ReadValue(t BasicType) (TypedValue, error) {
	return readValue(r, t)
}
