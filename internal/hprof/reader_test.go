package hprof

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReaderPrimitives(t *testing.T) {
	var raw bytes.Buffer
	raw.Write([]byte{0x01})
	raw.Write([]byte{0x00, 0x02})
	raw.Write([]byte{0x00, 0x00, 0x00, 0x03})
	raw.Write([]byte{0, 0, 0, 0, 0, 0, 0, 4})

	r := newReader(&raw)

	u1, err := r.ReadU1()
	require.NoError(t, err)
	require.EqualValues(t, 1, u1)

	u2, err := r.ReadU2()
	require.NoError(t, err)
	require.EqualValues(t, 2, u2)

	u4, err := r.ReadU4()
	require.NoError(t, err)
	require.EqualValues(t, 3, u4)

	u8, err := r.ReadU8()
	require.NoError(t, err)
	require.EqualValues(t, 4, u8)

	require.EqualValues(t, 1+2+4+8, r.BytesRead())
}

func TestReaderID(t *testing.T) {
	t.Run("4 byte identifiers", func(t *testing.T) {
		var raw bytes.Buffer
		raw.Write([]byte{0, 0, 0, 0x2A})
		r := newReader(&raw)
		r.SetHeader(&Header{IdentifierSize: 4})

		id, err := r.ReadID()
		require.NoError(t, err)
		require.EqualValues(t, 0x2A, id)
	})

	t.Run("8 byte identifiers", func(t *testing.T) {
		var raw bytes.Buffer
		raw.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0x2A})
		r := newReader(&raw)
		r.SetHeader(&Header{IdentifierSize: 8})

		id, err := r.ReadID()
		require.NoError(t, err)
		require.EqualValues(t, 0x2A, id)
	})
}

func TestReaderNullTerminatedASCII(t *testing.T) {
	var raw bytes.Buffer
	raw.WriteString("JAVA PROFILE 1.0.2")
	raw.WriteByte(0)

	r := newReader(&raw)
	s, err := r.ReadNullTerminatedASCII()
	require.NoError(t, err)
	require.Equal(t, "JAVA PROFILE 1.0.2", s)
}

func TestReaderTruncatedStream(t *testing.T) {
	r := newReader(bytes.NewReader([]byte{0x00, 0x01}))
	_, err := r.ReadU4()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTruncatedStream))

	var detail *TruncatedStreamErrorDetail
	require.True(t, errors.As(err, &detail))
}

func TestReaderFrameBound(t *testing.T) {
	r := newReader(bytes.NewReader(make([]byte, 10)))
	require.EqualValues(t, -1, r.RemainingInFrame())

	r.enterFrame(10)
	require.EqualValues(t, 10, r.RemainingInFrame())

	_, _ = r.ReadU4()
	require.EqualValues(t, 6, r.RemainingInFrame())

	r.exitFrame()
	require.EqualValues(t, -1, r.RemainingInFrame())
}

func TestReaderFloats(t *testing.T) {
	var raw bytes.Buffer
	raw.Write([]byte{0x3F, 0x80, 0x00, 0x00}) // 1.0f
	raw.Write([]byte{0x3F, 0xF0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}) // 1.0

	r := newReader(&raw)
	f32, err := r.ReadF32()
	require.NoError(t, err)
	require.Equal(t, float32(1.0), f32)

	f64, err := r.ReadF64()
	require.NoError(t, err)
	require.Equal(t, float64(1.0), f64)
}

func TestReaderFrameHeaderCleanEOF(t *testing.T) {
	r := newReader(bytes.NewReader(nil))
	_, err := r.ReadFrameHeader()
	require.ErrorIs(t, err, io.EOF)
}
