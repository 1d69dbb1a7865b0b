package hprof

import (
	"context"
	"io"
	"time"
)

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

const expectedMagic = "JAVA PROFILE 1.0.2"

// Decoder streams an HPROF file to a Handler. It retains only the header,
// the current frame's byte accounting, and — under the eager instance
// decoding strategy — the class table needed to resolve instance field
// layouts. It never buffers a whole record or the whole stream.
type Decoder struct {
	r  *reader
	ct *classTable
}

// NewDecoder wraps src for decoding. Nothing is read until Decode is called.
func NewDecoder(src io.Reader) *Decoder {
	return &Decoder{
		r:  newReader(src),
		ct: newClassTable(),
	}
}

// Decode reads the header and then every top-level record in turn,
// dispatching a notification to h for each. It returns nil after a clean
// end of stream (io.EOF at a frame boundary), or a non-nil error wrapping
// one of ErrTruncatedStream, ErrFormatError, ErrHandlerAbort, or ctx.Err().
//
// Unrecognized top-level tags are skipped (the length prefix makes this
// safe and preserves forward compatibility with newer producers).
// Unrecognized heap-dump sub-tags are fatal: a heap-dump sub-record has no
// length prefix of its own, so there is no way to skip over one whose
// shape is unknown.
func (d *Decoder) Decode(ctx context.Context, h Handler) error {
	if err := d.decodeHeader(h); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frameStart := d.r.BytesRead()
		fh, err := d.r.ReadFrameHeader()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		d.r.enterFrame(int64(fh.Length))
		if err := d.dispatchRecord(fh.Tag, fh.Length, h); err != nil {
			return err
		}
		d.r.exitFrame()

		wantEnd := frameStart + 9 + int64(fh.Length)
		if d.r.BytesRead() != wantEnd {
			return newFormatError(FrameLengthMismatch, d.r.BytesRead(),
				"record tag %s: declared length %d, consumed %d bytes",
				fh.Tag, fh.Length, d.r.BytesRead()-frameStart-9)
		}
	}
}

func (d *Decoder) decodeHeader(h Handler) error {
	format, err := d.r.ReadNullTerminatedASCII()
	if err != nil {
		return err
	}
	if format != expectedMagic {
		return newFormatError(BadMagic, d.r.BytesRead(), "unrecognized format string %q", format)
	}

	idSize, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	if idSize != 4 && idSize != 8 {
		return newFormatError(InvalidIdentifierSize, d.r.BytesRead(), "identifier size must be 4 or 8, got %d", idSize)
	}

	hdr := &Header{Format: format, IdentifierSize: idSize}
	d.r.SetHeader(hdr)

	hi, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	lo, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	ms := int64(hi)<<32 | int64(lo)
	hdr.Timestamp = msToTime(ms)

	if err := h.OnHeader(hdr); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

// Decode is a convenience entry point equivalent to
// NewDecoder(src).Decode(ctx, h).
func Decode(ctx context.Context, src io.Reader, h Handler) error {
	return NewDecoder(src).Decode(ctx, h)
}
