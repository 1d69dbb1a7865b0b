package hprof

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingHandler captures every notification it receives, in order, for
// assertions. Embedding NoOpHandler means adding a new Handler method never
// breaks this test file.
type recordingHandler struct {
	NoOpHandler
	header        *Header
	utf8          []*UTF8Record
	loadClasses   []*LoadClassRecord
	controlSet    []*ControlSettingsRecord
	heapDumps     []RecordTag
	heapDumpEnds  int
	classDumps    []*ClassDump
	instanceDumps []*InstanceDump
	gcRootUnknown []*GCRootUnknown
}

func (h *recordingHandler) OnHeader(hdr *Header) error {
	h.header = hdr
	return nil
}

func (h *recordingHandler) OnUTF8String(r *UTF8Record) error {
	h.utf8 = append(h.utf8, r)
	return nil
}

func (h *recordingHandler) OnLoadClass(r *LoadClassRecord) error {
	h.loadClasses = append(h.loadClasses, r)
	return nil
}

func (h *recordingHandler) OnControlSettings(r *ControlSettingsRecord) error {
	h.controlSet = append(h.controlSet, r)
	return nil
}

func (h *recordingHandler) OnHeapDump(tag RecordTag) error {
	h.heapDumps = append(h.heapDumps, tag)
	return nil
}

func (h *recordingHandler) OnHeapDumpEnd() error {
	h.heapDumpEnds++
	return nil
}

func (h *recordingHandler) OnClassDump(r *ClassDump) error {
	h.classDumps = append(h.classDumps, r)
	return nil
}

func (h *recordingHandler) OnInstanceDump(r *InstanceDump) error {
	h.instanceDumps = append(h.instanceDumps, r)
	return nil
}

func (h *recordingHandler) OnGCRootUnknown(r *GCRootUnknown) error {
	h.gcRootUnknown = append(h.gcRootUnknown, r)
	return nil
}

func buildFullStream(idSize int) []byte {
	b := newStreamBuilder(idSize)
	b.header("JAVA PROFILE 1.0.2", 1700000000000)

	// UTF8 records naming a class and a field.
	utf8Class := newStreamBuilder(idSize)
	utf8Class.id(10).asciiNoTerm("com/example/Counter")
	b.frame(TagUTF8, utf8Class.Bytes())

	utf8Field := newStreamBuilder(idSize)
	utf8Field.id(11).asciiNoTerm("count")
	b.frame(TagUTF8, utf8Field.Bytes())

	// LOAD_CLASS referencing the class name string.
	loadClass := newStreamBuilder(idSize)
	loadClass.u4(1).id(20).u4(0).id(10)
	b.frame(TagLoadClass, loadClass.Bytes())

	// CONTROL_SETTINGS.
	control := newStreamBuilder(idSize)
	control.u4(0x00000003).u2(4)
	b.frame(TagControlSettings, control.Bytes())

	// HEAP_DUMP containing: GC_ROOT_UNKNOWN, CLASS_DUMP (class 20, one int
	// field "count"), INSTANCE_DUMP (an instance of class 20 with count=7).
	var dump bytes.Buffer

	dump.WriteByte(byte(SubTagRootUnknown))
	root := newStreamBuilder(idSize)
	root.id(20)
	dump.Write(root.Bytes())

	dump.WriteByte(byte(SubTagClassDump))
	classBody := newStreamBuilder(idSize)
	classBody.
		id(20).  // class object id
		u4(0).   // stack trace serial
		id(0).   // superclass (none)
		id(0).   // class loader
		id(0).   // signers
		id(0).   // protection domain
		id(0).   // reserved1
		id(0).   // reserved2
		u4(4).   // instance size
		u2(0).   // constant pool count
		u2(0).   // static field count
		u2(1).   // instance field count
		id(11).u1(byte(TypeInt))
	dump.Write(classBody.Bytes())

	dump.WriteByte(byte(SubTagInstanceDump))
	instBody := newStreamBuilder(idSize)
	instBody.
		id(30). // object id
		u4(0).  // stack trace serial
		id(20). // class object id
		u4(4)   // data length
	instBody.i4(7)
	dump.Write(instBody.Bytes())

	b.frame(TagHeapDump, dump.Bytes())
	b.frame(TagHeapDumpEnd, nil)

	return b.Bytes()
}

func TestDecodeFullStream(t *testing.T) {
	for _, idSize := range []int{4, 8} {
		t.Run(map[int]string{4: "4-byte ids", 8: "8-byte ids"}[idSize], func(t *testing.T) {
			stream := buildFullStream(idSize)
			h := &recordingHandler{}

			err := Decode(context.Background(), bytes.NewReader(stream), h)
			require.NoError(t, err)

			require.NotNil(t, h.header)
			require.Equal(t, "JAVA PROFILE 1.0.2", h.header.Format)
			require.EqualValues(t, idSize, h.header.IdentifierSize)

			require.Len(t, h.utf8, 2)
			require.Equal(t, "com/example/Counter", h.utf8[0].Text)
			require.Equal(t, "count", h.utf8[1].Text)

			require.Len(t, h.loadClasses, 1)
			require.EqualValues(t, 20, h.loadClasses[0].ClassObjectID)

			require.Len(t, h.controlSet, 1)
			require.True(t, h.controlSet[0].IsAllocTracesEnabled())
			require.True(t, h.controlSet[0].IsCPUSamplingEnabled())

			require.Len(t, h.heapDumps, 1)
			require.Equal(t, TagHeapDump, h.heapDumps[0])
			require.Equal(t, 1, h.heapDumpEnds)

			require.Len(t, h.gcRootUnknown, 1)
			require.EqualValues(t, 20, h.gcRootUnknown[0].ObjectID)

			require.Len(t, h.classDumps, 1)
			require.Len(t, h.classDumps[0].InstanceFields, 1)

			require.Len(t, h.instanceDumps, 1)
			inst := h.instanceDumps[0]
			require.EqualValues(t, 30, inst.ObjectID)
			require.Len(t, inst.FieldValues, 1)
			require.Equal(t, TypeInt, inst.FieldValues[0].Value.Tag)
			require.EqualValues(t, 7, inst.FieldValues[0].Value.Int32())
		})
	}
}

func TestDecodeSkipsUnknownTopLevelTag(t *testing.T) {
	b := newStreamBuilder(8)
	b.header("JAVA PROFILE 1.0.2", 0)
	b.frame(RecordTag(0x99), []byte{1, 2, 3, 4}) // unrecognized but length-prefixed
	utf8 := newStreamBuilder(8)
	utf8.id(1).asciiNoTerm("x")
	b.frame(TagUTF8, utf8.Bytes())

	h := &recordingHandler{}
	err := Decode(context.Background(), bytes.NewReader(b.Bytes()), h)
	require.NoError(t, err)
	require.Len(t, h.utf8, 1)
	require.Equal(t, "x", h.utf8[0].Text)
}

func TestDecodeUnknownHeapSubTagIsFatal(t *testing.T) {
	b := newStreamBuilder(8)
	b.header("JAVA PROFILE 1.0.2", 0)

	var dump bytes.Buffer
	dump.WriteByte(0x7E) // not a recognized sub-tag
	b.frame(TagHeapDump, dump.Bytes())

	h := &recordingHandler{}
	err := Decode(context.Background(), bytes.NewReader(b.Bytes()), h)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrFormatError))

	var detail *FormatErrorDetail
	require.True(t, errors.As(err, &detail))
	require.Equal(t, UnknownHeapSubTag, detail.Reason)
}

func TestDecodeTruncatedStream(t *testing.T) {
	b := newStreamBuilder(8)
	b.header("JAVA PROFILE 1.0.2", 0)
	full := b.Bytes()
	truncated := full[:len(full)-2] // cut off mid-header-adjacent read

	h := &recordingHandler{}
	err := Decode(context.Background(), bytes.NewReader(truncated), h)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTruncatedStream))
}

func TestDecodeBadMagic(t *testing.T) {
	b := newStreamBuilder(8)
	b.header("NOT A REAL FORMAT!!", 0)

	h := &recordingHandler{}
	err := Decode(context.Background(), bytes.NewReader(b.Bytes()), h)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrFormatError))
}

func TestDecodeHandlerAbort(t *testing.T) {
	b := newStreamBuilder(8)
	b.header("JAVA PROFILE 1.0.2", 0)
	utf8 := newStreamBuilder(8)
	utf8.id(1).asciiNoTerm("x")
	b.frame(TagUTF8, utf8.Bytes())

	aborting := &abortingHandler{}
	err := Decode(context.Background(), bytes.NewReader(b.Bytes()), aborting)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrHandlerAbort))
}

type abortingHandler struct {
	NoOpHandler
}

func (abortingHandler) OnUTF8String(*UTF8Record) error {
	return errors.New("consumer declined to continue")
}

func TestDecodeContextCancellation(t *testing.T) {
	b := newStreamBuilder(8)
	b.header("JAVA PROFILE 1.0.2", 0)
	utf8 := newStreamBuilder(8)
	utf8.id(1).asciiNoTerm("x")
	b.frame(TagUTF8, utf8.Bytes())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := &recordingHandler{}
	err := Decode(ctx, bytes.NewReader(b.Bytes()), h)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
}
