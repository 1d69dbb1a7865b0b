// Package hprof decodes the binary heap-profile format emitted by a managed
// runtime's memory profiler (HPROF). It streams fully-typed records to a
// Handler and retains no state beyond what is needed to validate the current
// frame and, under the eager instance-decoding strategy, the class table.
package hprof

import (
	"fmt"
	"time"
)

/*
*	HProf binary format described here
*	https://github.com/openjdk/jdk/blob/master/src/hotspot/share/services/heapDumper.cpp
 */

// RecordTag identifies a top-level frame kind.
type RecordTag byte

const (
	TagUTF8             RecordTag = 0x01
	TagLoadClass        RecordTag = 0x02
	TagUnloadClass      RecordTag = 0x03
	TagStackFrame       RecordTag = 0x04
	TagStackTrace       RecordTag = 0x05
	TagAllocSites       RecordTag = 0x06
	TagHeapSummary      RecordTag = 0x07
	TagStartThread      RecordTag = 0x0A
	TagEndThread        RecordTag = 0x0B
	TagHeapDump         RecordTag = 0x0C
	TagCPUSamples       RecordTag = 0x0D
	TagControlSettings  RecordTag = 0x0E
	TagHeapDumpSegment  RecordTag = 0x1C
	TagHeapDumpEnd      RecordTag = 0x2C
)

func (t RecordTag) String() string {
	switch t {
	case TagUTF8:
		return "UTF8"
	case TagLoadClass:
		return "LOAD_CLASS"
	case TagUnloadClass:
		return "UNLOAD_CLASS"
	case TagStackFrame:
		return "STACK_FRAME"
	case TagStackTrace:
		return "STACK_TRACE"
	case TagAllocSites:
		return "ALLOC_SITES"
	case TagHeapSummary:
		return "HEAP_SUMMARY"
	case TagStartThread:
		return "START_THREAD"
	case TagEndThread:
		return "END_THREAD"
	case TagHeapDump:
		return "HEAP_DUMP"
	case TagCPUSamples:
		return "CPU_SAMPLES"
	case TagControlSettings:
		return "CONTROL_SETTINGS"
	case TagHeapDumpSegment:
		return "HEAP_DUMP_SEGMENT"
	case TagHeapDumpEnd:
		return "HEAP_DUMP_END"
	default:
		return fmt.Sprintf("RecordTag(0x%02X)", byte(t))
	}
}

// BasicType is the u8 type tag used for field values, constant-pool entries,
// and primitive array elements.
type BasicType byte

const (
	TypeObject  BasicType = 0x02
	TypeBoolean BasicType = 0x04
	TypeChar    BasicType = 0x05
	TypeFloat   BasicType = 0x06
	TypeDouble  BasicType = 0x07
	TypeByte    BasicType = 0x08
	TypeShort   BasicType = 0x09
	TypeInt     BasicType = 0x0A
	TypeLong    BasicType = 0x0B
)

func (t BasicType) String() string {
	switch t {
	case TypeObject:
		return "OBJECT"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeChar:
		return "CHAR"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeByte:
		return "BYTE"
	case TypeShort:
		return "SHORT"
	case TypeInt:
		return "INT"
	case TypeLong:
		return "LONG"
	default:
		return fmt.Sprintf("BasicType(0x%02X)", byte(t))
	}
}

// Size returns the on-wire width of a value of this type, in bytes.
// identifierSize is only consulted for TypeObject. Returns 0 for an
// unrecognized tag.
func (t BasicType) Size(identifierSize uint32) int {
	switch t {
	case TypeBoolean, TypeByte:
		return 1
	case TypeChar, TypeShort:
		return 2
	case TypeInt, TypeFloat:
		return 4
	case TypeLong, TypeDouble:
		return 8
	case TypeObject:
		return int(identifierSize)
	default:
		return 0
	}
}

// SubTag identifies a heap-dump sub-record kind.
type SubTag byte

const (
	SubTagRootUnknown     SubTag = 0xFF
	SubTagRootJNIGlobal   SubTag = 0x01
	SubTagRootJNILocal    SubTag = 0x02
	SubTagRootJavaFrame   SubTag = 0x03
	SubTagRootNativeStack SubTag = 0x04
	SubTagRootStickyClass SubTag = 0x05
	SubTagRootThreadBlock SubTag = 0x06
	SubTagRootMonitorUsed SubTag = 0x07
	SubTagRootThreadObj   SubTag = 0x08
	SubTagClassDump       SubTag = 0x20
	SubTagInstanceDump    SubTag = 0x21
	SubTagObjArrayDump    SubTag = 0x22
	SubTagPrimArrayDump   SubTag = 0x23
)

func (t SubTag) String() string {
	switch t {
	case SubTagRootUnknown:
		return "ROOT_UNKNOWN"
	case SubTagRootJNIGlobal:
		return "ROOT_JNI_GLOBAL"
	case SubTagRootJNILocal:
		return "ROOT_JNI_LOCAL"
	case SubTagRootJavaFrame:
		return "ROOT_JAVA_FRAME"
	case SubTagRootNativeStack:
		return "ROOT_NATIVE_STACK"
	case SubTagRootStickyClass:
		return "ROOT_STICKY_CLASS"
	case SubTagRootThreadBlock:
		return "ROOT_THREAD_BLOCK"
	case SubTagRootMonitorUsed:
		return "ROOT_MONITOR_USED"
	case SubTagRootThreadObj:
		return "ROOT_THREAD_OBJECT"
	case SubTagClassDump:
		return "CLASS_DUMP"
	case SubTagInstanceDump:
		return "INSTANCE_DUMP"
	case SubTagObjArrayDump:
		return "OBJ_ARRAY_DUMP"
	case SubTagPrimArrayDump:
		return "PRIM_ARRAY_DUMP"
	default:
		return fmt.Sprintf("SubTag(0x%02X)", byte(t))
	}
}

// ID represents an object, class, string, or stack-frame identifier. Its
// on-wire width (4 or 8 bytes) is fixed once per stream by the header, but
// it is always stored here as a zero-extended 64-bit value.
type ID uint64

// SerialNum is a u4 counter assigned by the producer (class serials, thread
// serials, stack-trace serials).
type SerialNum uint32

// Header is the fixed preamble of every HPROF stream.
type Header struct {
	Format         string    // e.g. "JAVA PROFILE 1.0.2"
	IdentifierSize uint32    // 4 or 8
	Timestamp      time.Time // wall-clock time the dump was taken
}
