package hprof

import "fmt"

// TypedValue is a (basic type tag, payload) pair. Exactly one of the typed
// fields is meaningful; which one is determined by Tag. This replaces the
// raw-bytes-plus-type-tag pattern used for constant-pool entries, static
// fields, and instance fields: every basic type tag gets its own case in
// readValue, and callers switch on Tag exhaustively rather than
// reinterpreting a []byte.
type TypedValue struct {
	Tag BasicType

	objectID ID
	boolean  bool
	char     uint16
	float32v float32
	float64v float64
	byteV    int8
	shortV   int16
	intV     int32
	longV    int64
}

// NewObjectValue constructs a TypedValue of Tag == TypeObject. Exported so
// consumers that synthesize values (tests, derived/computed fields) don't
// need access to the decoder's own readValue path.
func NewObjectValue(id ID) TypedValue { return TypedValue{Tag: TypeObject, objectID: id} }

// NewBoolValue constructs a TypedValue of Tag == TypeBoolean.
func NewBoolValue(b bool) TypedValue { return TypedValue{Tag: TypeBoolean, boolean: b} }

// NewCharValue constructs a TypedValue of Tag == TypeChar.
func NewCharValue(c uint16) TypedValue { return TypedValue{Tag: TypeChar, char: c} }

// NewFloat32Value constructs a TypedValue of Tag == TypeFloat.
func NewFloat32Value(f float32) TypedValue { return TypedValue{Tag: TypeFloat, float32v: f} }

// NewFloat64Value constructs a TypedValue of Tag == TypeDouble.
func NewFloat64Value(f float64) TypedValue { return TypedValue{Tag: TypeDouble, float64v: f} }

// NewInt8Value constructs a TypedValue of Tag == TypeByte.
func NewInt8Value(b int8) TypedValue { return TypedValue{Tag: TypeByte, byteV: b} }

// NewInt16Value constructs a TypedValue of Tag == TypeShort.
func NewInt16Value(s int16) TypedValue { return TypedValue{Tag: TypeShort, shortV: s} }

// NewInt32Value constructs a TypedValue of Tag == TypeInt.
func NewInt32Value(i int32) TypedValue { return TypedValue{Tag: TypeInt, intV: i} }

// NewInt64Value constructs a TypedValue of Tag == TypeLong.
func NewInt64Value(l int64) TypedValue { return TypedValue{Tag: TypeLong, longV: l} }

// ObjectID returns the payload for Tag == TypeObject.
func (v TypedValue) ObjectID() ID { return v.objectID }

// Bool returns the payload for Tag == TypeBoolean.
func (v TypedValue) Bool() bool { return v.boolean }

// Char returns the payload for Tag == TypeChar (a UTF-16 code unit).
func (v TypedValue) Char() uint16 { return v.char }

// Float32 returns the payload for Tag == TypeFloat.
func (v TypedValue) Float32() float32 { return v.float32v }

// Float64 returns the payload for Tag == TypeDouble.
func (v TypedValue) Float64() float64 { return v.float64v }

// Int8 returns the payload for Tag == TypeByte.
func (v TypedValue) Int8() int8 { return v.byteV }

// Int16 returns the payload for Tag == TypeShort.
func (v TypedValue) Int16() int16 { return v.shortV }

// Int32 returns the payload for Tag == TypeInt.
func (v TypedValue) Int32() int32 { return v.intV }

// Int64 returns the payload for Tag == TypeLong.
func (v TypedValue) Int64() int64 { return v.longV }

func (v TypedValue) String() string {
	switch v.Tag {
	case TypeObject:
		return fmt.Sprintf("0x%x", uint64(v.objectID))
	case TypeBoolean:
		return fmt.Sprintf("%t", v.boolean)
	case TypeChar:
		return fmt.Sprintf("%q", rune(v.char))
	case TypeFloat:
		return fmt.Sprintf("%g", v.float32v)
	case TypeDouble:
		return fmt.Sprintf("%g", v.float64v)
	case TypeByte:
		return fmt.Sprintf("%d", v.byteV)
	case TypeShort:
		return fmt.Sprintf("%d", v.shortV)
	case TypeInt:
		return fmt.Sprintf("%d", v.intV)
	case TypeLong:
		return fmt.Sprintf("%d", v.longV)
	default:
		return "<invalid typed value>"
	}
}

// readValue reads one value of type t, the width of which is fixed by t
// (and, for TypeObject, by the reader's identifier size). Unknown tags
// produce FormatError(UnknownBasicType).
func readValue(r *reader, t BasicType) (TypedValue, error) {
	switch t {
	case TypeObject:
		id, err := r.ReadID()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, objectID: id}, nil

	case TypeBoolean:
		b, err := r.ReadBool()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, boolean: b}, nil

	case TypeChar:
		c, err := r.ReadU2()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, char: c}, nil

	case TypeFloat:
		f, err := r.ReadF32()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, float32v: f}, nil

	case TypeDouble:
		f, err := r.ReadF64()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, float64v: f}, nil

	case TypeByte:
		b, err := r.ReadU1()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, byteV: int8(b)}, nil

	case TypeShort:
		s, err := r.ReadU2()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, shortV: int16(s)}, nil

	case TypeInt:
		i, err := r.ReadU4()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, intV: int32(i)}, nil

	case TypeLong:
		l, err := r.ReadU8()
		if err != nil {
			return TypedValue{}, err
		}
		return TypedValue{Tag: t, longV: int64(l)}, nil

	default:
		return TypedValue{}, newFormatError(UnknownBasicType, r.BytesRead(), "tag 0x%02x", byte(t))
	}
}
