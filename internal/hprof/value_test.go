package hprof

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadValueEachBasicType(t *testing.T) {
	cases := []struct {
		name  string
		tag   BasicType
		bytes []byte
		check func(t *testing.T, v TypedValue)
	}{
		{"object", TypeObject, []byte{0, 0, 0, 0, 0, 0, 0, 0x7F}, func(t *testing.T, v TypedValue) {
			require.EqualValues(t, 0x7F, v.ObjectID())
		}},
		{"boolean true", TypeBoolean, []byte{1}, func(t *testing.T, v TypedValue) {
			require.True(t, v.Bool())
		}},
		{"char", TypeChar, []byte{0x00, 0x41}, func(t *testing.T, v TypedValue) {
			require.EqualValues(t, 'A', v.Char())
		}},
		{"float", TypeFloat, []byte{0x3F, 0x80, 0x00, 0x00}, func(t *testing.T, v TypedValue) {
			require.Equal(t, float32(1.0), v.Float32())
		}},
		{"double", TypeDouble, []byte{0x3F, 0xF0, 0, 0, 0, 0, 0, 0}, func(t *testing.T, v TypedValue) {
			require.Equal(t, float64(1.0), v.Float64())
		}},
		{"byte", TypeByte, []byte{0xFF}, func(t *testing.T, v TypedValue) {
			require.EqualValues(t, -1, v.Int8())
		}},
		{"short", TypeShort, []byte{0xFF, 0xFF}, func(t *testing.T, v TypedValue) {
			require.EqualValues(t, -1, v.Int16())
		}},
		{"int", TypeInt, []byte{0, 0, 0, 42}, func(t *testing.T, v TypedValue) {
			require.EqualValues(t, 42, v.Int32())
		}},
		{"long", TypeLong, []byte{0, 0, 0, 0, 0, 0, 0, 42}, func(t *testing.T, v TypedValue) {
			require.EqualValues(t, 42, v.Int64())
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newReader(bytes.NewReader(tc.bytes))
			r.SetHeader(&Header{IdentifierSize: 8})

			v, err := readValue(r, tc.tag)
			require.NoError(t, err)
			require.Equal(t, tc.tag, v.Tag)
			tc.check(t, v)
		})
	}
}

func TestReadValueUnknownTag(t *testing.T) {
	r := newReader(bytes.NewReader([]byte{0}))
	r.SetHeader(&Header{IdentifierSize: 8})

	_, err := readValue(r, BasicType(0x99))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrFormatError))

	var detail *FormatErrorDetail
	require.True(t, errors.As(err, &detail))
	require.Equal(t, UnknownBasicType, detail.Reason)
}

func TestTypedValueString(t *testing.T) {
	v := TypedValue{Tag: TypeInt, intV: 7}
	require.Equal(t, "7", v.String())
}
