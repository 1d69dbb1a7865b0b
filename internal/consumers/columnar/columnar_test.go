package columnar_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/mabhi256/hprofdump/internal/consumers/columnar"
	"github.com/mabhi256/hprofdump/internal/hprof"
	"github.com/stretchr/testify/require"
)

func field(classID, nameID hprof.ID, typ hprof.BasicType, val hprof.TypedValue) *hprof.InstanceDump {
	return &hprof.InstanceDump{
		ObjectID:      1,
		ClassObjectID: classID,
		FieldValues: []hprof.InstanceFieldValue{
			{Field: hprof.InstanceField{NameID: nameID, Type: typ}, Value: val},
		},
	}
}

func TestExporterRoundTripsEachCodec(t *testing.T) {
	for _, kind := range []columnar.CompressionKind{columnar.CompressionNone, columnar.CompressionS2, columnar.CompressionLZ4} {
		exp, err := columnar.New(kind)
		require.NoError(t, err)

		for i := 0; i < 10; i++ {
			err := exp.OnInstanceDump(field(100, 5, hprof.TypeInt, mustReadInt(t, int32(i))))
			require.NoError(t, err)
		}

		cols, err := exp.Export()
		require.NoError(t, err)
		require.Len(t, cols, 1)
		require.Equal(t, 10, cols[0].Count)
		require.EqualValues(t, 100, cols[0].ClassObjectID)

		codec, err := columnar.NewCodec(kind)
		require.NoError(t, err)
		raw, err := codec.Decompress(cols[0].Compressed)
		require.NoError(t, err)
		require.Len(t, raw, 40)
		for i := 0; i < 10; i++ {
			require.EqualValues(t, i, int32(binary.BigEndian.Uint32(raw[i*4:])))
		}
	}
}

func TestExporterSeparatesColumnsByClassAndField(t *testing.T) {
	exp, err := columnar.New(columnar.CompressionNone)
	require.NoError(t, err)

	require.NoError(t, exp.OnInstanceDump(field(1, 10, hprof.TypeInt, mustReadInt(t, 1))))
	require.NoError(t, exp.OnInstanceDump(field(1, 11, hprof.TypeInt, mustReadInt(t, 2))))
	require.NoError(t, exp.OnInstanceDump(field(2, 10, hprof.TypeInt, mustReadInt(t, 3))))

	cols, err := exp.Export()
	require.NoError(t, err)
	require.Len(t, cols, 3)
}

// mustReadInt builds a TypedValue the same way the decoder would, via the
// package's own constructors rather than poking at unexported fields
// directly from an external test.
func mustReadInt(t *testing.T, v int32) hprof.TypedValue {
	t.Helper()
	return hprof.NewInt32Value(v)
}

func TestExporterPacksFloatColumn(t *testing.T) {
	exp, err := columnar.New(columnar.CompressionNone)
	require.NoError(t, err)

	want := float32(3.14159)
	require.NoError(t, exp.OnInstanceDump(field(1, 10, hprof.TypeFloat, hprof.NewFloat32Value(want))))

	cols, err := exp.Export()
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Compressed, 4)
	got := math.Float32frombits(binary.BigEndian.Uint32(cols[0].Compressed))
	require.Equal(t, want, got)
}

func TestExporterPacksDoubleColumn(t *testing.T) {
	exp, err := columnar.New(columnar.CompressionNone)
	require.NoError(t, err)

	want := 2.718281828459045
	require.NoError(t, exp.OnInstanceDump(field(1, 10, hprof.TypeDouble, hprof.NewFloat64Value(want))))

	cols, err := exp.Export()
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Compressed, 8)
	got := math.Float64frombits(binary.BigEndian.Uint64(cols[0].Compressed))
	require.Equal(t, want, got)
}

func TestExporterPacksObjectColumn(t *testing.T) {
	exp, err := columnar.New(columnar.CompressionNone)
	require.NoError(t, err)

	want := hprof.ID(0xdeadbeefcafe)
	require.NoError(t, exp.OnInstanceDump(field(1, 10, hprof.TypeObject, hprof.NewObjectValue(want))))

	cols, err := exp.Export()
	require.NoError(t, err)
	require.Len(t, cols, 1)
	require.Len(t, cols[0].Compressed, 8)
	got := hprof.ID(binary.BigEndian.Uint64(cols[0].Compressed))
	require.Equal(t, want, got)
}
