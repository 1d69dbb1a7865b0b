package columnar

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/mabhi256/hprofdump/internal/hprof"
)

// seriesKey identifies one (class, field) column, hashed from the class
// object ID and field name ID the same way mebo hashes a metric's
// identifying labels into a MetricID.
type seriesKey uint64

func newSeriesKey(classID, nameID hprof.ID) seriesKey {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(classID))
	binary.BigEndian.PutUint64(buf[8:], uint64(nameID))
	return seriesKey(xxhash.Sum64(buf[:]))
}

// column accumulates one field's values across every instance of its class,
// packed tightly by basic type ahead of compression.
type column struct {
	classID hprof.ID
	nameID  hprof.ID
	typ     hprof.BasicType
	count   int
	packed  []byte
}

func (c *column) append(v hprof.TypedValue) {
	c.count++
	switch c.typ {
	case hprof.TypeBoolean:
		b := byte(0)
		if v.Bool() {
			b = 1
		}
		c.packed = append(c.packed, b)
	case hprof.TypeByte:
		c.packed = append(c.packed, byte(v.Int8()))
	case hprof.TypeChar, hprof.TypeShort:
		var tmp [2]byte
		if c.typ == hprof.TypeChar {
			binary.BigEndian.PutUint16(tmp[:], v.Char())
		} else {
			binary.BigEndian.PutUint16(tmp[:], uint16(v.Int16()))
		}
		c.packed = append(c.packed, tmp[:]...)
	case hprof.TypeInt:
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(v.Int32()))
		c.packed = append(c.packed, tmp[:]...)
	case hprof.TypeFloat:
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v.Float32()))
		c.packed = append(c.packed, tmp[:]...)
	case hprof.TypeObject:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.ObjectID()))
		c.packed = append(c.packed, tmp[:]...)
	case hprof.TypeLong:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(v.Int64()))
		c.packed = append(c.packed, tmp[:]...)
	case hprof.TypeDouble:
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v.Float64()))
		c.packed = append(c.packed, tmp[:]...)
	}
}

// Column is the exported, compressed form of one series.
type Column struct {
	ClassObjectID hprof.ID
	FieldNameID   hprof.ID
	Type          hprof.BasicType
	Count         int
	Compressed    []byte
	RawSize       int
}

// Exporter is an hprof.Handler that packs every instance field value into a
// per-(class, field) column and compresses each column on Export. It relies
// on the eager instance decoding strategy: OnInstanceDump already carries
// resolved field values, so this consumer does no field-layout resolution
// of its own.
type Exporter struct {
	hprof.NoOpHandler

	codec   Codec
	columns map[seriesKey]*column
}

// New returns an Exporter using the given compression backend.
func New(kind CompressionKind) (*Exporter, error) {
	codec, err := NewCodec(kind)
	if err != nil {
		return nil, err
	}
	return &Exporter{codec: codec, columns: make(map[seriesKey]*column)}, nil
}

func (e *Exporter) OnInstanceDump(r *hprof.InstanceDump) error {
	for _, fv := range r.FieldValues {
		key := newSeriesKey(r.ClassObjectID, fv.Field.NameID)
		col, ok := e.columns[key]
		if !ok {
			col = &column{classID: r.ClassObjectID, nameID: fv.Field.NameID, typ: fv.Field.Type}
			e.columns[key] = col
		}
		col.append(fv.Value)
	}
	return nil
}

// Export compresses every accumulated column and returns them keyed by
// series key, in a stable (key-sorted) order.
func (e *Exporter) Export() ([]Column, error) {
	keys := make([]seriesKey, 0, len(e.columns))
	for k := range e.columns {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]Column, 0, len(keys))
	for _, k := range keys {
		col := e.columns[k]
		compressed, err := e.codec.Compress(col.packed)
		if err != nil {
			return nil, fmt.Errorf("columnar: compressing column %x: %w", uint64(k), err)
		}
		out = append(out, Column{
			ClassObjectID: col.classID,
			FieldNameID:   col.nameID,
			Type:          col.typ,
			Count:         col.count,
			Compressed:    compressed,
			RawSize:       len(col.packed),
		})
	}
	return out, nil
}
