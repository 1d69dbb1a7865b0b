package hprof

import "bytes"

// decodeInstanceDump parses an instance-dump sub-record under the eager
// decoding strategy: the instance's class must already be in the class
// table (class dumps precede the instances that reference them in a
// well-formed stream), and this decodes every field's value immediately
// rather than retaining the raw byte blob for later, on-demand parsing.
// This is grounded directly on the buildCompleteFieldLayout/
// extractFieldValues pairing: the field layout is resolved by walking the
// superclass chain (most-derived class's fields first, first-seen wins on
// a name collision), and each field's raw bytes are then decoded in that
// order.
func (d *Decoder) decodeInstanceDump(h Handler) error {
	objID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	classID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	dataLen, err := d.r.ReadU4()
	if err != nil {
		return err
	}

	layout, err := d.ct.fieldLayout(classID)
	if err != nil {
		return err
	}

	raw, err := d.r.ReadNBytes(int(dataLen))
	if err != nil {
		return err
	}

	values, err := decodeInstanceFields(raw, layout, d.r.Header().IdentifierSize)
	if err != nil {
		return err
	}

	rec := &InstanceDump{
		ObjectID:               objID,
		StackTraceSerialNumber: SerialNum(stackSerial),
		ClassObjectID:          classID,
		FieldValues:            values,
	}
	if err := h.OnInstanceDump(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

// decodeInstanceFields decodes raw instance data against a resolved field
// layout, one value per field in order. Unlike readValue (which reads
// directly from the stream), this reads from an in-memory slice: the
// instance's dataLen bytes have already been read from the stream as one
// blob.
func decodeInstanceFields(raw []byte, layout []InstanceField, identifierSize uint32) ([]InstanceFieldValue, error) {
	sub := newReader(bytes.NewReader(raw))
	sub.SetHeader(&Header{IdentifierSize: identifierSize})

	values := make([]InstanceFieldValue, 0, len(layout))
	for _, f := range layout {
		v, err := sub.ReadValue(f.Type)
		if err != nil {
			return nil, err
		}
		values = append(values, InstanceFieldValue{Field: f, Value: v})
	}
	return values, nil
}
