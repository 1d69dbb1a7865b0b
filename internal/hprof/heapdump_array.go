package hprof

// decodeObjectArrayDump parses an object-array sub-record: an array of
// object references (each possibly 0 for null).
func (d *Decoder) decodeObjectArrayDump(h Handler) error {
	objID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	size, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	arrayClassID, err := d.r.ReadID()
	if err != nil {
		return err
	}

	elements := make([]ID, size)
	for i := range elements {
		id, err := d.r.ReadID()
		if err != nil {
			return err
		}
		elements[i] = id
	}

	rec := &ObjectArrayDump{
		ObjectID:               objID,
		StackTraceSerialNumber: SerialNum(stackSerial),
		ArrayClassObjectID:     arrayClassID,
		Elements:               elements,
	}
	if err := h.OnObjectArrayDump(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

// decodePrimitiveArrayDump parses a primitive-array sub-record: raw values
// of a single basic type. This is where a Java String's backing char[] or
// byte[] content arrives on the wire; resolving a String object's actual
// text from its value-array reference is left to a consumer, not decoded
// here.
func (d *Decoder) decodePrimitiveArrayDump(h Handler) error {
	objID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	size, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	elemTypeTag, err := d.r.ReadU1()
	if err != nil {
		return err
	}
	elemType := BasicType(elemTypeTag)

	if elemType.Size(d.r.Header().IdentifierSize) == 0 {
		return newFormatError(UnknownBasicType, d.r.BytesRead(), "primitive array element tag 0x%02x", elemTypeTag)
	}

	elements := make([]TypedValue, size)
	for i := range elements {
		v, err := d.r.ReadValue(elemType)
		if err != nil {
			return err
		}
		elements[i] = v
	}

	rec := &PrimitiveArrayDump{
		ObjectID:               objID,
		StackTraceSerialNumber: SerialNum(stackSerial),
		ElementType:            elemType,
		Elements:               elements,
	}
	if err := h.OnPrimitiveArrayDump(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}
