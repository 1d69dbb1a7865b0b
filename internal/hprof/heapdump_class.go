package hprof

// decodeClassDump parses a class-dump sub-record: class metadata, its
// constant pool, its static fields (with values), and its instance field
// descriptors (name and type only — instance dumps carry the values). The
// parsed ClassDump is registered with the class table before the handler
// is notified, so a handler that walks superclass chains mid-callback sees
// a consistent table.
func (d *Decoder) decodeClassDump(h Handler) error {
	c := &ClassDump{}

	var err error
	if c.ClassObjectID, err = d.r.ReadID(); err != nil {
		return err
	}

	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	c.StackTraceSerialNumber = SerialNum(stackSerial)

	if c.SuperClassObjectID, err = d.r.ReadID(); err != nil {
		return err
	}
	if c.ClassLoaderObjectID, err = d.r.ReadID(); err != nil {
		return err
	}
	if c.SignersObjectID, err = d.r.ReadID(); err != nil {
		return err
	}
	if c.ProtectionDomainObjectID, err = d.r.ReadID(); err != nil {
		return err
	}
	// Two reserved ID-sized fields, always zero, carry no information.
	if _, err = d.r.ReadID(); err != nil {
		return err
	}
	if _, err = d.r.ReadID(); err != nil {
		return err
	}

	if c.InstanceSize, err = d.r.ReadU4(); err != nil {
		return err
	}

	poolCount, err := d.r.ReadU2()
	if err != nil {
		return err
	}
	c.ConstantPool = make([]ConstantPoolEntry, poolCount)
	for i := range c.ConstantPool {
		idx, err := d.r.ReadU2()
		if err != nil {
			return err
		}
		typTag, err := d.r.ReadU1()
		if err != nil {
			return err
		}
		val, err := d.r.ReadValue(BasicType(typTag))
		if err != nil {
			return err
		}
		c.ConstantPool[i] = ConstantPoolEntry{Index: idx, Value: val}
	}

	staticCount, err := d.r.ReadU2()
	if err != nil {
		return err
	}
	c.StaticFields = make([]StaticField, staticCount)
	for i := range c.StaticFields {
		nameID, err := d.r.ReadID()
		if err != nil {
			return err
		}
		typTag, err := d.r.ReadU1()
		if err != nil {
			return err
		}
		val, err := d.r.ReadValue(BasicType(typTag))
		if err != nil {
			return err
		}
		c.StaticFields[i] = StaticField{NameID: nameID, Value: val}
	}

	instanceCount, err := d.r.ReadU2()
	if err != nil {
		return err
	}
	c.InstanceFields = make([]InstanceField, instanceCount)
	for i := range c.InstanceFields {
		nameID, err := d.r.ReadID()
		if err != nil {
			return err
		}
		typTag, err := d.r.ReadU1()
		if err != nil {
			return err
		}
		c.InstanceFields[i] = InstanceField{NameID: nameID, Type: BasicType(typTag)}
	}

	d.ct.addClass(c)

	if err := h.OnClassDump(c); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}
