package hprof

// GC root sub-records. Each identifies an object the collector treats as
// always-reachable, tagged with where the reference came from (a JNI
// handle, a stack frame, a thread, ...). None carry a length prefix; their
// widths are fixed by the tag alone (plus the stream's identifier size).

func (d *Decoder) decodeGCRootUnknown(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	if err := h.OnGCRootUnknown(&GCRootUnknown{ObjectID: id}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootJNIGlobal(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	ref, err := d.r.ReadID()
	if err != nil {
		return err
	}
	if err := h.OnGCRootJNIGlobal(&GCRootJNIGlobal{ObjectID: id, JNIGlobalRef: ref}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootJNILocal(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	threadSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	frameNum, err := d.r.ReadI4()
	if err != nil {
		return err
	}
	rec := &GCRootJNILocal{ObjectID: id, ThreadSerialNumber: SerialNum(threadSerial), FrameNumber: frameNum}
	if err := h.OnGCRootJNILocal(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootJavaFrame(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	threadSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	frameNum, err := d.r.ReadI4()
	if err != nil {
		return err
	}
	rec := &GCRootJavaFrame{ObjectID: id, ThreadSerialNumber: SerialNum(threadSerial), FrameNumber: frameNum}
	if err := h.OnGCRootJavaFrame(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootNativeStack(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	threadSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	rec := &GCRootNativeStack{ObjectID: id, ThreadSerialNumber: SerialNum(threadSerial)}
	if err := h.OnGCRootNativeStack(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootStickyClass(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	if err := h.OnGCRootStickyClass(&GCRootStickyClass{ObjectID: id}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootThreadBlock(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	threadSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	rec := &GCRootThreadBlock{ObjectID: id, ThreadSerialNumber: SerialNum(threadSerial)}
	if err := h.OnGCRootThreadBlock(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootMonitorUsed(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	if err := h.OnGCRootMonitorUsed(&GCRootMonitorUsed{ObjectID: id}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeGCRootThreadObject(h Handler) error {
	id, err := d.r.ReadID()
	if err != nil {
		return err
	}
	threadSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	rec := &GCRootThreadObject{
		ObjectID:               id,
		ThreadSerialNumber:     SerialNum(threadSerial),
		StackTraceSerialNumber: SerialNum(stackSerial),
	}
	if err := h.OnGCRootThreadObject(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}
