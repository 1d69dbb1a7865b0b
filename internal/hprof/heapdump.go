package hprof

// decodeHeapDump notifies the handler that a heap-dump frame is starting
// and then decodes its sub-records until the frame's declared length is
// exhausted. A heap dump frame (TagHeapDump, or one or more
// TagHeapDumpSegment frames followed by a TagHeapDumpEnd) has no
// sub-record count of its own: this loop keeps going purely by byte
// accounting against the enclosing frame bound the outer Decode loop
// already established via enterFrame.
func (d *Decoder) decodeHeapDump(tag RecordTag, length uint32, h Handler) error {
	if err := h.OnHeapDump(tag); err != nil {
		return newHandlerAbortError(err)
	}

	if length == 0 {
		return nil
	}

	segmentEnd := d.r.BytesRead() + int64(length)

	for d.r.BytesRead() < segmentEnd {
		before := d.r.BytesRead()

		subTagRaw, err := d.r.ReadU1()
		if err != nil {
			return err
		}
		subTag := SubTag(subTagRaw)

		if err := d.dispatchSubRecord(subTag, h); err != nil {
			return err
		}

		after := d.r.BytesRead()
		if after > segmentEnd {
			return newFormatError(FrameLengthMismatch, after,
				"sub-record %s overran heap dump frame: ended at %d, frame ends at %d", subTag, after, segmentEnd)
		}
		if after <= before {
			return newFormatError(FrameLengthMismatch, after, "sub-record %s made no progress at offset %d", subTag, before)
		}
	}

	return nil
}

// dispatchSubRecord decodes one heap-dump sub-record. Unlike top-level
// records, an unrecognized sub-tag is fatal: sub-records carry no length
// prefix, so there is no byte count to skip by.
func (d *Decoder) dispatchSubRecord(tag SubTag, h Handler) error {
	switch tag {
	case SubTagRootUnknown:
		return d.decodeGCRootUnknown(h)
	case SubTagRootJNIGlobal:
		return d.decodeGCRootJNIGlobal(h)
	case SubTagRootJNILocal:
		return d.decodeGCRootJNILocal(h)
	case SubTagRootJavaFrame:
		return d.decodeGCRootJavaFrame(h)
	case SubTagRootNativeStack:
		return d.decodeGCRootNativeStack(h)
	case SubTagRootStickyClass:
		return d.decodeGCRootStickyClass(h)
	case SubTagRootThreadBlock:
		return d.decodeGCRootThreadBlock(h)
	case SubTagRootMonitorUsed:
		return d.decodeGCRootMonitorUsed(h)
	case SubTagRootThreadObj:
		return d.decodeGCRootThreadObject(h)
	case SubTagClassDump:
		return d.decodeClassDump(h)
	case SubTagInstanceDump:
		return d.decodeInstanceDump(h)
	case SubTagObjArrayDump:
		return d.decodeObjectArrayDump(h)
	case SubTagPrimArrayDump:
		return d.decodePrimitiveArrayDump(h)
	default:
		return newFormatError(UnknownHeapSubTag, d.r.BytesRead(), "sub-tag 0x%02x", byte(tag))
	}
}
