package hprof

// dispatchRecord decodes one top-level frame's body (exactly length bytes)
// and notifies h. Unrecognized tags are skipped via the reader's frame
// bound rather than treated as an error, so newer producers that add record
// kinds this package doesn't know about still decode cleanly.
func (d *Decoder) dispatchRecord(tag RecordTag, length uint32, h Handler) error {
	switch tag {
	case TagUTF8:
		return d.decodeUTF8(length, h)
	case TagLoadClass:
		return d.decodeLoadClass(h)
	case TagUnloadClass:
		return d.decodeUnloadClass(h)
	case TagStackFrame:
		return d.decodeStackFrame(h)
	case TagStackTrace:
		return d.decodeStackTrace(h)
	case TagAllocSites:
		return d.decodeAllocSites(h)
	case TagHeapSummary:
		return d.decodeHeapSummary(h)
	case TagStartThread:
		return d.decodeStartThread(h)
	case TagEndThread:
		return d.decodeEndThread(h)
	case TagCPUSamples:
		return d.decodeCPUSamples(h)
	case TagControlSettings:
		return d.decodeControlSettings(length, h)
	case TagHeapDump, TagHeapDumpSegment:
		return d.decodeHeapDump(tag, length, h)
	case TagHeapDumpEnd:
		return d.decodeHeapDumpEnd(length, h)
	default:
		return d.r.Skip(int(length))
	}
}

func (d *Decoder) decodeUTF8(length uint32, h Handler) error {
	stringID, err := d.r.ReadID()
	if err != nil {
		return err
	}

	textLen := int(length) - int(d.r.Header().IdentifierSize)
	if textLen < 0 {
		return newFormatError(FrameLengthMismatch, d.r.BytesRead(), "UTF8 record shorter than identifier size")
	}

	text, err := d.r.ReadUTF8(textLen)
	if err != nil {
		return err
	}

	if err := h.OnUTF8String(&UTF8Record{StringID: stringID, Text: text}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeLoadClass(h Handler) error {
	serial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	objID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	nameID, err := d.r.ReadID()
	if err != nil {
		return err
	}

	rec := &LoadClassRecord{
		ClassSerialNumber:      SerialNum(serial),
		ClassObjectID:          objID,
		StackTraceSerialNumber: SerialNum(stackSerial),
		ClassNameID:            nameID,
	}
	if err := h.OnLoadClass(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeUnloadClass(h Handler) error {
	serial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	if err := h.OnUnloadClass(&UnloadClassRecord{ClassSerialNumber: SerialNum(serial)}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeStackFrame(h Handler) error {
	frameID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	methodNameID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	methodSigID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	sourceFileID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	classSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	lineNumber, err := d.r.ReadI4()
	if err != nil {
		return err
	}

	rec := &StackFrameRecord{
		StackFrameID:      frameID,
		MethodNameID:      methodNameID,
		MethodSignatureID: methodSigID,
		SourceFileNameID:  sourceFileID,
		ClassSerialNumber: SerialNum(classSerial),
		LineNumber:        lineNumber,
	}
	if err := h.OnStackFrame(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeStackTrace(h Handler) error {
	traceSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	threadSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	numFrames, err := d.r.ReadU4()
	if err != nil {
		return err
	}

	frameIDs := make([]ID, numFrames)
	for i := range frameIDs {
		id, err := d.r.ReadID()
		if err != nil {
			return err
		}
		frameIDs[i] = id
	}

	rec := &StackTraceRecord{
		StackTraceSerialNumber: SerialNum(traceSerial),
		ThreadSerialNumber:     SerialNum(threadSerial),
		StackFrameIDs:          frameIDs,
	}
	if err := h.OnStackTrace(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeAllocSites(h Handler) error {
	flags, err := d.r.ReadU2()
	if err != nil {
		return err
	}
	cutoff, err := d.r.ReadF32()
	if err != nil {
		return err
	}
	liveBytes, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	liveInstances, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	allocedBytes, err := d.r.ReadU8()
	if err != nil {
		return err
	}
	allocedInstances, err := d.r.ReadU8()
	if err != nil {
		return err
	}
	numSites, err := d.r.ReadU4()
	if err != nil {
		return err
	}

	sites := make([]AllocSite, numSites)
	for i := range sites {
		isArray, err := d.r.ReadU1()
		if err != nil {
			return err
		}
		classSerial, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		stackSerial, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		siteLiveBytes, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		siteLiveInstances, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		siteAllocedBytes, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		siteAllocedInstances, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		sites[i] = AllocSite{
			IsArray:                isArray,
			ClassSerialNumber:      SerialNum(classSerial),
			StackTraceSerialNumber: SerialNum(stackSerial),
			LiveBytes:              siteLiveBytes,
			LiveInstances:          siteLiveInstances,
			AllocedBytes:           siteAllocedBytes,
			AllocedInstances:       siteAllocedInstances,
		}
	}

	rec := &AllocSitesRecord{
		Flags:               flags,
		CutoffRatio:         cutoff,
		TotalLiveBytes:      liveBytes,
		TotalLiveInstances:  liveInstances,
		TotalBytesAlloced:   allocedBytes,
		TotalInstancesAlloc: allocedInstances,
		Sites:               sites,
	}
	if err := h.OnAllocSites(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeHeapSummary(h Handler) error {
	liveBytes, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	liveInstances, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	allocedBytes, err := d.r.ReadU8()
	if err != nil {
		return err
	}
	allocedInstances, err := d.r.ReadU8()
	if err != nil {
		return err
	}

	rec := &HeapSummaryRecord{
		LiveBytes:        liveBytes,
		LiveInstances:    liveInstances,
		AllocedBytes:     allocedBytes,
		AllocedInstances: allocedInstances,
	}
	if err := h.OnHeapSummary(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeStartThread(h Handler) error {
	serial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	objID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	stackSerial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	nameID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	groupNameID, err := d.r.ReadID()
	if err != nil {
		return err
	}
	parentGroupNameID, err := d.r.ReadID()
	if err != nil {
		return err
	}

	rec := &StartThreadRecord{
		ThreadSerialNumber:      SerialNum(serial),
		ThreadObjectID:          objID,
		StackTraceSerialNumber:  SerialNum(stackSerial),
		ThreadNameID:            nameID,
		ThreadGroupNameID:       groupNameID,
		ParentThreadGroupNameID: parentGroupNameID,
	}
	if err := h.OnStartThread(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeEndThread(h Handler) error {
	serial, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	if err := h.OnEndThread(&EndThreadRecord{ThreadSerialNumber: SerialNum(serial)}); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeCPUSamples(h Handler) error {
	total, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	numSamples, err := d.r.ReadU4()
	if err != nil {
		return err
	}

	samples := make([]CPUSample, numSamples)
	for i := range samples {
		count, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		traceSerial, err := d.r.ReadU4()
		if err != nil {
			return err
		}
		samples[i] = CPUSample{NumSamples: count, StackTraceSerialNumber: SerialNum(traceSerial)}
	}

	rec := &CPUSamplesRecord{TotalSamples: total, Samples: samples}
	if err := h.OnCPUSamples(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeControlSettings(length uint32, h Handler) error {
	if length != 6 {
		return newFormatError(FrameLengthMismatch, d.r.BytesRead(), "CONTROL_SETTINGS length must be 6, got %d", length)
	}

	flags, err := d.r.ReadU4()
	if err != nil {
		return err
	}
	depth, err := d.r.ReadU2()
	if err != nil {
		return err
	}

	rec := &ControlSettingsRecord{Flags: flags, StackTraceDepth: depth}
	if err := h.OnControlSettings(rec); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}

func (d *Decoder) decodeHeapDumpEnd(length uint32, h Handler) error {
	if length != 0 {
		return newFormatError(FrameLengthMismatch, d.r.BytesRead(), "HEAP_DUMP_END must be empty, got length %d", length)
	}
	if err := h.OnHeapDumpEnd(); err != nil {
		return newHandlerAbortError(err)
	}
	return nil
}
