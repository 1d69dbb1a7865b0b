package hprof

// Handler receives a fully-typed notification for every record and
// sub-record Decode encounters, in stream order. Implementations are a
// capability set: embed NoOpHandler and override only the methods relevant
// to the consumer, rather than implementing the full interface by hand.
//
// Returning a non-nil error from any method aborts decoding; Decode wraps
// the returned error in a HandlerAbortError and returns it unchanged to the
// caller (checkable via errors.Is(err, ErrHandlerAbort)).
//
// Handler implementations must not retain slices or strings passed to them
// beyond the call if the decoder documents them as reused buffers; this
// package does not reuse buffers, so implementations may hold references
// freely.
type Handler interface {
	// OnHeader is called once, before any other method, with the parsed
	// stream preamble.
	OnHeader(h *Header) error

	// Top-level records.
	OnUTF8String(r *UTF8Record) error
	OnLoadClass(r *LoadClassRecord) error
	OnUnloadClass(r *UnloadClassRecord) error
	OnStackFrame(r *StackFrameRecord) error
	OnStackTrace(r *StackTraceRecord) error
	OnAllocSites(r *AllocSitesRecord) error
	OnHeapSummary(r *HeapSummaryRecord) error
	OnStartThread(r *StartThreadRecord) error
	OnEndThread(r *EndThreadRecord) error
	OnCPUSamples(r *CPUSamplesRecord) error
	OnControlSettings(r *ControlSettingsRecord) error

	// Heap dump framing. OnHeapDump fires, with TagHeapDump or
	// TagHeapDumpSegment, before that frame's sub-records are decoded;
	// OnHeapDumpEnd fires once a
	// TagHeapDumpEnd frame is seen (terminating a segmented dump).
	OnHeapDump(tag RecordTag) error
	OnHeapDumpEnd() error

	// Heap dump sub-records.
	OnGCRootUnknown(r *GCRootUnknown) error
	OnGCRootJNIGlobal(r *GCRootJNIGlobal) error
	OnGCRootJNILocal(r *GCRootJNILocal) error
	OnGCRootJavaFrame(r *GCRootJavaFrame) error
	OnGCRootNativeStack(r *GCRootNativeStack) error
	OnGCRootStickyClass(r *GCRootStickyClass) error
	OnGCRootThreadBlock(r *GCRootThreadBlock) error
	OnGCRootMonitorUsed(r *GCRootMonitorUsed) error
	OnGCRootThreadObject(r *GCRootThreadObject) error
	OnClassDump(r *ClassDump) error
	OnInstanceDump(r *InstanceDump) error
	OnObjectArrayDump(r *ObjectArrayDump) error
	OnPrimitiveArrayDump(r *PrimitiveArrayDump) error
}

// NoOpHandler implements Handler with every method a no-op. Consumers embed
// it and override only the notifications they care about.
type NoOpHandler struct{}

var _ Handler = NoOpHandler{}

func (NoOpHandler) OnHeader(*Header) error                           { return nil }
func (NoOpHandler) OnUTF8String(*UTF8Record) error                    { return nil }
func (NoOpHandler) OnLoadClass(*LoadClassRecord) error                { return nil }
func (NoOpHandler) OnUnloadClass(*UnloadClassRecord) error            { return nil }
func (NoOpHandler) OnStackFrame(*StackFrameRecord) error              { return nil }
func (NoOpHandler) OnStackTrace(*StackTraceRecord) error              { return nil }
func (NoOpHandler) OnAllocSites(*AllocSitesRecord) error              { return nil }
func (NoOpHandler) OnHeapSummary(*HeapSummaryRecord) error            { return nil }
func (NoOpHandler) OnStartThread(*StartThreadRecord) error            { return nil }
func (NoOpHandler) OnEndThread(*EndThreadRecord) error                { return nil }
func (NoOpHandler) OnCPUSamples(*CPUSamplesRecord) error              { return nil }
func (NoOpHandler) OnControlSettings(*ControlSettingsRecord) error    { return nil }
func (NoOpHandler) OnHeapDump(RecordTag) error                        { return nil }
func (NoOpHandler) OnHeapDumpEnd() error                              { return nil }
func (NoOpHandler) OnGCRootUnknown(*GCRootUnknown) error              { return nil }
func (NoOpHandler) OnGCRootJNIGlobal(*GCRootJNIGlobal) error          { return nil }
func (NoOpHandler) OnGCRootJNILocal(*GCRootJNILocal) error            { return nil }
func (NoOpHandler) OnGCRootJavaFrame(*GCRootJavaFrame) error          { return nil }
func (NoOpHandler) OnGCRootNativeStack(*GCRootNativeStack) error      { return nil }
func (NoOpHandler) OnGCRootStickyClass(*GCRootStickyClass) error      { return nil }
func (NoOpHandler) OnGCRootThreadBlock(*GCRootThreadBlock) error      { return nil }
func (NoOpHandler) OnGCRootMonitorUsed(*GCRootMonitorUsed) error      { return nil }
func (NoOpHandler) OnGCRootThreadObject(*GCRootThreadObject) error    { return nil }
func (NoOpHandler) OnClassDump(*ClassDump) error                      { return nil }
func (NoOpHandler) OnInstanceDump(*InstanceDump) error                { return nil }
func (NoOpHandler) OnObjectArrayDump(*ObjectArrayDump) error          { return nil }
func (NoOpHandler) OnPrimitiveArrayDump(*PrimitiveArrayDump) error    { return nil }
