// Package counter implements the simplest possible hprof.Handler: one that
// only tallies how many of each record and sub-record kind a stream
// contains, without retaining any decoded data. It is the consumer-side
// analogue of the core decoder's own internal bookkeeping and exists to
// give a minimal, dependency-free example of the Handler contract.
package counter

import "github.com/mabhi256/hprofdump/internal/hprof"

// Counts tallies one hprof stream's record and sub-record kinds.
type Counts struct {
	hprof.NoOpHandler

	Header *hprof.Header

	UTF8Strings     int
	LoadClasses     int
	UnloadClasses   int
	StackFrames     int
	StackTraces     int
	AllocSites      int
	HeapSummaries   int
	StartThreads    int
	EndThreads      int
	CPUSamples      int
	ControlSettings int
	HeapDumps       int
	HeapDumpEnds    int

	GCRoots         int
	ClassDumps      int
	InstanceDumps   int
	ObjectArrays    int
	PrimitiveArrays int
}

// New returns a zeroed Counts ready to pass to hprof.Decode.
func New() *Counts {
	return &Counts{}
}

func (c *Counts) OnHeader(h *hprof.Header) error {
	c.Header = h
	return nil
}

func (c *Counts) OnUTF8String(*hprof.UTF8Record) error         { c.UTF8Strings++; return nil }
func (c *Counts) OnLoadClass(*hprof.LoadClassRecord) error     { c.LoadClasses++; return nil }
func (c *Counts) OnUnloadClass(*hprof.UnloadClassRecord) error { c.UnloadClasses++; return nil }
func (c *Counts) OnStackFrame(*hprof.StackFrameRecord) error   { c.StackFrames++; return nil }
func (c *Counts) OnStackTrace(*hprof.StackTraceRecord) error   { c.StackTraces++; return nil }
func (c *Counts) OnAllocSites(*hprof.AllocSitesRecord) error   { c.AllocSites++; return nil }
func (c *Counts) OnHeapSummary(*hprof.HeapSummaryRecord) error { c.HeapSummaries++; return nil }
func (c *Counts) OnStartThread(*hprof.StartThreadRecord) error { c.StartThreads++; return nil }
func (c *Counts) OnEndThread(*hprof.EndThreadRecord) error     { c.EndThreads++; return nil }
func (c *Counts) OnCPUSamples(*hprof.CPUSamplesRecord) error   { c.CPUSamples++; return nil }

func (c *Counts) OnControlSettings(*hprof.ControlSettingsRecord) error {
	c.ControlSettings++
	return nil
}

func (c *Counts) OnHeapDump(hprof.RecordTag) error { c.HeapDumps++; return nil }
func (c *Counts) OnHeapDumpEnd() error             { c.HeapDumpEnds++; return nil }

func (c *Counts) OnClassDump(*hprof.ClassDump) error             { c.ClassDumps++; return nil }
func (c *Counts) OnInstanceDump(*hprof.InstanceDump) error        { c.InstanceDumps++; return nil }
func (c *Counts) OnObjectArrayDump(*hprof.ObjectArrayDump) error  { c.ObjectArrays++; return nil }
func (c *Counts) OnPrimitiveArrayDump(*hprof.PrimitiveArrayDump) error {
	c.PrimitiveArrays++
	return nil
}

func (c *Counts) OnGCRootUnknown(*hprof.GCRootUnknown) error         { c.GCRoots++; return nil }
func (c *Counts) OnGCRootJNIGlobal(*hprof.GCRootJNIGlobal) error     { c.GCRoots++; return nil }
func (c *Counts) OnGCRootJNILocal(*hprof.GCRootJNILocal) error       { c.GCRoots++; return nil }
func (c *Counts) OnGCRootJavaFrame(*hprof.GCRootJavaFrame) error     { c.GCRoots++; return nil }
func (c *Counts) OnGCRootNativeStack(*hprof.GCRootNativeStack) error { c.GCRoots++; return nil }
func (c *Counts) OnGCRootStickyClass(*hprof.GCRootStickyClass) error { c.GCRoots++; return nil }
func (c *Counts) OnGCRootThreadBlock(*hprof.GCRootThreadBlock) error { c.GCRoots++; return nil }
func (c *Counts) OnGCRootMonitorUsed(*hprof.GCRootMonitorUsed) error { c.GCRoots++; return nil }
func (c *Counts) OnGCRootThreadObject(*hprof.GCRootThreadObject) error {
	c.GCRoots++
	return nil
}
