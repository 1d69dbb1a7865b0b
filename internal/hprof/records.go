package hprof

// UTF8Record is the body of a TagUTF8 frame: an id naming a string and its
// UTF-8 payload.
type UTF8Record struct {
	StringID ID
	Text     string
}

// LoadClassRecord is the body of a TagLoadClass frame.
type LoadClassRecord struct {
	ClassSerialNumber      SerialNum
	ClassObjectID          ID
	StackTraceSerialNumber SerialNum
	ClassNameID            ID // references a UTF8Record
}

// UnloadClassRecord is the body of a TagUnloadClass frame.
type UnloadClassRecord struct {
	ClassSerialNumber SerialNum
}

// StackFrameRecord is the body of a TagStackFrame frame.
type StackFrameRecord struct {
	StackFrameID      ID
	MethodNameID      ID // references a UTF8Record
	MethodSignatureID ID // references a UTF8Record
	SourceFileNameID  ID // references a UTF8Record
	ClassSerialNumber SerialNum
	LineNumber        int32 // >0: normal line; -1: unknown; -2: compiled; -3: native
}

// StackTraceRecord is the body of a TagStackTrace frame.
type StackTraceRecord struct {
	StackTraceSerialNumber SerialNum
	ThreadSerialNumber     SerialNum
	StackFrameIDs          []ID
}

// AllocSite describes one allocation site within an AllocSitesRecord.
type AllocSite struct {
	IsArray                byte // 0 normal, 2 object array, 4-11 primitive array kinds
	ClassSerialNumber      SerialNum
	StackTraceSerialNumber SerialNum
	LiveBytes              uint32
	LiveInstances          uint32
	AllocedBytes           uint32
	AllocedInstances       uint32
}

// AllocSitesRecord is the body of a TagAllocSites frame.
type AllocSitesRecord struct {
	Flags               uint16
	CutoffRatio         float32
	TotalLiveBytes      uint32
	TotalLiveInstances  uint32
	TotalBytesAlloced   uint64
	TotalInstancesAlloc uint64
	Sites               []AllocSite
}

const (
	allocFlagIncremental     = 0x0001
	allocFlagSortByAlloc     = 0x0002
	allocFlagForcedGC        = 0x0004
)

// IsIncremental reports whether this is an incremental (vs. complete) dump.
func (a *AllocSitesRecord) IsIncremental() bool { return a.Flags&allocFlagIncremental != 0 }

// IsSortedByAllocation reports whether sites are sorted by allocation (vs. live) count.
func (a *AllocSitesRecord) IsSortedByAllocation() bool { return a.Flags&allocFlagSortByAlloc != 0 }

// ForcedGC reports whether a GC was forced before this dump was taken.
func (a *AllocSitesRecord) ForcedGC() bool { return a.Flags&allocFlagForcedGC != 0 }

// HeapSummaryRecord is the body of a TagHeapSummary frame.
type HeapSummaryRecord struct {
	LiveBytes        uint32
	LiveInstances    uint32
	AllocedBytes     uint64
	AllocedInstances uint64
}

// StartThreadRecord is the body of a TagStartThread frame.
type StartThreadRecord struct {
	ThreadSerialNumber      SerialNum
	ThreadObjectID          ID
	StackTraceSerialNumber  SerialNum
	ThreadNameID            ID // references a UTF8Record
	ThreadGroupNameID       ID // references a UTF8Record
	ParentThreadGroupNameID ID // references a UTF8Record
}

// EndThreadRecord is the body of a TagEndThread frame.
type EndThreadRecord struct {
	ThreadSerialNumber SerialNum
}

// CPUSample is one entry within a CPUSamplesRecord.
type CPUSample struct {
	NumSamples             uint32
	StackTraceSerialNumber SerialNum
}

// CPUSamplesRecord is the body of a TagCPUSamples frame.
type CPUSamplesRecord struct {
	TotalSamples uint32
	Samples      []CPUSample
}

// ControlSettingsRecord is the body of a TagControlSettings frame.
type ControlSettingsRecord struct {
	Flags           uint32
	StackTraceDepth uint16
}

const (
	controlFlagAllocTraces = 0x00000001
	controlFlagCPUSampling = 0x00000002
)

// IsAllocTracesEnabled reports whether allocation-site tracing was on.
func (c *ControlSettingsRecord) IsAllocTracesEnabled() bool {
	return c.Flags&controlFlagAllocTraces != 0
}

// IsCPUSamplingEnabled reports whether CPU sampling was on.
func (c *ControlSettingsRecord) IsCPUSamplingEnabled() bool {
	return c.Flags&controlFlagCPUSampling != 0
}
