// Package printer implements an hprof.Handler that renders records as
// human-readable lines to an io.Writer, styled with the project's shared
// lipgloss palette. It prints the header, load-class, control-settings and
// heap-summary records, heap dump markers and every heap dump sub-record.
// UTF8 strings are kept only to name classes; unload-class, stack frame,
// stack trace, alloc sites, start/end thread and CPU samples records
// produce no output.
package printer

import (
	"fmt"
	"io"

	"github.com/mabhi256/hprofdump/internal/hprof"
	"github.com/mabhi256/hprofdump/utils"
)

// Printer writes a styled summary line for each record kind it overrides;
// the kinds it leaves to NoOpHandler are not printed.
type Printer struct {
	hprof.NoOpHandler

	w         io.Writer
	className map[hprof.ID]string // class object id -> resolved string, only when seen via OnUTF8String + OnLoadClass
	strings   map[hprof.ID]string
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{
		w:         w,
		className: make(map[hprof.ID]string),
		strings:   make(map[hprof.ID]string),
	}
}

func (p *Printer) OnHeader(h *hprof.Header) error {
	title := utils.TitleStyle.Render("HPROF " + h.Format)
	fmt.Fprintln(p.w, title)
	fmt.Fprintln(p.w, utils.FormatKeyValue("identifier size", fmt.Sprintf("%d bytes", h.IdentifierSize), 20))
	fmt.Fprintln(p.w, utils.FormatKeyValue("timestamp", h.Timestamp.Format("2006-01-02 15:04:05"), 20))
	return nil
}

func (p *Printer) OnUTF8String(r *hprof.UTF8Record) error {
	p.strings[r.StringID] = r.Text
	return nil
}

func (p *Printer) OnLoadClass(r *hprof.LoadClassRecord) error {
	if name, ok := p.strings[r.ClassNameID]; ok {
		p.className[r.ClassObjectID] = name
	}
	fmt.Fprintln(p.w, utils.InfoStyle.Render(fmt.Sprintf("load class  serial=%d obj=0x%x %s",
		r.ClassSerialNumber, uint64(r.ClassObjectID), p.className[r.ClassObjectID])))
	return nil
}

func (p *Printer) OnControlSettings(r *hprof.ControlSettingsRecord) error {
	fmt.Fprintln(p.w, utils.MutedStyle.Render(fmt.Sprintf(
		"control settings  allocTraces=%t cpuSampling=%t stackDepth=%d",
		r.IsAllocTracesEnabled(), r.IsCPUSamplingEnabled(), r.StackTraceDepth)))
	return nil
}

func (p *Printer) OnHeapSummary(r *hprof.HeapSummaryRecord) error {
	fmt.Fprintln(p.w, utils.GoodStyle.Render(fmt.Sprintf(
		"heap summary  live=%d bytes (%d instances)  total alloced=%d bytes (%d instances)",
		r.LiveBytes, r.LiveInstances, r.AllocedBytes, r.AllocedInstances)))
	return nil
}

func (p *Printer) OnHeapDump(tag hprof.RecordTag) error {
	fmt.Fprintln(p.w, utils.HeaderStyle.Render(fmt.Sprintf("--- %s ---", tag)))
	return nil
}

func (p *Printer) OnHeapDumpEnd() error {
	fmt.Fprintln(p.w, utils.HeaderStyle.Render("--- end of heap dump ---"))
	return nil
}

func (p *Printer) OnClassDump(r *hprof.ClassDump) error {
	fmt.Fprintln(p.w, fmt.Sprintf("class dump  obj=0x%x %s  fields=%d instanceSize=%d",
		uint64(r.ClassObjectID), p.className[r.ClassObjectID], len(r.InstanceFields), r.InstanceSize))
	return nil
}

func (p *Printer) OnInstanceDump(r *hprof.InstanceDump) error {
	fmt.Fprintf(p.w, "instance  obj=0x%x class=0x%x %s  {", uint64(r.ObjectID), uint64(r.ClassObjectID), p.className[r.ClassObjectID])
	for i, fv := range r.FieldValues {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		fmt.Fprintf(p.w, "%s", fv.Value)
	}
	fmt.Fprintln(p.w, "}")
	return nil
}

func (p *Printer) OnObjectArrayDump(r *hprof.ObjectArrayDump) error {
	fmt.Fprintln(p.w, fmt.Sprintf("object array  obj=0x%x class=0x%x len=%d", uint64(r.ObjectID), uint64(r.ArrayClassObjectID), len(r.Elements)))
	return nil
}

func (p *Printer) OnPrimitiveArrayDump(r *hprof.PrimitiveArrayDump) error {
	fmt.Fprintln(p.w, fmt.Sprintf("primitive array  obj=0x%x type=%s len=%d", uint64(r.ObjectID), r.ElementType, len(r.Elements)))
	return nil
}

func (p *Printer) OnGCRootUnknown(r *hprof.GCRootUnknown) error {
	return p.root("unknown", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootJNIGlobal(r *hprof.GCRootJNIGlobal) error {
	return p.root("jni-global", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootJNILocal(r *hprof.GCRootJNILocal) error {
	return p.root("jni-local", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootJavaFrame(r *hprof.GCRootJavaFrame) error {
	return p.root("java-frame", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootNativeStack(r *hprof.GCRootNativeStack) error {
	return p.root("native-stack", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootStickyClass(r *hprof.GCRootStickyClass) error {
	return p.root("sticky-class", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootThreadBlock(r *hprof.GCRootThreadBlock) error {
	return p.root("thread-block", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootMonitorUsed(r *hprof.GCRootMonitorUsed) error {
	return p.root("monitor-used", uint64(r.ObjectID))
}

func (p *Printer) OnGCRootThreadObject(r *hprof.GCRootThreadObject) error {
	return p.root("thread-object", uint64(r.ObjectID))
}

func (p *Printer) root(kind string, objID uint64) error {
	fmt.Fprintln(p.w, utils.MutedStyle.Render(fmt.Sprintf("gc root  kind=%s obj=0x%x", kind, objID)))
	return nil
}
