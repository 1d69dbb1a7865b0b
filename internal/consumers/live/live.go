// Package live implements an hprof.Handler paired with a bubbletea dashboard
// that shows running per-tag record counts while a stream decodes. The
// handler runs on the decode goroutine and only ever touches a
// mutex-protected snapshot; the bubbletea program polls that snapshot on a
// tick, the same decoupled "handler writes, UI ticks and reads" shape
// internal/monitor's live tabs use for JVM metrics.
package live

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabhi256/hprofdump/internal/hprof"
	"github.com/mabhi256/hprofdump/utils"
)

// orderedTags lists every top-level tag in a fixed display order so the
// dashboard doesn't reshuffle rows between ticks (map iteration order is
// not stable).
var orderedTags = []hprof.RecordTag{
	hprof.TagUTF8,
	hprof.TagLoadClass,
	hprof.TagUnloadClass,
	hprof.TagStackFrame,
	hprof.TagStackTrace,
	hprof.TagAllocSites,
	hprof.TagHeapSummary,
	hprof.TagStartThread,
	hprof.TagEndThread,
	hprof.TagCPUSamples,
	hprof.TagControlSettings,
	hprof.TagHeapDump,
	hprof.TagHeapDumpSegment,
	hprof.TagHeapDumpEnd,
}

// Snapshot is an immutable copy of Counts' state, safe to read from the UI
// goroutine without holding Counts' lock.
type Snapshot struct {
	Header *hprof.Header

	ByTag map[hprof.RecordTag]int

	GCRoots         int
	ClassDumps      int
	InstanceDumps   int
	ObjectArrays    int
	PrimitiveArrays int
	TotalRecords    int

	Done bool
	Err  error
}

// Counts is an hprof.Handler that tallies records under a mutex. It is
// driven on whatever goroutine calls hprof.Decode; Snapshot is driven from
// the bubbletea program's goroutine.
type Counts struct {
	hprof.NoOpHandler

	mu   sync.Mutex
	snap Snapshot
}

// NewCounts returns a zeroed Counts ready to pass to hprof.Decode.
func NewCounts() *Counts {
	return &Counts{snap: Snapshot{ByTag: make(map[hprof.RecordTag]int)}}
}

func (c *Counts) bump(tag hprof.RecordTag) error {
	c.mu.Lock()
	c.snap.ByTag[tag]++
	c.snap.TotalRecords++
	c.mu.Unlock()
	return nil
}

func (c *Counts) OnHeader(h *hprof.Header) error {
	c.mu.Lock()
	c.snap.Header = h
	c.mu.Unlock()
	return nil
}

func (c *Counts) OnUTF8String(*hprof.UTF8Record) error         { return c.bump(hprof.TagUTF8) }
func (c *Counts) OnLoadClass(*hprof.LoadClassRecord) error     { return c.bump(hprof.TagLoadClass) }
func (c *Counts) OnUnloadClass(*hprof.UnloadClassRecord) error { return c.bump(hprof.TagUnloadClass) }
func (c *Counts) OnStackFrame(*hprof.StackFrameRecord) error   { return c.bump(hprof.TagStackFrame) }
func (c *Counts) OnStackTrace(*hprof.StackTraceRecord) error   { return c.bump(hprof.TagStackTrace) }
func (c *Counts) OnAllocSites(*hprof.AllocSitesRecord) error   { return c.bump(hprof.TagAllocSites) }
func (c *Counts) OnHeapSummary(*hprof.HeapSummaryRecord) error { return c.bump(hprof.TagHeapSummary) }
func (c *Counts) OnStartThread(*hprof.StartThreadRecord) error { return c.bump(hprof.TagStartThread) }
func (c *Counts) OnEndThread(*hprof.EndThreadRecord) error     { return c.bump(hprof.TagEndThread) }
func (c *Counts) OnCPUSamples(*hprof.CPUSamplesRecord) error   { return c.bump(hprof.TagCPUSamples) }

func (c *Counts) OnControlSettings(*hprof.ControlSettingsRecord) error {
	return c.bump(hprof.TagControlSettings)
}

func (c *Counts) OnHeapDump(tag hprof.RecordTag) error { return c.bump(tag) }
func (c *Counts) OnHeapDumpEnd() error                 { return c.bump(hprof.TagHeapDumpEnd) }

func (c *Counts) OnClassDump(*hprof.ClassDump) error {
	c.mu.Lock()
	c.snap.ClassDumps++
	c.mu.Unlock()
	return nil
}

func (c *Counts) OnInstanceDump(*hprof.InstanceDump) error {
	c.mu.Lock()
	c.snap.InstanceDumps++
	c.mu.Unlock()
	return nil
}

func (c *Counts) OnObjectArrayDump(*hprof.ObjectArrayDump) error {
	c.mu.Lock()
	c.snap.ObjectArrays++
	c.mu.Unlock()
	return nil
}

func (c *Counts) OnPrimitiveArrayDump(*hprof.PrimitiveArrayDump) error {
	c.mu.Lock()
	c.snap.PrimitiveArrays++
	c.mu.Unlock()
	return nil
}

func (c *Counts) gcRoot() error {
	c.mu.Lock()
	c.snap.GCRoots++
	c.mu.Unlock()
	return nil
}

func (c *Counts) OnGCRootUnknown(*hprof.GCRootUnknown) error           { return c.gcRoot() }
func (c *Counts) OnGCRootJNIGlobal(*hprof.GCRootJNIGlobal) error       { return c.gcRoot() }
func (c *Counts) OnGCRootJNILocal(*hprof.GCRootJNILocal) error         { return c.gcRoot() }
func (c *Counts) OnGCRootJavaFrame(*hprof.GCRootJavaFrame) error       { return c.gcRoot() }
func (c *Counts) OnGCRootNativeStack(*hprof.GCRootNativeStack) error   { return c.gcRoot() }
func (c *Counts) OnGCRootStickyClass(*hprof.GCRootStickyClass) error   { return c.gcRoot() }
func (c *Counts) OnGCRootThreadBlock(*hprof.GCRootThreadBlock) error   { return c.gcRoot() }
func (c *Counts) OnGCRootMonitorUsed(*hprof.GCRootMonitorUsed) error   { return c.gcRoot() }
func (c *Counts) OnGCRootThreadObject(*hprof.GCRootThreadObject) error { return c.gcRoot() }

// MarkDone records the terminal state of the decode goroutine. Done
// snapshots read after this will have Done set and, if decoding failed, Err
// set to the returned error.
func (c *Counts) MarkDone(err error) {
	c.mu.Lock()
	c.snap.Done = true
	c.snap.Err = err
	c.mu.Unlock()
}

// Snapshot returns a point-in-time copy safe to read without the lock.
func (c *Counts) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.snap
	out.ByTag = make(map[hprof.RecordTag]int, len(c.snap.ByTag))
	for k, v := range c.snap.ByTag {
		out.ByTag[k] = v
	}
	return out
}

// KeyMap is the live dashboard's key bindings, in the same
// key.NewBinding(key.WithKeys(...), key.WithHelp(...)) shape internal/monitor
// uses for its own KeyMap.
type KeyMap struct {
	Quit key.Binding
}

func defaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type tickMsg time.Time

// Model is the bubbletea.Model driving the live dashboard. It never touches
// Counts' internal fields directly, only Snapshot.
type Model struct {
	counts   *Counts
	keys     KeyMap
	interval time.Duration

	width, height int
	last          Snapshot
}

// NewModel returns a Model polling counts every interval.
func NewModel(counts *Counts, interval time.Duration) *Model {
	return &Model{
		counts:   counts,
		keys:     defaultKeyMap(),
		interval: interval,
		last:     counts.Snapshot(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}

	case tickMsg:
		m.last = m.counts.Snapshot()
		if m.last.Done {
			return m, tea.Quit
		}
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
	}
	return m, nil
}

func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var lines []string
	lines = append(lines, utils.TitleStyle.Render("hprofdump watch"))

	if h := m.last.Header; h != nil {
		lines = append(lines, utils.FormatKeyValue("format", h.Format, 16))
		lines = append(lines, utils.FormatKeyValue("identifier size", fmt.Sprintf("%d bytes", h.IdentifierSize), 16))
	}

	maxCount := 1
	for _, tag := range orderedTags {
		if n := m.last.ByTag[tag]; n > maxCount {
			maxCount = n
		}
	}

	barWidth := utils.CalculateBarWidth(width, 1)
	for _, tag := range orderedTags {
		n := m.last.ByTag[tag]
		gauge := utils.CreateGauge(float64(n), 0, float64(maxCount), barWidth, utils.InfoColor)
		lines = append(lines, fmt.Sprintf("%-20s %s %d", tag, gauge, n))
	}

	lines = append(lines, "")
	lines = append(lines, utils.FormatKeyValue("gc roots", fmt.Sprintf("%d", m.last.GCRoots), 16))
	lines = append(lines, utils.FormatKeyValue("class dumps", fmt.Sprintf("%d", m.last.ClassDumps), 16))
	lines = append(lines, utils.FormatKeyValue("instance dumps", fmt.Sprintf("%d", m.last.InstanceDumps), 16))
	lines = append(lines, utils.FormatKeyValue("object arrays", fmt.Sprintf("%d", m.last.ObjectArrays), 16))
	lines = append(lines, utils.FormatKeyValue("primitive arrays", fmt.Sprintf("%d", m.last.PrimitiveArrays), 16))
	lines = append(lines, utils.FormatKeyValue("total records", fmt.Sprintf("%d", m.last.TotalRecords), 16))

	if m.last.Done {
		if m.last.Err != nil {
			lines = append(lines, "", utils.ErrorStyle.Render(m.last.Err.Error()))
		} else {
			lines = append(lines, "", utils.GoodStyle.Render("decode complete"))
		}
	}

	lines = append(lines, "", utils.MutedStyle.Render("q: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Run opens path, decodes it while a bubbletea dashboard renders running
// counts, and returns any decode error (nil on a clean end of stream). The
// handler runs on its own goroutine so the dashboard keeps redrawing for
// however long decoding takes.
func Run(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return RunReader(ctx, f)
}

// RunReader is Run without owning file lifecycle, for callers (tests, other
// byte sources) that already have an io.Reader.
func RunReader(ctx context.Context, r io.Reader) error {
	counts := NewCounts()
	model := NewModel(counts, 150*time.Millisecond)
	program := tea.NewProgram(model)

	go func() {
		counts.MarkDone(hprof.Decode(ctx, r, counts))
	}()

	if _, err := program.Run(); err != nil {
		return err
	}

	return counts.Snapshot().Err
}
