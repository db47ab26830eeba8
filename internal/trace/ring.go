package trace

import (
	"io"
	"sync"
	"time"
)

// RingTracer is a flight recorder: it keeps the last N events and dumps them
// only when something went wrong. A failed batch job dumps just the subtree
// of its file span, so the noise of the jobs that succeeded stays out.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	n     int
	level Level
	start time.Time
}

// NewRingTracer creates a RingTracer; capacity <= 0 selects DefaultRingSize.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level, start: time.Now()}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Kind, ev.Scope) {
		return
	}
	cp := *ev
	if cp.Seq == 0 {
		cp.Seq = NextSeq()
	}

	t.mu.Lock()
	t.buf[t.next] = cp
	t.next = (t.next + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Event, 0, t.n)
	first := (t.next - t.n + len(t.buf)) % len(t.buf)
	for i := 0; i < t.n; i++ {
		out = append(out, t.buf[(first+i)%len(t.buf)])
	}
	return out
}

// Subtree returns the stored events of span root and of everything opened
// under it, oldest first. Spans whose begin event was already overwritten
// cannot be attributed and are left out.
func (t *RingTracer) Subtree(root uint64) []Event {
	events := t.Snapshot()
	if root == 0 {
		return nil
	}
	inside := map[uint64]bool{root: true}
	out := events[:0:0]
	for _, ev := range events {
		switch {
		case ev.SpanID == root:
		case ev.SpanID != 0 && inside[ev.ParentID]:
			// begin приходит раньше детей, так что одного прохода хватает
			inside[ev.SpanID] = true
		case ev.SpanID == 0 && inside[ev.ParentID]:
		case ev.SpanID != 0 && inside[ev.SpanID]:
		default:
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Dump writes every stored event to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return t.write(w, format, t.Snapshot())
}

// DumpSpan writes the subtree of span root to w.
func (t *RingTracer) DumpSpan(w io.Writer, format Format, root uint64) error {
	return t.write(w, format, t.Subtree(root))
}

func (t *RingTracer) write(w io.Writer, format Format, events []Event) error {
	if format == FormatAuto {
		format = FormatText
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format, t.start)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
