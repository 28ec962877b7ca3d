package trace

import (
	"io"
	"sync"
)

// RingTracer remembers the most recent events. At LevelError it still
// keeps command and pass spans so a failed run can be dumped.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int // слот для следующей записи после заполнения
	level Level
}

// NewRingTracer keeps up to size events.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, 0, size), level: level}
}

// Wants reports whether spans of scope are recorded.
func (t *RingTracer) Wants(scope Scope) bool {
	if t.level == LevelError {
		return scope <= ScopePass
	}
	return t.level.ShouldEmit(scope)
}

func (t *RingTracer) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.Wants(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buf) < cap(t.buf) {
		t.buf = append(t.buf, *ev)
		return
	}
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
}

// Snapshot returns the kept events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes Snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

// RingOf finds the ring behind t: t itself or a Fanout target.
func RingOf(t Tracer) *RingTracer {
	switch v := t.(type) {
	case *RingTracer:
		return v
	case interface{ Ring() *RingTracer }:
		return v.Ring()
	}
	return nil
}
