package trace

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a tick every interval while a command runs; ticks with
// no span ends between them point at a file stuck in the fix loop.
type Heartbeat struct {
	stop context.CancelFunc
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when t is disabled or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &Heartbeat{stop: cancel, done: make(chan struct{})}
	go h.loop(ctx, t, interval)
	return h
}

func (h *Heartbeat) loop(ctx context.Context, t Tracer, interval time.Duration) {
	defer close(h.done)
	tick := time.NewTicker(interval)
	defer tick.Stop()
	gid := goid()
	for n := 1; ; n++ {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			t.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    gid,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(n),
			})
		}
	}
}

// Stop ends the ticker and waits for the goroutine. Safe on nil and
// safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(h.stop)
	<-h.done
}
