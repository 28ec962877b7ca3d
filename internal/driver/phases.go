package driver

import (
	"time"

	"csorder/internal/observ"
)

// PhaseStatus marks either edge of a phase.
type PhaseStatus uint8

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent is sent when Analyze enters or leaves cache, tokenize,
// parse or rules. Elapsed is set on PhaseEnd when timings are enabled.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver is called synchronously from the analysing goroutine.
type PhaseObserver func(PhaseEvent)

// phaseClock feeds both the optional timer and the optional observer.
type phaseClock struct {
	timer   *observ.Timer
	observe PhaseObserver
}

func newPhaseClock(timings bool, observe PhaseObserver) *phaseClock {
	c := &phaseClock{observe: observe}
	if timings {
		c.timer = observ.NewTimer()
	}
	return c
}

func (c *phaseClock) begin(name string) int {
	if c.observe != nil {
		c.observe(PhaseEvent{Name: name, Status: PhaseStart})
	}
	if c.timer == nil {
		return -1
	}
	return c.timer.Begin(name)
}

func (c *phaseClock) end(name string, idx int, note string) {
	if c.timer != nil && idx >= 0 {
		c.timer.End(idx, note)
	}
	if c.observe != nil {
		c.observe(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: c.timer.Elapsed(idx)})
	}
}

// report is nil without timings.
func (c *phaseClock) report() *observ.Report {
	if c.timer == nil {
		return nil
	}
	r := c.timer.Report()
	return &r
}
