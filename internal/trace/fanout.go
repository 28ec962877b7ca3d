package trace

import "errors"

type fanout struct {
	level Level
	to    []Tracer
}

// Fanout sends every event to each of tracers; used for --trace-mode=both.
func Fanout(level Level, tracers ...Tracer) Tracer {
	return &fanout{level: level, to: tracers}
}

func (f *fanout) Emit(ev *Event) {
	for _, t := range f.to {
		cp := *ev
		t.Emit(&cp)
	}
}

// Wants is true when any target keeps scope.
func (f *fanout) Wants(scope Scope) bool {
	for _, t := range f.to {
		if keeps(t, scope) {
			return true
		}
	}
	return false
}

// Ring returns the ring target, if any, for dumping on failure.
func (f *fanout) Ring() *RingTracer {
	for _, t := range f.to {
		if r, ok := t.(*RingTracer); ok {
			return r
		}
	}
	return nil
}

func (f *fanout) Flush() error {
	var errs []error
	for _, t := range f.to {
		errs = append(errs, t.Flush())
	}
	return errors.Join(errs...)
}

func (f *fanout) Close() error {
	var errs []error
	for _, t := range f.to {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

func (f *fanout) Level() Level  { return f.level }
func (f *fanout) Enabled() bool { return f.level > LevelOff }
