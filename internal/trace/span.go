package trace

import (
	"context"
	"time"
)

type (
	tracerKey struct{}
	spanKey   struct{}
)

// WithTracer stores t in ctx; nil stores Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer stored in ctx or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// CurrentSpanID returns the innermost span started through ctx, 0 if none.
func CurrentSpanID(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// Span is an open interval of work. The zero value and spans of a
// disabled tracer are inert.
type Span struct {
	t       Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// keeps: кольцо на LevelError хранит проходы, хотя поток их не пишет.
func keeps(t Tracer, scope Scope) bool {
	if k, ok := t.(interface{ Wants(Scope) bool }); ok {
		return k.Wants(scope)
	}
	return t.Level().ShouldEmit(scope)
}

// StartSpan opens a span under the one carried by ctx and returns ctx
// extended with it.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sp := Begin(FromContext(ctx), scope, name, CurrentSpanID(ctx))
	if sp.id == 0 {
		return ctx, sp
	}
	return context.WithValue(ctx, spanKey{}, sp.id), sp
}

// Begin opens a span on t directly.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !keeps(t, scope) {
		return &Span{}
	}
	sp := &Span{
		t:       t,
		id:      nextSpanID(),
		parent:  parent,
		gid:     goid(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	sp.emit(KindSpanBegin, name, "", nil)
	return sp
}

func (s *Span) live() bool { return s != nil && s.t != nil }

func (s *Span) emit(kind Kind, name, detail string, extra map[string]string) {
	s.t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     name,
		Detail:   detail,
		Extra:    extra,
	})
}

// ID is 0 for inert spans.
func (s *Span) ID() uint64 {
	if !s.live() {
		return 0
	}
	return s.id
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = map[string]string{}
	}
	s.extra[key] = value
	return s
}

// Point records an instant event inside the span.
func (s *Span) Point(name, detail string) {
	if s.live() {
		s.emit(KindPoint, name, detail, nil)
	}
}

// End closes the span and returns its duration; inert spans return 0.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	s.emit(KindSpanEnd, s.name, detail, s.extra)
	return time.Since(s.started)
}
