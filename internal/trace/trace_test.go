package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelScopes(t *testing.T) {
	if !LevelPhase.ShouldEmit(ScopePass) || LevelPhase.ShouldEmit(ScopeFile) {
		t.Fatalf("phase level")
	}
	if !LevelDetail.ShouldEmit(ScopeFile) || LevelError.ShouldEmit(ScopeDriver) {
		t.Fatalf("detail/error level")
	}
	if l, err := ParseLevel(" Detail"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := ParseMode(""); err == nil {
		t.Fatalf("empty mode accepted")
	}
	if Scope(9).String() != "unknown" || ModeBoth.String() != "both" {
		t.Fatalf("names")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, pass := StartSpan(ctx, ScopePass, "rules")
	_, file := StartSpan(ctx, ScopeFile, "file:a.cs")
	file.WithExtra("violations", "2").End("")
	pass.End("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev["message"] != "file:a.cs" || ev["kind"] != "end" || ev["violations"] != "2" || ev["parent"] == nil {
		t.Fatalf("event: %v", ev)
	}
}

func TestRingKeepsPassesAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(2, LevelError)
	Begin(ring, ScopePass, "lex", 0).End("")
	Begin(ring, ScopeFile, "file:a.cs", 0).End("")
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "lex" || events[1].Kind != KindSpanEnd {
		t.Fatalf("events: %+v", events)
	}
	Begin(ring, ScopeDriver, "diag", 0).End("")
	events = ring.Snapshot()
	if len(events) != 2 || events[0].Name != "diag" || events[0].Kind != KindSpanBegin {
		t.Fatalf("wrapped: %+v", events)
	}
	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil || !strings.Contains(buf.String(), "→ diag") {
		t.Fatalf("dump %q: %v", buf.String(), err)
	}
}

func TestNopSpanIsSafe(t *testing.T) {
	ctx, sp := StartSpan(context.Background(), ScopePass, "x")
	if sp.ID() != 0 || CurrentSpanID(ctx) != 0 {
		t.Fatalf("nop span has id")
	}
	sp.WithExtra("k", "v").Point("p", "")
	if sp.End("") != 0 {
		t.Fatalf("nop span measured time")
	}
}

func TestFanoutExposesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf, Format: FormatNDJSON})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	Begin(tr, ScopePass, "parse", 0).End("")
	ring := RingOf(tr)
	if ring == nil || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring: %+v", ring)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("stream: %q", buf.String())
	}
	if tr, _ := New(Config{Level: LevelOff}); tr != Nop || RingOf(tr) != nil {
		t.Fatalf("off tracer")
	}
}

func TestHeartbeatStop(t *testing.T) {
	ring := NewRingTracer(8, LevelPhase)
	h := StartHeartbeat(ring, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()
	n := len(ring.Snapshot())
	if n == 0 || ring.Snapshot()[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded")
	}
	time.Sleep(5 * time.Millisecond)
	if len(ring.Snapshot()) != n {
		t.Fatalf("heartbeat kept ticking after Stop")
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatalf("heartbeat on nop tracer")
	}
}
