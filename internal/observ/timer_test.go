package observ

import (
	"strings"
	"testing"
)

func TestTimerRecordsPhases(t *testing.T) {
	tm := NewTimer()
	lex := tm.Begin("parse")
	tm.End(lex, "tokens=3")
	rules := tm.Begin("rules")
	tm.End(rules, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Note != "tokens=3" {
		t.Fatalf("report: %+v", r)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %v below phase %v", r.TotalMS, r.Phases[0].DurationMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "// tokens=3") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestElapsedOnNilTimer(t *testing.T) {
	var tm *Timer
	if tm.Elapsed(0) != 0 {
		t.Fatalf("nil timer must report zero")
	}
}

func TestMergeSumsByName(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1, Note: "x"}, {Name: "rules", DurationMS: 2}}}
	b := Report{TotalMS: 5, Phases: []PhaseReport{{Name: "cache", DurationMS: 1}, {Name: "parse", DurationMS: 4}}}
	m := Merge(a, b)
	if m.TotalMS != 8 || len(m.Phases) != 3 {
		t.Fatalf("merged: %+v", m)
	}
	if m.Phases[0] != (PhaseReport{Name: "parse", DurationMS: 5}) || m.Phases[2].Name != "cache" {
		t.Fatalf("merged phases: %+v", m.Phases)
	}
}
