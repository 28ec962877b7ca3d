package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"csorder/internal/diag"
	"csorder/internal/observ"
)

func TestJSONOutput(t *testing.T) {
	fs, bag := missingSemicolon("test.cs")

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
		IncludePreviews:  true,
	})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, len = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2003" || d.Severity != "ERROR" || d.Title == "" {
		t.Fatalf("unexpected diagnostic header: %+v", d)
	}
	if d.Location.File != "test.cs" || d.Location.StartLine != 1 || d.Location.StartCol != 10 {
		t.Fatalf("location = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartLine != 2 {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	fx := d.Fixes[0]
	if fx.ID != "syn.insert-semicolon" || fx.Applicability != "always-safe" || !fx.IsPreferred {
		t.Fatalf("fix meta = %+v", fx)
	}
	if len(fx.Edits) != 1 || fx.Edits[0].NewText != ";" {
		t.Fatalf("edits = %+v", fx.Edits)
	}
	if got := fx.Edits[0].AfterLines; len(got) != 1 || got[0] != "int x = 1;" {
		t.Fatalf("after lines = %q", got)
	}
}

func TestJSONWithoutPositionsAndNotes(t *testing.T) {
	fs, bag := missingSemicolon("test.cs")
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeBasename})
	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartByte != 9 {
		t.Fatalf("location = %+v", d.Location)
	}
	if d.Notes != nil || d.Fixes != nil {
		t.Fatalf("notes/fixes must be omitted: %+v", d)
	}
}

func TestJSONMaxAndTimings(t *testing.T) {
	fs, bag := missingSemicolon("test.cs")
	bag.Add(diag.New(diag.SevWarning, diag.OrdElementKind, bag.Items()[0].Primary, "second"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
	out.Timings = &observ.Report{Phases: []observ.PhaseReport{{Name: "parse", DurationMS: 1.5}}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, out); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"timings"`)) {
		t.Fatalf("timings missing:\n%s", buf.String())
	}
}

func TestSortedFixesPrefersPreferred(t *testing.T) {
	fixes := []*diag.Fix{
		{Title: "b", Applicability: diag.FixApplicabilityAlwaysSafe},
		{Title: "a", Applicability: diag.FixApplicabilityManualReview, IsPreferred: true},
		{Title: "c", Applicability: diag.FixApplicabilitySafeWithHeuristics},
	}
	got := sortedFixes(fixes)
	if got[0].Title != "a" || got[1].Title != "b" || got[2].Title != "c" {
		t.Fatalf("order = %s %s %s", got[0].Title, got[1].Title, got[2].Title)
	}
	if fixes[0].Title != "b" {
		t.Fatalf("input slice must not be reordered")
	}
}
