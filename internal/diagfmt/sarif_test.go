package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"csorder/internal/diag"
	"csorder/internal/source"
)

func TestSarifLog(t *testing.T) {
	fs := source.NewFileSetWithBase("/work")
	id := fs.AddVirtual("/work/src/Widget.cs", []byte("class C\n{\n    void M() { }\n    int x;\n}\n"))
	bag := diag.NewBag(10)
	field := source.Span{File: id, Start: 31, End: 37}
	method := source.Span{File: id, Start: 14, End: 26}
	bag.Add(diag.New(diag.SevWarning, diag.OrdElementKind, field, "A field should not follow a method").
		WithNote(method, "method declared here").
		WithFixSuggestion(diag.Fix{
			ID:    "SA1201",
			Title: "Reorder elements",
			Edits: []diag.TextEdit{
				{Span: source.Span{File: id, Start: 10, End: 27}, NewText: "    int x;\n"},
				{Span: source.Span{File: id, Start: 27, End: 38}, NewText: "    void M() { }\n"},
			},
		}))
	bag.Add(diag.New(diag.SevError, diag.SynExpectSemicolon, source.Span{File: id, Start: 5, End: 5}, "expected ';'"))
	bag.Sort()

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{ToolVersion: "1.2.3", InvocationArgs: []string{"diag", "."}}); err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("log header = %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "csorder" || run.Tool.Driver.Version != "1.2.3" {
		t.Fatalf("driver = %+v", run.Tool.Driver)
	}
	rules := run.Tool.Driver.Rules
	if len(rules) != 2 || rules[0].ID != "SA1201" || rules[1].ID != "SYN2003" {
		t.Fatalf("rules = %+v", rules)
	}
	if rules[0].HelpURI != styleCopHelpBase+"SA1201.md" || rules[1].HelpURI != "" {
		t.Fatalf("help uris = %q, %q", rules[0].HelpURI, rules[1].HelpURI)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("invocation must report failure when errors exist: %+v", run.Invocations)
	}

	var ordering *sarifResult
	for i := range run.Results {
		if run.Results[i].RuleID == "SA1201" {
			ordering = &run.Results[i]
		}
	}
	if ordering == nil {
		t.Fatalf("SA1201 result missing")
	}
	if ordering.Level != "warning" || ordering.RuleIndex != 0 {
		t.Fatalf("result = %+v", ordering)
	}
	loc := ordering.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "src/Widget.cs" {
		t.Fatalf("uri = %q", loc.ArtifactLocation.URI)
	}
	if loc.Region == nil || loc.Region.StartLine != 4 || loc.Region.StartColumn != 5 {
		t.Fatalf("region = %+v", loc.Region)
	}
	if len(ordering.RelatedLocations) != 1 || ordering.RelatedLocations[0].Message.Text != "method declared here" {
		t.Fatalf("related = %+v", ordering.RelatedLocations)
	}
	if len(ordering.Fixes) != 1 {
		t.Fatalf("fixes = %+v", ordering.Fixes)
	}
	changes := ordering.Fixes[0].ArtifactChanges
	if len(changes) != 1 || len(changes[0].Replacements) != 2 {
		t.Fatalf("artifact changes = %+v", changes)
	}
	if changes[0].Replacements[0].InsertedContent.Text != "    int x;\n" {
		t.Fatalf("inserted = %+v", changes[0].Replacements[0].InsertedContent)
	}
}

func TestSarifLevels(t *testing.T) {
	cases := map[diag.Severity]string{
		diag.SevError:   "error",
		diag.SevWarning: "warning",
		diag.SevInfo:    "note",
	}
	for sev, want := range cases {
		if got := sarifLevel(sev); got != want {
			t.Fatalf("sarifLevel(%s) = %q, want %q", sev, got, want)
		}
	}
}
