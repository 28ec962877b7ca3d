package diag

import (
	"testing"

	"csorder/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/src/Sample.cs", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     OrdElementKind,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error SYN2001 src/Sample.cs:1:1 first line second\n" +
		"note SYN2001 src/Sample.cs:2:1 note line\n" +
		"warning SA1201 src/Sample.cs:2:1 another"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortSkipsOutOfRangeSpans(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.AddVirtual("x.cs", []byte("ab"))
	diags := []Diagnostic{{Code: OrdElementKind, Primary: source.Span{File: file, Start: 0, End: 10}}}
	if got := FormatShort(diags, fs, false); got != "" {
		t.Fatalf("expected nothing, got %q", got)
	}
}
