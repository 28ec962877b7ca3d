package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"csorder/internal/lexer"
	"csorder/internal/source"
	"csorder/internal/token"
)

func lexSource(t *testing.T, src string) (*source.FileSet, []token.Token) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.cs", []byte(src)))
	return fs, lexer.Tokenize(file, lexer.Options{})
}

func TestFormatTokensPretty(t *testing.T) {
	fs, toks := lexSource(t, "using A; // c\n")
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("want 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "  1: KwUsing") || !strings.Contains(lines[0], `"using" at 1:1-1:6`) {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "(trailing: Space, LineComment, Newline)") {
		t.Fatalf("semicolon line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "EOF") {
		t.Fatalf("last line = %q", lines[3])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	_, toks := lexSource(t, "class C { }")
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatalf("FormatTokensJSON: %v", err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 5 || out[0].Kind != "KwClass" || out[1].Text != "C" || out[4].Kind != "EOF" {
		t.Fatalf("tokens = %+v", out)
	}
	if out[0].Leading != nil {
		t.Fatalf("first token has no leading trivia: %+v", out[0])
	}
}

func TestTriviaLabelsNameDirectives(t *testing.T) {
	got := triviaLabels([]token.Trivia{
		{Kind: token.TriviaDirective, Directive: &token.Directive{Name: "region"}},
		{Kind: token.TriviaNewline},
	})
	if strings.Join(got, ",") != "Directive(#region),Newline" {
		t.Fatalf("labels = %q", got)
	}
	if triviaLabels(nil) != nil {
		t.Fatalf("empty trivia must give nil")
	}
}
