package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"csorder/internal/diag"
	"csorder/internal/lexer"
	"csorder/internal/source"
	"csorder/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []*diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []diag.Code {
	out := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		out = append(out, d.Code)
	}
	return out
}

func lexAll(input string, defines ...string) ([]token.Token, *testReporter) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(input)))
	rep := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: rep, Defines: defines}).All(), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		if t.Kind == token.EOF {
			break
		}
		out = append(out, t.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) {
	t.Helper()
	toks, rep := lexAll(input)
	got := kinds(toks)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("input %q:\nwant %v\ngot  %v\ndiags %v", input, want, got, rep.codes())
	}
}

func rebuild(toks []token.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		for _, tr := range tok.Leading {
			b.WriteString(tr.Text)
		}
		b.WriteString(tok.Text)
		for _, tr := range tok.Trailing {
			b.WriteString(tr.Text)
		}
	}
	return b.String()
}

func TestUsingDirectiveTokens(t *testing.T) {
	expectKinds(t, "using System.Threading;",
		token.KwUsing, token.Ident, token.Dot, token.Ident, token.Semicolon)
	expectKinds(t, "global using static System.Math;",
		token.Ident, token.KwUsing, token.KwStatic, token.Ident, token.Dot, token.Ident, token.Semicolon)
	expectKinds(t, "using Foo = global::System.Collections.Generic.List<int>;",
		token.KwUsing, token.Ident, token.Assign, token.Ident, token.ColonColon, token.Ident,
		token.Dot, token.Ident, token.Dot, token.Ident, token.Dot, token.Ident,
		token.Lt, token.KwPredefinedType, token.Gt, token.Semicolon)
}

func TestNestedGenericsCloseWithTwoGt(t *testing.T) {
	expectKinds(t, "List<List<int>> x;",
		token.Ident, token.Lt, token.Ident, token.Lt, token.KwPredefinedType, token.Gt, token.Gt,
		token.Ident, token.Semicolon)
}

func TestVerbatimAndEscapedIdentifiersAreNotKeywords(t *testing.T) {
	toks, _ := lexAll(`@class \u0063lass class`)
	got := kinds(toks)
	want := []token.Kind{token.Ident, token.Ident, token.KwClass}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	if toks[1].Text != `\u0063lass` {
		t.Fatalf("escaped identifier text: %q", toks[1].Text)
	}
}

func TestContextualKeywordsAreIdents(t *testing.T) {
	toks, _ := lexAll("partial record global get set")
	for _, tok := range toks[:5] {
		if tok.Kind != token.Ident {
			t.Fatalf("%q: expected Ident, got %v", tok.Text, tok.Kind)
		}
	}
	if !toks[0].IsContextual("partial") {
		t.Fatalf("expected contextual partial")
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{`"a\"b"`, token.StringLit},
		{`@"c:\dir\""x"""`, token.StringLit},
		{"@\"multi\nline\"", token.StringLit},
		{`$"x {a + "}" } y"`, token.InterpolatedStringLit},
		{`$@"{a}\n"`, token.InterpolatedStringLit},
		{`@$"{{literal}}"`, token.InterpolatedStringLit},
		{"\"\"\"\nraw \"quoted\" text\n\"\"\"", token.StringLit},
		{"$$\"\"\"{{x}}\"\"\"", token.InterpolatedStringLit},
		{`'\''`, token.CharLit},
		{"0x1G", token.Invalid},
		{"0xFFul", token.NumberLit},
		{"1_000.5e-3m", token.NumberLit},
		{".5f", token.NumberLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, _ := lexAll(tt.input)
			if toks[0].Kind != tt.kind {
				t.Fatalf("want %v, got %v (%q)", tt.kind, toks[0].Kind, toks[0].Text)
			}
			if tt.kind != token.Invalid && toks[0].Text != tt.input {
				t.Fatalf("literal text %q, want %q", toks[0].Text, tt.input)
			}
		})
	}
}

func TestRangeDoesNotBecomeFloat(t *testing.T) {
	expectKinds(t, "1..2", token.NumberLit, token.Op, token.NumberLit)
	expectKinds(t, "1.ToString()", token.NumberLit, token.Dot, token.Ident, token.LParen, token.RParen)
}

func TestUnterminatedString(t *testing.T) {
	toks, rep := lexAll("\"abc\nx")
	if toks[0].Kind != token.Invalid {
		t.Fatalf("expected Invalid, got %v", toks[0].Kind)
	}
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string diagnostic, got %v", rep.codes())
	}
}

func TestTrailingTriviaEndsAtFirstNewline(t *testing.T) {
	toks, _ := lexAll("int a; // note\n\n// lead\nint b;")
	semi := toks[2]
	if semi.Kind != token.Semicolon {
		t.Fatalf("expected semicolon, got %v", semi.Kind)
	}
	var tk []token.TriviaKind
	for _, tr := range semi.Trailing {
		tk = append(tk, tr.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline}
	if fmt.Sprint(tk) != fmt.Sprint(want) {
		t.Fatalf("trailing trivia: want %v, got %v", want, tk)
	}
	next := toks[3]
	var lk []token.TriviaKind
	for _, tr := range next.Leading {
		lk = append(lk, tr.Kind)
	}
	wantLead := []token.TriviaKind{token.TriviaNewline, token.TriviaLineComment, token.TriviaNewline}
	if fmt.Sprint(lk) != fmt.Sprint(wantLead) {
		t.Fatalf("leading trivia: want %v, got %v", wantLead, lk)
	}
}

func TestDocComments(t *testing.T) {
	toks, _ := lexAll("/// <summary/>\n//// plain\n/** doc */ /**/ class")
	var lk []token.TriviaKind
	for _, tr := range toks[0].Leading {
		if tr.Kind != token.TriviaSpace && tr.Kind != token.TriviaNewline {
			lk = append(lk, tr.Kind)
		}
	}
	want := []token.TriviaKind{token.TriviaDocLine, token.TriviaLineComment, token.TriviaDocBlock, token.TriviaBlockComment}
	if fmt.Sprint(lk) != fmt.Sprint(want) {
		t.Fatalf("want %v, got %v", want, lk)
	}
}

func TestConditionalCompilation(t *testing.T) {
	src := "#if DEBUG\nint a;\n#elif TRACE && !DEBUG\nint b;\n#else\nint c;\n#endif\nint d;\n"

	toks, rep := lexAll(src, "TRACE")
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", rep.codes())
	}
	var names []string
	for _, tok := range toks {
		if tok.Kind == token.Ident {
			names = append(names, tok.Text)
		}
	}
	if strings.Join(names, ",") != "b,d" {
		t.Fatalf("active identifiers: %v", names)
	}

	var disabled, directives int
	for _, tok := range toks {
		for _, tr := range tok.Leading {
			switch tr.Kind {
			case token.TriviaDisabled:
				disabled++
			case token.TriviaDirective:
				directives++
			}
		}
	}
	if disabled != 2 || directives != 4 {
		t.Fatalf("disabled=%d directives=%d", disabled, directives)
	}
	if got := rebuild(toks); got != src {
		t.Fatalf("trivia not conserved:\n%q\n%q", src, got)
	}
}

func TestDefineAndNestedInactive(t *testing.T) {
	src := "#define X\n#if X\n#if false\nint a;\n#else\nint b;\n#endif\n#endif\n"
	toks, rep := lexAll(src)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics %v", rep.codes())
	}
	if toks[1].Text != "b" {
		t.Fatalf("expected b to be active, got %q", toks[1].Text)
	}
}

func TestRegionInsideInactiveIsDisabledText(t *testing.T) {
	src := "#if NEVER\n#region R\nint a;\n#endregion\n#endif\n"
	toks, _ := lexAll(src)
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("expected only EOF, got %v", kinds(toks))
	}
	for _, tr := range toks[0].Leading {
		if tr.Kind == token.TriviaDirective && tr.Directive.Kind == token.DirectiveRegion {
			t.Fatalf("#region in inactive code must be disabled text")
		}
	}
}

func TestUnbalancedConditional(t *testing.T) {
	_, rep := lexAll("#if A\nint a;\n")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnbalancedConditional {
		t.Fatalf("expected unbalanced diagnostic, got %v", rep.codes())
	}
	_, rep = lexAll("#endif\n")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnbalancedConditional {
		t.Fatalf("expected unbalanced diagnostic, got %v", rep.codes())
	}
}

func TestDirectiveInfo(t *testing.T) {
	toks, _ := lexAll("#region Fields // keep\nint a;\n#pragma warning disable CS0169 // why\n")
	d := toks[0].Leading[0].Directive
	if d == nil || d.Kind != token.DirectiveRegion || d.Arg != "Fields // keep" {
		t.Fatalf("unexpected region directive %+v", d)
	}
	last := toks[len(toks)-1]
	var pragma *token.Directive
	for _, tr := range last.Leading {
		if tr.Directive != nil {
			pragma = tr.Directive
		}
	}
	if pragma == nil || pragma.Kind != token.DirectivePragma || pragma.Arg != "warning disable CS0169" {
		t.Fatalf("unexpected pragma %+v", pragma)
	}
}

func TestHashInsideLineIsNotDirective(t *testing.T) {
	toks, rep := lexAll("int a; #if X\n")
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected unknown char, got %v", rep.codes())
	}
	_ = toks
}

func TestTriviaConservation(t *testing.T) {
	inputs := []string{
		"",
		"\n\n",
		"// header\n\nusing System;\r\n",
		"namespace N { class C { int x = 1; /* c */ } }\n// tail",
		"class C\n{\n    #region R\n    void M() { var s = $\"{x}\"; }\n    #endregion\n}\n",
		"\"unterminated",
		"a € b",
	}
	for _, in := range inputs {
		toks, _ := lexAll(in)
		if got := rebuild(toks); got != in {
			t.Fatalf("trivia not conserved:\nwant %q\ngot  %q", in, got)
		}
	}
}

func TestTokenTooLongStops(t *testing.T) {
	content := strings.Repeat("a", 1<<16+1) + " b"
	toks, rep := lexAll(content)
	if toks[0].Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", toks[0].Kind)
	}
	if len(rep.diagnostics) == 0 || rep.diagnostics[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", rep.codes())
	}
	if len(toks) != 2 || toks[1].Kind != token.EOF {
		t.Fatalf("expected EOF after long token, got %v", kinds(toks))
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("p.cs", []byte("a b"))), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek: %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek: %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next: %q", n.Text)
	}
}
