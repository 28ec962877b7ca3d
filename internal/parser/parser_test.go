package parser_test

import (
	"context"
	"strings"
	"testing"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/lexer"
	"csorder/internal/parser"
	"csorder/internal/source"
	"csorder/internal/testkit"
	"csorder/internal/token"
)

func parse(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	return parseCtx(t, context.Background(), src)
}

func parseCtx(t *testing.T, ctx context.Context, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	res := parser.ParseFile(ctx, lx, file.ID, ast.NewBuilder(ast.Hints{}), parser.Options{Reporter: rep, MaxErrors: 100})
	if res.File == nil {
		t.Fatalf("nil file")
	}
	return res.File, bag
}

// dump печатает дерево объявлений: "kind name [explicit] [!]" с отступом по глубине.
func dump(f *ast.File) string {
	var b strings.Builder
	var visit func(id ast.DeclID, depth int)
	visit = func(id ast.DeclID, depth int) {
		d := f.Decl(id)
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(d.Kind.String())
		if u, ok := f.Decls.Using(id); ok {
			b.WriteString(" " + u.Name)
		} else if d.Name != "" {
			b.WriteString(" " + d.Name)
		}
		if d.ExplicitInterface {
			b.WriteString(" explicit")
		}
		if d.Incomplete {
			b.WriteString(" !")
		}
		b.WriteString("\n")
		for _, c := range d.Children {
			visit(c, depth+1)
		}
	}
	for _, c := range f.Decl(f.Root).Children {
		visit(c, 0)
	}
	return b.String()
}

func expectTree(t *testing.T, f *ast.File, want string) {
	t.Helper()
	got := dump(f)
	want = strings.TrimLeft(want, "\n")
	if got != want {
		t.Fatalf("tree mismatch\n--- got ---\n%s--- want ---\n%s", got, want)
	}
}

func expectNoErrors(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.HasErrors() {
		for _, d := range bag.Items() {
			t.Logf("%s %s", d.Code.ID(), d.Message)
		}
		t.Fatalf("unexpected errors")
	}
}

func TestMemberKinds(t *testing.T) {
	src := `using System;
namespace Foo
{
    public class Bar
    {
        private int x = 1;
        public Bar() { }
        public int X { get; set; }
        public void M<T>(T a) where T : class { }
        public int this[int i] => i;
        public static Bar operator +(Bar a, Bar b) => a;
        public static implicit operator int(Bar b) => 0;
        ~Bar() { }
        public event EventHandler E;
        public event EventHandler F { add { } remove { } }
        void IFoo.Do() { }
        public delegate void D(int x);
        enum Color { Red, Green = 2, }
    }
}
`
	f, bag := parse(t, src)
	expectNoErrors(t, bag)
	expectTree(t, f, `
using directive System
namespace Foo
  class Bar
    field x
    constructor Bar
    property X
    method M
    indexer this
    operator operator +
    conversion operator operator int
    destructor Bar
    event field E
    event F
    method Do explicit
    delegate D
    enum Color
      enum member Red
      enum member Green
`)
}

func TestUsingDirectives(t *testing.T) {
	src := "global using System;\nusing static System.Math;\nusing IO = System.IO;\nusing X = global::System.Text;\nusing System.Collections.Generic;\n"
	f, bag := parse(t, src)
	expectNoErrors(t, bag)

	kids := f.Decl(f.Root).Children
	if len(kids) != 5 {
		t.Fatalf("expected 5 usings, got %d", len(kids))
	}
	want := []ast.UsingDirective{
		{Global: true, Name: "System"},
		{Static: true, Name: "System.Math"},
		{Alias: "IO", Name: "System.IO"},
		{Alias: "X", Name: "global::System.Text"},
		{Name: "System.Collections.Generic"},
	}
	for i, id := range kids {
		u, ok := f.Decls.Using(id)
		if !ok {
			t.Fatalf("child %d is not a using", i)
		}
		if u.Global != want[i].Global || u.Static != want[i].Static || u.Alias != want[i].Alias || u.Name != want[i].Name {
			t.Fatalf("using %d: got %+v, want %+v", i, *u, want[i])
		}
		if first := strings.SplitN(u.Name, ":", 2)[0]; !strings.HasPrefix(first, f.Tokens[u.NameTok].Text) {
			t.Fatalf("using %d: NameTok points at %q", i, f.Tokens[u.NameTok].Text)
		}
	}
}

func TestFileScopedNamespace(t *testing.T) {
	f, bag := parse(t, "namespace A.B;\n\nclass C { }\n")
	expectNoErrors(t, bag)
	expectTree(t, f, `
namespace A.B
  class C
`)
	if len(f.Namespaces) != 1 {
		t.Fatalf("expected one namespace, got %d", len(f.Namespaces))
	}
	info, ok := f.Decls.Namespace(f.Namespaces[0])
	if !ok || !info.FileScoped {
		t.Fatalf("expected file-scoped namespace")
	}
	if strings.Join(info.Segments, "|") != "A|B" {
		t.Fatalf("segments: %v", info.Segments)
	}
	ns := f.Decl(f.Namespaces[0])
	if ns.BodyClose != f.EOFIndex() {
		t.Fatalf("file-scoped namespace must close at EOF")
	}
	if f.Tokens[ns.BodyOpen].Kind != token.Semicolon {
		t.Fatalf("body open should be ';'")
	}
}

func TestSecondFileScopedNamespace(t *testing.T) {
	_, bag := parse(t, "namespace A;\nnamespace B;\n")
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynMultipleFileScoped {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s", diag.SynMultipleFileScoped.ID())
	}
}

func TestTopLevelStatements(t *testing.T) {
	src := "using System;\nConsole.WriteLine(\"hi\");\nstatic void Local() { }\nclass C { }\n"
	f, bag := parse(t, src)
	expectNoErrors(t, bag)
	expectTree(t, f, `
using directive System
global statement
global statement
class C
`)
}

func TestGlobalAttributes(t *testing.T) {
	f, bag := parse(t, "using System;\n[assembly: CLSCompliant(true)]\nnamespace N { }\n")
	expectNoErrors(t, bag)
	if !f.HasGlobalAttributes {
		t.Fatalf("expected HasGlobalAttributes")
	}
	expectTree(t, f, `
using directive System
attribute list
namespace N
`)
}

func TestRecords(t *testing.T) {
	src := "public record Person(string Name);\nrecord struct P(int X) { }\nrecord class Q { }\n"
	f, bag := parse(t, src)
	expectNoErrors(t, bag)
	expectTree(t, f, `
record Person
record struct P
record Q
`)
}

func TestInterfaceMembers(t *testing.T) {
	f, bag := parse(t, "interface I { void M(); int P { get; } event Action E; }")
	expectNoErrors(t, bag)
	expectTree(t, f, `
interface I
  method M
  property P
  event field E
`)
}

func TestAccessors(t *testing.T) {
	f, bag := parse(t, "class C { int P { get => 1; private set { } } int Q { get; init; } = 5; }")
	expectNoErrors(t, bag)
	c := f.Decl(f.Decl(f.Root).Children[0])
	p := f.Decl(c.Children[0])
	if len(p.Accessors) != 2 || p.Accessors[0].Name != "get" || p.Accessors[1].Name != "set" {
		t.Fatalf("P accessors: %+v", p.Accessors)
	}
	if f.Tokens[p.Accessors[1].Start].Kind != token.KwPrivate {
		t.Fatalf("accessor range should start at its modifier")
	}
	q := f.Decl(c.Children[1])
	if len(q.Accessors) != 2 || q.Accessors[1].Name != "init" {
		t.Fatalf("Q accessors: %+v", q.Accessors)
	}
	if f.Tokens[q.LastTok].Kind != token.Semicolon {
		t.Fatalf("property initializer must belong to the property")
	}
}

func TestModifiers(t *testing.T) {
	src := "public static partial class C { public static readonly int X; async Task M() { } }"
	f, bag := parse(t, src)
	expectNoErrors(t, bag)
	c := f.Decl(f.Decl(f.Root).Children[0])
	if !c.Mods.Has(ast.ModPartial) || !c.Mods.Has(ast.ModStatic) || len(c.ModTokens) != 3 {
		t.Fatalf("class mods: %b %v", c.Mods, c.ModTokens)
	}
	x := f.Decl(c.Children[0])
	if x.Mods&(ast.ModPublic|ast.ModStatic|ast.ModReadonly) != ast.ModPublic|ast.ModStatic|ast.ModReadonly {
		t.Fatalf("field mods: %b", x.Mods)
	}
	m := f.Decl(c.Children[1])
	if m.Kind != ast.DeclMethod || !m.Mods.Has(ast.ModAsync) {
		t.Fatalf("async method: %s %b", m.Kind, m.Mods)
	}
}

func TestAttributesBelongToMember(t *testing.T) {
	f, bag := parse(t, "class C {\n    [Obsolete]\n    public void M() { }\n}\n")
	expectNoErrors(t, bag)
	c := f.Decl(f.Decl(f.Root).Children[0])
	m := f.Decl(c.Children[0])
	if f.Tokens[m.FirstTok].Kind != token.LBracket {
		t.Fatalf("member should start at its attribute, got %q", f.Tokens[m.FirstTok].Text)
	}
}

func TestRecoveryMissingSemicolon(t *testing.T) {
	f, bag := parse(t, "class C {\n int x\n void M() { }\n}\n")
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	c := f.Decl(f.Decl(f.Root).Children[0])
	if c.Incomplete {
		t.Fatalf("class itself should be complete")
	}
	if len(c.Children) != 1 || !f.Decl(c.Children[0]).Incomplete {
		t.Fatalf("expected one incomplete member:\n%s", dump(f))
	}
}

func TestRecoveryUnclosedClass(t *testing.T) {
	f, bag := parse(t, "class C { void M() { }")
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	c := f.Decl(f.Decl(f.Root).Children[0])
	if !c.Incomplete {
		t.Fatalf("unclosed class must be incomplete")
	}
}

func TestRecoveryStrayBrace(t *testing.T) {
	f, bag := parse(t, "class C { }\n}\nclass D { }\n")
	if !bag.HasErrors() {
		t.Fatalf("expected errors")
	}
	expectTree(t, f, `
class C
global statement !
class D
`)
}

func TestCancelledParse(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f, _ := parseCtx(t, ctx, "class C { }\nclass D { }\n")
	kids := f.Decl(f.Root).Children
	if len(kids) != 1 || !f.Decl(kids[0]).Incomplete {
		t.Fatalf("cancelled parse should leave one incomplete node:\n%s", dump(f))
	}
}

func TestNodeRangesAreContiguous(t *testing.T) {
	src := "using System;\n\nnamespace N\n{\n    // c\n    class A { int x; }\n\n    class B { }\n}\n"
	f, bag := parse(t, src)
	expectNoErrors(t, bag)
	var text strings.Builder
	for _, id := range f.Decl(f.Root).Children {
		sp := f.FullSpan(id)
		text.WriteString(src[sp.Start:sp.End])
	}
	text.WriteString(src[f.FullStart(f.EOFIndex()):])
	if text.String() != src {
		t.Fatalf("top-level full spans do not tile the file:\n%q", text.String())
	}
}

func TestSpanInvariants(t *testing.T) {
	src := "// header\nusing System;\n\nnamespace N\n{\n    [Obsolete]\n    public class A\n    {\n        int x;\n        int P { get; set; }\n        void M() { }\n    }\n\n    enum E { One, Two }\n}\n"
	f, sf, bag := testkit.Parse(t, src)
	expectNoErrors(t, bag)
	if err := testkit.CheckSpanInvariants(f, sf); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestMaxErrorsKeepsFirstError(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte("class { }\nclass { }\nclass { }\n")))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	parser.ParseFile(context.Background(), lx, file.ID, ast.NewBuilder(ast.Hints{}), parser.Options{Reporter: rep, MaxErrors: 1})
	if bag.Len() != 1 {
		t.Fatalf("want exactly the first error, got %d", bag.Len())
	}
	if d := bag.Items()[0]; d.Code != diag.SynExpectIdentifier {
		t.Fatalf("first error: %s", d.Code.ID())
	}
}
