package emit_test

import (
	"testing"

	"csorder/internal/ast"
	"csorder/internal/emit"
	"csorder/internal/testkit"
)

func all(*ast.Decl) bool { return true }

func TestUnitRegions(t *testing.T) {
	src := "class C\n{\n    int a;\n\n    // about b\n    int b; // tail\n}\n"
	f, sf, _ := testkit.Parse(t, src)
	c := f.Decl(f.Root).Children[0]
	segs := emit.Layout(f, c, all)
	if len(segs) != 1 || len(segs[0].Units) != 2 {
		t.Fatalf("segments: %+v", segs)
	}
	a, b := segs[0].Units[0], segs[0].Units[1]
	if a.Sep(sf.Content) != "" || a.Body(sf.Content) != "    int a;" || a.Term(sf.Content) != "\n" {
		t.Fatalf("a: %q %q %q", a.Sep(sf.Content), a.Body(sf.Content), a.Term(sf.Content))
	}
	if b.Sep(sf.Content) != "\n" || b.Body(sf.Content) != "    // about b\n    int b; // tail" || b.Term(sf.Content) != "\n" {
		t.Fatalf("b: %q %q %q", b.Sep(sf.Content), b.Body(sf.Content), b.Term(sf.Content))
	}
	if a.End != b.Start {
		t.Fatalf("units are not adjacent")
	}
}

func TestPermuteKeepsSeparatorsInPlace(t *testing.T) {
	src := "class C\n{\n    int a;\n\n    int b;\n    int c;\n}\n"
	f, sf, _ := testkit.Parse(t, src)
	seg := emit.Layout(f, f.Decl(f.Root).Children[0], all)[0]
	got := emit.Permute(sf.Content, seg, []int{2, 0, 1})
	if got != "    int c;\n\n    int a;\n    int b;\n" {
		t.Fatalf("permuted: %q", got)
	}
	if emit.Permute(sf.Content, seg, []int{0, 1, 2}) != src[seg.Start():seg.End()] {
		t.Fatalf("identity permutation changed text")
	}
	if !emit.IsIdentity([]int{0, 1, 2}) || emit.IsIdentity([]int{1, 0}) {
		t.Fatalf("IsIdentity")
	}
}

func TestHeaderIsFixed(t *testing.T) {
	src := "// a\n// b\n\nusing X;\n"
	f, sf, _ := testkit.Parse(t, src)
	u := emit.UnitOf(f, f.Decl(f.Root).Children[0])
	if !u.Pinned || u.Fixed != 0 || string(sf.Content[u.Start:]) != "using X;\n" {
		t.Fatalf("unit: %+v", u)
	}

	// комментарий без пустой строки за ним тоже шапка
	f, sf, _ = testkit.Parse(t, "/* h */\nusing X;\n")
	u = emit.UnitOf(f, f.Decl(f.Root).Children[0])
	if !u.Pinned || u.Body(sf.Content) != "using X;" {
		t.Fatalf("block header: %+v", u)
	}

	// комментарий на одной строке с кодом не шапка
	f, sf, _ = testkit.Parse(t, "/* h */ using X;\n")
	u = emit.UnitOf(f, f.Decl(f.Root).Children[0])
	if u.Pinned || u.Body(sf.Content) != "/* h */ using X;" {
		t.Fatalf("inline comment: %+v", u)
	}
}

func TestHeaderOnlyAtFileStart(t *testing.T) {
	f, sf, _ := testkit.Parse(t, "using A;\n// about B\nusing B;\n")
	u := emit.UnitOf(f, f.Decl(f.Root).Children[1])
	if u.Pinned || u.Body(sf.Content) != "// about B\nusing B;" {
		t.Fatalf("unit: %+v", u)
	}
}

func TestBarrierSplitsSegments(t *testing.T) {
	src := "class C\n{\n    int a;\n#if DEBUG\n    int b;\n#endif\n    int c;\n}\n"
	f, sf, _ := testkit.Parse(t, src, "DEBUG")
	segs := emit.Layout(f, f.Decl(f.Root).Children[0], all)
	if len(segs) != 3 {
		t.Fatalf("want 3 segments, got %d", len(segs))
	}
	b := segs[1].Units[0]
	if !b.Barrier || string(sf.Content[b.Fixed:b.Start]) != "#if DEBUG\n" || b.Body(sf.Content) != "    int b;" {
		t.Fatalf("b: %+v", b)
	}
	c := segs[2].Units[0]
	if !c.Barrier || string(sf.Content[c.Fixed:c.Start]) != "#endif\n" {
		t.Fatalf("c: %+v", c)
	}
}

func TestKeepFilterBreaksSegments(t *testing.T) {
	src := "class C\n{\n    int a;\n    int b;\n    void M() { }\n    int c;\n}\n"
	f, _, _ := testkit.Parse(t, src)
	segs := emit.Layout(f, f.Decl(f.Root).Children[0], func(d *ast.Decl) bool { return d.Kind == ast.DeclField })
	if len(segs) != 2 || len(segs[0].Units) != 2 || len(segs[1].Units) != 1 {
		t.Fatalf("segments: %+v", segs)
	}
}

func TestLayoutStopsAtIncomplete(t *testing.T) {
	src := "class C\n{\n    int a;\n    int b\n    void M() { }\n}\n"
	f, _, _ := testkit.Parse(t, src)
	segs := emit.Layout(f, f.Decl(f.Root).Children[0], all)
	if len(segs) != 1 || len(segs[0].Units) != 1 {
		t.Fatalf("segments: %+v", segs)
	}
}

func TestIndentAndReindent(t *testing.T) {
	f, _, _ := testkit.Parse(t, "namespace N\n{\n\tusing X;\n}\n")
	ns := f.Decl(f.Root).Children[0]
	if got := emit.IndentOf(f, f.Decl(ns).Children[0]); got != "\t" {
		t.Fatalf("indent %q", got)
	}
	if got := emit.IndentOf(f, ns); got != "" {
		t.Fatalf("namespace indent %q", got)
	}
	got := emit.Reindent("  // c\n\n      using X;", "    ")
	if got != "    // c\n\n    using X;" {
		t.Fatalf("reindent %q", got)
	}
}

func TestCompose(t *testing.T) {
	parts := []emit.Part{{Body: "a", Term: "\n"}, {Sep: "\n", Body: "b", Term: "\n"}}
	if got := emit.Compose(parts); got != "a\n\nb\n" {
		t.Fatalf("compose %q", got)
	}
}
