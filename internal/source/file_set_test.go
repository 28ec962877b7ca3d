package source

import (
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("Program.cs", []byte("class A {}"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Revise(id1, []byte("class B {}"))
	if id2 != 1 {
		t.Errorf("Expected revised FileID to be 1, got %d", id2)
	}

	latestID, exists := fs.GetLatest("Program.cs")
	if !exists || latestID != id2 {
		t.Fatalf("GetLatest = (%d, %v), want (%d, true)", latestID, exists, id2)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "class A {}" {
		t.Errorf("first version content = %q", got)
	}
	if got := string(fs.Get(id2).Content); got != "class B {}" {
		t.Errorf("second version content = %q", got)
	}
}

func TestReviseKeepsFlags(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("a.cs", []byte("x"), FileNormalizedCRLF|FileHadBOM)
	next := fs.Revise(id, []byte("y"))
	if fs.Get(next).Flags != FileNormalizedCRLF|FileHadBOM {
		t.Fatalf("flags lost on revise: %b", fs.Get(next).Flags)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.cs", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("using System.Threading;\nusing System;\n"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{6, LineCol{Line: 1, Col: 7}},
		{23, LineCol{Line: 1, Col: 24}}, // сам '\n' принадлежит первой строке
		{24, LineCol{Line: 2, Col: 1}},
		{30, LineCol{Line: 2, Col: 7}},
	}
	for _, tc := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if start != tc.want {
			t.Errorf("Resolve(%d) = %+v, want %+v", tc.off, start, tc.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("line 3 = %q", got)
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("line 0 = %q", got)
	}
	if got := f.GetLine(10); got != "" {
		t.Errorf("line 10 = %q", got)
	}
}
