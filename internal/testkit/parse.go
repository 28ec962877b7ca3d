package testkit

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"testing"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/lexer"
	"csorder/internal/parser"
	"csorder/internal/source"
)

// Parse lexes and parses src as a virtual file.
func Parse(tb testing.TB, src string, defines ...string) (*ast.File, *source.File, *diag.Bag) {
	tb.Helper()
	f, _, file, bag := ParseSet(tb, src, defines...)
	return f, file, bag
}

// ParseSet is Parse that also returns the FileSet holding the file.
func ParseSet(tb testing.TB, src string, defines ...string) (*ast.File, *source.FileSet, *source.File, *diag.Bag) {
	tb.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(src)))
	bag := diag.NewBag(200)
	rep := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep, Defines: defines})
	res := parser.ParseFile(context.Background(), lx, file.ID, ast.NewBuilder(ast.Hints{}), parser.Options{Reporter: rep})
	if res.File == nil {
		tb.Fatalf("parse returned no tree")
	}
	return res.File, fs, file, bag
}

// ApplyEdits splices non-overlapping edits into content.
func ApplyEdits(content string, edits []diag.TextEdit) (string, error) {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b diag.TextEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	var out []byte
	var pos uint32
	for _, e := range sorted {
		if e.Span.Start < pos {
			return "", fmt.Errorf("overlapping edit at %d", e.Span.Start)
		}
		if int(e.Span.End) > len(content) {
			return "", fmt.Errorf("edit end %d beyond content", e.Span.End)
		}
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	out = append(out, content[pos:]...)
	return string(out), nil
}
