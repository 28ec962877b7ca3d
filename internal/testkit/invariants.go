package testkit

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"csorder/internal/ast"
	"csorder/internal/lexer"
	"csorder/internal/source"
	"csorder/internal/token"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) every node span is within file content bounds and points to the file
// 2) every child span is contained in its parent span
// 3) the full spans of the children of a container follow each other without gaps
func CheckSpanInvariants(f *ast.File, sf *source.File) error {
	if f == nil || sf == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var check func(id ast.DeclID) error
	check = func(id ast.DeclID) error {
		d := f.Decl(id)
		if d == nil {
			return fmt.Errorf("nil node for id=%d", id)
		}
		if id != f.Root {
			sp := d.Span
			if sp.File != sf.ID {
				return fmt.Errorf("%s span file mismatch: got=%d want=%d", d.Kind, sp.File, sf.ID)
			}
			if sp.End > lenContent || sp.Start > sp.End {
				return fmt.Errorf("%s span %v is outside content", d.Kind, sp)
			}
		}
		var prevEnd uint32
		for i, c := range d.Children {
			cd := f.Decl(c)
			if cd.FirstTok < d.FirstTok || cd.LastTok > d.LastTok {
				return fmt.Errorf("%s tokens [%d,%d] escape parent %s [%d,%d]",
					cd.Kind, cd.FirstTok, cd.LastTok, d.Kind, d.FirstTok, d.LastTok)
			}
			full := f.FullSpan(c)
			if i > 0 && full.Start != prevEnd {
				return fmt.Errorf("gap between children of %s at %d..%d", d.Kind, prevEnd, full.Start)
			}
			prevEnd = full.End
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	return check(f.Root)
}

// CheckTriviaConservation lexes both texts and compares the multisets of
// comment, directive and disabled-text trivia. When blankLines is set the
// number of line breaks must match too.
func CheckTriviaConservation(before, after string, blankLines bool) error {
	b, bn := triviaBag(before)
	a, an := triviaBag(after)
	if !slices.Equal(a, b) {
		return fmt.Errorf("trivia differ:\nbefore=%q\nafter=%q", b, a)
	}
	if blankLines && an != bn {
		return fmt.Errorf("line breaks differ: before=%d after=%d", bn, an)
	}
	return nil
}

func triviaBag(text string) ([]string, int) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("conservation.cs", []byte(text)))
	var out []string
	newlines := 0
	collect := func(tr []token.Trivia) {
		for _, t := range tr {
			switch {
			case t.Kind == token.TriviaNewline:
				newlines++
			case t.IsComment() || t.IsBarrier():
				out = append(out, t.Text)
			}
		}
	}
	for _, tok := range lexer.Tokenize(file, lexer.Options{}) {
		collect(tok.Leading)
		collect(tok.Trailing)
	}
	slices.Sort(out)
	return out, newlines
}
