package emit

import (
	"csorder/internal/ast"
	"csorder/internal/token"
)

// Unit is one movable child of a container. Offsets are file offsets:
//
//	Fixed ≤ Start ≤ BodyStart ≤ BodyEnd ≤ End
//
// [Fixed, Start) is pinned trivia (file header, preprocessor lines).
type Unit struct {
	ID        ast.DeclID
	Fixed     uint32
	Start     uint32
	BodyStart uint32
	BodyEnd   uint32
	End       uint32
	// Barrier is set when the leading trivia holds a directive or disabled text.
	// #region and #pragma lines count too: nodes never cross them.
	Barrier bool
	// Pinned is set when the leading trivia holds the file header.
	Pinned bool
}

func (u Unit) Sep(content []byte) string  { return string(content[u.Start:u.BodyStart]) }
func (u Unit) Body(content []byte) string { return string(content[u.BodyStart:u.BodyEnd]) }
func (u Unit) Term(content []byte) string { return string(content[u.BodyEnd:u.End]) }

// Segment is a run of units that may be permuted among themselves.
type Segment struct {
	Container ast.DeclID
	Units     []Unit
}

// Start is the first offset a permutation of the segment rewrites.
func (s Segment) Start() uint32 { return s.Units[0].Start }

// End is the offset right after the segment.
func (s Segment) End() uint32 { return s.Units[len(s.Units)-1].End }

// IDs lists the unit nodes in source order.
func (s Segment) IDs() []ast.DeclID {
	out := make([]ast.DeclID, len(s.Units))
	for i, u := range s.Units {
		out[i] = u.ID
	}
	return out
}

// Layout splits the children of container into segments. Children rejected
// by keep end the current segment. Layout stops at the first incomplete
// child: nothing from there on is returned.
func Layout(f *ast.File, container ast.DeclID, keep func(*ast.Decl) bool) []Segment {
	var segs []Segment
	var cur []Unit
	flush := func() {
		if len(cur) > 0 {
			segs = append(segs, Segment{Container: container, Units: cur})
			cur = nil
		}
	}
	for _, id := range f.Decl(container).Children {
		d := f.Decl(id)
		if d.Incomplete {
			break
		}
		if !keep(d) {
			flush()
			continue
		}
		u := UnitOf(f, id)
		if u.Barrier {
			flush()
		}
		cur = append(cur, u)
	}
	flush()
	return segs
}

// UnitOf computes the region split of one node.
func UnitOf(f *ast.File, id ast.DeclID) Unit {
	d := f.Decl(id)
	first := &f.Tokens[d.FirstTok]
	last := &f.Tokens[d.LastTok]
	u := Unit{
		ID:    id,
		Fixed: f.FullStart(d.FirstTok),
		End:   f.FullEnd(d.LastTok),
	}

	lead := first.Leading
	at := func(i int) uint32 {
		if i < len(lead) {
			return lead[i].Span.Start
		}
		return first.Span.Start
	}

	fixed := 0
	if d.FirstTok == 0 {
		if n := pinnedHeader(lead); n > 0 {
			fixed = n
			u.Pinned = true
		}
	}
	for i := len(lead) - 1; i >= fixed; i-- {
		if lead[i].IsBarrier() {
			fixed = i + 1
			if fixed < len(lead) && lead[fixed].Kind == token.TriviaNewline {
				fixed++
			}
			u.Barrier = true
			break
		}
	}
	u.Start = at(fixed)

	// Sep - только целые пустые строки
	sep := fixed
	for i := fixed; i < len(lead); i++ {
		k := lead[i].Kind
		if k == token.TriviaNewline {
			sep = i + 1
			continue
		}
		if k != token.TriviaSpace {
			break
		}
	}
	u.BodyStart = at(sep)

	// Term - хвост из пробелов и перевода строки после последнего комментария
	u.BodyEnd = u.End
	trail := last.Trailing
	for i := len(trail) - 1; i >= 0; i-- {
		k := trail[i].Kind
		if k != token.TriviaSpace && k != token.TriviaNewline {
			break
		}
		u.BodyEnd = trail[i].Span.Start
	}
	return u
}

// pinnedHeader returns how many leading trivia of the first token form the
// file header: a run of line comments or one block comment at the very top,
// plus the blank lines after it.
func pinnedHeader(lead []token.Trivia) int {
	i := 0
	switch {
	case len(lead) > 0 && (lead[0].Kind == token.TriviaBlockComment || lead[0].Kind == token.TriviaDocBlock):
		i = 1
		if i < len(lead) && lead[i].Kind == token.TriviaSpace {
			i++
		}
		if i >= len(lead) || lead[i].Kind != token.TriviaNewline {
			return 0
		}
		i++
	case len(lead) > 0 && lead[0].Kind == token.TriviaLineComment:
		for i < len(lead) {
			j := i
			if lead[j].Kind == token.TriviaSpace && j+1 < len(lead) {
				j++
			}
			if lead[j].Kind != token.TriviaLineComment {
				break
			}
			if j+1 >= len(lead) || lead[j+1].Kind != token.TriviaNewline {
				break
			}
			i = j + 2
		}
		if i == 0 {
			return 0
		}
	default:
		return 0
	}
	// пустые строки после шапки остаются на месте
	for i < len(lead) {
		j := i
		if lead[j].Kind == token.TriviaSpace && j+1 < len(lead) {
			j++
		}
		if lead[j].Kind != token.TriviaNewline {
			break
		}
		i = j + 1
	}
	return i
}
