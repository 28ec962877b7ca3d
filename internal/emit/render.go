package emit

import (
	"strings"

	"csorder/internal/ast"
	"csorder/internal/token"
)

// Part is one rendered slot: positional Sep and Term around a moved Body.
type Part struct {
	Sep, Body, Term string
}

// Compose concatenates parts.
func Compose(parts []Part) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Sep)
		b.WriteString(p.Body)
		b.WriteString(p.Term)
	}
	return b.String()
}

// Parts returns the slots of seg with bodies placed in order perm
// (perm[i] is the index of the unit whose body lands in slot i).
func Parts(content []byte, seg Segment, perm []int) []Part {
	parts := make([]Part, len(seg.Units))
	for i := range seg.Units {
		parts[i] = Part{
			Sep:  seg.Units[i].Sep(content),
			Body: seg.Units[perm[i]].Body(content),
			Term: seg.Units[i].Term(content),
		}
	}
	return parts
}

// Permute renders the replacement text for [seg.Start(), seg.End()).
func Permute(content []byte, seg Segment, perm []int) string {
	return Compose(Parts(content, seg, perm))
}

// IsIdentity reports whether perm leaves every unit in place.
func IsIdentity(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}

// IndentOf returns the whitespace in front of the node's first token on its line.
func IndentOf(f *ast.File, id ast.DeclID) string {
	lead := f.Tokens[f.Decl(id).FirstTok].Leading
	if n := len(lead); n > 0 && lead[n-1].Kind == token.TriviaSpace {
		if n == 1 || lead[n-2].Kind == token.TriviaNewline || lead[n-2].IsBarrier() {
			return lead[n-1].Text
		}
	}
	return ""
}

// Reindent replaces the indentation of every line of text with indent.
// Blank lines stay empty.
func Reindent(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			lines[i] = trimmed
			continue
		}
		lines[i] = indent + trimmed
	}
	return strings.Join(lines, "\n")
}
