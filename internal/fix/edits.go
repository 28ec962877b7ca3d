package fix

import (
	"cmp"
	"slices"

	"csorder/internal/diag"
	"csorder/internal/source"
)

// editor accumulates the edits of accepted fixes per file. All spans stay
// in the coordinates of the analysed version; splice applies them at once.
type editor struct {
	fs           *source.FileSet
	allowVirtual bool
	accepted     map[source.FileID][]diag.TextEdit
}

func newEditor(fs *source.FileSet, allowVirtual bool) *editor {
	return &editor{fs: fs, allowVirtual: allowVirtual, accepted: map[source.FileID][]diag.TextEdit{}}
}

// take accepts all edits of one fix or none of them. It returns the edit
// count or the reason the fix was refused.
func (e *editor) take(edits []diag.TextEdit) (int, string) {
	byFile := map[source.FileID][]diag.TextEdit{}
	for _, ed := range edits {
		byFile[ed.Span.File] = append(byFile[ed.Span.File], ed)
	}
	for id, group := range byFile {
		if reason := e.check(id, group); reason != "" {
			return 0, reason
		}
	}
	for id, group := range byFile {
		merged := append(e.accepted[id], group...)
		slices.SortStableFunc(merged, func(a, b diag.TextEdit) int {
			return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
		})
		e.accepted[id] = merged
	}
	return len(edits), ""
}

func (e *editor) check(id source.FileID, group []diag.TextEdit) string {
	f := e.fs.Get(id)
	switch {
	case f == nil:
		return "target file is unknown"
	case !e.allowVirtual && f.Flags&source.FileVirtual != 0:
		return "target file is virtual"
	case overlapsAny(e.accepted[id], group) || selfConflicting(group):
		return "conflicts with previously applied edits in " + f.FormatPath("auto", e.fs.BaseDir())
	}
	for _, ed := range group {
		if ed.Span.Start > ed.Span.End || ed.Span.End > f.Size() {
			return "edit span out of range"
		}
		// принятые правки не пересекаются с этой, так что исходный текст актуален
		if ed.OldText != "" && f.Text(ed.Span) != ed.OldText {
			return "existing text does not match expected content"
		}
	}
	return ""
}

func overlapsAny(have, want []diag.TextEdit) bool {
	for _, h := range have {
		for _, w := range want {
			if spansConflict(h, w) {
				return true
			}
		}
	}
	return false
}

// selfConflicting reports overlapping replacements inside one fix. An
// insertion at the start of a replacement lands before it and is fine.
func selfConflicting(edits []diag.TextEdit) bool {
	for i, a := range edits {
		for _, b := range edits[i+1:] {
			if !a.Span.Empty() && !b.Span.Empty() && a.Span.Start < b.Span.End && b.Span.Start < a.Span.End {
				return true
			}
		}
	}
	return false
}

// spansConflict: полуинтервалы [Start, End). Две вставки не конфликтуют;
// вставка конфликтует с заменой, которая начинается в ней или накрывает её.
func spansConflict(a, b diag.TextEdit) bool {
	as, bs := a.Span, b.Span
	switch {
	case as.Empty() && bs.Empty():
		return false
	case as.Empty():
		return bs.Start <= as.Start && as.Start < bs.End
	case bs.Empty():
		return as.Start <= bs.Start && bs.Start < as.End
	}
	return as.Start < bs.End && bs.Start < as.End
}

// splice applies sorted, non-overlapping edits to content.
func splice(content []byte, edits []diag.TextEdit) []byte {
	out := make([]byte, 0, len(content))
	var pos uint32
	for _, ed := range edits {
		out = append(out, content[pos:ed.Span.Start]...)
		out = append(out, ed.NewText...)
		pos = ed.Span.End
	}
	return append(out, content[pos:]...)
}
