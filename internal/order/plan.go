package order

import (
	"cmp"
	"slices"
	"strings"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/emit"
	"csorder/internal/policy"
	"csorder/internal/source"
)

// insertionPerm orders n items by insertion: each item is placed after the
// last earlier item it does not have to precede. Equal items keep their
// relative order, and no adjacent pair of the result satisfies less(next, prev).
func insertionPerm(n int, less func(a, b int) bool) []int {
	perm := make([]int, 0, n)
	for i := range n {
		j := len(perm)
		for j > 0 && less(i, perm[j-1]) {
			j--
		}
		perm = slices.Insert(perm, j, i)
	}
	return perm
}

func segmentEdit(src *source.File, seg emit.Segment, text string) diag.TextEdit {
	return spanEdit(src, seg.Start(), seg.End(), text)
}

func spanEdit(src *source.File, start, end uint32, text string) diag.TextEdit {
	return diag.TextEdit{
		Span:    source.Span{File: src.ID, Start: start, End: end},
		NewText: text,
		OldText: string(src.Content[start:end]),
	}
}

// findMember locates node among the member segments of its parent.
func findMember(f *ast.File, node ast.DeclID) (policy.Container, emit.Segment, []Member, int, bool) {
	d := f.Decl(node)
	if d == nil {
		return 0, emit.Segment{}, nil, 0, false
	}
	cont, ok := ContainerOf(f, d.Parent)
	if !ok {
		return 0, emit.Segment{}, nil, 0, false
	}
	segs, members := MemberSegments(f, d.Parent)
	for s, seg := range segs {
		for i, u := range seg.Units {
			if u.ID == node {
				return cont, seg, members[s], i, true
			}
		}
	}
	return 0, emit.Segment{}, nil, 0, false
}

// MemberSegment returns the segment that holds node.
func MemberSegment(f *ast.File, node ast.DeclID) (emit.Segment, bool) {
	_, seg, _, _, ok := findMember(f, node)
	return seg, ok
}

// RelocateEdit moves node left to the place one insertion-sort step gives it:
// right after the last preceding sibling it does not have to precede. The
// edit rewrites the whole segment, so relocations in one segment conflict and
// a fix pass applies one of them.
func RelocateEdit(f *ast.File, src *source.File, pol *policy.Policy, node ast.DeclID) (diag.TextEdit, bool) {
	cont, seg, ms, i, ok := findMember(f, node)
	if !ok {
		return diag.TextEdit{}, false
	}
	j := i
	for j > 0 && memberLess(pol, cont, ms[i], ms[j-1]) {
		j--
	}
	if j == i {
		return diag.TextEdit{}, false
	}
	perm := make([]int, 0, len(ms))
	for k := range ms {
		switch {
		case k == j:
			perm = append(perm, i, k)
		case k == i:
		default:
			perm = append(perm, k)
		}
	}
	return segmentEdit(src, seg, emit.Permute(src.Content, seg, perm)), true
}

// SortEdit stably sorts the whole segment that holds node.
func SortEdit(f *ast.File, src *source.File, pol *policy.Policy, node ast.DeclID) (diag.TextEdit, bool) {
	cont, seg, ms, _, ok := findMember(f, node)
	if !ok {
		return diag.TextEdit{}, false
	}
	perm := insertionPerm(len(ms), func(a, b int) bool {
		return memberLess(pol, cont, ms[a], ms[b])
	})
	if emit.IsIdentity(perm) {
		return diag.TextEdit{}, false
	}
	return segmentEdit(src, seg, emit.Permute(src.Content, seg, perm)), true
}

// usingItem is a directive to render into a container.
type usingItem struct {
	key  UsingKey
	body string
}

// DirectiveEdits sorts the directives of every container and carries out the
// planned placement moves. Edits are disjoint and ordered by position.
func DirectiveEdits(f *ast.File, src *source.File, pol *policy.Policy) []diag.TextEdit {
	pl := ResolvePlacement(f, pol)
	var edits []diag.TextEdit
	for _, c := range Containers(f) {
		k := f.Decl(c).Kind
		if k != ast.DeclCompilationUnit && k != ast.DeclNamespace {
			continue
		}
		if hasMoves(pl, c) {
			edits = append(edits, moveEdits(f, src, pol, pl, c)...)
			continue
		}
		for _, seg := range emit.Layout(f, c, isUsing) {
			keys := UsingKeys(f, pol, seg, pl)
			if len(keys) < len(seg.Units) {
				continue
			}
			perm := insertionPerm(len(keys), func(a, b int) bool { return usingLess(keys[a], keys[b]) })
			parts := emit.Parts(src.Content, seg, perm)
			if pol.BlankLinesBetweenGroups() {
				sorted := make([]UsingKey, len(perm))
				for i, p := range perm {
					sorted[i] = keys[p]
				}
				groupSeparators(parts, sorted)
			}
			text := emit.Compose(parts)
			if text != string(src.Content[seg.Start():seg.End()]) {
				edits = append(edits, segmentEdit(src, seg, text))
			}
		}
	}
	slices.SortFunc(edits, func(a, b diag.TextEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	return edits
}

func hasMoves(pl Placement, c ast.DeclID) bool {
	return slices.ContainsFunc(pl.Moves, func(m Move) bool { return m.From == c || m.To == c })
}

// groupSeparators puts exactly one blank line between groups and none inside a group.
func groupSeparators(parts []emit.Part, keys []UsingKey) {
	for i := 1; i < len(parts); i++ {
		if sameGroup(keys[i-1], keys[i]) {
			parts[i].Sep = ""
		} else {
			parts[i].Sep = "\n"
		}
	}
}

// moveEdits renders a container that loses or gains directives. Placement
// only plans moves for containers whose directives form at most one segment.
func moveEdits(f *ast.File, src *source.File, pol *policy.Policy, pl Placement, c ast.DeclID) []diag.TextEdit {
	segs := emit.Layout(f, c, isUsing)
	var seg emit.Segment
	if len(segs) > 0 {
		seg = segs[0]
	}

	var items []usingItem
	for _, u := range seg.Units {
		if m, ok := pl.MoveOf(u.ID); ok && m.From == c {
			continue
		}
		k, ok := UsingKeyOf(f, u.ID, pol, pl.MustStay[u.ID])
		if !ok {
			return nil
		}
		items = append(items, usingItem{key: k, body: u.Body(src.Content)})
	}

	indent := targetIndent(f, c, items)
	for _, m := range pl.Moves {
		if m.To != c {
			continue
		}
		k, ok := UsingKeyOf(f, m.ID, pol, false)
		if !ok {
			continue
		}
		items = append(items, usingItem{key: k, body: movedBody(f, src, m, indent)})
	}

	perm := insertionPerm(len(items), func(a, b int) bool { return usingLess(items[a].key, items[b].key) })
	parts := make([]emit.Part, len(items))
	keys := make([]UsingKey, len(items))
	for i, p := range perm {
		parts[i] = emit.Part{Body: items[p].body, Term: "\n"}
		if i < len(seg.Units) {
			parts[i].Sep = seg.Units[i].Sep(src.Content)
			parts[i].Term = seg.Units[i].Term(src.Content)
			if parts[i].Term == "" {
				parts[i].Term = "\n"
			}
		}
		keys[i] = items[p].key
	}
	if pol.BlankLinesBetweenGroups() {
		groupSeparators(parts, keys)
	}
	text := emit.Compose(parts)

	switch {
	case len(seg.Units) == 0 && len(items) == 0:
		return nil
	case len(seg.Units) == 0:
		at, next := insertPoint(f, c)
		if next != nil && next.Sep(src.Content) == "" {
			text += "\n"
		}
		return []diag.TextEdit{spanEdit(src, at, at, text)}
	case len(items) == 0:
		end := seg.End()
		if next := nextUnit(f, c, seg); next != nil && !next.Barrier && !next.Pinned {
			end = next.BodyStart
		}
		return []diag.TextEdit{spanEdit(src, seg.Start(), end, "")}
	}
	return []diag.TextEdit{segmentEdit(src, seg, text)}
}

// movedBody is the text of a moved directive re-indented for its new container.
func movedBody(f *ast.File, src *source.File, m Move, indent string) string {
	u := emit.UnitOf(f, m.ID)
	body := u.Body(src.Content)
	if m.Qualify {
		if using, ok := f.Decls.Using(m.ID); ok && !strings.HasPrefix(using.Name, "global::") {
			at := f.Tokens[using.NameTok].Span.Start - u.BodyStart
			body = body[:at] + "global::" + body[at:]
		}
	}
	return emit.Reindent(body, indent)
}

func targetIndent(f *ast.File, c ast.DeclID, items []usingItem) string {
	if len(items) > 0 {
		return emit.IndentOf(f, items[0].key.ID)
	}
	d := f.Decl(c)
	if len(d.Children) > 0 {
		return emit.IndentOf(f, d.Children[0])
	}
	if d.Kind == ast.DeclCompilationUnit {
		return ""
	}
	return emit.IndentOf(f, c) + "    "
}

// insertPoint is where directives go in a container without any: after the
// extern aliases, else at the start of the members.
func insertPoint(f *ast.File, c ast.DeclID) (uint32, *emit.Unit) {
	d := f.Decl(c)
	var at uint32
	switch {
	case d.Kind == ast.DeclCompilationUnit && len(d.Children) > 0:
		at = emit.UnitOf(f, d.Children[0]).Start
	case d.Kind == ast.DeclCompilationUnit:
		at = f.FullStart(f.EOFIndex())
	default:
		at = f.FullEnd(d.BodyOpen)
	}
	next := -1
	for i, id := range d.Children {
		if f.Decl(id).Kind == ast.DeclExternAlias {
			at = f.FullEnd(f.Decl(id).LastTok)
			continue
		}
		next = i
		break
	}
	if next < 0 {
		return at, nil
	}
	u := emit.UnitOf(f, d.Children[next])
	return at, &u
}

// nextUnit is the child right after seg, if there is one.
func nextUnit(f *ast.File, c ast.DeclID, seg emit.Segment) *emit.Unit {
	kids := f.Decl(c).Children
	last := seg.Units[len(seg.Units)-1].ID
	i := slices.Index(kids, last)
	if i < 0 || i+1 >= len(kids) {
		return nil
	}
	u := emit.UnitOf(f, kids[i+1])
	return &u
}
