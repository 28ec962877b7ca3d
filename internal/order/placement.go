package order

import (
	"slices"

	"csorder/internal/ast"
	"csorder/internal/emit"
	"csorder/internal/policy"
	"csorder/internal/token"
)

// Move relocates a directive into another container.
type Move struct {
	ID   ast.DeclID
	From ast.DeclID
	To   ast.DeclID
	// Qualify prefixes the name with global:: so it keeps resolving the
	// same way inside a namespace that shares its first segment.
	Qualify bool
}

// Refusal is why an illegal directive is left where it is.
type Refusal uint8

const (
	RefuseNone Refusal = iota
	RefuseMultipleNamespaces
	RefuseRelativeName
	RefusePreprocessor
	RefuseIncomplete
)

func (r Refusal) String() string {
	switch r {
	case RefuseMultipleNamespaces:
		return "the file declares more than one namespace"
	case RefuseRelativeName:
		return "the name may resolve relative to the enclosing namespace"
	case RefusePreprocessor:
		return "the directives are split by preprocessor lines"
	case RefuseIncomplete:
		return "the target namespace is incomplete"
	}
	return ""
}

// Placement is the result of directive placement resolution.
type Placement struct {
	Mode policy.Placement
	// Illegal directives are in the wrong container. Each is either moved or refused.
	Illegal []ast.DeclID
	Moves   []Move
	Refused map[ast.DeclID]Refusal
	// MustStay marks compilation-unit directives that cannot move into a namespace.
	MustStay map[ast.DeclID]bool
}

// MoveOf returns the planned move of id.
func (p Placement) MoveOf(id ast.DeclID) (Move, bool) {
	for _, m := range p.Moves {
		if m.ID == id {
			return m, true
		}
	}
	return Move{}, false
}

func isUsing(d *ast.Decl) bool { return d.Kind == ast.DeclUsing }

// usingsOf lists the complete directives of container in source order.
func usingsOf(f *ast.File, container ast.DeclID) []ast.DeclID {
	var out []ast.DeclID
	for _, seg := range emit.Layout(f, container, isUsing) {
		out = append(out, seg.IDs()...)
	}
	return out
}

// splitUsings: the directives of container are split by preprocessor lines.
func splitUsings(f *ast.File, container ast.DeclID) bool {
	segs := emit.Layout(f, container, isUsing)
	if len(segs) > 1 {
		return true
	}
	return len(segs) == 1 && segs[0].Units[0].Barrier
}

// ResolvePlacement decides which directives are misplaced and which of them can move.
func ResolvePlacement(f *ast.File, pol *policy.Policy) Placement {
	pl := Placement{
		Mode:     pol.Placement(),
		Refused:  map[ast.DeclID]Refusal{},
		MustStay: map[ast.DeclID]bool{},
	}
	switch pl.Mode {
	case policy.PlacementInsideNamespace:
		resolveInside(f, &pl)
	case policy.PlacementOutsideNamespace:
		resolveOutside(f, &pl)
	}
	return pl
}

func resolveInside(f *ast.File, pl *Placement) {
	if len(f.Namespaces) == 0 || hasTopLevelMembers(f) {
		return
	}
	target := f.Namespaces[0]
	tdecl := f.Decl(target)
	info, _ := f.Decls.Namespace(target)

	refusal := RefuseNone
	switch {
	case len(f.Namespaces) > 1:
		refusal = RefuseMultipleNamespaces
	case tdecl.Incomplete:
		refusal = RefuseIncomplete
	case splitUsings(f, f.Root) || splitUsings(f, target):
		refusal = RefusePreprocessor
	}

	for _, id := range usingsOf(f, f.Root) {
		u, _ := f.Decls.Using(id)
		if u.Global || f.HasGlobalAttributes || (u.IsAlias() && aliasUsedOutside(f, id, u.Alias, tdecl)) {
			pl.MustStay[id] = true
			continue
		}
		pl.Illegal = append(pl.Illegal, id)
		if refusal != RefuseNone {
			pl.Refused[id] = refusal
			continue
		}
		qualify := false
		if first, ok := FirstSegment(u.Name); ok && info != nil {
			qualify = slices.Contains(info.Segments, first)
		}
		pl.Moves = append(pl.Moves, Move{ID: id, From: f.Root, To: target, Qualify: qualify})
	}
}

func resolveOutside(f *ast.File, pl *Placement) {
	for _, ns := range f.Namespaces {
		info, _ := f.Decls.Namespace(ns)
		refusal := RefuseNone
		switch {
		case len(f.Namespaces) > 1:
			refusal = RefuseMultipleNamespaces
		case splitUsings(f, ns) || splitUsings(f, f.Root) || cuStartsWithBarrier(f):
			refusal = RefusePreprocessor
		}
		for _, id := range usingsOf(f, ns) {
			u, _ := f.Decls.Using(id)
			pl.Illegal = append(pl.Illegal, id)
			r := refusal
			if r == RefuseNone && info != nil {
				if first, ok := FirstSegment(u.Name); ok && slices.Contains(info.Segments, first) {
					r = RefuseRelativeName
				}
			}
			if r != RefuseNone {
				pl.Refused[id] = r
				continue
			}
			pl.Moves = append(pl.Moves, Move{ID: id, From: ns, To: f.Root})
		}
	}
}

// cuStartsWithBarrier: new directives would land behind a preprocessor line.
func cuStartsWithBarrier(f *ast.File) bool {
	if len(usingsOf(f, f.Root)) > 0 {
		return false
	}
	for _, id := range f.Decl(f.Root).Children {
		d := f.Decl(id)
		if d.Kind == ast.DeclExternAlias {
			continue
		}
		return emit.UnitOf(f, id).Barrier
	}
	return false
}

// hasTopLevelMembers: the compilation unit declares types, delegates or
// statements outside any namespace. They see only compilation-unit directives.
func hasTopLevelMembers(f *ast.File) bool {
	for _, id := range f.Decl(f.Root).Children {
		switch f.Decl(id).Kind {
		case ast.DeclUsing, ast.DeclExternAlias, ast.DeclAttributeList, ast.DeclNamespace:
		default:
			return true
		}
	}
	return false
}

// aliasUsedOutside reports whether alias is referenced by a token outside the
// namespace ns and outside its own declaration.
func aliasUsedOutside(f *ast.File, decl ast.DeclID, alias string, ns *ast.Decl) bool {
	d := f.Decl(decl)
	want := NormalizeName(alias)
	for i, t := range f.Tokens {
		at := uint32(i)
		if (at >= d.FirstTok && at <= d.LastTok) || (at >= ns.FirstTok && at <= ns.LastTok) {
			continue
		}
		if t.Kind == token.Ident && NormalizeName(t.Text) == want {
			return true
		}
	}
	return false
}
