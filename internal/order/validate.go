package order

import (
	"cmp"
	"slices"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/emit"
	"csorder/internal/policy"
)

// Analysis is the outcome of one validation pass over a tree.
type Analysis struct {
	Violations []Violation
	Placement  Placement
}

// Containers lists the containers reachable through complete nodes, in
// pre-order. Traversal of a container stops at its first incomplete child.
func Containers(f *ast.File) []ast.DeclID {
	var out []ast.DeclID
	var visit func(id ast.DeclID)
	visit = func(id ast.DeclID) {
		out = append(out, id)
		for _, c := range f.Decl(id).Children {
			d := f.Decl(c)
			if d.Incomplete {
				return
			}
			if d.Kind.IsContainer() && d.Kind != ast.DeclEnum {
				visit(c)
			}
		}
	}
	visit(f.Root)
	return out
}

// Analyze validates the tree against pol. It never fails: problems in
// malformed regions are simply not reported.
func Analyze(f *ast.File, pol *policy.Policy) Analysis {
	pl := ResolvePlacement(f, pol)
	var out []Violation
	for _, c := range Containers(f) {
		out = append(out, validateUsings(f, pol, c, pl)...)
		out = append(out, validateMembers(f, pol, c)...)
	}
	for _, id := range pl.Illegal {
		out = append(out, placementViolation(f, id, pl))
	}
	slices.SortStableFunc(out, func(a, b Violation) int {
		return cmp.Or(
			cmp.Compare(a.Span.Start, b.Span.Start),
			cmp.Compare(a.Rule, b.Rule),
		)
	})
	return Analysis{Violations: out, Placement: pl}
}

func placementViolation(f *ast.File, id ast.DeclID, pl Placement) Violation {
	where := "inside a namespace"
	if pl.Mode == policy.PlacementOutsideNamespace {
		where = "outside of a namespace"
	}
	d := f.Decl(id)
	return Violation{
		Rule:      diag.OrdUsingPlacement,
		Node:      id,
		Prev:      ast.NoDeclID,
		Container: d.Parent,
		Span:      d.Span,
		Args:      []string{UsingDisplayName(f, id), where},
	}
}

// UsingDisplayName is the directive as shown in messages.
func UsingDisplayName(f *ast.File, id ast.DeclID) string {
	u, ok := f.Decls.Using(id)
	if !ok {
		return f.Decl(id).Name
	}
	if u.IsAlias() {
		return u.Alias
	}
	return u.Name
}

// UsingKeys classifies the directives of one segment.
func UsingKeys(f *ast.File, pol *policy.Policy, seg emit.Segment, pl Placement) []UsingKey {
	keys := make([]UsingKey, 0, len(seg.Units))
	for _, u := range seg.Units {
		k, ok := UsingKeyOf(f, u.ID, pol, pl.MustStay[u.ID])
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	return keys
}

func validateUsings(f *ast.File, pol *policy.Policy, container ast.DeclID, pl Placement) []Violation {
	var out []Violation
	for _, seg := range emit.Layout(f, container, isUsing) {
		keys := UsingKeys(f, pol, seg, pl)
		for i := 1; i < len(keys); i++ {
			prev, curr := keys[i-1], keys[i]
			field, c := compareUsings(curr, prev)
			if c >= 0 {
				continue
			}
			v := Violation{
				Node:      curr.ID,
				Prev:      prev.ID,
				Container: container,
				Args:      []string{UsingDisplayName(f, curr.ID), UsingDisplayName(f, prev.ID)},
			}
			switch field {
			case fieldMustStay:
				v.Rule = diag.OrdUsingPlacement
			case fieldBucket:
				if prev.Bucket == BucketAlias && curr.Bucket == BucketSimple {
					v.Rule = diag.OrdAliasAfterUsings
				} else {
					v.Rule = diag.OrdStaticUsingPlacement
				}
			case fieldSystem:
				v.Rule = diag.OrdSystemUsingsFirst
			case fieldName:
				// сообщаем на той директиве, которая должна уехать вниз
				v.Node, v.Prev = prev.ID, curr.ID
				switch curr.Bucket {
				case BucketStatic:
					v.Rule = diag.OrdStaticUsingsAlphabetical
				case BucketAlias:
					v.Rule = diag.OrdAliasesAlphabetical
				default:
					v.Rule = diag.OrdUsingsAlphabetical
				}
			}
			v.Span = f.Decl(v.Node).Span
			out = append(out, v)
		}
	}
	return out
}

// MemberSegments returns the orderable segments of container with their classifications.
func MemberSegments(f *ast.File, container ast.DeclID) ([]emit.Segment, [][]Member) {
	segs := emit.Layout(f, container, Orderable)
	members := make([][]Member, len(segs))
	for i, seg := range segs {
		for _, u := range seg.Units {
			m, _ := Classify(f, u.ID)
			members[i] = append(members[i], m)
		}
	}
	return segs, members
}

func validateMembers(f *ast.File, pol *policy.Policy, container ast.DeclID) []Violation {
	cont, ok := ContainerOf(f, container)
	if !ok {
		return nil
	}
	var out []Violation
	segs, members := MemberSegments(f, container)
	for s := range segs {
		ms := members[s]
		for i := 1; i < len(ms); i++ {
			prev, curr := ms[i-1], ms[i]
			crit, c := CompareMembers(pol, cont, curr, prev)
			if c >= 0 {
				continue
			}
			out = append(out, Violation{
				Rule:      criterionRule[crit],
				Node:      curr.ID,
				Prev:      prev.ID,
				Container: container,
				Span:      f.Decl(curr.ID).Span,
				Args:      []string{Category(curr, crit), Category(prev, crit)},
			})
		}
	}
	return out
}
