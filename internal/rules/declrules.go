package rules

import (
	"fmt"
	"slices"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/fix"
	"csorder/internal/order"
	"csorder/internal/policy"
	"csorder/internal/source"
)

// declarationRules checks modifiers and accessors of every complete
// declaration reachable through complete containers.
func (c *checker) declarationRules() []finding {
	var out []finding
	for _, cont := range order.Containers(c.f) {
		for _, id := range c.f.Decl(cont).Children {
			d := c.f.Decl(id)
			if d.Incomplete {
				break
			}
			if d.Kind == ast.DeclUsing || d.Kind == ast.DeclExternAlias || d.Kind == ast.DeclGlobalStatement {
				continue
			}
			out = append(out, c.partialAccess(d)...)
			out = append(out, c.modifierOrder(d)...)
			out = append(out, c.protectedInternal(d)...)
			out = append(out, c.accessorOrder(d)...)
		}
	}
	return out
}

func (c *checker) tokSpan(i uint32) source.Span { return c.f.Tokens[i].Span }
func (c *checker) tokText(i uint32) string      { return c.f.Tokens[i].Text }

// partialAccess: SA1205. The fix inserts the access the type already has by default.
func (c *checker) partialAccess(d *ast.Decl) []finding {
	if !d.Kind.IsType() || !d.Mods.Has(ast.ModPartial) || d.Mods.Has(ast.AccessMask|ast.ModFile) {
		return nil
	}
	access := "private"
	if order.AccessOf(c.f, d) == policy.AccessInternal {
		access = "internal"
	}
	at := c.tokSpan(d.ModTokens[0])
	for _, t := range d.ModTokens {
		if c.tokText(t) == "partial" {
			at = c.tokSpan(t)
			break
		}
	}
	insert := c.tokSpan(d.ModTokens[0])
	insert.End = insert.Start
	args := []string{d.Name}
	return []finding{{
		code: diag.OrdPartialAccess,
		span: at,
		msg:  Message(diag.OrdPartialAccess, args...),
		args: args,
		fixes: []diag.Fix{fix.InsertText("declare "+access+" access", insert, access+" ", "",
			fix.WithID(fmt.Sprintf("SA1205-%d-%d", c.src.ID, insert.Start)),
			// другие части partial-типа могут объявлять иной доступ
			fix.WithApplicability(diag.FixApplicabilitySafeWithHeuristics),
		)},
	}}
}

func modifierRank(text string) int {
	switch text {
	case "public", "private", "protected", "internal", "file":
		return 0
	case "static":
		return 1
	}
	return 2
}

// modifierOrder: SA1206. Access keywords come first, then static, then the rest.
func (c *checker) modifierOrder(d *ast.Decl) []finding {
	toks := d.ModTokens
	for i := 1; i < len(toks); i++ {
		cur, prev := c.tokText(toks[i]), c.tokText(toks[i-1])
		if modifierRank(cur) >= modifierRank(prev) {
			continue
		}
		sorted := make([]string, len(toks))
		for j, t := range toks {
			sorted[j] = c.tokText(t)
		}
		slices.SortStableFunc(sorted, func(a, b string) int { return modifierRank(a) - modifierRank(b) })
		var edits []diag.TextEdit
		for j, t := range toks {
			if old := c.tokText(t); old != sorted[j] {
				edits = append(edits, diag.TextEdit{Span: c.tokSpan(t), NewText: sorted[j], OldText: old})
			}
		}
		args := []string{cur, prev}
		return []finding{{
			code:  diag.OrdModifierOrder,
			span:  c.tokSpan(toks[i]),
			msg:   Message(diag.OrdModifierOrder, args...),
			args:  args,
			fixes: []diag.Fix{fix.Edits("reorder modifiers", edits, fix.WithID(fmt.Sprintf("SA1206-%d-%d", c.src.ID, c.tokSpan(toks[0]).Start)))},
		}}
	}
	return nil
}

// protectedInternal: SA1207. "internal protected" is written "protected internal".
func (c *checker) protectedInternal(d *ast.Decl) []finding {
	pi, ii := -1, -1
	for j, t := range d.ModTokens {
		switch c.tokText(t) {
		case "protected":
			pi = j
		case "internal":
			ii = j
		}
	}
	if pi < 0 || ii < 0 || ii > pi {
		return nil
	}
	p, i := d.ModTokens[pi], d.ModTokens[ii]
	args := []string{"protected", "internal"}
	return []finding{{
		code: diag.OrdProtectedInternal,
		span: c.tokSpan(p),
		msg:  Message(diag.OrdProtectedInternal, args...),
		args: args,
		fixes: []diag.Fix{fix.Edits("write protected internal", []diag.TextEdit{
			{Span: c.tokSpan(i), NewText: "protected", OldText: "internal"},
			{Span: c.tokSpan(p), NewText: "internal", OldText: "protected"},
		}, fix.WithID(fmt.Sprintf("SA1207-%d-%d", c.src.ID, c.tokSpan(i).Start)))},
	}}
}

// accessorOrder: SA1212 (get before set/init) and SA1213 (add before remove).
func (c *checker) accessorOrder(d *ast.Decl) []finding {
	if len(d.Accessors) != 2 {
		return nil
	}
	first, second := d.Accessors[0], d.Accessors[1]
	code := diag.OrdAccessorOrder
	switch {
	case (d.Kind == ast.DeclProperty || d.Kind == ast.DeclIndexer) &&
		second.Name == "get" && (first.Name == "set" || first.Name == "init"):
	case d.Kind == ast.DeclEvent && first.Name == "remove" && second.Name == "add":
		code = diag.OrdEventAccessorOrder
	default:
		return nil
	}
	a := c.accessorSpan(first)
	b := c.accessorSpan(second)
	aText, bText := string(c.src.Content[a.Start:a.End]), string(c.src.Content[b.Start:b.End])
	args := []string{second.Name, first.Name}
	return []finding{{
		code: code,
		span: c.tokSpan(second.Start),
		msg:  Message(code, args...),
		args: args,
		fixes: []diag.Fix{fix.Edits("swap accessors", []diag.TextEdit{
			{Span: a, NewText: bText, OldText: aText},
			{Span: b, NewText: aText, OldText: bText},
		}, fix.WithID(fmt.Sprintf("%s-%d-%d", code.ID(), c.src.ID, a.Start)))},
	}}
}

func (c *checker) accessorSpan(acc ast.Accessor) source.Span {
	return c.tokSpan(acc.Start).Cover(c.tokSpan(acc.End))
}
