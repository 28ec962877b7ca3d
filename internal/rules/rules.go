package rules

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/fix"
	"csorder/internal/order"
	"csorder/internal/policy"
	"csorder/internal/source"
)

// Strategy selects how member violations are fixed.
type Strategy uint8

const (
	// StrategyRelocate moves the flagged member one insertion step left.
	StrategyRelocate Strategy = iota
	// StrategySort stably sorts the whole segment holding the member.
	StrategySort
)

func (s Strategy) String() string {
	if s == StrategySort {
		return "sort"
	}
	return "relocate"
}

// ParseStrategy maps "relocate" / "sort" to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "relocate":
		return StrategyRelocate, nil
	case "sort":
		return StrategySort, nil
	}
	return StrategyRelocate, fmt.Errorf("unknown fix strategy %q (expected relocate|sort)", s)
}

// Options tune one Check run.
type Options struct {
	Strategy Strategy
	// Disabled rules are neither reported nor fixed.
	Disabled []diag.Code
}

// Result summarises one Check run.
type Result struct {
	Reported  int
	Placement order.Placement
}

type finding struct {
	code  diag.Code
	span  source.Span
	msg   string
	args  []string
	notes []diag.Note
	fixes []diag.Fix
}

// Check reports every ordering diagnostic of f to rep.
func Check(f *ast.File, src *source.File, pol *policy.Policy, rep diag.Reporter, opts Options) Result {
	an := order.Analyze(f, pol)
	c := checker{f: f, src: src, pol: pol, opts: opts}

	var out []finding
	for _, v := range an.Violations {
		out = append(out, c.bind(v, an.Placement))
	}
	out = append(out, c.declarationRules()...)
	out = slices.DeleteFunc(out, func(fd finding) bool { return slices.Contains(opts.Disabled, fd.code) })
	slices.SortStableFunc(out, func(a, b finding) int {
		return cmp.Or(cmp.Compare(a.span.Start, b.span.Start), cmp.Compare(a.code, b.code))
	})

	for _, fd := range out {
		b := diag.ReportWarning(rep, fd.code, fd.span, fd.msg).WithArgs(fd.args...)
		for _, n := range fd.notes {
			b.WithNote(n.Span, n.Msg)
		}
		for _, fx := range fd.fixes {
			b.WithFixSuggestion(fx)
		}
		b.Emit()
	}
	return Result{Reported: len(out), Placement: an.Placement}
}

type checker struct {
	f    *ast.File
	src  *source.File
	pol  *policy.Policy
	opts Options
}

func (c *checker) bind(v order.Violation, pl order.Placement) finding {
	fd := finding{
		code: v.Rule,
		span: v.Span,
		args: v.Args,
		msg:  Message(v.Rule, v.Args...),
	}
	if v.Rule == diag.OrdUsingPlacement && v.Prev.IsValid() {
		fd.msg = expand(`Using directive "{0}" should appear before "{1}"`, v.Args)
	}
	if v.Prev.IsValid() {
		fd.notes = append(fd.notes, diag.Note{Span: c.f.Decl(v.Prev).Span, Msg: "compared with this declaration"})
	}

	if v.IsDirective() {
		if r, refused := pl.Refused[v.Node]; refused && !v.Prev.IsValid() {
			// перенос запрещён: правки нет, диагностика остаётся
			fd.notes = append(fd.notes, diag.Note{Span: v.Span, Msg: "not moved: " + r.String()})
			return fd
		}
		fd.fixes = append(fd.fixes, c.directiveFix())
		return fd
	}
	fd.fixes = append(fd.fixes, c.memberFix(v))
	return fd
}

// directiveFix rewrites every directive region of the file. All directive
// diagnostics share it.
func (c *checker) directiveFix() diag.Fix {
	f, src, pol := c.f, c.src, c.pol
	return fix.Lazy("sort using directives", func() ([]diag.TextEdit, error) {
		return order.DirectiveEdits(f, src, pol), nil
	}, fix.WithID(fmt.Sprintf("using-directives-%d", src.ID)), fix.Preferred())
}

func (c *checker) memberFix(v order.Violation) diag.Fix {
	f, src, pol := c.f, c.src, c.pol
	name := memberName(f, v.Node)
	if c.opts.Strategy == StrategySort {
		id := fmt.Sprintf("sort-%d-%d", src.ID, v.Span.Start)
		if seg, ok := order.MemberSegment(f, v.Node); ok {
			id = fmt.Sprintf("sort-%d-%d", src.ID, seg.Start())
		}
		return fix.Lazy("sort members", func() ([]diag.TextEdit, error) {
			if e, ok := order.SortEdit(f, src, pol, v.Node); ok {
				return []diag.TextEdit{e}, nil
			}
			return nil, nil
		}, fix.WithID(id))
	}
	return fix.Lazy("move "+name+" up", func() ([]diag.TextEdit, error) {
		if e, ok := order.RelocateEdit(f, src, pol, v.Node); ok {
			return []diag.TextEdit{e}, nil
		}
		return nil, nil
	}, fix.WithID(fmt.Sprintf("%s-%d-%d", v.Rule.ID(), src.ID, v.Span.Start)), fix.Preferred())
}

func memberName(f *ast.File, id ast.DeclID) string {
	d := f.Decl(id)
	if d.Name != "" {
		return d.Name
	}
	return d.Kind.String()
}
