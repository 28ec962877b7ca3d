package fix

import (
	"cmp"
	"fmt"
	"slices"

	"csorder/internal/diag"
)

type candidate struct {
	diag diag.Diagnostic
	fix  diag.Fix
	seq  int // порядок появления
}

// gatherCandidates builds the fixes of every diagnostic. An ID already
// built for an earlier diagnostic is shared and not built again; an ID
// repeated inside one diagnostic is a skip. Fixes without edits are
// skipped, fixes without an ID get one derived from the diagnostic.
func gatherCandidates(ctx diag.FixBuildContext, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
		built = map[string]bool{}
	)
	for _, d := range diagnostics {
		var todo []*diag.Fix
		mine := map[string]bool{}
		for _, f := range d.Fixes {
			switch {
			case f == nil:
			case f.ID != "" && mine[f.ID]:
				skips = append(skips, skipFix(*f, "duplicate fix id"))
			case f.ID != "" && built[f.ID]:
			default:
				if f.ID != "" {
					mine[f.ID], built[f.ID] = true, true
				}
				todo = append(todo, f)
			}
		}
		if len(todo) == 0 {
			continue
		}
		fixes, err := diag.MaterializeFixes(ctx, todo)
		if err != nil {
			skips = append(skips, SkippedFix{Title: d.Message, Reason: errReason(err)})
			continue
		}
		for i, f := range fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, skipFix(f, "fix has no edits"))
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, i)
			}
			cands = append(cands, candidate{diag: d, fix: f, seq: len(cands)})
		}
	}
	return cands, skips
}

// sortCandidates orders by primary span, then appearance; the remaining
// keys only break ties between fixes of one diagnostic.
func sortCandidates(cands []candidate) {
	slices.SortStableFunc(cands, func(a, b candidate) int {
		pa, pb := a.diag.Primary, b.diag.Primary
		return cmp.Or(
			cmp.Compare(pa.File, pb.File),
			cmp.Compare(pa.Start, pb.Start),
			cmp.Compare(pa.End, pb.End),
			cmp.Compare(a.seq, b.seq),
			cmp.Compare(a.diag.Code, b.diag.Code),
			compareBool(b.fix.IsPreferred, a.fix.IsPreferred),
			cmp.Compare(a.fix.ID, b.fix.ID),
			cmp.Compare(a.fix.Title, b.fix.Title),
		)
	})
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

const reasonRequiresAll = "fix requires all fixes to be applied"

func selectCandidates(cands []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeAll:
		var picked []candidate
		var skips []SkippedFix
		for _, c := range cands {
			if c.fix.Applicability != diag.FixApplicabilityAlwaysSafe {
				skips = append(skips, skipFix(c.fix, "applicability is "+c.fix.Applicability.String()))
				continue
			}
			picked = append(picked, c)
		}
		return picked, skips

	case ApplyModeID:
		i := slices.IndexFunc(cands, func(c candidate) bool { return c.fix.ID == opts.TargetID })
		switch {
		case i < 0:
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
		case cands[i].fix.RequiresAll:
			return nil, []SkippedFix{{ID: opts.TargetID, Reason: reasonRequiresAll}}
		}
		return cands[i : i+1], nil

	case ApplyModeOnce:
		var skips []SkippedFix
		first := -1
		for i, c := range cands {
			if c.fix.RequiresAll {
				skips = append(skips, skipFix(c.fix, reasonRequiresAll))
				continue
			}
			if c.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{c}, skips
			}
			if first < 0 {
				first = i
			}
		}
		if first < 0 {
			return nil, skips
		}
		return []candidate{cands[first]}, skips
	}
	return nil, nil
}
