package diag

import (
	"errors"
	"fmt"

	"csorder/internal/source"
)

// FixKind classifies a fix for UI listings.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
	FixKindRefactorRewrite
	FixKindSourceAction
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	case FixKindRefactorRewrite:
		return "refactor.rewrite"
	case FixKindSourceAction:
		return "source"
	}
	return "unknown"
}

// FixApplicability is the confidence level of a fix.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// TextEdit replaces Span with NewText. A non-empty OldText guards the edit:
// the fix engine refuses to apply it when the current text differs.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixBuildContext is handed to lazy fix builders.
type FixBuildContext struct {
	FileSet *source.FileSet
}

// FixThunk builds the edits of a fix on demand.
type FixThunk interface {
	Build(ctx FixBuildContext) (Fix, error)
}

// FixThunkFunc adapts a function to FixThunk.
type FixThunkFunc func(ctx FixBuildContext) (Fix, error)

func (f FixThunkFunc) Build(ctx FixBuildContext) (Fix, error) { return f(ctx) }

// Fix is a possible automated correction.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	// RequiresAll marks fixes that are only valid when applied together with
	// the other fixes of the same run.
	RequiresAll bool
	Edits       []TextEdit
	Thunk       FixThunk
}

var errNilFix = errors.New("nil fix")

// Resolve returns a copy of the fix with its thunk expanded. Metadata set on
// the outer fix wins over whatever the thunk returns.
func (f *Fix) Resolve(ctx FixBuildContext) (Fix, error) {
	if f == nil {
		return Fix{}, errNilFix
	}
	out := *f
	if f.Thunk == nil {
		out.Edits = append([]TextEdit(nil), f.Edits...)
		return out, nil
	}
	built, err := f.Thunk.Build(ctx)
	if err != nil {
		return Fix{}, fmt.Errorf("fix %q: %w", f.Title, err)
	}
	out.Thunk = nil
	out.Edits = append(append([]TextEdit(nil), f.Edits...), built.Edits...)
	if out.Title == "" {
		out.Title = built.Title
	}
	if out.ID == "" {
		out.ID = built.ID
	}
	return out, nil
}

// MaterializeFixes resolves every fix in order.
func MaterializeFixes(ctx FixBuildContext, fixes []*Fix) ([]Fix, error) {
	out := make([]Fix, 0, len(fixes))
	for _, f := range fixes {
		resolved, err := f.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}
