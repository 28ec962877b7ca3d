package fix

import (
	"csorder/internal/diag"
	"csorder/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix. Fixes sharing an ID are applied once.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

// WithRequiresAll marks fix as valid only together with the other fixes of the run.
func WithRequiresAll() Option {
	return func(f *diag.Fix) {
		f.RequiresAll = true
	}
}

func applyOptions(f diag.Fix, opts []Option) diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

func quickFix(title string, edits []diag.TextEdit, opts []Option) diag.Fix {
	return applyOptions(diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}, opts)
}

// InsertText creates fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text string, guard string, opts ...Option) diag.Fix {
	return quickFix(title, []diag.TextEdit{{Span: at, NewText: text, OldText: guard}}, opts)
}

// DeleteSpan removes text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return quickFix(title, []diag.TextEdit{{Span: span, OldText: expect}}, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	return quickFix(title, []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}}, opts)
}

// Edits creates a fix from several edits that must be applied together.
func Edits(title string, edits []diag.TextEdit, opts ...Option) diag.Fix {
	return quickFix(title, append([]diag.TextEdit(nil), edits...), opts)
}

// Lazy creates a fix whose edits are computed by build when the fix engine
// asks for them. build returning no edits makes the fix a no-op.
func Lazy(title string, build func() ([]diag.TextEdit, error), opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindSourceAction,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Thunk: diag.FixThunkFunc(func(diag.FixBuildContext) (diag.Fix, error) {
			edits, err := build()
			if err != nil {
				return diag.Fix{}, err
			}
			return diag.Fix{Title: title, Edits: edits}, nil
		}),
	}
	return applyOptions(f, opts)
}
