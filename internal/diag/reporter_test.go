package diag

import (
	"errors"
	"testing"

	"csorder/internal/source"
)

func TestReportBuilderKeepsArgs(t *testing.T) {
	bag := NewBag(8)
	sp := source.Span{File: 0, Start: 4, End: 9}

	ReportWarning(BagReporter{Bag: bag}, OrdElementKind, sp, "field should precede method").
		WithArgs("Field", "Method").
		WithNote(source.Span{Start: 0, End: 3}, "previous element").
		Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Args) != 2 || d.Args[0] != "Field" || d.Args[1] != "Method" {
		t.Fatalf("unexpected args %v", d.Args)
	}
	if len(d.Notes) != 1 {
		t.Fatalf("expected one note, got %d", len(d.Notes))
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(8)
	b := ReportError(BagReporter{Bag: bag}, SynUnexpectedToken, source.Span{}, "x")
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(8)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(OrdAccessLevel, SevWarning, sp, "m", nil, nil)
	r.Report(OrdAccessLevel, SevWarning, sp, "m", nil, nil)
	ReportWarning(r, OrdAccessLevel, sp, "m").WithArgs("Public", "Private").Emit()
	r.Report(OrdAccessLevel, SevWarning, sp, "other", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
}

func TestResolveThunk(t *testing.T) {
	f := &Fix{
		Title: "Reorder",
		Thunk: FixThunkFunc(func(ctx FixBuildContext) (Fix, error) {
			return Fix{Title: "ignored", ID: "inner", Edits: []TextEdit{{NewText: "x"}}}, nil
		}),
	}
	got, err := f.Resolve(FixBuildContext{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Title != "Reorder" || got.ID != "inner" || len(got.Edits) != 1 || got.Thunk != nil {
		t.Fatalf("unexpected resolved fix %+v", got)
	}

	boom := errors.New("boom")
	bad := &Fix{Title: "bad", Thunk: FixThunkFunc(func(FixBuildContext) (Fix, error) { return Fix{}, boom })}
	if _, err := MaterializeFixes(FixBuildContext{}, []*Fix{f, bad}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestBagSort(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Code: OrdAccessLevel, Primary: source.Span{Start: 10, End: 12}})
	bag.Add(Diagnostic{Code: OrdElementKind, Primary: source.Span{Start: 2, End: 4}})
	bag.Sort()
	items := bag.Items()
	if len(items) != 2 || items[0].Code != OrdElementKind {
		t.Fatalf("unexpected order %+v", items)
	}
}

func TestBagLimitAndFilter(t *testing.T) {
	bag := NewBag(3)
	sp := func(start uint32) source.Span { return source.Span{Start: start, End: start + 1} }
	bag.Add(NewError(OrdStaticFirst, sp(9), "b"))
	bag.Add(NewError(OrdElementKind, sp(2), "a"))
	bag.Add(NewError(OrdElementKind, sp(4), "c"))
	if bag.Add(NewError(SynUnexpectedToken, sp(0), "late")) || bag.Dropped() != 1 {
		t.Fatalf("limit not enforced")
	}
	bag.Sort()
	if bag.Len() != 3 || bag.Items()[0].Code != OrdElementKind || bag.Violations() != 3 {
		t.Fatalf("unexpected bag %+v", bag.Items())
	}
	bag.Filter(func(d Diagnostic) bool { return d.Code != OrdStaticFirst })
	if bag.Len() != 2 {
		t.Fatalf("filter kept %d", bag.Len())
	}
}
