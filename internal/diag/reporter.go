package diag

import "csorder/internal/source"

// Reporter receives diagnostics from the lexer, the parser and the rules.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix)
}

// DiagnosticReporter also accepts a whole Diagnostic, keeping Args.
type DiagnosticReporter interface {
	ReportDiagnostic(d Diagnostic)
}

func send(r Reporter, d Diagnostic) {
	switch r := r.(type) {
	case nil:
	case DiagnosticReporter:
		r.ReportDiagnostic(d)
	default:
		r.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
	}
}

// ReportBuilder collects notes, args and fixes; Emit sends the result once.
type ReportBuilder struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(SevError, code, primary, msg)}
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(SevWarning, code, primary, msg)}
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	b.d = b.d.WithNote(sp, msg)
	return b
}

func (b *ReportBuilder) WithArgs(args ...string) *ReportBuilder {
	b.d = b.d.WithArgs(args...)
	return b
}

// WithFix attaches an eager fix with default metadata.
func (b *ReportBuilder) WithFix(title string, edits ...TextEdit) *ReportBuilder {
	b.d = b.d.WithFix(title, edits...)
	return b
}

// WithFixSuggestion attaches a prepared fix, eager or lazy.
func (b *ReportBuilder) WithFixSuggestion(fix Fix) *ReportBuilder {
	b.d = b.d.WithFixSuggestion(fix)
	return b
}

func (b *ReportBuilder) Emit() {
	if b.sent {
		return
	}
	b.sent = true
	send(b.to, b.d)
}

// BagReporter adds everything to Bag; a nil Bag drops it.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix) {
	r.ReportDiagnostic(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
}

func (r BagReporter) ReportDiagnostic(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// DedupReporter forwards a diagnostic only the first time its code,
// severity, primary span and message are seen. Parser recovery can hit
// the same token twice.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]bool
}

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: map[dedupKey]bool{}}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []*Fix) {
	r.ReportDiagnostic(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes, Fixes: fixes})
}

func (r *DedupReporter) ReportDiagnostic(d Diagnostic) {
	k := dedupKey{d.Code, d.Severity, d.Primary, d.Message}
	if r.seen[k] {
		return
	}
	r.seen[k] = true
	send(r.next, d)
}
