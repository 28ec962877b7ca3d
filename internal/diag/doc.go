// Package diag defines the diagnostic model shared by the lexer, the parser,
// the ordering rules and the fix engine.
//
// Diagnostic is the central record: Severity, Code (stable string form via
// Code.ID, e.g. "SA1201"), Message, Primary span, optional Args, Notes and
// Fixes. Args carry rule specific parameters; for the element ordering rules
// they are the category of the offending element followed by the category of
// its predecessor.
//
// Fix represents a possible automated correction with a Kind, an
// Applicability level and concrete TextEdits. Fixes may be lazy: a Thunk is
// expanded by Resolve/MaterializeFixes only when a consumer (the fix engine or
// a renderer asked to show edits) needs the edits.
//
// Phases emit through a Reporter. BagReporter collects into a Bag, which
// supports sorting, deduplication and merging. Package diag does no
// formatting or IO; rendering lives in internal/diagfmt and application of
// fixes in internal/fix.
package diag
