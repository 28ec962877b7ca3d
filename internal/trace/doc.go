// Package trace records nested spans of a csorder run.
//
//	csorder diag --trace=- --trace-level=detail src/
//
// LevelPhase streams command and pass spans, LevelDetail adds one span
// per file. LevelError streams nothing: spans go to the in-memory ring,
// which the CLI dumps to stderr when a command fails.
//
// The tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, t)
//	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "rules")
//	defer span.End("")
package trace
