package lexer

import (
	"csorder/internal/diag"
	"csorder/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil - тогда ошибки игнорируем (но продолжаем лексить)
	// Defines lists the conditional compilation symbols treated as defined
	// when evaluating #if/#elif.
	Defines []string
}

// maxTokenLength bounds a single token; longer input is treated as garbage
// and the rest of the file is skipped.
const maxTokenLength = 1 << 16

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportWarning(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
