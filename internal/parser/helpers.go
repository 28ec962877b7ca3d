package parser

import (
	"csorder/internal/diag"
	"csorder/internal/source"
	"csorder/internal/token"
)

// advance consumes the current token. EOF is never consumed.
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.lastSpan = tok.Span
	return tok
}

// errSpan: на EOF указываем сразу за последним токеном, а не в конец trivia.
func (p *Parser) errSpan() source.Span {
	cur := p.peek()
	if cur.Kind != token.EOF || p.lastSpan.End == 0 {
		return cur.Span
	}
	end := p.lastSpan.End
	return source.Span{File: p.lastSpan.File, Start: end, End: end}
}

// expect consumes a token of kind k or reports code and returns an
// Invalid token positioned where k was expected.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.errSpan()
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.peek().Text}, false
}

// err reports a syntax error at the current position. Past MaxErrors the
// error is counted but dropped; the result says whether it was reported.
func (p *Parser) err(code diag.Code, msg string) bool {
	if p.opts.Reporter == nil {
		return false
	}
	drop := p.opts.Enough()
	p.opts.CurrentErrors++
	if drop {
		return false
	}
	p.opts.Reporter.Report(code, diag.SevError, p.errSpan(), msg, nil, nil)
	return true
}
