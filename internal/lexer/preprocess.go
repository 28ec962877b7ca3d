package lexer

import (
	"strings"

	"csorder/internal/diag"
	"csorder/internal/source"
	"csorder/internal/token"
)

type ppFrame struct {
	parentActive bool
	active       bool
	taken        bool
	sawElse      bool
	at           source.Span
}

// preprocessor отслеживает вложенность #if и множество определённых символов.
type preprocessor struct {
	symbols map[string]bool
	stack   []ppFrame
}

func newPreprocessor(defines []string) preprocessor {
	p := preprocessor{symbols: make(map[string]bool, len(defines))}
	for _, d := range defines {
		if d = strings.TrimSpace(d); d != "" {
			p.symbols[d] = true
		}
	}
	return p
}

func (p *preprocessor) active() bool {
	if len(p.stack) == 0 {
		return true
	}
	return p.stack[len(p.stack)-1].active
}

func (p *preprocessor) checkBalanced(lx *Lexer) {
	for i := len(p.stack) - 1; i >= 0; i-- {
		lx.errLex(diag.LexUnbalancedConditional, p.stack[i].at, "#if without matching #endif")
	}
	p.stack = nil
}

// scanDirective читает строку препроцессора целиком (без '\n') и применяет её.
func (lx *Lexer) scanDirective() token.Trivia {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for isSpaceByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	nameStart := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	name := string(lx.file.Content[nameStart:lx.cursor.Off])
	argStart := lx.cursor.Off
	lx.cursor.SkipToLineEnd()
	rest := string(lx.file.Content[argStart:lx.cursor.Off])

	tr := lx.trivia(token.TriviaDirective, start)
	d := &token.Directive{
		Kind: token.LookupDirective(name),
		Name: name,
		Arg:  strings.TrimSpace(rest),
	}
	if d.Kind != token.DirectiveRegion && d.Kind != token.DirectiveEndregion {
		d.Arg = stripDirectiveComment(d.Arg)
	}
	tr.Directive = d
	lx.applyDirective(d, tr.Span)
	return tr
}

func (lx *Lexer) applyDirective(d *token.Directive, sp source.Span) {
	p := &lx.pp
	switch d.Kind {
	case token.DirectiveIf:
		parent := p.active()
		cond := parent && lx.evalCondition(d.Arg, sp)
		p.stack = append(p.stack, ppFrame{parentActive: parent, active: cond, taken: cond || !parent, at: sp})
		d.Active = cond

	case token.DirectiveElif, token.DirectiveElse:
		if len(p.stack) == 0 {
			lx.errLex(diag.LexUnbalancedConditional, sp, "#"+d.Name+" without #if")
			return
		}
		top := &p.stack[len(p.stack)-1]
		if top.sawElse {
			lx.errLex(diag.LexUnbalancedConditional, sp, "#"+d.Name+" after #else")
		}
		if d.Kind == token.DirectiveElse {
			top.active = top.parentActive && !top.taken
			top.sawElse = true
		} else {
			top.active = top.parentActive && !top.taken && lx.evalCondition(d.Arg, sp)
		}
		top.taken = top.taken || top.active
		d.Active = top.active

	case token.DirectiveEndif:
		if len(p.stack) == 0 {
			lx.errLex(diag.LexUnbalancedConditional, sp, "#endif without #if")
			return
		}
		p.stack = p.stack[:len(p.stack)-1]

	case token.DirectiveDefine, token.DirectiveUndef:
		if !p.active() {
			return
		}
		if d.Arg == "" {
			lx.errLex(diag.LexBadDirective, sp, "expected conditional symbol")
			return
		}
		p.symbols[d.Arg] = d.Kind == token.DirectiveDefine

	case token.DirectiveUnknown:
		lx.warnLex(diag.LexBadDirective, sp, "unknown preprocessor directive")
	}
}

func stripDirectiveComment(arg string) string {
	if i := strings.Index(arg, "//"); i >= 0 {
		arg = arg[:i]
	}
	return strings.TrimSpace(arg)
}

// evalCondition вычисляет выражение #if: символы, true/false, !, &&, ||, ==, != и скобки.
func (lx *Lexer) evalCondition(expr string, sp source.Span) bool {
	e := condEval{src: expr, symbols: lx.pp.symbols}
	v := e.or()
	e.skipSpace()
	if e.err || e.pos < len(e.src) || strings.TrimSpace(expr) == "" {
		lx.errLex(diag.LexBadDirective, sp, "invalid preprocessor expression")
		return false
	}
	return v
}

type condEval struct {
	src     string
	pos     int
	symbols map[string]bool
	err     bool
}

func (e *condEval) skipSpace() {
	for e.pos < len(e.src) && (e.src[e.pos] == ' ' || e.src[e.pos] == '\t') {
		e.pos++
	}
}

func (e *condEval) eat(op string) bool {
	e.skipSpace()
	if strings.HasPrefix(e.src[e.pos:], op) {
		e.pos += len(op)
		return true
	}
	return false
}

func (e *condEval) or() bool {
	v := e.and()
	for e.eat("||") {
		r := e.and()
		v = v || r
	}
	return v
}

func (e *condEval) and() bool {
	v := e.equality()
	for e.eat("&&") {
		r := e.equality()
		v = v && r
	}
	return v
}

func (e *condEval) equality() bool {
	v := e.unary()
	for {
		switch {
		case e.eat("=="):
			v = v == e.unary()
		case e.eat("!="):
			v = v != e.unary()
		default:
			return v
		}
	}
}

func (e *condEval) unary() bool {
	e.skipSpace()
	if e.pos < len(e.src) && e.src[e.pos] == '!' && !strings.HasPrefix(e.src[e.pos:], "!=") {
		e.pos++
		return !e.unary()
	}
	return e.primary()
}

func (e *condEval) primary() bool {
	if e.eat("(") {
		v := e.or()
		if !e.eat(")") {
			e.err = true
		}
		return v
	}
	e.skipSpace()
	start := e.pos
	for e.pos < len(e.src) && isIdentContinueByte(e.src[e.pos]) {
		e.pos++
	}
	word := e.src[start:e.pos]
	switch word {
	case "":
		e.err = true
		return false
	case "true":
		return true
	case "false":
		return false
	default:
		return e.symbols[word]
	}
}
