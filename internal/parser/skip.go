package parser

import (
	"csorder/internal/token"
)

func closerOf(k token.Kind) token.Kind {
	switch k {
	case token.LParen:
		return token.RParen
	case token.LBracket:
		return token.RBracket
	case token.LBrace:
		return token.RBrace
	}
	return token.Invalid
}

// skipGroup стоит на открывающей скобке ( [ { и съедает группу до парной
// закрывающей включительно. Несовпадающая закрывающая скобка или EOF - false,
// несовпавшая скобка не съедается.
func (p *Parser) skipGroup() bool {
	var stack []token.Kind
	for !p.at(token.EOF) {
		k := p.peek().Kind
		switch k {
		case token.LParen, token.LBracket, token.LBrace:
			stack = append(stack, closerOf(k))
		case token.RParen, token.RBracket, token.RBrace:
			if len(stack) == 0 || stack[len(stack)-1] != k {
				return false
			}
			stack = stack[:len(stack)-1]
		}
		p.advance()
		if len(stack) == 0 {
			return true
		}
	}
	return false
}

// skipAngles стоит на '<' и пропускает список типовых аргументов/параметров.
func (p *Parser) skipAngles() bool {
	depth := 0
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				p.advance()
				return true
			}
		case token.LParen, token.LBracket:
			if !p.skipGroup() {
				return false
			}
			continue
		case token.Semicolon, token.LBrace, token.RBrace, token.RParen, token.Assign:
			return false
		}
		p.advance()
	}
	return false
}

// skipToSemicolon съедает всё до ';' на нулевой глубине включительно.
// Встреченная '}' нулевой глубины или EOF - false (не съедается).
func (p *Parser) skipToSemicolon() bool {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return true
		case token.RBrace, token.RParen, token.RBracket:
			return false
		case token.LParen, token.LBracket, token.LBrace:
			if !p.skipGroup() {
				return false
			}
			continue
		}
		p.advance()
	}
	return false
}

// skipBody пропускает тело члена: { ... }, => expr; или ';'.
func (p *Parser) skipBody() bool {
	switch p.peek().Kind {
	case token.LBrace:
		return p.skipGroup()
	case token.Arrow:
		p.advance()
		return p.skipToSemicolon()
	case token.Semicolon:
		p.advance()
		return true
	}
	return false
}

// skipUntilBody пропускает параметры, where-ограничения и инициализатор конструктора
// до тела ('{', '=>' или ';').
func (p *Parser) skipUntilBody() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.LBrace, token.Arrow, token.Semicolon, token.RBrace:
			return
		case token.LParen, token.LBracket:
			if !p.skipGroup() {
				return
			}
			continue
		}
		p.advance()
	}
}

// skipStatement пропускает оператор верхнего уровня (top-level statements).
func (p *Parser) skipStatement() bool {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return true
		case token.RBrace, token.RParen, token.RBracket:
			return false
		case token.LParen, token.LBracket:
			if !p.skipGroup() {
				return false
			}
			continue
		case token.LBrace:
			if !p.skipGroup() {
				return false
			}
			if !p.continuesStatement() {
				return true
			}
			continue
		}
		p.advance()
	}
	return false
}

// continuesStatement: после блока { } оператор продолжается (else, catch, ...).
func (p *Parser) continuesStatement() bool {
	t := p.peek()
	switch t.Kind {
	case token.Semicolon, token.Comma, token.Dot, token.RParen, token.Op, token.Assign, token.Question, token.Colon:
		return true
	case token.KwOther:
		switch t.Text {
		case "else", "catch", "finally", "while":
			return true
		}
	}
	return false
}
