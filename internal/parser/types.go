package parser

import (
	"strings"

	"csorder/internal/token"
)

// parseType пропускает ссылку на тип. false - типа на этой позиции нет.
func (p *Parser) parseType() bool {
	if p.peek().Kind == token.KwOther && p.peek().Text == "ref" {
		p.advance()
		if p.at(token.KwReadonly) {
			p.advance()
		}
	}
	if p.atWord("scoped") && p.peekN(1).Kind == token.Ident {
		p.advance()
	}

	switch p.peek().Kind {
	case token.KwPredefinedType:
		p.advance()
	case token.Ident:
		if !p.skipQualifiedName() {
			return false
		}
	case token.LParen:
		if !p.skipGroup() {
			return false
		}
	case token.KwDelegate:
		// delegate* unmanaged[Cdecl]<int, void>
		if p.peekN(1).Kind != token.Star {
			return false
		}
		p.advance()
		p.advance()
		if p.at(token.Ident) {
			p.advance()
			if p.at(token.LBracket) && !p.skipGroup() {
				return false
			}
		}
		if p.at(token.Lt) && !p.skipAngles() {
			return false
		}
	default:
		return false
	}

	for {
		switch p.peek().Kind {
		case token.Question, token.Star:
			p.advance()
			continue
		case token.LBracket:
			if n := p.peekN(1).Kind; n == token.RBracket || n == token.Comma {
				if !p.skipGroup() {
					return false
				}
				continue
			}
		}
		return true
	}
}

// skipQualifiedName: A, A.B, global::A.B, A<T>.B<U>.
func (p *Parser) skipQualifiedName() bool {
	if !p.at(token.Ident) {
		return false
	}
	p.advance()
	if p.at(token.ColonColon) {
		p.advance()
		if !p.at(token.Ident) {
			return false
		}
		p.advance()
	}
	for {
		if p.at(token.Lt) && !p.skipAngles() {
			return false
		}
		if p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.advance()
			p.advance()
			continue
		}
		return true
	}
}

// memberName описывает имя члена после типа.
type memberName struct {
	name     string
	explicit bool // IFoo.Member
	indexer  bool // this[...] / IFoo.this[...]
	ok       bool
}

// parseMemberName разбирает Name, IFoo.Name, IFoo<T>.Name, this, IFoo.this.
// Типовые параметры метода (<T>) не съедаются, если за ними '('.
func (p *Parser) parseMemberName() memberName {
	if p.at(token.KwThis) {
		p.advance()
		return memberName{name: "this", indexer: true, ok: true}
	}
	if !p.at(token.Ident) {
		return memberName{}
	}
	var parts []string
	for {
		parts = append(parts, p.advance().Text)
		if p.at(token.Lt) {
			save := p.pos
			if !p.skipAngles() {
				p.pos = save
				break
			}
			if !p.at(token.Dot) {
				// типовые параметры метода: вернёмся, их пропустит разбор метода
				p.pos = save
				break
			}
		}
		if p.at(token.Dot) && p.peekN(1).Kind == token.Ident {
			p.advance()
			continue
		}
		if p.at(token.Dot) && p.peekN(1).Kind == token.KwThis {
			p.advance()
			p.advance()
			return memberName{name: "this", explicit: true, indexer: true, ok: true}
		}
		break
	}
	return memberName{
		name:     parts[len(parts)-1],
		explicit: len(parts) > 1,
		ok:       true,
	}
}

// textRange склеивает текст токенов [from, to) без trivia.
func (p *Parser) textRange(from, to uint32) string {
	var b strings.Builder
	for i := from; i < to; i++ {
		b.WriteString(p.toks[i].Text)
	}
	return b.String()
}
