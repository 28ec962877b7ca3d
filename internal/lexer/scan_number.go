package lexer

import (
	"csorder/internal/diag"
	"csorder/internal/token"
)

// Поддержка: 123, 0x..., 0b..., 1.5, .5, 1e-3, 1_000 и суффиксы (u, l, ul, f, d, m).
// "1..2" (range) и "1.ToString()" не захватывают точку.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			return lx.finishNumber(start)
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			for b := lx.cursor.Peek(); b == '0' || b == '1' || b == '_'; b = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			return lx.finishNumber(start)
		}
	}

	// целая часть (может быть пустой для ".5")
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// дробная часть - только если за точкой цифра
	if lx.isNumberAfterDot() {
		lx.cursor.Bump() // '.'
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return lx.emit(token.Invalid, start)
		}
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}
	return lx.finishNumber(start)
}

func (lx *Lexer) finishNumber(start Mark) token.Token {
	for {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L', 'f', 'F', 'd', 'D', 'm', 'M':
			lx.cursor.Bump()
			continue
		}
		break
	}
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid numeric literal")
		return lx.emit(token.Invalid, start)
	}
	return lx.emit(token.NumberLit, start)
}
