package lexer

import (
	"csorder/internal/diag"
	"csorder/internal/token"
)

// scanIdentOrKeyword сканирует [@]Ident с поддержкой \uXXXX / \UXXXXXXXX и
// проверяет через LookupKeyword. Идентификаторы с '@' или escape-последовательностями
// никогда не являются ключевыми словами. Token.Text - ровно исходный срез.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	verbatim := lx.cursor.Eat('@')
	escaped := false
	first := true

	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '\\' {
			if r, ok := lx.tryUnicodeEscape(); ok && (first && isIdentStartRune(r) || !first && isIdentContinueRune(r)) {
				escaped = true
				first = false
				continue
			}
			break
		}
		r, sz := lx.peekRune()
		if sz == 0 {
			break
		}
		if first && !isIdentStartRune(r) || !first && !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
		first = false
	}

	if first {
		// ничего не прочитали - это не идентификатор
		lx.cursor.Reset(start)
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
		return lx.emit(token.Invalid, start)
	}

	tok := lx.emit(token.Ident, start)
	if verbatim || escaped {
		return tok
	}
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}

// tryUnicodeEscape съедает \uXXXX или \UXXXXXXXX; при неудаче курсор не двигается.
func (lx *Lexer) tryUnicodeEscape() (rune, bool) {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('\\') {
		return 0, false
	}
	n := 0
	switch lx.cursor.Peek() {
	case 'u':
		n = 4
	case 'U':
		n = 8
	default:
		lx.cursor.Reset(start)
		return 0, false
	}
	lx.cursor.Bump()
	var r rune
	for i := 0; i < n; i++ {
		b := lx.cursor.Peek()
		if !isHex(b) {
			lx.cursor.Reset(start)
			return 0, false
		}
		r = r<<4 | rune(hexVal(b))
		lx.cursor.Bump()
	}
	return r, true
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	default:
		return b - 'A' + 10
	}
}
