package lexer

import (
	"unicode"
	"unicode/utf8"
)

// peekRune decodes the rune under the cursor; size 0 at EOF.
func (lx *Lexer) peekRune() (rune, int) {
	if b := lx.cursor.Peek(); b < utf8.RuneSelf {
		if lx.cursor.EOF() {
			return utf8.RuneError, 0
		}
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.rest())
}

// bumpRune skips one rune; invalid UTF-8 advances a single byte.
func (lx *Lexer) bumpRune() {
	_, n := lx.peekRune()
	lx.cursor.Off += uint32(n)
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\f', '\v', '\r':
		return true
	}
	return false
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || ('a' <= b|0x20 && b|0x20 <= 'f')
}

// ASCII идентификаторы без декодирования рун.
func isIdentStartByte(b byte) bool {
	return b == '_' || ('a' <= b|0x20 && b|0x20 <= 'z')
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

// C# identifier-start: letters, letter numbers and '_'.
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.In(r, unicode.L, unicode.Nl)
}

func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.In(r, unicode.Nd, unicode.Mn, unicode.Mc, unicode.Pc, unicode.Cf)
}

// ".5": точка, за которой цифра.
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1))
}
