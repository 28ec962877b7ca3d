package lexer

import (
	"csorder/internal/diag"
	"csorder/internal/token"
)

// "..." с escape-последовательностями; перевод строки внутри - ошибка.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			return lx.emit(token.StringLit, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue
		case '\n':
			return lx.unterminated(start, diag.LexUnterminatedString, "newline in string literal")
		}
		lx.cursor.Bump()
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated string literal")
}

// @"..." - многострочная, "" экранирует кавычку.
func (lx *Lexer) scanVerbatimString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '@'
	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			if lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			return lx.emit(token.StringLit, start)
		}
		lx.cursor.Bump()
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated verbatim string literal")
}

func (lx *Lexer) isRawStringStart() bool {
	return lx.cursor.HasPrefix(`"""`)
}

// """...""" (raw string literal). dollars - количество '$' перед кавычками,
// уже съеденных вызывающим. Закрывается первой серией из стольких же кавычек.
func (lx *Lexer) scanRawStringFrom(start Mark, dollars int) token.Token {
	quotes := 0
	for lx.cursor.Peek() == '"' {
		lx.cursor.Bump()
		quotes++
	}
	kind := token.StringLit
	if dollars > 0 {
		kind = token.InterpolatedStringLit
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() != '"' {
			lx.cursor.Bump()
			continue
		}
		run := 0
		for lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			run++
		}
		if run >= quotes {
			return lx.emit(kind, start)
		}
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated raw string literal")
}

func (lx *Lexer) scanRawString(dollars int) token.Token {
	return lx.scanRawStringFrom(lx.cursor.Mark(), dollars)
}

// $"...", $@"...", @$"...", $"""...""", $$"""...""".
// Дыры {expr} сканируются с учётом вложенных скобок и строк.
func (lx *Lexer) scanInterpolated() token.Token {
	start := lx.cursor.Mark()
	verbatim := false
	dollars := 0
	for {
		switch lx.cursor.Peek() {
		case '$':
			dollars++
			lx.cursor.Bump()
			continue
		case '@':
			if verbatim {
				break
			}
			verbatim = true
			lx.cursor.Bump()
			continue
		}
		break
	}
	if dollars == 0 || lx.cursor.Peek() != '"' {
		lx.cursor.Reset(start)
		lx.cursor.Bump()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unexpected character")
		return lx.emit(token.Invalid, start)
	}
	if !verbatim && lx.isRawStringStart() {
		return lx.scanRawStringFrom(start, dollars)
	}

	lx.cursor.Bump() // '"'
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); {
		case b == '"':
			lx.cursor.Bump()
			if verbatim && lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			return lx.emit(token.InterpolatedStringLit, start)
		case b == '\\' && !verbatim:
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '{':
			lx.cursor.Bump()
			if lx.cursor.Peek() == '{' {
				lx.cursor.Bump()
				continue
			}
			lx.skipInterpolationHole()
		case b == '\n' && !verbatim:
			return lx.unterminated(start, diag.LexUnterminatedString, "newline in interpolated string")
		default:
			lx.cursor.Bump()
		}
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated interpolated string")
}

// skipInterpolationHole стоит сразу после '{' и доходит до парной '}'.
func (lx *Lexer) skipInterpolationHole() {
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		switch b := lx.cursor.Peek(); b {
		case '{':
			depth++
			lx.cursor.Bump()
		case '}':
			depth--
			lx.cursor.Bump()
		case '"':
			if lx.isRawStringStart() {
				lx.scanRawString(0)
			} else {
				lx.scanString()
			}
		case '\'':
			lx.scanChar()
		case '@':
			if lx.cursor.PeekAt(1) == '"' {
				lx.scanVerbatimString()
			} else if lx.cursor.PeekAt(1) == '$' {
				lx.scanInterpolated()
			} else {
				lx.cursor.Bump()
			}
		case '$':
			if n := lx.cursor.PeekAt(1); n == '"' || n == '@' || n == '$' {
				lx.scanInterpolated()
			} else {
				lx.cursor.Bump()
			}
		case '/':
			if n := lx.cursor.PeekAt(1); n == '/' || n == '*' {
				lx.scanComment()
			} else {
				lx.cursor.Bump()
			}
		default:
			lx.cursor.Bump()
		}
	}
}

// 'x', '\n', 'A'
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\'':
			lx.cursor.Bump()
			return lx.emit(token.CharLit, start)
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue
		case '\n':
			return lx.unterminated(start, diag.LexUnterminatedChar, "newline in character literal")
		}
		lx.cursor.Bump()
	}
	return lx.unterminated(start, diag.LexUnterminatedChar, "unterminated character literal")
}

func (lx *Lexer) unterminated(start Mark, code diag.Code, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(code, sp, msg)
	return lx.emit(token.Invalid, start)
}
