package lexer

import (
	"csorder/internal/diag"
	"csorder/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\f', '\v' и одиночный '\r' коалесцируются в один TriviaSpace
//   - каждый '\n' -> отдельный TriviaNewline (пустые строки считаются по ним)
//   - //... до \n -> TriviaLineComment, ///... -> TriviaDocLine
//   - /* ... */ -> TriviaBlockComment, /** ... */ -> TriviaDocBlock
//   - #... в начале строки -> TriviaDirective
//   - строки неактивной ветки #if -> TriviaDisabled
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		if !lx.pp.active() && lx.cursor.AtLineStart() && !lx.lineIsConditional() {
			lx.scanDisabledText()
			continue
		}

		b := lx.cursor.Peek()
		switch {
		case isSpaceByte(b):
			lx.hold = append(lx.hold, lx.scanSpaces())
		case b == '\n':
			lx.hold = append(lx.hold, lx.scanNewline())
		case b == '#' && lx.cursor.AtLineStart():
			lx.hold = append(lx.hold, lx.scanDirective())
		case b == '/':
			tr, ok := lx.scanComment()
			if !ok {
				return
			}
			lx.hold = append(lx.hold, tr)
		default:
			return
		}
	}
}

// collectTrailingTrivia забирает trivia на той же строке, что и токен,
// включая первый перевод строки.
func (lx *Lexer) collectTrailingTrivia() []token.Trivia {
	var out []token.Trivia
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isSpaceByte(b):
			out = append(out, lx.scanSpaces())
		case b == '\n':
			out = append(out, lx.scanNewline())
			return out
		case b == '/':
			tr, ok := lx.scanComment()
			if !ok {
				return out
			}
			out = append(out, tr)
		default:
			return out
		}
	}
	return out
}

func (lx *Lexer) trivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanSpaces() token.Trivia {
	start := lx.cursor.Mark()
	for isSpaceByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.trivia(token.TriviaSpace, start)
}

func (lx *Lexer) scanNewline() token.Trivia {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	return lx.trivia(token.TriviaNewline, start)
}

// //... , ///... , /*...*/ , /**...*/
func (lx *Lexer) scanComment() (token.Trivia, bool) {
	start := lx.cursor.Mark()
	if !lx.cursor.Eat('/') {
		return token.Trivia{}, false
	}
	switch lx.cursor.Peek() {
	case '/':
		lx.cursor.Bump()
		kind := token.TriviaLineComment
		// ровно три '/' - doc comment; "////" уже обычный комментарий
		if lx.cursor.Peek() == '/' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocLine
		}
		lx.cursor.SkipToLineEnd()
		return lx.trivia(kind, start), true

	case '*':
		lx.cursor.Bump()
		kind := token.TriviaBlockComment
		if lx.cursor.Remaining() >= 2 && lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) != '/' {
			kind = token.TriviaDocBlock
		}
		closed := false
		for !lx.cursor.EOF() {
			if lx.cursor.EatString("*/") {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		tr := lx.trivia(kind, start)
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, tr.Span, "unterminated block comment")
		}
		return tr, true

	default:
		// это не комментарий - вернёмся, пусть сканируется как оператор '/'
		lx.cursor.Reset(start)
		return token.Trivia{}, false
	}
}

// scanDisabledText поглощает строки неактивной ветки вплоть до строки
// с условной директивой (#if/#elif/#else/#endif) или EOF.
func (lx *Lexer) scanDisabledText() {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		if lx.cursor.AtLineStart() && lx.lineIsConditional() {
			break
		}
		lx.cursor.SkipToLineEnd()
		lx.cursor.Eat('\n')
	}
	if lx.cursor.Off > uint32(start) {
		lx.hold = append(lx.hold, lx.trivia(token.TriviaDisabled, start))
	}
}

// lineIsConditional смотрит вперёд от курсора: пробелы, '#', имя директивы из семейства #if.
func (lx *Lexer) lineIsConditional() bool {
	i := uint32(0)
	for isSpaceByte(lx.cursor.PeekAt(i)) {
		i++
	}
	if lx.cursor.PeekAt(i) != '#' {
		return false
	}
	i++
	for isSpaceByte(lx.cursor.PeekAt(i)) {
		i++
	}
	j := i
	for isIdentContinueByte(lx.cursor.PeekAt(j)) {
		j++
	}
	name := string(lx.file.Content[lx.cursor.Off+i : lx.cursor.Off+j])
	return token.LookupDirective(name).IsConditional()
}
