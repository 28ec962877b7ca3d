package lexer

import (
	"csorder/internal/diag"
	"csorder/internal/token"
)

// Многосимвольные операторы, длинные раньше коротких.
// '>' всегда отдельный токен, чтобы List<List<int>> закрывался двумя Gt;
// ">=", ">>" и ">>=" нужны только парсеру выражений, которого нет.
var multiOps = []struct {
	text string
	kind token.Kind
}{
	{"??=", token.Op}, {"<<=", token.Op},
	{"::", token.ColonColon}, {"=>", token.Arrow},
	{"??", token.Op}, {"?.", token.Op}, {"->", token.Op}, {"++", token.Op},
	{"--", token.Op}, {"&&", token.Op}, {"||", token.Op}, {"==", token.Op},
	{"!=", token.Op}, {"<=", token.Op}, {"<<", token.Op}, {"+=", token.Op},
	{"-=", token.Op}, {"*=", token.Op}, {"/=", token.Op}, {"%=", token.Op},
	{"&=", token.Op}, {"|=", token.Op}, {"^=", token.Op}, {"..", token.Op},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range multiOps {
		if lx.cursor.EatString(op.text) {
			return lx.emit(op.kind, start)
		}
	}

	// односимвольные
	ch := lx.cursor.Bump()
	switch ch {
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case ';':
		return lx.emit(token.Semicolon, start)
	case ',':
		return lx.emit(token.Comma, start)
	case '.':
		return lx.emit(token.Dot, start)
	case ':':
		return lx.emit(token.Colon, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '?':
		return lx.emit(token.Question, start)
	case '*':
		return lx.emit(token.Star, start)
	case '~':
		return lx.emit(token.Tilde, start)
	case '+', '-', '/', '%', '!', '&', '|', '^':
		return lx.emit(token.Op, start)
	default:
		// неизвестный символ; съедаем руну целиком
		lx.cursor.Reset(start)
		lx.bumpRune()
		if lx.cursor.Off == uint32(start) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return lx.emit(token.Invalid, start)
	}
}
