package lexer

import (
	"unicode/utf8"

	"csorder/internal/diag"
	"csorder/internal/source"
	"csorder/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
	pp     preprocessor
	done   bool // после фатальной ошибки отдаём только EOF
	ended  bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		pp:     newPreprocessor(opts.Defines),
	}
}

// Next возвращает следующий **значимый** токен с уже собранными Leading и Trailing.
// Trivia в конце файла приклеивается к EOF, так что конкатенация полных
// токенов восстанавливает исходный текст. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	if lx.done {
		lx.cursor.SkipToEnd()
	} else {
		lx.collectLeadingTrivia()
	}

	if lx.cursor.EOF() {
		lx.finish()
		return token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.takeHold(),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch) || ch >= utf8.RuneSelf || ch == '\\':
		tok = lx.scanIdentOrKeyword()

	case ch == '@':
		switch lx.cursor.PeekAt(1) {
		case '"':
			tok = lx.scanVerbatimString()
		case '$':
			tok = lx.scanInterpolated()
		default:
			tok = lx.scanIdentOrKeyword()
		}

	case ch == '$':
		tok = lx.scanInterpolated()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '"':
		if lx.isRawStringStart() {
			tok = lx.scanRawString(0)
		} else {
			tok = lx.scanString()
		}

	case ch == '\'':
		tok = lx.scanChar()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	if tok.Span.Len() > maxTokenLength {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token is too long")
		lx.done = true
		tok.Kind = token.Invalid
		tok.Leading = lx.takeHold()
		return tok
	}

	tok.Leading = lx.takeHold()
	tok.Trailing = lx.collectTrailingTrivia()
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the whole file. The last element is always EOF.
func (lx *Lexer) All() []token.Token {
	toks := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Tokenize is a shortcut for New(file, opts).All().
func Tokenize(file *source.File, opts Options) []token.Token {
	return New(file, opts).All()
}

func (lx *Lexer) takeHold() []token.Trivia {
	h := lx.hold
	lx.hold = nil
	return h
}

func (lx *Lexer) finish() {
	if lx.ended {
		return
	}
	lx.ended = true
	lx.pp.checkBalanced(lx)
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
