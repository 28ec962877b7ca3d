package token

import (
	"csorder/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind     Kind
	Span     source.Span
	Text     string
	Leading  []Trivia
	Trailing []Trivia
}

// FullSpan covers the token together with its leading and trailing trivia.
func (t Token) FullSpan() source.Span {
	sp := t.Span
	if len(t.Leading) > 0 {
		sp.Start = t.Leading[0].Span.Start
	}
	if len(t.Trailing) > 0 {
		sp.End = t.Trailing[len(t.Trailing)-1].Span.End
	}
	return sp
}

// IsModifier reports whether the token is a declaration modifier keyword.
// Contextual modifiers (partial, async, required, file) are identifiers and
// are matched by the parser.
func (t Token) IsModifier() bool {
	switch t.Kind {
	case KwPublic, KwPrivate, KwProtected, KwInternal, KwStatic, KwReadonly, KwConst,
		KwVolatile, KwAbstract, KwVirtual, KwOverride, KwSealed, KwNew, KwUnsafe, KwExtern, KwFixed:
		return true
	default:
		return false
	}
}

// IsAccessModifier reports whether the token is public/private/protected/internal.
func (t Token) IsAccessModifier() bool {
	switch t.Kind {
	case KwPublic, KwPrivate, KwProtected, KwInternal:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the token is a numeric, char or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, CharLit, InterpolatedStringLit:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsContextual reports whether the token is an identifier spelled word.
// Verbatim identifiers (@partial) never match.
func (t Token) IsContextual(word string) bool {
	return t.Kind == Ident && t.Text == word
}
