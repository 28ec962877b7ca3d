package token

import "csorder/internal/source"

// TriviaKind classifies non-semantic source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDocLine  // ///
	TriviaDocBlock // /** */
	TriviaDirective
	TriviaDisabled // text of an inactive #if branch
)

var triviaNames = [...]string{
	TriviaSpace:        "Space",
	TriviaNewline:      "Newline",
	TriviaLineComment:  "LineComment",
	TriviaBlockComment: "BlockComment",
	TriviaDocLine:      "DocLine",
	TriviaDocBlock:     "DocBlock",
	TriviaDirective:    "Directive",
	TriviaDisabled:     "Disabled",
}

func (k TriviaKind) String() string {
	if int(k) < len(triviaNames) {
		return triviaNames[k]
	}
	return "Trivia(?)"
}

// DirectiveKind is the keyword of a preprocessor line.
type DirectiveKind uint8

const (
	DirectiveUnknown DirectiveKind = iota
	DirectiveIf
	DirectiveElif
	DirectiveElse
	DirectiveEndif
	DirectiveDefine
	DirectiveUndef
	DirectiveRegion
	DirectiveEndregion
	DirectivePragma
	DirectiveNullable
	DirectiveLine
	DirectiveError
	DirectiveWarning
)

var directiveNames = map[string]DirectiveKind{
	"if":        DirectiveIf,
	"elif":      DirectiveElif,
	"else":      DirectiveElse,
	"endif":     DirectiveEndif,
	"define":    DirectiveDefine,
	"undef":     DirectiveUndef,
	"region":    DirectiveRegion,
	"endregion": DirectiveEndregion,
	"pragma":    DirectivePragma,
	"nullable":  DirectiveNullable,
	"line":      DirectiveLine,
	"error":     DirectiveError,
	"warning":   DirectiveWarning,
}

// LookupDirective maps the word after '#' to a DirectiveKind.
func LookupDirective(name string) DirectiveKind {
	return directiveNames[name]
}

// IsConditional reports whether the directive belongs to the #if family.
func (k DirectiveKind) IsConditional() bool {
	switch k {
	case DirectiveIf, DirectiveElif, DirectiveElse, DirectiveEndif:
		return true
	default:
		return false
	}
}

// Directive describes a preprocessor line.
type Directive struct {
	Kind DirectiveKind
	Name string // слово после '#'
	Arg  string // остаток строки без комментария
	// Active is the evaluated condition for #if/#elif; for #else it records
	// whether the branch is taken.
	Active bool
}

// Trivia is one piece of non-semantic text attached to a token.
type Trivia struct {
	Kind      TriviaKind
	Span      source.Span
	Text      string
	Directive *Directive // только если Kind == TriviaDirective
}

// IsComment reports whether the trivia is any kind of comment.
func (t Trivia) IsComment() bool {
	switch t.Kind {
	case TriviaLineComment, TriviaBlockComment, TriviaDocLine, TriviaDocBlock:
		return true
	default:
		return false
	}
}

// IsBarrier reports whether the trivia pins the position of the code after it:
// preprocessor lines and disabled branches.
func (t Trivia) IsBarrier() bool {
	return t.Kind == TriviaDirective || t.Kind == TriviaDisabled
}
