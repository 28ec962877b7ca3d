package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, including @verbatim identifiers.
	Ident

	// declaration keywords
	KwUsing
	KwNamespace
	KwClass
	KwStruct
	KwInterface
	KwEnum
	KwDelegate
	KwEvent
	KwOperator
	KwImplicit
	KwExplicit
	KwThis
	KwExtern

	// modifiers
	KwPublic
	KwPrivate
	KwProtected
	KwInternal
	KwStatic
	KwReadonly
	KwConst
	KwVolatile
	KwAbstract
	KwVirtual
	KwOverride
	KwSealed
	KwNew
	KwUnsafe
	KwFixed

	// KwPredefinedType covers bool, int, string, void and the other built-in type keywords.
	KwPredefinedType
	// KwOther covers reserved words the declaration parser never inspects (if, return, ...).
	KwOther

	NumberLit
	StringLit
	CharLit
	// InterpolatedStringLit is a $"..." or $@"..." literal lexed as one token.
	InterpolatedStringLit

	LBrace    // {
	RBrace    // }
	LParen    // (
	RParen    // )
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Colon     // :
	ColonColon
	Assign   // =
	Lt       // <
	Gt       // >
	Question // ?
	Star     // *
	Tilde    // ~
	Arrow    // =>
	// Op is any other operator or punctuator.
	Op
)

var kindNames = [...]string{
	Invalid:               "Invalid",
	EOF:                   "EOF",
	Ident:                 "Ident",
	KwUsing:               "KwUsing",
	KwNamespace:           "KwNamespace",
	KwClass:               "KwClass",
	KwStruct:              "KwStruct",
	KwInterface:           "KwInterface",
	KwEnum:                "KwEnum",
	KwDelegate:            "KwDelegate",
	KwEvent:               "KwEvent",
	KwOperator:            "KwOperator",
	KwImplicit:            "KwImplicit",
	KwExplicit:            "KwExplicit",
	KwThis:                "KwThis",
	KwExtern:              "KwExtern",
	KwPublic:              "KwPublic",
	KwPrivate:             "KwPrivate",
	KwProtected:           "KwProtected",
	KwInternal:            "KwInternal",
	KwStatic:              "KwStatic",
	KwReadonly:            "KwReadonly",
	KwConst:               "KwConst",
	KwVolatile:            "KwVolatile",
	KwAbstract:            "KwAbstract",
	KwVirtual:             "KwVirtual",
	KwOverride:            "KwOverride",
	KwSealed:              "KwSealed",
	KwNew:                 "KwNew",
	KwUnsafe:              "KwUnsafe",
	KwFixed:               "KwFixed",
	KwPredefinedType:      "KwPredefinedType",
	KwOther:               "KwOther",
	NumberLit:             "NumberLit",
	StringLit:             "StringLit",
	CharLit:               "CharLit",
	InterpolatedStringLit: "InterpolatedStringLit",
	LBrace:                "LBrace",
	RBrace:                "RBrace",
	LParen:                "LParen",
	RParen:                "RParen",
	LBracket:              "LBracket",
	RBracket:              "RBracket",
	Semicolon:             "Semicolon",
	Comma:                 "Comma",
	Dot:                   "Dot",
	Colon:                 "Colon",
	ColonColon:            "ColonColon",
	Assign:                "Assign",
	Lt:                    "Lt",
	Gt:                    "Gt",
	Question:              "Question",
	Star:                  "Star",
	Tilde:                 "Tilde",
	Arrow:                 "Arrow",
	Op:                    "Op",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
