package token

var keywords = map[string]Kind{
	"using":     KwUsing,
	"namespace": KwNamespace,
	"class":     KwClass,
	"struct":    KwStruct,
	"interface": KwInterface,
	"enum":      KwEnum,
	"delegate":  KwDelegate,
	"event":     KwEvent,
	"operator":  KwOperator,
	"implicit":  KwImplicit,
	"explicit":  KwExplicit,
	"this":      KwThis,
	"extern":    KwExtern,

	"public":    KwPublic,
	"private":   KwPrivate,
	"protected": KwProtected,
	"internal":  KwInternal,
	"static":    KwStatic,
	"readonly":  KwReadonly,
	"const":     KwConst,
	"volatile":  KwVolatile,
	"abstract":  KwAbstract,
	"virtual":   KwVirtual,
	"override":  KwOverride,
	"sealed":    KwSealed,
	"new":       KwNew,
	"unsafe":    KwUnsafe,
	"fixed":     KwFixed,

	"bool":    KwPredefinedType,
	"byte":    KwPredefinedType,
	"sbyte":   KwPredefinedType,
	"char":    KwPredefinedType,
	"decimal": KwPredefinedType,
	"double":  KwPredefinedType,
	"float":   KwPredefinedType,
	"int":     KwPredefinedType,
	"uint":    KwPredefinedType,
	"long":    KwPredefinedType,
	"ulong":   KwPredefinedType,
	"short":   KwPredefinedType,
	"ushort":  KwPredefinedType,
	"object":  KwPredefinedType,
	"string":  KwPredefinedType,
	"void":    KwPredefinedType,

	"as":         KwOther,
	"base":       KwOther,
	"break":      KwOther,
	"case":       KwOther,
	"catch":      KwOther,
	"checked":    KwOther,
	"continue":   KwOther,
	"default":    KwOther,
	"do":         KwOther,
	"else":       KwOther,
	"false":      KwOther,
	"finally":    KwOther,
	"for":        KwOther,
	"foreach":    KwOther,
	"goto":       KwOther,
	"if":         KwOther,
	"in":         KwOther,
	"is":         KwOther,
	"lock":       KwOther,
	"null":       KwOther,
	"out":        KwOther,
	"params":     KwOther,
	"ref":        KwOther,
	"return":     KwOther,
	"sizeof":     KwOther,
	"stackalloc": KwOther,
	"switch":     KwOther,
	"throw":      KwOther,
	"true":       KwOther,
	"try":        KwOther,
	"typeof":     KwOther,
	"unchecked":  KwOther,
	"while":      KwOther,
}

// LookupKeyword returns the kind of a reserved word. Keywords are
// case-sensitive and @-prefixed words are never keywords.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
