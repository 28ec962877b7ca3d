package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006
	LexBadDirective             Code = 1007
	LexUnbalancedConditional    Code = 1008

	// Правила порядка (номера совпадают с SA-идентификаторами)
	OrdUsingPlacement           Code = 1200
	OrdElementKind              Code = 1201
	OrdAccessLevel              Code = 1202
	OrdConstantsFirst           Code = 1203
	OrdStaticFirst              Code = 1204
	OrdPartialAccess            Code = 1205
	OrdModifierOrder            Code = 1206
	OrdProtectedInternal        Code = 1207
	OrdSystemUsingsFirst        Code = 1208
	OrdAliasAfterUsings         Code = 1209
	OrdUsingsAlphabetical       Code = 1210
	OrdAliasesAlphabetical      Code = 1211
	OrdAccessorOrder            Code = 1212
	OrdEventAccessorOrder       Code = 1213
	OrdReadonlyFirst            Code = 1214
	OrdStaticUsingPlacement     Code = 1216
	OrdStaticUsingsAlphabetical Code = 1217

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynExpectSemicolon    Code = 2003
	SynExpectIdentifier   Code = 2004
	SynExpectBody         Code = 2005
	SynUnexpectedTopLevel Code = 2006
	SynIncompleteMember   Code = 2007
	SynMultipleFileScoped Code = 2008

	// Ошибки I/O
	IOLoadFileError Code = 4001
	IOWriteError    Code = 4002

	// Конфигурация
	CfgInvalidPolicy    Code = 5001
	CfgUnknownPlacement Code = 5002
	CfgUnknownKind      Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number",
		LexTokenTooLong:             "Token too long",
		LexUnterminatedChar:         "Unterminated character literal",
		LexBadDirective:             "Malformed preprocessor directive",
		LexUnbalancedConditional:    "Unbalanced #if/#endif",
		OrdUsingPlacement:           "Using directives must be placed correctly",
		OrdElementKind:              "Elements must appear in the correct order",
		OrdAccessLevel:              "Elements must be ordered by access",
		OrdConstantsFirst:           "Constants must appear before fields",
		OrdStaticFirst:              "Static elements must appear before instance elements",
		OrdPartialAccess:            "Partial elements must declare access",
		OrdModifierOrder:            "Declaration keywords must follow order",
		OrdProtectedInternal:        "Protected must come before internal",
		OrdSystemUsingsFirst:        "System using directives must be placed before other using directives",
		OrdAliasAfterUsings:         "Using alias directives must be placed after other using directives",
		OrdUsingsAlphabetical:       "Using directives must be ordered alphabetically by namespace",
		OrdAliasesAlphabetical:      "Using alias directives must be ordered alphabetically by alias name",
		OrdAccessorOrder:            "Property accessors must follow order",
		OrdEventAccessorOrder:       "Event accessors must follow order",
		OrdReadonlyFirst:            "Readonly fields must appear before non-readonly fields",
		OrdStaticUsingPlacement:     "Using static directives must be placed at the correct location",
		OrdStaticUsingsAlphabetical: "Using static directives must be ordered alphabetically",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynExpectSemicolon:          "Expect semicolon",
		SynExpectIdentifier:         "Expect identifier",
		SynExpectBody:               "Expect declaration body",
		SynUnexpectedTopLevel:       "Unexpected top level",
		SynIncompleteMember:         "Incomplete member declaration",
		SynMultipleFileScoped:       "Multiple file-scoped namespace declarations",
		IOLoadFileError:             "I/O load file error",
		IOWriteError:                "I/O write error",
		CfgInvalidPolicy:            "Invalid ordering policy",
		CfgUnknownPlacement:         "Unknown using directive placement",
		CfgUnknownKind:              "Unknown element kind in kind order",
	}
)

// IsOrdering reports whether the code belongs to the SA12xx ordering family.
func (c Code) IsOrdering() bool {
	return c >= 1200 && c < 1300
}

// ID returns the stable textual identifier (SA1201, LEX1002, ...).
func (c Code) ID() string {
	switch {
	case c.IsOrdering():
		return fmt.Sprintf("SA%04d", int(c))
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("LEX%04d", int(c))
	case c >= 2000 && c < 3000:
		return fmt.Sprintf("SYN%04d", int(c))
	case c >= 4000 && c < 5000:
		return fmt.Sprintf("IO%04d", int(c))
	case c >= 5000 && c < 6000:
		return fmt.Sprintf("CFG%04d", int(c))
	}
	return "E0000"
}

// Title returns the short human description of the code.
func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return "Unknown error"
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseID maps a textual identifier such as "SA1201" back to a Code.
func ParseID(id string) (Code, bool) {
	for c := range codeDescription {
		if c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
