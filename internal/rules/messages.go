package rules

import (
	"strings"

	"csorder/internal/diag"
)

const defaultTemplate = `"{0}" should appear before "{1}"`

var templates = map[diag.Code]string{
	diag.OrdUsingPlacement:           `Using directive "{0}" should be placed {1}`,
	diag.OrdElementKind:              `A {0} should not follow a {1}`,
	diag.OrdAccessLevel:              `A {0} should appear before a {1}`,
	diag.OrdConstantsFirst:           `A {0} should appear before a {1}`,
	diag.OrdStaticFirst:              `A {0} should appear before a {1}`,
	diag.OrdReadonlyFirst:            `A {0} should appear before a {1}`,
	diag.OrdSystemUsingsFirst:        `System using directive "{0}" should appear before "{1}"`,
	diag.OrdAliasAfterUsings:         `Using alias directive "{1}" should appear after "{0}"`,
	diag.OrdUsingsAlphabetical:       `Using directive "{0}" should appear before "{1}"`,
	diag.OrdAliasesAlphabetical:      `Using alias "{0}" should appear before "{1}"`,
	diag.OrdStaticUsingPlacement:     `Using directive "{0}" should appear before "{1}"`,
	diag.OrdStaticUsingsAlphabetical: `Using static directive "{0}" should appear before "{1}"`,
	diag.OrdPartialAccess:            `Partial element "{0}" should declare an access modifier`,
	diag.OrdModifierOrder:            `Keyword "{0}" should appear before "{1}"`,
	diag.OrdProtectedInternal:        `Keyword "{0}" should appear before "{1}"`,
	diag.OrdAccessorOrder:            `Accessor "{0}" should appear before "{1}"`,
	diag.OrdEventAccessorOrder:       `Accessor "{0}" should appear before "{1}"`,
}

// Message formats the message of code with positional arguments.
func Message(code diag.Code, args ...string) string {
	tmpl, ok := templates[code]
	if !ok {
		tmpl = defaultTemplate
	}
	return expand(tmpl, args)
}

func expand(tmpl string, args []string) string {
	pairs := make([]string, 0, 2*len(args))
	for i, a := range args {
		pairs = append(pairs, "{"+string(rune('0'+i))+"}", a)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
