package order

import (
	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/source"
)

// Violation is one ordering problem found in a tree.
type Violation struct {
	Rule diag.Code
	// Node is where the violation is reported.
	Node ast.DeclID
	// Prev is the other node of the compared pair (NoDeclID for placement).
	Prev      ast.DeclID
	Container ast.DeclID
	Span      source.Span
	// Args are 0–2 message arguments: the categories of Node and Prev.
	Args []string
}

// IsDirective reports whether the violation concerns using directives.
func (v Violation) IsDirective() bool {
	switch v.Rule {
	case diag.OrdUsingPlacement, diag.OrdSystemUsingsFirst, diag.OrdAliasAfterUsings,
		diag.OrdUsingsAlphabetical, diag.OrdAliasesAlphabetical,
		diag.OrdStaticUsingPlacement, diag.OrdStaticUsingsAlphabetical:
		return true
	}
	return false
}
