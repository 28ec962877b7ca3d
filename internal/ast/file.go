package ast

import (
	"csorder/internal/source"
	"csorder/internal/token"
)

// File is the declaration tree of one source file together with its tokens.
// Concatenating the full text of all tokens (leading trivia, text, trailing
// trivia) yields the file content, so every node maps back to an exact
// source region.
type File struct {
	Source source.FileID
	Tokens []token.Token
	Root   DeclID
	Decls  *Decls
	// Namespaces lists every namespace declaration in source order.
	Namespaces []DeclID
	// HasGlobalAttributes is set when the compilation unit carries
	// [assembly: ...] or [module: ...] attribute lists.
	HasGlobalAttributes bool
}

// Decl returns the node for id.
func (f *File) Decl(id DeclID) *Decl {
	return f.Decls.Get(id)
}

// EOFIndex returns the index of the EOF token.
func (f *File) EOFIndex() uint32 {
	return uint32(len(f.Tokens) - 1)
}

// FullStart returns the offset where the leading trivia of token i begins.
func (f *File) FullStart(i uint32) uint32 {
	tok := &f.Tokens[i]
	if len(tok.Leading) > 0 {
		return tok.Leading[0].Span.Start
	}
	return tok.Span.Start
}

// FullEnd returns the offset where the trailing trivia of token i ends.
func (f *File) FullEnd(i uint32) uint32 {
	tok := &f.Tokens[i]
	if len(tok.Trailing) > 0 {
		return tok.Trailing[len(tok.Trailing)-1].Span.End
	}
	return tok.Span.End
}

// FullSpan covers the node including the leading trivia of its first token
// and the trailing trivia of its last token.
func (f *File) FullSpan(id DeclID) source.Span {
	d := f.Decl(id)
	return source.Span{File: f.Source, Start: f.FullStart(d.FirstTok), End: f.FullEnd(d.LastTok)}
}

// Walk visits nodes depth-first in source order. Returning false from fn
// skips the children of that node.
func (f *File) Walk(fn func(id DeclID, d *Decl) bool) {
	var visit func(id DeclID)
	visit = func(id DeclID) {
		d := f.Decl(id)
		if d == nil || !fn(id, d) {
			return
		}
		for _, c := range d.Children {
			visit(c)
		}
	}
	visit(f.Root)
}

// EnclosingNamespace returns the nearest namespace ancestor of id.
func (f *File) EnclosingNamespace(id DeclID) DeclID {
	for p := f.Decl(id).Parent; p.IsValid(); p = f.Decl(p).Parent {
		if f.Decl(p).Kind == DeclNamespace {
			return p
		}
	}
	return NoDeclID
}
