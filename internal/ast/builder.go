package ast

import (
	"csorder/internal/source"
	"csorder/internal/token"
)

type Hints struct{ Decls uint }

type Builder struct {
	Decls *Decls
}

func NewBuilder(hints Hints) *Builder {
	if hints.Decls == 0 {
		hints.Decls = 1 << 8
	}
	return &Builder{
		Decls: NewDecls(hints.Decls),
	}
}

// NewFile creates the tree root (compilation unit) for the token stream.
func (b *Builder) NewFile(src source.FileID, toks []token.Token) *File {
	f := &File{
		Source: src,
		Tokens: toks,
		Decls:  b.Decls,
	}
	f.Root = b.Decls.New(DeclCompilationUnit, NoDeclID, 0)
	root := b.Decls.Get(f.Root)
	root.LastTok = uint32(len(toks) - 1)
	root.BodyClose = root.LastTok
	root.HasBody = true
	return f
}

// NewDecl allocates a child node of parent and appends it to parent's children.
func (b *Builder) NewDecl(kind DeclKind, parent DeclID, first uint32) DeclID {
	id := b.Decls.New(kind, parent, first)
	if p := b.Decls.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}
