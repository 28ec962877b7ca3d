package parser

import (
	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/token"
)

// declContext - где стоит член: от этого зависит, какие объявления допустимы.
type declContext uint8

const (
	ctxCompilationUnit declContext = iota
	ctxNamespace
	ctxType
	ctxInterface
	ctxEnum
)

func (c declContext) allowsNamespaces() bool {
	return c == ctxCompilationUnit || c == ctxNamespace
}

// parseMembers разбирает члены parent до закрывающего токена closer (не съедает его).
func (p *Parser) parseMembers(parent ast.DeclID, ctx declContext, closer token.Kind) {
	for !p.at(closer) && !p.at(token.EOF) {
		if ctx == ctxCompilationUnit && p.cancelled() {
			p.parseRemainder(parent)
			return
		}
		start := p.pos
		if ctx == ctxEnum {
			p.parseEnumMember(parent)
		} else {
			p.parseMember(parent, ctx)
		}
		if p.pos == start {
			// ничего не съели: лишняя закрывающая скобка и т.п.
			p.err(diag.SynUnexpectedToken, "unexpected '"+p.peek().Text+"'")
			id := p.arenas.NewDecl(ast.DeclInvalid, parent, start)
			p.incomplete(id)
		}
	}
}

// parseRemainder превращает непрочитанный остаток файла в незавершённый узел.
func (p *Parser) parseRemainder(parent ast.DeclID) {
	id := p.arenas.NewDecl(ast.DeclInvalid, parent, p.pos)
	for !p.at(token.EOF) {
		p.advance()
	}
	p.incomplete(id)
}

func (p *Parser) parseMember(parent ast.DeclID, ctx declContext) {
	start := p.pos

	if ctx.allowsNamespaces() {
		switch {
		case p.at(token.KwExtern) && p.peekN(1).IsContextual("alias"):
			p.parseExternAlias(parent)
			return
		case p.atUsingDirective():
			p.parseUsing(parent)
			return
		case ctx == ctxCompilationUnit && p.atGlobalAttributes():
			id := p.arenas.NewDecl(ast.DeclAttributeList, parent, start)
			p.file.HasGlobalAttributes = true
			if !p.skipGroup() {
				p.err(diag.SynUnclosedDelimiter, "unclosed attribute list")
				p.incomplete(id)
				return
			}
			p.finish(id)
			return
		}
	}

	if !p.skipAttributes() {
		id := p.arenas.NewDecl(ast.DeclInvalid, parent, start)
		p.err(diag.SynUnclosedDelimiter, "unclosed attribute list")
		p.recoverMember()
		p.incomplete(id)
		return
	}
	mods, modToks := p.parseModifiers()

	kind, ok := p.declKeyword()
	if ctx == ctxCompilationUnit && (!ok || kind == ast.DeclInvalid) {
		// всё, что не объявление типа или пространства имён, - top-level statement
		p.pos = start
		p.parseGlobalStatement(parent)
		return
	}

	var id ast.DeclID
	switch {
	case ok && kind == ast.DeclNamespace:
		id = p.parseNamespace(parent, start, ctx)
	case ok && kind == ast.DeclDelegate:
		id = p.parseDelegate(parent, start)
	case ok:
		id = p.parseTypeDecl(parent, start, kind)
	case ctx == ctxNamespace:
		id = p.arenas.NewDecl(ast.DeclInvalid, parent, start)
		p.err(diag.SynUnexpectedTopLevel, "expected a type or namespace declaration")
		p.recoverMember()
		p.incomplete(id)
	case p.at(token.KwEvent):
		id = p.parseEvent(parent, start)
	case p.at(token.Tilde):
		id = p.parseDestructor(parent, start)
	case p.atOr(token.KwImplicit, token.KwExplicit):
		id = p.parseConversion(parent, start)
	case p.at(token.Ident) && p.peekN(1).Kind == token.LParen:
		id = p.parseConstructor(parent, start)
	default:
		id = p.parseTypedMember(parent, start)
	}

	d := p.decl(id)
	d.Mods |= mods
	d.ModTokens = modToks
}

// atUsingDirective отличает using-директиву от using-оператора (using (...) / using var).
func (p *Parser) atUsingDirective() bool {
	i := uint32(0)
	if p.atWord("global") {
		i = 1
	}
	if p.peekN(i).Kind != token.KwUsing {
		return false
	}
	next := p.peekN(i + 1)
	switch next.Kind {
	case token.KwStatic, token.KwUnsafe:
		return true
	case token.Ident:
		if next.Text == "var" && p.peekN(i+2).Kind == token.Ident {
			return false
		}
		return true
	case token.KwPredefinedType:
		// using int = ... не бывает; using int x = ... - оператор
		return false
	}
	return false
}

// atGlobalAttributes: [assembly: ...] или [module: ...].
func (p *Parser) atGlobalAttributes() bool {
	if !p.at(token.LBracket) {
		return false
	}
	t := p.peekN(1)
	return (t.IsContextual("assembly") || t.IsContextual("module")) && p.peekN(2).Kind == token.Colon
}

func (p *Parser) skipAttributes() bool {
	for p.at(token.LBracket) {
		if !p.skipGroup() {
			return false
		}
	}
	return true
}

var keywordMods = map[token.Kind]ast.Modifiers{
	token.KwPublic:    ast.ModPublic,
	token.KwPrivate:   ast.ModPrivate,
	token.KwProtected: ast.ModProtected,
	token.KwInternal:  ast.ModInternal,
	token.KwStatic:    ast.ModStatic,
	token.KwReadonly:  ast.ModReadonly,
	token.KwConst:     ast.ModConst,
	token.KwVolatile:  ast.ModVolatile,
	token.KwAbstract:  ast.ModAbstract,
	token.KwVirtual:   ast.ModVirtual,
	token.KwOverride:  ast.ModOverride,
	token.KwSealed:    ast.ModSealed,
	token.KwNew:       ast.ModNew,
	token.KwUnsafe:    ast.ModUnsafe,
	token.KwExtern:    ast.ModExtern,
	token.KwFixed:     ast.ModFixed,
}

var contextualMods = map[string]ast.Modifiers{
	"partial":  ast.ModPartial,
	"async":    ast.ModAsync,
	"required": ast.ModRequired,
	"file":     ast.ModFile,
}

// parseModifiers съедает модификаторы. Контекстные (partial, async, required, file)
// считаются модификаторами, только если за ними идёт что-то похожее на объявление.
func (p *Parser) parseModifiers() (ast.Modifiers, []uint32) {
	var mods ast.Modifiers
	var toks []uint32
	for {
		t := p.peek()
		if m, ok := keywordMods[t.Kind]; ok {
			mods |= m
			toks = append(toks, p.pos)
			p.advance()
			continue
		}
		if t.Kind == token.Ident {
			if m, ok := contextualMods[t.Text]; ok && p.startsDeclaration(1) {
				mods |= m
				toks = append(toks, p.pos)
				p.advance()
				continue
			}
		}
		// ref struct / readonly ref struct
		if t.Kind == token.KwOther && t.Text == "ref" {
			if n := p.peekN(1); n.Kind == token.KwStruct || n.IsContextual("partial") || n.Kind == token.KwReadonly {
				p.advance()
				continue
			}
		}
		break
	}
	return mods, toks
}

// startsDeclaration: токен на смещении n может продолжать объявление после модификатора.
func (p *Parser) startsDeclaration(n uint32) bool {
	t := p.peekN(n)
	switch t.Kind {
	case token.Ident, token.KwPredefinedType, token.KwClass, token.KwStruct, token.KwInterface,
		token.KwEnum, token.KwDelegate, token.KwEvent, token.KwImplicit, token.KwExplicit,
		token.LParen:
		return true
	case token.KwOther:
		return t.Text == "ref"
	}
	return t.IsModifier()
}

// declKeyword смотрит на ключевое слово объявления типа/пространства имён.
// ok=false - это не объявление типа.
func (p *Parser) declKeyword() (ast.DeclKind, bool) {
	t := p.peek()
	switch t.Kind {
	case token.KwNamespace:
		return ast.DeclNamespace, true
	case token.KwClass:
		return ast.DeclClass, true
	case token.KwStruct:
		return ast.DeclStruct, true
	case token.KwInterface:
		return ast.DeclInterface, true
	case token.KwEnum:
		return ast.DeclEnum, true
	case token.KwDelegate:
		if n := p.peekN(1).Kind; n == token.Star || n == token.LParen || n == token.LBrace {
			return ast.DeclInvalid, false
		}
		return ast.DeclDelegate, true
	case token.Ident:
		if t.Text != "record" {
			return ast.DeclInvalid, false
		}
		switch p.peekN(1).Kind {
		case token.KwStruct:
			return ast.DeclRecordStruct, true
		case token.KwClass:
			return ast.DeclRecord, true
		case token.Ident:
			switch p.peekN(2).Kind {
			case token.LParen, token.LBrace, token.Lt, token.Colon, token.Semicolon:
				return ast.DeclRecord, true
			}
		}
	}
	return ast.DeclInvalid, false
}

func (p *Parser) parseGlobalStatement(parent ast.DeclID) {
	id := p.arenas.NewDecl(ast.DeclGlobalStatement, parent, p.pos)
	if !p.skipStatement() {
		p.err(diag.SynIncompleteMember, "incomplete statement")
		p.incomplete(id)
		return
	}
	p.finish(id)
}

func (p *Parser) parseExternAlias(parent ast.DeclID) {
	id := p.arenas.NewDecl(ast.DeclExternAlias, parent, p.pos)
	p.advance() // extern
	p.advance() // alias
	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected alias name"); ok {
		p.decl(id).Name = name.Text
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after extern alias"); !ok {
		p.recoverMember()
		p.incomplete(id)
		return
	}
	p.finish(id)
}

func (p *Parser) parseUsing(parent ast.DeclID) {
	id := p.arenas.NewDecl(ast.DeclUsing, parent, p.pos)
	var u ast.UsingDirective
	if p.atWord("global") {
		p.advance()
		u.Global = true
	}
	p.advance() // using
	if p.at(token.KwStatic) {
		p.advance()
		u.Static = true
	}
	if p.at(token.KwUnsafe) {
		p.advance()
		u.Unsafe = true
	}
	if p.at(token.Ident) && p.peekN(1).Kind == token.Assign {
		u.Alias = p.advance().Text
		p.advance()
	}

	u.NameTok = p.pos
	var ok bool
	if u.IsAlias() {
		ok = p.parseType()
	} else {
		ok = p.skipQualifiedName()
	}
	u.Name = p.textRange(u.NameTok, p.pos)
	p.arenas.Decls.SetUsing(id, u)

	if !ok {
		p.err(diag.SynExpectIdentifier, "expected namespace or type name")
		p.recoverMember()
		p.incomplete(id)
		return
	}
	if _, semi := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using directive"); !semi {
		p.recoverMember()
		p.incomplete(id)
		return
	}
	p.finish(id)
}

func (p *Parser) parseEnumMember(parent ast.DeclID) {
	id := p.arenas.NewDecl(ast.DeclEnumMember, parent, p.pos)
	if !p.skipAttributes() {
		p.err(diag.SynUnclosedDelimiter, "unclosed attribute list")
		p.incomplete(id)
		return
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected enum member name")
	if !ok {
		p.recoverEnumMember()
		p.incomplete(id)
		return
	}
	p.decl(id).Name = name.Text
	if p.at(token.Assign) {
		p.advance()
		p.recoverEnumMember()
	}
	if p.at(token.Comma) {
		p.advance()
	}
	p.finish(id)
}

// recoverEnumMember пропускает выражение значения до ',' или '}'.
func (p *Parser) recoverEnumMember() {
	for !p.atOr(token.EOF, token.Comma, token.RBrace) {
		if p.atOr(token.LParen, token.LBracket) {
			if !p.skipGroup() {
				return
			}
			continue
		}
		p.advance()
	}
}

// recoverMember пропускает сломанный член: до ';' включительно, до блока
// { } включительно или до '}' нулевой глубины.
func (p *Parser) recoverMember() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace:
			return
		case token.LBrace:
			p.skipGroup()
			return
		case token.LParen, token.LBracket:
			if !p.skipGroup() {
				p.advance()
			}
			continue
		}
		p.advance()
	}
}
