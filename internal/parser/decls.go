package parser

import (
	"strings"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/token"
)

func (p *Parser) parseNamespace(parent ast.DeclID, start uint32, ctx declContext) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclNamespace, parent, start)
	if !ctx.allowsNamespaces() {
		p.err(diag.SynUnexpectedToken, "namespace declaration is not allowed here")
	}
	p.advance() // namespace

	var segs []string
	nameOK := true
	for {
		t, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected namespace name")
		if !ok {
			nameOK = false
			break
		}
		segs = append(segs, t.Text)
		if p.at(token.Dot) {
			p.advance()
			continue
		}
		break
	}
	p.decl(id).Name = strings.Join(segs, ".")

	fileScoped := nameOK && p.at(token.Semicolon)
	if fileScoped {
		if parent != p.file.Root || p.hasFileScopedNamespace() {
			p.err(diag.SynMultipleFileScoped, "file-scoped namespace must be the only namespace at the top of the file")
		}
	}
	p.arenas.Decls.SetNamespace(id, ast.NamespaceInfo{FileScoped: fileScoped, Segments: segs})
	p.file.Namespaces = append(p.file.Namespaces, id)

	switch {
	case !nameOK:
		p.recoverMember()
		p.incomplete(id)
	case fileScoped:
		d := p.decl(id)
		d.BodyOpen = p.pos
		d.HasBody = true
		p.advance()
		p.parseMembers(id, ctxNamespace, token.EOF)
		p.decl(id).BodyClose = p.file.EOFIndex()
		p.finish(id)
	case p.at(token.LBrace):
		p.parseBody(id, ctxNamespace)
	default:
		p.err(diag.SynExpectBody, "expected '{' or ';' after namespace name")
		p.recoverMember()
		p.incomplete(id)
	}
	return id
}

func (p *Parser) hasFileScopedNamespace() bool {
	for _, ns := range p.file.Namespaces {
		if info, ok := p.arenas.Decls.Namespace(ns); ok && info.FileScoped {
			return true
		}
	}
	return false
}

// parseBody разбирает { members } контейнера id, стоя на '{'.
// Необязательная ';' после '}' относится к объявлению.
func (p *Parser) parseBody(id ast.DeclID, ctx declContext) {
	d := p.decl(id)
	d.BodyOpen = p.pos
	d.HasBody = true
	p.advance()

	p.parseMembers(id, ctx, token.RBrace)

	if !p.at(token.RBrace) {
		p.err(diag.SynUnclosedDelimiter, "expected '}'")
		p.incomplete(id)
		return
	}
	p.decl(id).BodyClose = p.pos
	p.advance()
	if p.at(token.Semicolon) {
		p.advance()
	}
	p.finish(id)
}

// parseTypeDecl: class, struct, interface, enum, record [class|struct].
func (p *Parser) parseTypeDecl(parent ast.DeclID, start uint32, kind ast.DeclKind) ast.DeclID {
	id := p.arenas.NewDecl(kind, parent, start)
	p.advance()
	if (kind == ast.DeclRecord && p.at(token.KwClass)) || (kind == ast.DeclRecordStruct && p.at(token.KwStruct)) {
		p.advance()
	}

	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected "+kind.String()+" name")
	if !ok {
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	p.decl(id).Name = name.Text

	if p.at(token.Lt) && !p.skipAngles() {
		p.err(diag.SynUnclosedDelimiter, "malformed type parameter list")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	// первичный конструктор, базовый список, where
	p.skipUntilBody()

	switch {
	case p.at(token.LBrace):
		ctx := ctxType
		switch kind {
		case ast.DeclInterface:
			ctx = ctxInterface
		case ast.DeclEnum:
			ctx = ctxEnum
		}
		p.parseBody(id, ctx)
	case p.at(token.Semicolon):
		p.advance()
		p.finish(id)
	default:
		p.err(diag.SynExpectBody, "expected '{' in "+kind.String()+" declaration")
		p.recoverMember()
		p.incomplete(id)
	}
	return id
}

func (p *Parser) parseDelegate(parent ast.DeclID, start uint32) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclDelegate, parent, start)
	p.advance() // delegate
	if !p.parseType() {
		p.err(diag.SynIncompleteMember, "expected delegate return type")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected delegate name")
	if !ok {
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	p.decl(id).Name = name.Text
	if p.at(token.Lt) && !p.skipAngles() {
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	p.skipUntilBody()
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after delegate declaration"); !ok {
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	p.finish(id)
	return id
}

// parseEvent: event T Name; / event T A, B; / event T Name { add; remove; }
func (p *Parser) parseEvent(parent ast.DeclID, start uint32) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclEventField, parent, start)
	p.advance() // event
	if !p.parseType() {
		p.err(diag.SynIncompleteMember, "expected event type")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	name := p.parseMemberName()
	if !name.ok {
		p.err(diag.SynExpectIdentifier, "expected event name")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	d := p.decl(id)
	d.Name = name.name
	d.ExplicitInterface = name.explicit

	if p.at(token.LBrace) {
		d.Kind = ast.DeclEvent
		if !p.parseAccessors(id) {
			p.incomplete(id)
			return id
		}
		p.finish(id)
		return id
	}
	if !p.skipToSemicolon() {
		p.err(diag.SynExpectSemicolon, "expected ';' after event declaration")
		p.incomplete(id)
		return id
	}
	p.finish(id)
	return id
}

func (p *Parser) parseDestructor(parent ast.DeclID, start uint32) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclDestructor, parent, start)
	p.advance() // ~
	if name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected destructor name"); ok {
		p.decl(id).Name = name.Text
	}
	p.finishMethodLike(id)
	return id
}

// parseConversion: implicit/explicit operator T(...)
func (p *Parser) parseConversion(parent ast.DeclID, start uint32) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclConversion, parent, start)
	p.advance()
	if _, ok := p.expect(token.KwOperator, diag.SynUnexpectedToken, "expected 'operator'"); !ok {
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	if p.atWordKw("checked") {
		p.advance()
	}
	typeStart := p.pos
	if !p.parseType() {
		p.err(diag.SynIncompleteMember, "expected conversion target type")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	p.decl(id).Name = "operator " + p.textRange(typeStart, p.pos)
	p.finishMethodLike(id)
	return id
}

func (p *Parser) parseConstructor(parent ast.DeclID, start uint32) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclConstructor, parent, start)
	p.decl(id).Name = p.advance().Text
	p.finishMethodLike(id)
	return id
}

// parseTypedMember: всё, что начинается с типа: поле, свойство, индексатор, метод, оператор.
func (p *Parser) parseTypedMember(parent ast.DeclID, start uint32) ast.DeclID {
	id := p.arenas.NewDecl(ast.DeclInvalid, parent, start)
	if !p.parseType() {
		p.err(diag.SynIncompleteMember, "expected member declaration")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	if p.at(token.KwOperator) {
		p.parseOperatorTail(id)
		return id
	}

	name := p.parseMemberName()
	if !name.ok {
		p.err(diag.SynExpectIdentifier, "expected member name")
		p.recoverMember()
		p.incomplete(id)
		return id
	}
	d := p.decl(id)
	d.Name = name.name
	d.ExplicitInterface = name.explicit

	// T IFoo.operator +(...)
	if p.at(token.Dot) && p.peekN(1).Kind == token.KwOperator {
		p.advance()
		d.ExplicitInterface = true
		p.parseOperatorTail(id)
		return id
	}

	if name.indexer {
		d.Kind = ast.DeclIndexer
		if !p.at(token.LBracket) || !p.skipGroup() {
			p.err(diag.SynIncompleteMember, "expected indexer parameters")
			p.recoverMember()
			p.incomplete(id)
			return id
		}
		p.parsePropertyBody(id)
		return id
	}

	switch p.peek().Kind {
	case token.LParen, token.Lt:
		d.Kind = ast.DeclMethod
		if p.at(token.Lt) && !p.skipAngles() {
			p.err(diag.SynUnclosedDelimiter, "malformed type parameter list")
			p.recoverMember()
			p.incomplete(id)
			return id
		}
		p.finishMethodLike(id)
	case token.LBrace, token.Arrow:
		d.Kind = ast.DeclProperty
		p.parsePropertyBody(id)
	case token.Assign, token.Semicolon, token.Comma, token.LBracket:
		d.Kind = ast.DeclField
		if !p.skipToSemicolon() {
			p.err(diag.SynExpectSemicolon, "expected ';' after field declaration")
			p.incomplete(id)
			return id
		}
		p.finish(id)
	default:
		p.err(diag.SynIncompleteMember, "unexpected '"+p.peek().Text+"' in member declaration")
		p.recoverMember()
		p.incomplete(id)
	}
	return id
}

func (p *Parser) parseOperatorTail(id ast.DeclID) {
	d := p.decl(id)
	d.Kind = ast.DeclOperator
	p.advance() // operator
	opStart := p.pos
	for !p.atOr(token.LParen, token.EOF, token.LBrace, token.Semicolon) {
		p.advance()
	}
	d.Name = "operator " + p.textRange(opStart, p.pos)
	if !p.at(token.LParen) {
		p.err(diag.SynIncompleteMember, "expected operator parameters")
		p.recoverMember()
		p.incomplete(id)
		return
	}
	p.finishMethodLike(id)
}

// finishMethodLike пропускает параметры, ограничения и тело метода.
func (p *Parser) finishMethodLike(id ast.DeclID) {
	p.skipUntilBody()
	if !p.skipBody() {
		p.err(diag.SynExpectBody, "expected method body or ';'")
		p.recoverMember()
		p.incomplete(id)
		return
	}
	p.finish(id)
}

func (p *Parser) parsePropertyBody(id ast.DeclID) {
	switch {
	case p.at(token.Arrow):
		p.advance()
		if !p.skipToSemicolon() {
			p.err(diag.SynExpectSemicolon, "expected ';' after expression body")
			p.incomplete(id)
			return
		}
	case p.at(token.LBrace):
		if !p.parseAccessors(id) {
			p.incomplete(id)
			return
		}
		// { get; } = value;
		if p.at(token.Assign) && !p.skipToSemicolon() {
			p.err(diag.SynExpectSemicolon, "expected ';' after property initializer")
			p.incomplete(id)
			return
		}
	default:
		p.err(diag.SynExpectBody, "expected accessor list")
		p.recoverMember()
		p.incomplete(id)
		return
	}
	p.finish(id)
}

// parseAccessors стоит на '{' списка аксессоров. При ошибке пропускает весь блок.
func (p *Parser) parseAccessors(id ast.DeclID) bool {
	open := p.pos
	fail := func() bool {
		p.err(diag.SynIncompleteMember, "malformed accessor list")
		p.pos = open
		if !p.skipGroup() {
			p.recoverMember()
		}
		return false
	}

	p.advance()
	var accs []ast.Accessor
	for !p.atOr(token.RBrace, token.EOF) {
		aStart := p.pos
		if !p.skipAttributes() {
			return fail()
		}
		for p.peek().IsAccessModifier() || p.at(token.KwReadonly) {
			p.advance()
		}
		if !p.at(token.Ident) {
			return fail()
		}
		name := p.advance().Text
		if !p.skipBody() {
			return fail()
		}
		accs = append(accs, ast.Accessor{Name: name, Start: aStart, End: p.pos - 1})
	}
	if !p.at(token.RBrace) {
		return fail()
	}
	p.advance()
	p.decl(id).Accessors = accs
	return true
}

func (p *Parser) atWordKw(word string) bool {
	t := p.peek()
	return t.Kind == token.KwOther && t.Text == word
}
