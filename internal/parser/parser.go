package parser

import (
	"context"
	"slices"

	"csorder/internal/ast"
	"csorder/internal/diag"
	"csorder/internal/lexer"
	"csorder/internal/source"
	"csorder/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File *ast.File
	Bag  *diag.Bag
}

// Parser - состояние парсера на один файл. Разбирает только уровень
// объявлений: тела методов, инициализаторы и аргументы атрибутов
// пропускаются сбалансированным сканированием скобок.
type Parser struct {
	ctx      context.Context
	toks     []token.Token
	pos      uint32
	arenas   *ast.Builder
	file     *ast.File
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile - входная точка для разбора одного файла.
// Отмена ctx проверяется только между объявлениями верхнего уровня; при отмене
// остаток файла становится незавершённым узлом.
func ParseFile(
	ctx context.Context,
	lx *lexer.Lexer,
	fileID source.FileID,
	arenas *ast.Builder,
	opts Options,
) Result {
	toks := lx.All()
	p := Parser{
		ctx:    ctx,
		toks:   toks,
		arenas: arenas,
		file:   arenas.NewFile(fileID, toks),
		opts:   opts,
	}

	p.parseMembers(p.file.Root, ctxCompilationUnit, token.EOF)

	var bag *diag.Bag
	switch br := opts.Reporter.(type) {
	case diag.BagReporter:
		bag = br.Bag
	case *diag.BagReporter:
		bag = br.Bag
	}
	return Result{
		File: p.file,
		Bag:  bag,
	}
}

func (p *Parser) peek() *token.Token {
	return &p.toks[p.pos]
}

func (p *Parser) peekN(n uint32) *token.Token {
	i := p.pos + n
	if int(i) >= len(p.toks) {
		return &p.toks[len(p.toks)-1]
	}
	return &p.toks[i]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

func (p *Parser) atWord(word string) bool {
	return p.peek().IsContextual(word)
}

func (p *Parser) decl(id ast.DeclID) *ast.Decl {
	return p.arenas.Decls.Get(id)
}

// finish закрывает узел: LastTok = последний съеденный токен, Span по токенам.
func (p *Parser) finish(id ast.DeclID) {
	d := p.decl(id)
	if p.pos > d.FirstTok {
		d.LastTok = p.pos - 1
	} else {
		d.LastTok = d.FirstTok
	}
	d.Span = p.toks[d.FirstTok].Span.Cover(p.toks[d.LastTok].Span)
}

// incomplete помечает узел как незавершённый и гарантирует продвижение.
func (p *Parser) incomplete(id ast.DeclID) {
	if p.pos == p.decl(id).FirstTok && !p.at(token.EOF) {
		p.advance()
	}
	p.decl(id).Incomplete = true
	p.finish(id)
}

func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	return p.ctx.Err() != nil
}
