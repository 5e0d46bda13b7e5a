// Package parser builds a syntax tree from a token sequence.
//
// Expressions are parsed with a Pratt engine driven by binding powers and a
// capability bitset (Allowed); statements use one recursive-descent function
// per form. The parser never aborts: malformed constructs become ast.Invalid
// nodes plus diagnostics, and parsing resumes right after them.
package parser

import (
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/LaBatata101/python-lsp/python/lexer"
	"github.com/LaBatata101/python-lsp/python/token"
)

// Parser holds a read index into an immutable token sequence.
// One Parser parses one document; it is not safe for concurrent use.
type Parser struct {
	tokens []token.Token
	pos    int
	diags  diagnostic.List
}

// New creates a parser over tokens. The slice is not modified.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse tokenizes and parses source, returning lexical diagnostics followed
// by syntax diagnostics.
func Parse(source string) (*ast.Module, diagnostic.List) {
	tokens, lexDiags := lexer.Tokenize(source)
	module, parseDiags := New(tokens).ParseModule()
	return module, concat(lexDiags, parseDiags)
}

// ParseExpression parses source as a single expression.
func ParseExpression(source string) (ast.Expression, diagnostic.List) {
	tokens, lexDiags := lexer.Tokenize(source)
	expr, parseDiags := New(tokens).ParseExpression()
	return expr, concat(lexDiags, parseDiags)
}

func concat(a, b diagnostic.List) diagnostic.List {
	if len(a) == 0 {
		return b
	}
	var out diagnostic.List
	out.Extend(a...)
	out.Extend(b...)
	return out
}

// ParseModule parses statements until Eof.
func (p *Parser) ParseModule() (*ast.Module, diagnostic.List) {
	module := &ast.Module{}
	for !p.at(token.Eof) {
		switch p.peek().Kind {
		case token.NewLine, token.SemiColon:
			p.advance()
			continue
		case token.Indent:
			p.strayIndent()
			continue
		case token.Dedent:
			// Closes an indent already reported as unexpected
			p.advance()
			continue
		}
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			module.Body = append(module.Body, stmt)
		}
		p.ensureProgress(before)
	}
	module.Loc = ast.At(p.spanOf(module.Body, p.peek().Span))
	return module, p.diags
}

// ParseExpression parses a single expression followed only by line breaks.
func (p *Parser) ParseExpression() (ast.Expression, diagnostic.List) {
	p.skipNewLines()
	expr := p.parseExpression(AllowAll.Without(AllowAssign).With(AllowWalrus))
	p.skipNewLines()
	if !p.at(token.Eof) {
		tok := p.peek()
		p.diags.Syntax(tok.Span, "invalid syntax: unexpected %s after expression", tok.Describe())
	}
	return expr, p.diags
}

// tokenAt is total: any index outside the sequence yields a synthetic Eof.
func (p *Parser) tokenAt(i int) token.Token {
	if i >= 0 && i < len(p.tokens) {
		return p.tokens[i]
	}
	if n := len(p.tokens); n > 0 {
		last := p.tokens[n-1]
		return token.Token{Kind: token.Eof, Span: last.Span, Start: last.End, End: last.End}
	}
	span := token.Span{RowStart: 1, RowEnd: 1, ColumnStart: 1, ColumnEnd: 1}
	return token.Token{Kind: token.Eof, Span: span}
}

func (p *Parser) peek() token.Token {
	return p.tokenAt(p.pos)
}

func (p *Parser) peekAt(offset int) token.Token {
	return p.tokenAt(p.pos + offset)
}

func (p *Parser) at(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// prevSpan is the span of the last consumed token.
func (p *Parser) prevSpan() token.Span {
	return p.tokenAt(p.pos - 1).Span
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.tokens) && tok.Kind != token.Eof {
		p.pos++
	}
	return tok
}

// eat consumes the current token if it has the given kind.
func (p *Parser) eat(kind token.Kind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind or reports what was found instead.
func (p *Parser) expect(kind token.Kind) bool {
	if p.eat(kind) {
		return true
	}
	tok := p.peek()
	p.diags.Syntax(tok.Span, "invalid syntax: expected '%s', found %s", kind, tok.Describe())
	return false
}

// expectName consumes an identifier or soft keyword and returns its text.
func (p *Parser) expectName(what string) (string, token.Span, bool) {
	tok := p.peek()
	if tok.Kind.IsName() {
		p.advance()
		return tok.Value, tok.Span, true
	}
	p.diags.Syntax(tok.Span, "invalid syntax: expected %s, found %s", what, tok.Describe())
	return "", tok.Span, false
}

func (p *Parser) skipNewLines() {
	for p.at(token.NewLine) {
		p.advance()
	}
}

// skipLine resynchronizes after a badly broken statement by discarding
// everything up to and including the next NewLine.
func (p *Parser) skipLine() {
	for !p.at(token.Eof) && !p.at(token.NewLine) {
		p.advance()
	}
	p.eat(token.NewLine)
}

// ensureProgress consumes one token when a statement parse made none, so
// the statement loops always terminate.
func (p *Parser) ensureProgress(before int) {
	if p.pos == before {
		p.advance()
	}
}

// spanOf covers a list of statements, falling back to at when the list is empty.
func (p *Parser) spanOf(stmts []ast.Statement, at token.Span) token.Span {
	if len(stmts) == 0 {
		return at
	}
	return stmts[0].Span().Join(stmts[len(stmts)-1].Span())
}

func (p *Parser) invalid(span token.Span) *ast.Invalid {
	return &ast.Invalid{Loc: ast.At(span)}
}
