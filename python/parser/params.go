package parser

import (
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// parseParameters parses a def or lambda parameter list up to (not including)
// closer. Annotations are only accepted in def signatures.
func (p *Parser) parseParameters(closer token.Kind, annotations bool) []*ast.Parameter {
	var (
		params      []*ast.Parameter
		seenSlash   bool
		seenStar    bool
		seenDefault bool
		seenKwArg   bool
		bareStar    *token.Span
	)

loop:
	for !p.at(closer) && !p.at(token.Eof) {
		tok := p.peek()
		switch {
		case tok.Kind == token.Slash:
			p.advance()
			switch {
			case len(params) == 0:
				p.diags.Syntax(tok.Span, "at least one argument must precede /")
			case seenSlash:
				p.diags.Syntax(tok.Span, "/ may appear only once")
			case seenStar:
				p.diags.Syntax(tok.Span, "/ must be ahead of *")
			default:
				for _, prm := range params {
					prm.PositionalOnly = true
				}
			}
			seenSlash = true

		case tok.Kind == token.Asterisk:
			p.advance()
			if seenStar {
				p.diags.Syntax(tok.Span, "* argument may appear only once")
			}
			seenStar = true
			if p.peek().Kind.IsName() {
				params = append(params, p.parseParameter(ast.ParamVarArg, annotations, tok.Span))
			} else {
				span := tok.Span
				bareStar = &span
			}

		case tok.Kind == token.Exponent:
			p.advance()
			if seenKwArg {
				p.diags.Syntax(tok.Span, "** argument may appear only once")
			}
			seenKwArg = true
			if !p.peek().Kind.IsName() {
				next := p.peek()
				p.diags.Syntax(next.Span, "invalid syntax: expected parameter name after '**', found %s", next.Describe())
				break
			}
			params = append(params, p.parseParameter(ast.ParamKwArg, annotations, tok.Span))

		case tok.Kind.IsName():
			if seenKwArg {
				p.diags.Syntax(tok.Span, "arguments cannot follow var-keyword argument")
			}
			prm := p.parseParameter(ast.ParamNormal, annotations, tok.Span)
			prm.KeywordOnly = seenStar
			switch {
			case prm.Default != nil:
				seenDefault = true
			case seenDefault && !seenStar:
				p.diags.Syntax(prm.Span(), "non-default argument follows default argument")
			}
			if seenStar {
				bareStar = nil
			}
			params = append(params, prm)

		default:
			p.diags.Syntax(tok.Span, "invalid syntax: expected parameter name, found %s", tok.Describe())
			switch {
			case tok.Kind == token.Comma:
			case endsExpression(tok.Kind):
				break loop
			default:
				p.advance()
			}
		}

		if !p.eat(token.Comma) {
			break
		}
	}

	if bareStar != nil {
		p.diags.Syntax(*bareStar, "named arguments must follow bare *")
	}
	return params
}

// parseParameter parses name [: annotation] [= default]. start is the span of
// the leading * or ** for variadic parameters.
func (p *Parser) parseParameter(kind ast.ParamKind, annotations bool, start token.Span) *ast.Parameter {
	name, _, _ := p.expectName("parameter name")
	prm := &ast.Parameter{Name: name, Kind: kind}

	if annotations && p.eat(token.Colon) {
		allowed := element.Without(AllowWalrus)
		if kind != ast.ParamVarArg {
			allowed = allowed.Without(AllowStarred)
		}
		prm.Annotation = p.parseOperand(bpLowest, allowed, ":")
	}
	if p.at(token.Assign) {
		eq := p.advance()
		prm.Default = p.parseOperand(bpLowest, element.Without(AllowStarred|AllowWalrus), "=")
		if kind != ast.ParamNormal {
			p.diags.Syntax(eq.Span, "var-positional or var-keyword argument cannot have a default value")
		}
	}

	prm.Loc = ast.At(start.Join(p.prevSpan()))
	return prm
}
