package parser

import (
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// startsExpression reports whether a token of kind k can begin an expression.
func startsExpression(k token.Kind) bool {
	if k.IsName() {
		return true
	}
	switch k {
	case token.String, token.Number, token.True, token.False, token.None, token.Ellipsis,
		token.LeftParen, token.LeftBracket, token.LeftBrace,
		token.Minus, token.Plus, token.BitwiseNot, token.Asterisk, token.Exponent,
		token.Not, token.Await, token.Lambda, token.Yield:
		return true
	}
	return false
}

// endsExpression reports whether k closes the expression being parsed.
// These tokens belong to the enclosing construct and are never consumed here.
func endsExpression(k token.Kind) bool {
	if k.IsAugAssign() {
		return true
	}
	switch k {
	case token.Eof, token.NewLine, token.Indent, token.Dedent, token.SemiColon, token.Comma,
		token.RightParen, token.RightBracket, token.RightBrace, token.Colon, token.Assign,
		token.RightArrow, token.For, token.Async, token.Else, token.As, token.From, token.Import:
		return true
	}
	return false
}

// operand narrows a context for the operand of an operator.
func operand(allowed Allowed) Allowed {
	return allowed.Without(AllowTupleNoParens | AllowAssign | AllowYield | AllowStarred | AllowDoubleStarred | AllowWalrus)
}

// parseExpression parses one expression and, when the context allows it,
// a bare comma-separated tuple (trailing comma included).
func (p *Parser) parseExpression(allowed Allowed) ast.Expression {
	first := p.parseExpr(bpLowest, allowed)
	if !allowed.Has(AllowTupleNoParens) || !p.at(token.Comma) {
		return first
	}

	elts := []ast.Expression{first}
	for p.eat(token.Comma) {
		if !startsExpression(p.peek().Kind) {
			break
		}
		elts = append(elts, p.parseExpr(bpLowest, allowed))
	}
	return &ast.Tuple{Loc: ast.At(first.Span().Join(p.prevSpan())), Elts: elts}
}

// parseExpr is the Pratt loop: a prefix form followed by every postfix or
// infix operator whose left binding power reaches minBP.
func (p *Parser) parseExpr(minBP int, allowed Allowed) ast.Expression {
	lhs := p.parsePrefix(allowed)

	for {
		tok := p.peek()
		if endsExpression(tok.Kind) {
			return lhs
		}

		switch tok.Kind {
		case token.LeftParen, token.LeftBracket, token.Dot:
			if !allowed.Has(AllowPostfix) || bpPostfix < minBP {
				return lhs
			}
			lhs = p.parsePostfix(lhs)
			continue
		case token.If:
			if !allowed.Has(AllowIfElse) || bpTernary < minBP {
				return lhs
			}
			lhs = p.parseIfExp(lhs, allowed)
			continue
		case token.Walrus:
			if !allowed.Has(AllowWalrus) || bpWalrus < minBP {
				return lhs
			}
			lhs = p.parseNamedExpr(lhs, allowed)
			continue
		}

		op, ok := p.binaryOperator()
		if !ok {
			// Junk between operands: report it once, drop it and keep going
			if tok.Kind != token.Invalid {
				p.diags.Syntax(tok.Span, "invalid syntax: unexpected %s", tok.Describe())
			}
			p.advance()
			continue
		}
		if !allowed.Has(AllowBinary) || op.left < minBP {
			return lhs
		}

		opSpan := tok.Span
		for i := 0; i < op.width; i++ {
			p.advance()
		}
		var rhs ast.Expression
		if startsExpression(p.peek().Kind) {
			rhs = p.parseExpr(op.right, operand(allowed))
		} else {
			next := p.peek()
			p.diags.Syntax(opSpan.Join(next.Span), "invalid syntax: missing right-hand side of '%s'", op.op)
			rhs = p.invalid(next.Span)
		}
		lhs = &ast.BinaryOp{Loc: ast.At(lhs.Span().Join(rhs.Span())), Left: lhs, Op: op.op, Right: rhs}
	}
}

// parsePrefix parses the form that starts an expression.
func (p *Parser) parsePrefix(allowed Allowed) ast.Expression {
	tok := p.peek()
	span := tok.Span

	switch {
	case tok.Kind.IsName() && allowed.Has(AllowName):
		p.advance()
		return &ast.Name{Loc: ast.At(span), ID: tok.Value}
	case tok.Kind == token.String && allowed.Has(AllowString):
		p.advance()
		return &ast.StringLit{Loc: ast.At(span), Value: tok.Value, Prefix: tok.Prefix}
	case tok.Kind == token.Number && allowed.Has(AllowNumber):
		p.advance()
		return &ast.NumberLit{Loc: ast.At(span), Value: tok.Value, Kind: tok.NumberKind}
	case (tok.Kind == token.True || tok.Kind == token.False) && allowed.Has(AllowConstant):
		p.advance()
		return &ast.BoolLit{Loc: ast.At(span), Value: tok.Kind == token.True}
	case tok.Kind == token.None && allowed.Has(AllowConstant):
		p.advance()
		return &ast.NoneLit{Loc: ast.At(span)}
	case tok.Kind == token.Ellipsis && allowed.Has(AllowConstant):
		p.advance()
		return &ast.EllipsisLit{Loc: ast.At(span)}
	case tok.Kind == token.Yield && allowed.Has(AllowYield):
		return p.parseYield()
	case tok.Kind == token.Lambda && allowed.Has(AllowLambda):
		return p.parseLambda(allowed)
	case tok.Kind == token.LeftParen && allowed.Has(AllowParen):
		return p.parseParenthesized()
	case tok.Kind == token.LeftBracket && allowed.Has(AllowList):
		return p.parseList()
	case tok.Kind == token.LeftBrace && allowed.Has(AllowBrace):
		return p.parseBrace()
	case tok.Kind == token.Asterisk && allowed.Has(AllowStarred):
		p.advance()
		value := p.parseOperand(bpStarOperand, operand(allowed), "*")
		return &ast.Starred{Loc: ast.At(span.Join(value.Span())), Value: value}
	case tok.Kind == token.Exponent && allowed.Has(AllowDoubleStarred):
		p.advance()
		value := p.parseOperand(bpStarOperand, operand(allowed), "**")
		return &ast.DoubleStarred{Loc: ast.At(span.Join(value.Span())), Value: value}
	case allowed.Has(AllowUnary) && unaryOperators[tok.Kind] != "":
		return p.parseUnary(allowed)
	case tok.Kind == token.Await && allowed.Has(AllowAwait):
		p.advance()
		value := p.parseOperand(bpAwait, operand(allowed), "await")
		return &ast.UnaryOp{Loc: ast.At(span.Join(value.Span())), Op: ast.Await, Operand: value}
	}

	switch {
	case tok.Kind == token.Invalid:
		// Already reported by the lexer
		p.advance()
	case startsExpression(tok.Kind):
		p.diags.Syntax(span, "invalid syntax: %s is not allowed here", tok.Describe())
		p.advance()
	default:
		p.diags.Syntax(span, "invalid syntax: expected expression, found %s", tok.Describe())
		if !endsExpression(tok.Kind) {
			p.advance()
		}
	}
	return p.invalid(span)
}

var unaryOperators = map[token.Kind]ast.UnaryOperator{
	token.Plus:       ast.UAdd,
	token.Minus:      ast.USub,
	token.BitwiseNot: ast.Invert,
	token.Not:        ast.Not,
}

func (p *Parser) parseUnary(allowed Allowed) ast.Expression {
	tok := p.advance()
	op := unaryOperators[tok.Kind]
	bp := bpUnary
	if op == ast.Not {
		bp = bpNot
	}
	value := p.parseOperand(bp, operand(allowed), string(op))
	return &ast.UnaryOp{Loc: ast.At(tok.Span.Join(value.Span())), Op: op, Operand: value}
}

// parseOperand parses the operand of a prefix operator, reporting a missing one.
func (p *Parser) parseOperand(bp int, allowed Allowed, op string) ast.Expression {
	if startsExpression(p.peek().Kind) {
		return p.parseExpr(bp, allowed)
	}
	tok := p.peek()
	p.diags.Syntax(tok.Span, "invalid syntax: expected expression after '%s', found %s", op, tok.Describe())
	return p.invalid(tok.Span)
}

func (p *Parser) parsePostfix(lhs ast.Expression) ast.Expression {
	switch p.peek().Kind {
	case token.LeftParen:
		args := p.parseCallArgs()
		return &ast.Call{Loc: ast.At(lhs.Span().Join(p.prevSpan())), Func: lhs, Args: args}
	case token.LeftBracket:
		return p.parseSubscript(lhs)
	default:
		p.advance() // '.'
		name, _, ok := p.expectName("attribute name")
		if !ok {
			return p.invalid(lhs.Span().Join(p.prevSpan()))
		}
		return &ast.Attribute{Loc: ast.At(lhs.Span().Join(p.prevSpan())), Value: lhs, Attr: name}
	}
}

func (p *Parser) parseIfExp(body ast.Expression, allowed Allowed) ast.Expression {
	p.advance() // if
	test := p.parseOperand(bpTernary+1, operand(allowed), "if")
	if !p.eat(token.Else) {
		tok := p.peek()
		p.diags.Syntax(tok.Span, "invalid syntax: expected 'else' after 'if' expression, found %s", tok.Describe())
		orElse := p.invalid(tok.Span)
		return &ast.IfExp{Loc: ast.At(body.Span().Join(test.Span())), Test: test, Body: body, OrElse: orElse}
	}
	orElse := p.parseOperand(bpTernary, operand(allowed).With(AllowIfElse|AllowLambda), "else")
	return &ast.IfExp{Loc: ast.At(body.Span().Join(orElse.Span())), Test: test, Body: body, OrElse: orElse}
}

func (p *Parser) parseNamedExpr(target ast.Expression, allowed Allowed) ast.Expression {
	p.advance() // :=
	if _, ok := target.(*ast.Name); !ok {
		p.diags.Syntax(target.Span(), "cannot use assignment expressions with %s", describe(target))
	}
	value := p.parseOperand(bpWalrus-1, operand(allowed).With(AllowIfElse|AllowWalrus|AllowLambda), ":=")
	return &ast.NamedExpr{Loc: ast.At(target.Span().Join(value.Span())), Target: target, Value: value}
}

func (p *Parser) parseYield() ast.Expression {
	start := p.advance().Span
	if p.eat(token.From) {
		value := p.parseOperand(bpLowest, element.Without(AllowStarred), "yield from")
		return &ast.YieldFrom{Loc: ast.At(start.Join(value.Span())), Value: value}
	}
	if !startsExpression(p.peek().Kind) || p.at(token.Yield) {
		return &ast.Yield{Loc: ast.At(start)}
	}
	value := p.parseExpression(element.With(AllowTupleNoParens))
	return &ast.Yield{Loc: ast.At(start.Join(value.Span())), Value: value}
}

func (p *Parser) parseLambda(allowed Allowed) ast.Expression {
	start := p.advance().Span
	params := p.parseParameters(token.Colon, false)
	p.expect(token.Colon)
	body := p.parseOperand(bpLambdaBody, operand(allowed).With(AllowIfElse|AllowLambda), "lambda")
	return &ast.Lambda{Loc: ast.At(start.Join(body.Span())), Params: params, Body: body}
}

// parseParenthesized handles (), (expr), (a, b), (x for x in y) and (yield).
func (p *Parser) parseParenthesized() ast.Expression {
	open := p.advance().Span
	if p.eat(token.RightParen) {
		return &ast.Tuple{Loc: ast.At(open.Join(p.prevSpan()))}
	}

	inner := element.With(AllowYield)
	first := p.parseExpr(bpLowest, inner)

	if p.atComprehension() {
		gens := p.parseComprehensions()
		p.expect(token.RightParen)
		return &ast.GeneratorExp{Loc: ast.At(open.Join(p.prevSpan())), Elt: first, Generators: gens}
	}

	if !p.at(token.Comma) {
		if _, ok := first.(*ast.Starred); ok {
			p.diags.Syntax(first.Span(), "cannot use starred expression inside parenthesis")
		}
		p.expect(token.RightParen)
		return first
	}

	elts := p.parseSequenceTail(first, inner, token.RightParen)
	if p.atComprehension() {
		elt := p.unparenthesizedTarget(elts, "tuple is not allowed inside generator comprehension")
		gens := p.parseComprehensions()
		p.expect(token.RightParen)
		return &ast.GeneratorExp{Loc: ast.At(open.Join(p.prevSpan())), Elt: elt, Generators: gens}
	}
	p.expect(token.RightParen)
	return &ast.Tuple{Loc: ast.At(open.Join(p.prevSpan())), Elts: elts}
}

// unparenthesizedTarget reports a comma-separated run used as a comprehension
// element and folds it into a tuple so the clauses after it still parse.
func (p *Parser) unparenthesizedTarget(elts []ast.Expression, msg string) ast.Expression {
	span := elts[0].Span().Join(elts[len(elts)-1].Span())
	p.diags.Syntax(span, "%s", msg)
	return &ast.Tuple{Loc: ast.At(span), Elts: elts}
}

// parseSequenceTail collects ", item" repetitions after first, allowing a trailing comma before closer.
func (p *Parser) parseSequenceTail(first ast.Expression, allowed Allowed, closer token.Kind) []ast.Expression {
	elts := []ast.Expression{first}
	for p.eat(token.Comma) {
		if p.at(closer) || !startsExpression(p.peek().Kind) {
			break
		}
		elts = append(elts, p.parseExpr(bpLowest, allowed))
	}
	return elts
}

func (p *Parser) parseList() ast.Expression {
	open := p.advance().Span
	if p.eat(token.RightBracket) {
		return &ast.List{Loc: ast.At(open.Join(p.prevSpan()))}
	}
	if p.at(token.Exponent) {
		p.diags.Syntax(p.peek().Span, "invalid syntax: cannot unpack a dictionary inside a list")
	}

	first := p.parseExpr(bpLowest, element)
	if p.atComprehension() {
		gens := p.parseComprehensions()
		p.expect(token.RightBracket)
		return &ast.ListComp{Loc: ast.At(open.Join(p.prevSpan())), Elt: first, Generators: gens}
	}

	elts := p.parseSequenceTail(first, element, token.RightBracket)
	if p.atComprehension() {
		elt := p.unparenthesizedTarget(elts, "did you forget parentheses around the comprehension target?")
		gens := p.parseComprehensions()
		p.expect(token.RightBracket)
		return &ast.ListComp{Loc: ast.At(open.Join(p.prevSpan())), Elt: elt, Generators: gens}
	}
	p.expect(token.RightBracket)
	return &ast.List{Loc: ast.At(open.Join(p.prevSpan())), Elts: elts}
}

// parseBrace handles dict and set displays and their comprehensions.
func (p *Parser) parseBrace() ast.Expression {
	open := p.advance().Span
	if p.eat(token.RightBrace) {
		return &ast.Dict{Loc: ast.At(open.Join(p.prevSpan()))}
	}
	if p.at(token.Exponent) {
		return p.finishDict(open, p.parseDictUnpack())
	}

	first := p.parseExpr(bpLowest, element)
	if p.eat(token.Colon) {
		value := p.parseOperand(bpLowest, element.Without(AllowStarred), ":")
		if p.atComprehension() {
			gens := p.parseComprehensions()
			p.expect(token.RightBrace)
			return &ast.DictComp{Loc: ast.At(open.Join(p.prevSpan())), Key: first, Value: value, Generators: gens}
		}
		item := &ast.DictItem{Loc: ast.At(first.Span().Join(value.Span())), Key: first, Value: value}
		return p.finishDict(open, item)
	}

	if p.atComprehension() {
		gens := p.parseComprehensions()
		p.expect(token.RightBrace)
		return &ast.SetComp{Loc: ast.At(open.Join(p.prevSpan())), Elt: first, Generators: gens}
	}
	elts := p.parseSequenceTail(first, element, token.RightBrace)
	if p.atComprehension() {
		elt := p.unparenthesizedTarget(elts, "did you forget parentheses around the comprehension target?")
		gens := p.parseComprehensions()
		p.expect(token.RightBrace)
		return &ast.SetComp{Loc: ast.At(open.Join(p.prevSpan())), Elt: elt, Generators: gens}
	}
	p.expect(token.RightBrace)
	return &ast.Set{Loc: ast.At(open.Join(p.prevSpan())), Elts: elts}
}

func (p *Parser) finishDict(open token.Span, first *ast.DictItem) ast.Expression {
	items := []*ast.DictItem{first}
	for p.eat(token.Comma) {
		if p.at(token.RightBrace) {
			break
		}
		if p.at(token.Exponent) {
			items = append(items, p.parseDictUnpack())
			continue
		}
		if !startsExpression(p.peek().Kind) {
			break
		}
		key := p.parseExpr(bpLowest, element.Without(AllowStarred))
		var value ast.Expression
		if p.expect(token.Colon) {
			value = p.parseOperand(bpLowest, element.Without(AllowStarred), ":")
		} else {
			value = p.invalid(p.peek().Span)
		}
		items = append(items, &ast.DictItem{Loc: ast.At(key.Span().Join(value.Span())), Key: key, Value: value})
	}
	p.expect(token.RightBrace)
	return &ast.Dict{Loc: ast.At(open.Join(p.prevSpan())), Items: items}
}

func (p *Parser) parseDictUnpack() *ast.DictItem {
	start := p.advance().Span // **
	value := p.parseOperand(bpStarOperand, operand(element), "**")
	return &ast.DictItem{Loc: ast.At(start.Join(value.Span())), Value: value}
}

func (p *Parser) atComprehension() bool {
	return p.at(token.For) || (p.at(token.Async) && p.peekAt(1).Kind == token.For)
}

// parseComprehensions parses one or more "[async] for target in iter [if cond]..." clauses.
func (p *Parser) parseComprehensions() []*ast.Comprehension {
	var gens []*ast.Comprehension
	clause := element.Without(AllowIfElse | AllowStarred)

	for p.atComprehension() {
		start := p.peek().Span
		isAsync := p.eat(token.Async)
		p.advance() // for

		tgt := p.parseTarget()
		p.expect(token.In)
		iter := p.parseOperand(bpTernary+1, clause, "in")

		var ifs []ast.Expression
		for p.eat(token.If) {
			ifs = append(ifs, p.parseOperand(bpTernary+1, clause, "if"))
		}
		gens = append(gens, &ast.Comprehension{
			Loc:     ast.At(start.Join(p.prevSpan())),
			Target:  tgt,
			Iter:    iter,
			Ifs:     ifs,
			IsAsync: isAsync,
		})
	}
	return gens
}

// parseTarget parses a for/comprehension target and validates it.
func (p *Parser) parseTarget() ast.Expression {
	tgt := p.parseExpression(target)
	p.checkTarget(tgt, "assign to")
	return tgt
}

// parseCallArgs parses "(args)" and returns the arguments in source order.
func (p *Parser) parseCallArgs() []ast.Expression {
	p.advance() // (
	var args []ast.Expression
	var keyword, unpacked bool
	for !p.at(token.RightParen) && !p.at(token.Eof) {
		arg := p.parseArgument()
		if p.atComprehension() {
			gens := p.parseComprehensions()
			arg = &ast.GeneratorExp{Loc: ast.At(arg.Span().Join(p.prevSpan())), Elt: arg, Generators: gens}
		}
		switch arg.(type) {
		case *ast.Invalid:
		case *ast.Keyword:
			keyword = true
		case *ast.DoubleStarred:
			unpacked = true
		case *ast.Starred:
			if unpacked {
				p.diags.Syntax(arg.Span(), "iterable argument unpacking follows keyword argument unpacking")
			}
		default:
			if unpacked {
				p.diags.Syntax(arg.Span(), "positional argument follows keyword argument unpacking")
			} else if keyword {
				p.diags.Syntax(arg.Span(), "positional argument follows keyword argument")
			}
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	p.expect(token.RightParen)
	return args
}

func (p *Parser) parseArgument() ast.Expression {
	tok := p.peek()
	if tok.Kind.IsName() && p.peekAt(1).Kind == token.Assign {
		p.advance()
		p.advance()
		value := p.parseOperand(bpLowest, element.Without(AllowStarred|AllowWalrus), "=")
		return &ast.Keyword{Loc: ast.At(tok.Span.Join(value.Span())), Arg: tok.Value, Value: value}
	}
	return p.parseExpr(bpLowest, element.With(AllowDoubleStarred))
}

func (p *Parser) parseSubscript(value ast.Expression) ast.Expression {
	p.advance() // [
	index := p.parseSliceItem()
	if p.at(token.Comma) {
		elts := []ast.Expression{index}
		for p.eat(token.Comma) {
			if p.at(token.RightBracket) {
				break
			}
			elts = append(elts, p.parseSliceItem())
		}
		index = &ast.Tuple{Loc: ast.At(elts[0].Span().Join(p.prevSpan())), Elts: elts}
	}
	p.expect(token.RightBracket)
	return &ast.Subscript{Loc: ast.At(value.Span().Join(p.prevSpan())), Value: value, Index: index}
}

// parseSliceItem parses an index or a lower:upper:step slice.
func (p *Parser) parseSliceItem() ast.Expression {
	start := p.peek().Span
	var lower ast.Expression
	if !p.at(token.Colon) {
		if !startsExpression(p.peek().Kind) {
			tok := p.peek()
			p.diags.Syntax(tok.Span, "invalid syntax: expected index or slice, found %s", tok.Describe())
			return p.invalid(tok.Span)
		}
		lower = p.parseExpr(bpLowest, element)
		if !p.at(token.Colon) {
			return lower
		}
	}

	p.advance() // :
	slice := &ast.Slice{Lower: lower}
	if startsExpression(p.peek().Kind) {
		slice.Upper = p.parseExpr(bpLowest, element.Without(AllowStarred))
	}
	if p.eat(token.Colon) && startsExpression(p.peek().Kind) {
		slice.Step = p.parseExpr(bpLowest, element.Without(AllowStarred))
	}
	slice.Loc = ast.At(start.Join(p.prevSpan()))
	return slice
}
