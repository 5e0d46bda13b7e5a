package parser

import (
	"strings"

	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// parseStatement parses one statement starting at the current token.
// It returns nil when the tokens only produced diagnostics.
func (p *Parser) parseStatement() ast.Statement {
	tok := p.peek()
	switch tok.Kind {
	case token.Indent:
		p.strayIndent()
		return nil
	case token.Def:
		return p.parseFunctionDef(nil, tok.Span, false)
	case token.Class:
		return p.parseClassDef(nil, tok.Span)
	case token.At:
		return p.parseDecorated()
	case token.Async:
		return p.parseAsync()
	case token.If:
		return p.parseIf()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor(tok.Span, false)
	case token.With:
		return p.parseWith(tok.Span, false)
	case token.Try:
		return p.parseTry()
	case token.Return:
		return p.parseReturn()
	case token.Raise:
		return p.parseRaise()
	case token.Del:
		return p.parseDel()
	case token.Assert:
		return p.parseAssert()
	case token.Import:
		return p.parseImport()
	case token.From:
		return p.parseImportFrom()
	case token.Global, token.Nonlocal:
		return p.parseNameList()
	case token.Pass, token.Break, token.Continue:
		return p.parseKeywordStatement()
	case token.Walrus:
		p.diags.Syntax(tok.Span, "invalid syntax: unexpected ':=' at the start of a statement")
		p.skipLine()
		return p.invalid(tok.Span.Join(p.prevSpan()))
	case token.Elif, token.Else, token.Except, token.Finally:
		return p.parseOrphanClause()
	case token.Match:
		if p.isMatchStatement() {
			return p.parseMatch()
		}
	}
	return p.parseExpressionStatement()
}

// endStatement closes a simple statement. Anything left on the logical line
// is reported once and discarded.
func (p *Parser) endStatement() {
	switch p.peek().Kind {
	case token.NewLine, token.SemiColon:
		p.advance()
	case token.Eof, token.Dedent:
	default:
		tok := p.peek()
		p.diags.Syntax(tok.Span, "invalid syntax: expected newline, found %s", tok.Describe())
		p.skipLine()
	}
}

// parseBlock parses the body following a compound statement header's ':'.
func (p *Parser) parseBlock() *ast.Block {
	at := p.peek().Span
	if !p.at(token.NewLine) {
		if p.atSimpleStatement() {
			return p.parseInline(at)
		}
		tok := p.peek()
		p.diags.Indentation(tok.Span, "expected newline after ':', found %s", tok.Describe())
		return p.singleStatementBlock(at)
	}
	p.advance()

	if !p.at(token.Indent) {
		p.diags.Indentation(p.peek().Span, "expected an indented block")
		return p.singleStatementBlock(at)
	}
	p.advance()
	return p.parseIndented(at)
}

// atSimpleStatement reports whether the current token can start a statement
// allowed on the same line as its header, as in "if x: return y".
func (p *Parser) atSimpleStatement() bool {
	switch p.peek().Kind {
	case token.Eof, token.Dedent, token.Indent, token.Def, token.Class, token.At, token.Async,
		token.If, token.While, token.For, token.With, token.Try:
		return false
	case token.Match:
		return !p.isMatchStatement()
	}
	return true
}

// parseInline parses the ';'-separated simple statements that follow a header
// on the same line.
func (p *Parser) parseInline(at token.Span) *ast.Block {
	block := &ast.Block{}
	for !p.at(token.Eof) && !p.at(token.Dedent) {
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.ensureProgress(before)
		if p.tokenAt(p.pos-1).Kind == token.NewLine {
			break
		}
	}
	block.Loc = ast.At(p.spanOf(block.Stmts, at))
	return block
}

// singleStatementBlock recovers from a malformed block by treating the next
// statement, if any, as its only member.
func (p *Parser) singleStatementBlock(at token.Span) *ast.Block {
	block := &ast.Block{Loc: ast.At(at)}
	if p.at(token.Eof) || p.at(token.Dedent) {
		return block
	}
	before := p.pos
	if stmt := p.parseStatement(); stmt != nil {
		block.Stmts = append(block.Stmts, stmt)
		block.Loc = ast.At(stmt.Span())
	}
	p.ensureProgress(before)
	return block
}

// strayIndent reports an Indent that opens no block. Block loops count these
// so that the matching Dedent is not taken for their own.
func (p *Parser) strayIndent() {
	tok := p.advance()
	p.diags.Indentation(tok.Span, "unexpected indent")
}

// parseIndented parses statements after a consumed Indent, up to and
// including the matching Dedent.
func (p *Parser) parseIndented(at token.Span) *ast.Block {
	block := &ast.Block{}
	stray := 0
loop:
	for !p.at(token.Eof) {
		switch p.peek().Kind {
		case token.Indent:
			p.strayIndent()
			stray++
			continue
		case token.Dedent:
			p.advance()
			if stray == 0 {
				break loop
			}
			stray--
			continue
		case token.NewLine, token.SemiColon:
			p.advance()
			continue
		}
		before := p.pos
		if stmt := p.parseStatement(); stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
		p.ensureProgress(before)
	}
	block.Loc = ast.At(p.spanOf(block.Stmts, at))
	return block
}

// parseSuite parses ':' followed by a block.
func (p *Parser) parseSuite() *ast.Block {
	p.expect(token.Colon)
	return p.parseBlock()
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.peek().Span
	before := p.pos
	expr := p.parseExpression(AllowAll)
	if p.pos == before {
		p.skipLine()
		return p.invalid(start.Join(p.prevSpan()))
	}

	var stmt ast.Statement
	switch kind := p.peek().Kind; {
	case kind == token.Assign:
		stmt = p.parseAssign(expr)
	case kind.IsAugAssign():
		stmt = p.parseAugAssign(expr)
	case kind == token.Colon:
		stmt = p.parseAnnAssign(expr)
		if stmt == nil {
			return p.invalid(start.Join(p.prevSpan()))
		}
	default:
		stmt = &ast.ExprStmt{Loc: ast.At(expr.Span()), Value: expr}
	}
	p.endStatement()
	return stmt
}

// assignValue is the grammar of the value side of an assignment.
const assignValue = AllowAll &^ AllowAssign

// parseValue parses a possibly bare tuple following op, reporting a missing one.
func (p *Parser) parseValue(allowed Allowed, op string) ast.Expression {
	if startsExpression(p.peek().Kind) {
		return p.parseExpression(allowed)
	}
	tok := p.peek()
	p.diags.Syntax(tok.Span, "invalid syntax: expected expression after '%s', found %s", op, tok.Describe())
	return p.invalid(tok.Span)
}

func (p *Parser) parseAssign(first ast.Expression) ast.Statement {
	targets := []ast.Expression{first}
	var value ast.Expression
	for p.eat(token.Assign) {
		next := p.parseValue(assignValue, "=")
		if p.at(token.Assign) {
			targets = append(targets, next)
			continue
		}
		value = next
	}
	if value == nil {
		value = p.invalid(p.peek().Span)
	}
	for _, t := range targets {
		p.checkTarget(t, "assign to")
	}
	return &ast.Assign{Loc: ast.At(first.Span().Join(value.Span())), Targets: targets, Value: value}
}

func (p *Parser) parseAugAssign(tgt ast.Expression) ast.Statement {
	opTok := p.advance()
	switch tgt.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript, *ast.Invalid:
	default:
		p.diags.Syntax(tgt.Span(), "%s is an illegal expression for augmented assignment", describe(tgt))
	}
	value := p.parseValue(assignValue, opTok.Kind.String())
	return &ast.AugAssign{
		Loc:    ast.At(tgt.Span().Join(value.Span())),
		Target: tgt,
		Op:     augAssignOps[opTok.Kind],
		Value:  value,
	}
}

// parseAnnAssign returns nil after discarding the line when the target can
// never be annotated.
func (p *Parser) parseAnnAssign(tgt ast.Expression) ast.Statement {
	switch tgt.(type) {
	case *ast.Tuple:
		p.diags.Syntax(tgt.Span(), "only single target (not tuple) can be annotated")
		p.skipLine()
		return nil
	case *ast.List:
		p.diags.Syntax(tgt.Span(), "only single target (not list) can be annotated")
		p.skipLine()
		return nil
	case *ast.Name, *ast.Attribute, *ast.Subscript, *ast.Invalid:
	default:
		p.diags.Syntax(tgt.Span(), "illegal target for annotation")
	}

	p.advance() // :
	annotation := p.parseOperand(bpLowest, element.Without(AllowStarred|AllowWalrus), ":")
	stmt := &ast.AnnAssign{Target: tgt, Annotation: annotation}
	if p.eat(token.Assign) {
		stmt.Value = p.parseValue(assignValue, "=")
	}
	stmt.Loc = ast.At(tgt.Span().Join(p.prevSpan()))
	return stmt
}

// checkTarget reports expressions that cannot be bound or deleted.
func (p *Parser) checkTarget(expr ast.Expression, action string) {
	switch e := expr.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript, *ast.Invalid:
	case *ast.Tuple:
		for _, elt := range e.Elts {
			p.checkTarget(elt, action)
		}
	case *ast.List:
		for _, elt := range e.Elts {
			p.checkTarget(elt, action)
		}
	case *ast.Starred:
		p.checkTarget(e.Value, action)
	default:
		p.diags.Syntax(expr.Span(), "cannot %s %s", action, describe(expr))
	}
}

// describe names an expression the way assignment errors refer to it.
func describe(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.StringLit, *ast.NumberLit, *ast.EllipsisLit:
		return "literal"
	case *ast.BoolLit:
		if e.Value {
			return "True"
		}
		return "False"
	case *ast.NoneLit:
		return "None"
	case *ast.Call:
		return "function call"
	case *ast.BinaryOp:
		switch e.Op {
		case ast.And, ast.Or:
			return "expression"
		case ast.Eq, ast.NotEq, ast.Lt, ast.LtE, ast.Gt, ast.GtE, ast.In, ast.NotIn, ast.Is, ast.IsNot:
			return "comparison"
		}
		return "expression"
	case *ast.UnaryOp:
		if e.Op == ast.Await {
			return "await expression"
		}
		return "expression"
	case *ast.Lambda:
		return "lambda"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.NamedExpr:
		return "named expression"
	case *ast.Yield, *ast.YieldFrom:
		return "yield expression"
	case *ast.GeneratorExp:
		return "generator expression"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.SetComp:
		return "set comprehension"
	case *ast.DictComp:
		return "dict comprehension"
	case *ast.Dict:
		return "dict literal"
	case *ast.Set:
		return "set display"
	case *ast.DoubleStarred:
		return "double starred expression"
	case *ast.Keyword:
		return "keyword argument"
	case *ast.Slice:
		return "slice"
	}
	return strings.ToLower(ast.TypeName(expr))
}

func (p *Parser) parseKeywordStatement() ast.Statement {
	tok := p.advance()
	loc := ast.At(tok.Span)
	var stmt ast.Statement
	switch tok.Kind {
	case token.Pass:
		stmt = &ast.Pass{Loc: loc}
	case token.Break:
		stmt = &ast.Break{Loc: loc}
	default:
		stmt = &ast.Continue{Loc: loc}
	}
	p.endStatement()
	return stmt
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.advance().Span
	stmt := &ast.Return{}
	if startsExpression(p.peek().Kind) {
		stmt.Value = p.parseExpression(assignValue)
	}
	stmt.Loc = ast.At(start.Join(p.prevSpan()))
	p.endStatement()
	return stmt
}

func (p *Parser) parseRaise() ast.Statement {
	start := p.advance().Span
	stmt := &ast.Raise{}
	value := element.Without(AllowStarred | AllowWalrus)
	if startsExpression(p.peek().Kind) {
		stmt.Exc = p.parseExpr(bpLowest, value)
	}
	if p.at(token.From) {
		from := p.advance()
		if stmt.Exc == nil {
			p.diags.Syntax(from.Span, "invalid syntax: 'from' requires an exception to raise")
		}
		stmt.Cause = p.parseOperand(bpLowest, value, "from")
	}
	stmt.Loc = ast.At(start.Join(p.prevSpan()))
	p.endStatement()
	return stmt
}

func (p *Parser) parseDel() ast.Statement {
	start := p.advance().Span
	stmt := &ast.Del{}
	if !startsExpression(p.peek().Kind) {
		tok := p.peek()
		p.diags.Syntax(tok.Span, "invalid syntax: expected expression after 'del', found %s", tok.Describe())
	} else {
		targets := p.parseExpression(element.Without(AllowStarred | AllowWalrus).With(AllowTupleNoParens))
		if tuple, ok := targets.(*ast.Tuple); ok && bare(tuple) {
			stmt.Targets = tuple.Elts
		} else {
			stmt.Targets = []ast.Expression{targets}
		}
		for _, t := range stmt.Targets {
			p.checkTarget(t, "delete")
		}
	}
	stmt.Loc = ast.At(start.Join(p.prevSpan()))
	p.endStatement()
	return stmt
}

// bare reports whether a tuple was written without parentheses.
func bare(tuple *ast.Tuple) bool {
	if len(tuple.Elts) == 0 {
		return false
	}
	first, span := tuple.Elts[0].Span(), tuple.Span()
	return first.RowStart == span.RowStart && first.ColumnStart == span.ColumnStart
}

func (p *Parser) parseAssert() ast.Statement {
	start := p.advance().Span
	value := element.Without(AllowStarred)
	stmt := &ast.Assert{Test: p.parseOperand(bpLowest, value, "assert")}
	if p.eat(token.Comma) {
		stmt.Msg = p.parseOperand(bpLowest, value, ",")
	}
	stmt.Loc = ast.At(start.Join(p.prevSpan()))
	p.endStatement()
	return stmt
}

// parseDottedName parses a.b.c and returns it as one string.
func (p *Parser) parseDottedName() (string, bool) {
	first, _, ok := p.expectName("module name")
	if !ok {
		return "", false
	}
	parts := []string{first}
	for p.eat(token.Dot) {
		part, _, ok := p.expectName("module name")
		if !ok {
			return strings.Join(parts, "."), false
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "."), true
}

// parseAlias parses name [as asname]; dotted allows a.b.c for plain imports.
func (p *Parser) parseAlias(dotted bool) *ast.Alias {
	start := p.peek().Span
	alias := &ast.Alias{}
	if dotted {
		alias.Name, _ = p.parseDottedName()
	} else {
		alias.Name, _, _ = p.expectName("name to import")
	}
	if p.eat(token.As) {
		alias.AsName, _, _ = p.expectName("name after 'as'")
	}
	alias.Loc = ast.At(start.Join(p.prevSpan()))
	return alias
}

func (p *Parser) parseImport() ast.Statement {
	start := p.advance().Span
	stmt := &ast.Import{}
	for {
		stmt.Names = append(stmt.Names, p.parseAlias(true))
		if !p.eat(token.Comma) {
			break
		}
	}
	stmt.Loc = ast.At(start.Join(p.prevSpan()))
	p.endStatement()
	return stmt
}

func (p *Parser) parseImportFrom() ast.Statement {
	start := p.advance().Span
	stmt := &ast.ImportFrom{}
	for {
		if p.eat(token.Dot) {
			stmt.Level++
		} else if p.eat(token.Ellipsis) {
			stmt.Level += 3
		} else {
			break
		}
	}
	if p.peek().Kind.IsName() {
		stmt.Module, _ = p.parseDottedName()
	} else if stmt.Level == 0 {
		tok := p.peek()
		p.diags.Syntax(tok.Span, "invalid syntax: expected module name, found %s", tok.Describe())
	}

	if p.expect(token.Import) {
		switch {
		case p.eat(token.Asterisk):
			stmt.Wildcard = true
		case p.eat(token.LeftParen):
			for !p.at(token.RightParen) && !p.at(token.Eof) {
				stmt.Names = append(stmt.Names, p.parseAlias(false))
				if !p.eat(token.Comma) {
					break
				}
			}
			if len(stmt.Names) == 0 {
				p.diags.Syntax(p.peek().Span, "invalid syntax: expected names to import")
			}
			p.expect(token.RightParen)
		default:
			for {
				stmt.Names = append(stmt.Names, p.parseAlias(false))
				if !p.at(token.Comma) {
					break
				}
				comma := p.advance()
				if !p.peek().Kind.IsName() {
					p.diags.Syntax(comma.Span, "trailing comma not allowed without surrounding parentheses")
					break
				}
			}
		}
	}
	stmt.Loc = ast.At(start.Join(p.prevSpan()))
	p.endStatement()
	return stmt
}

// parseNameList parses global and nonlocal declarations.
func (p *Parser) parseNameList() ast.Statement {
	kw := p.advance()
	var names []string
	for {
		name, _, ok := p.expectName("name")
		if !ok {
			break
		}
		names = append(names, name)
		if !p.eat(token.Comma) {
			break
		}
	}
	loc := ast.At(kw.Span.Join(p.prevSpan()))
	p.endStatement()
	if kw.Kind == token.Global {
		return &ast.Global{Loc: loc, Names: names}
	}
	return &ast.Nonlocal{Loc: loc, Names: names}
}

// parseOrphanClause reports an elif/else/except/finally with no statement to
// attach to, then parses and drops its body so the body is still checked.
func (p *Parser) parseOrphanClause() ast.Statement {
	tok := p.peek()
	p.diags.Syntax(tok.Span, "invalid syntax: '%s' without a matching statement", tok.Kind)
	p.skipLine()
	span := tok.Span.Join(p.prevSpan())
	if p.eat(token.Indent) {
		block := p.parseIndented(span)
		span = span.Join(block.Span())
	}
	return p.invalid(span)
}

func (p *Parser) parseIf() ast.Statement {
	start := p.advance().Span
	stmt := &ast.If{Test: p.parseOperand(bpLowest, condition, "if")}
	stmt.Body = p.parseSuite()
	end := stmt.Body.Span()

	for p.at(token.Elif) {
		elif := p.advance().Span
		clause := &ast.ElifClause{Test: p.parseOperand(bpLowest, condition, "elif")}
		clause.Body = p.parseSuite()
		clause.Loc = ast.At(elif.Join(clause.Body.Span()))
		stmt.Elifs = append(stmt.Elifs, clause)
		end = clause.Body.Span()
	}
	if p.eat(token.Else) {
		stmt.OrElse = p.parseSuite()
		end = stmt.OrElse.Span()
	}
	stmt.Loc = ast.At(start.Join(end))
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	start := p.advance().Span
	stmt := &ast.While{Test: p.parseOperand(bpLowest, condition, "while")}
	stmt.Body = p.parseSuite()
	end := stmt.Body.Span()
	if p.eat(token.Else) {
		stmt.OrElse = p.parseSuite()
		end = stmt.OrElse.Span()
	}
	stmt.Loc = ast.At(start.Join(end))
	return stmt
}

func (p *Parser) parseFor(start token.Span, isAsync bool) ast.Statement {
	p.advance() // for
	stmt := &ast.For{IsAsync: isAsync}
	stmt.Target = p.parseTarget()
	if p.expect(token.In) {
		stmt.Iter = p.parseValue(assignValue.Without(AllowYield), "in")
	} else {
		stmt.Iter = p.invalid(p.peek().Span)
	}
	stmt.Body = p.parseSuite()
	end := stmt.Body.Span()
	if p.eat(token.Else) {
		stmt.OrElse = p.parseSuite()
		end = stmt.OrElse.Span()
	}
	stmt.Loc = ast.At(start.Join(end))
	return stmt
}

func (p *Parser) parseWith(start token.Span, isAsync bool) ast.Statement {
	p.advance() // with
	stmt := &ast.With{IsAsync: isAsync}

	if p.at(token.LeftParen) && p.tokenAt(p.matchingClose(p.pos)+1).Kind == token.Colon {
		p.advance()
		for !p.at(token.RightParen) && !p.at(token.Eof) {
			stmt.Items = append(stmt.Items, p.parseWithItem())
			if !p.eat(token.Comma) {
				break
			}
		}
		p.expect(token.RightParen)
	} else {
		for {
			stmt.Items = append(stmt.Items, p.parseWithItem())
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	if len(stmt.Items) == 0 {
		p.diags.Syntax(p.prevSpan(), "invalid syntax: expected at least one context manager")
	}

	stmt.Body = p.parseSuite()
	stmt.Loc = ast.At(start.Join(stmt.Body.Span()))
	return stmt
}

// matchingClose returns the index of the bracket closing the one at open,
// or the index of the last token when it is never closed.
func (p *Parser) matchingClose(open int) int {
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		switch p.tokens[i].Kind {
		case token.LeftParen, token.LeftBracket, token.LeftBrace:
			depth++
		case token.RightParen, token.RightBracket, token.RightBrace:
			depth--
			if depth == 0 {
				return i
			}
		case token.NewLine, token.Eof:
			return i
		}
	}
	return len(p.tokens) - 1
}

func (p *Parser) parseWithItem() *ast.WithItem {
	item := &ast.WithItem{ContextExpr: p.parseOperand(bpLowest, element.Without(AllowStarred), "with")}
	if p.eat(token.As) {
		item.OptionalVars = p.parseExpr(bpLowest, target.Without(AllowTupleNoParens))
		p.checkTarget(item.OptionalVars, "assign to")
	}
	item.Loc = ast.At(item.ContextExpr.Span().Join(p.prevSpan()))
	return item
}

func (p *Parser) parseTry() ast.Statement {
	start := p.advance().Span
	stmt := &ast.Try{Body: p.parseSuite()}
	end := stmt.Body.Span()

	var plain, star bool
	for p.at(token.Except) {
		handler := p.parseExceptHandler()
		if handler.IsStar {
			star = true
		} else {
			plain = true
		}
		if plain && star {
			p.diags.Syntax(handler.Span(), "cannot have both 'except' and 'except*' on the same 'try'")
			plain, star = false, false
		}
		stmt.Handlers = append(stmt.Handlers, handler)
		end = handler.Span()
	}

	if p.at(token.Else) {
		tok := p.advance()
		if len(stmt.Handlers) == 0 {
			p.diags.Syntax(tok.Span, "invalid syntax: 'else' on 'try' requires an 'except' clause")
		}
		stmt.OrElse = p.parseSuite()
		end = stmt.OrElse.Span()
	}
	if p.eat(token.Finally) {
		stmt.Finalbody = p.parseSuite()
		end = stmt.Finalbody.Span()
	}

	if len(stmt.Handlers) == 0 && stmt.Finalbody == nil {
		p.diags.Syntax(p.peek().Span, "expected 'except' or 'finally' block")
	}
	stmt.Loc = ast.At(start.Join(end))
	return stmt
}

func (p *Parser) parseExceptHandler() *ast.ExceptHandler {
	start := p.advance().Span
	handler := &ast.ExceptHandler{IsStar: p.eat(token.Asterisk)}
	if !p.at(token.Colon) {
		handler.Type = p.parseExpression(element.Without(AllowStarred | AllowWalrus).With(AllowTupleNoParens))
		if p.eat(token.As) {
			handler.Name, _, _ = p.expectName("name after 'as'")
		}
	} else if handler.IsStar {
		p.diags.Syntax(p.peek().Span, "expected one or more exception types")
	}
	handler.Body = p.parseSuite()
	handler.Loc = ast.At(start.Join(handler.Body.Span()))
	return handler
}

// parseAsync dispatches async def, async for and async with.
func (p *Parser) parseAsync() ast.Statement {
	tok := p.peek()
	switch p.peekAt(1).Kind {
	case token.Def:
		p.advance()
		return p.parseFunctionDef(nil, tok.Span, true)
	case token.For:
		p.advance()
		return p.parseFor(tok.Span, true)
	case token.With:
		p.advance()
		return p.parseWith(tok.Span, true)
	}
	p.advance()
	next := p.peek()
	p.diags.Syntax(next.Span, "invalid syntax: expected 'def', 'for' or 'with' after 'async', found %s", next.Describe())
	return nil
}

func (p *Parser) parseDecorated() ast.Statement {
	start := p.peek().Span
	var decorators []ast.Expression
	for p.eat(token.At) {
		decorators = append(decorators, p.parseOperand(bpLowest, element, "@"))
		if !p.eat(token.NewLine) {
			tok := p.peek()
			p.diags.Syntax(tok.Span, "invalid syntax: expected newline after decorator, found %s", tok.Describe())
			p.skipLine()
		}
	}

	switch p.peek().Kind {
	case token.Def:
		return p.parseFunctionDef(decorators, start, false)
	case token.Class:
		return p.parseClassDef(decorators, start)
	case token.Async:
		if p.peekAt(1).Kind == token.Def {
			p.advance()
			return p.parseFunctionDef(decorators, start, true)
		}
	}
	tok := p.peek()
	p.diags.Syntax(tok.Span, "invalid syntax: expected function or class definition after decorator, found %s", tok.Describe())
	return p.invalid(start.Join(p.prevSpan()))
}

func (p *Parser) parseFunctionDef(decorators []ast.Expression, start token.Span, isAsync bool) ast.Statement {
	p.advance() // def
	stmt := &ast.FunctionDef{Decorators: decorators, IsAsync: isAsync}
	name, nameSpan, _ := p.expectName("function name")
	stmt.Name, stmt.NameSpan = name, ast.At(nameSpan)

	if p.expect(token.LeftParen) {
		stmt.Params = p.parseParameters(token.RightParen, true)
		p.expect(token.RightParen)
	}
	if p.eat(token.RightArrow) {
		stmt.Returns = p.parseOperand(bpLowest, element.Without(AllowStarred|AllowWalrus), "->")
	}
	stmt.Body = p.parseSuite()
	stmt.Loc = ast.At(start.Join(stmt.Body.Span()))
	return stmt
}

func (p *Parser) parseClassDef(decorators []ast.Expression, start token.Span) ast.Statement {
	p.advance() // class
	stmt := &ast.ClassDef{Decorators: decorators}
	name, nameSpan, _ := p.expectName("class name")
	stmt.Name, stmt.NameSpan = name, ast.At(nameSpan)

	if p.at(token.LeftParen) {
		stmt.Bases = p.parseCallArgs()
	}
	stmt.Body = p.parseSuite()
	stmt.Loc = ast.At(start.Join(stmt.Body.Span()))
	return stmt
}

// isMatchStatement decides whether a leading "match" opens a match statement:
// the logical line must end with ':' and "match" must be followed by something
// that starts a subject expression.
func (p *Parser) isMatchStatement() bool {
	if !startsExpression(p.peekAt(1).Kind) {
		return false
	}
	for i := p.pos + 1; ; i++ {
		switch p.tokenAt(i).Kind {
		case token.NewLine, token.Eof, token.SemiColon:
			return p.tokenAt(i-1).Kind == token.Colon
		}
	}
}

func (p *Parser) parseMatch() ast.Statement {
	start := p.advance().Span
	stmt := &ast.Match{Subject: p.parseExpression(element.With(AllowTupleNoParens))}
	p.expect(token.Colon)
	end := p.prevSpan()

	if !p.eat(token.NewLine) {
		tok := p.peek()
		p.diags.Indentation(tok.Span, "expected newline after ':', found %s", tok.Describe())
		p.skipLine()
	}
	if !p.eat(token.Indent) {
		p.diags.Indentation(p.peek().Span, "expected an indented block")
		stmt.Loc = ast.At(start.Join(end))
		return stmt
	}

	stray := 0
loop:
	for !p.at(token.Eof) {
		tok := p.peek()
		switch tok.Kind {
		case token.Dedent:
			p.advance()
			if stray == 0 {
				break loop
			}
			stray--
		case token.NewLine:
			p.advance()
		case token.Indent:
			p.strayIndent()
			stray++
		case token.Case:
			c := p.parseCase()
			stmt.Cases = append(stmt.Cases, c)
			end = c.Span()
		default:
			p.diags.Syntax(tok.Span, "invalid syntax: expected 'case' block, found %s", tok.Describe())
			p.skipLine()
		}
	}
	if len(stmt.Cases) == 0 {
		p.diags.Syntax(start, "match statement must have at least one 'case' block")
	}
	stmt.Loc = ast.At(start.Join(end))
	return stmt
}

func (p *Parser) parseCase() *ast.MatchCase {
	start := p.advance().Span
	pattern := element.Without(AllowIfElse | AllowWalrus | AllowLambda | AllowAwait).With(AllowTupleNoParens)
	c := &ast.MatchCase{Pattern: p.parseExpression(pattern)}
	if p.eat(token.As) {
		c.AsName, _, _ = p.expectName("name after 'as'")
	}
	if p.eat(token.If) {
		c.Guard = p.parseOperand(bpLowest, condition, "if")
	}
	c.Body = p.parseSuite()
	c.Loc = ast.At(start.Join(c.Body.Span()))
	return c
}
