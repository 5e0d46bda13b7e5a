package parser

import (
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// Binding powers, lowest first. Left-associative operators bind their right
// operand one level tighter; right-associative ones (walrus, ternary, **)
// bind it at or below their left power.
const (
	bpLowest      = 0
	bpWalrus      = 2
	bpLambdaBody  = 3
	bpTernary     = 4
	bpOr          = 6
	bpAnd         = 8
	bpNot         = 10
	bpComparison  = 12
	bpBitOr       = 14
	bpBitXor      = 16
	bpBitAnd      = 18
	bpShift       = 20
	bpSum         = 22
	bpProduct     = 24
	bpUnary       = 26
	bpPower       = 29
	bpPowerRight  = 28
	bpAwait       = 30
	bpPostfix     = 32
	bpStarOperand = bpBitOr
)

type infixOp struct {
	op    ast.BinaryOperator
	left  int
	right int
	width int // tokens consumed by the operator
}

var binaryOps = map[token.Kind]infixOp{
	token.Or:                 {ast.Or, bpOr, bpOr + 1, 1},
	token.And:                {ast.And, bpAnd, bpAnd + 1, 1},
	token.In:                 {ast.In, bpComparison, bpComparison + 1, 1},
	token.Is:                 {ast.Is, bpComparison, bpComparison + 1, 1},
	token.LessThan:           {ast.Lt, bpComparison, bpComparison + 1, 1},
	token.GreaterThan:        {ast.Gt, bpComparison, bpComparison + 1, 1},
	token.LessThanOrEqual:    {ast.LtE, bpComparison, bpComparison + 1, 1},
	token.GreaterThanOrEqual: {ast.GtE, bpComparison, bpComparison + 1, 1},
	token.Equals:             {ast.Eq, bpComparison, bpComparison + 1, 1},
	token.NotEquals:          {ast.NotEq, bpComparison, bpComparison + 1, 1},
	token.BitwiseOr:          {ast.BitOr, bpBitOr, bpBitOr + 1, 1},
	token.BitwiseXor:         {ast.BitXor, bpBitXor, bpBitXor + 1, 1},
	token.BitwiseAnd:         {ast.BitAnd, bpBitAnd, bpBitAnd + 1, 1},
	token.LeftShift:          {ast.LShift, bpShift, bpShift + 1, 1},
	token.RightShift:         {ast.RShift, bpShift, bpShift + 1, 1},
	token.Plus:               {ast.Add, bpSum, bpSum + 1, 1},
	token.Minus:              {ast.Sub, bpSum, bpSum + 1, 1},
	token.Asterisk:           {ast.Mult, bpProduct, bpProduct + 1, 1},
	token.Slash:              {ast.Div, bpProduct, bpProduct + 1, 1},
	token.FloorDivision:      {ast.FloorDiv, bpProduct, bpProduct + 1, 1},
	token.Modulo:             {ast.Mod, bpProduct, bpProduct + 1, 1},
	token.At:                 {ast.MatMult, bpProduct, bpProduct + 1, 1},
	token.Exponent:           {ast.Pow, bpPower, bpPowerRight, 1},
}

// binaryOperator resolves the operator starting at the current token,
// including the two-token forms "not in" and "is not".
func (p *Parser) binaryOperator() (infixOp, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Not && p.peekAt(1).Kind == token.In:
		return infixOp{ast.NotIn, bpComparison, bpComparison + 1, 2}, true
	case tok.Kind == token.Is && p.peekAt(1).Kind == token.Not:
		return infixOp{ast.IsNot, bpComparison, bpComparison + 1, 2}, true
	}
	op, ok := binaryOps[tok.Kind]
	return op, ok
}

var augAssignOps = map[token.Kind]ast.BinaryOperator{
	token.PlusEqual:          ast.Add,
	token.MinusEqual:         ast.Sub,
	token.AsteriskEqual:      ast.Mult,
	token.SlashEqual:         ast.Div,
	token.FloorDivisionEqual: ast.FloorDiv,
	token.ModuloEqual:        ast.Mod,
	token.AtEqual:            ast.MatMult,
	token.BitwiseAndEqual:    ast.BitAnd,
	token.BitwiseOrEqual:     ast.BitOr,
	token.BitwiseXorEqual:    ast.BitXor,
	token.LeftShiftEqual:     ast.LShift,
	token.RightShiftEqual:    ast.RShift,
	token.ExponentEqual:      ast.Pow,
}
