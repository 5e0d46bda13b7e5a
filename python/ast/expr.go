package ast

import "github.com/LaBatata101/python-lsp/python/token"

// Name is an identifier reference.
type Name struct {
	Loc
	ID string `json:"id" yaml:"id"`
}

// StringLit is a string literal, adjacent literals already concatenated.
type StringLit struct {
	Loc
	Value  string `json:"value" yaml:"value"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// NumberLit is a numeric literal kept as its source lexeme.
type NumberLit struct {
	Loc
	Value string           `json:"value" yaml:"value"`
	Kind  token.NumberKind `json:"kind" yaml:"kind"`
}

// BoolLit is True or False.
type BoolLit struct {
	Loc
	Value bool `json:"value" yaml:"value"`
}

// NoneLit is None.
type NoneLit struct {
	Loc
}

// EllipsisLit is the ... literal.
type EllipsisLit struct {
	Loc
}

// Tuple is a parenthesized or bare comma-separated sequence.
type Tuple struct {
	Loc
	Elts []Expression `json:"elts" yaml:"elts"`
}

// List is a [a, b] display.
type List struct {
	Loc
	Elts []Expression `json:"elts" yaml:"elts"`
}

// Set is a {a, b} display.
type Set struct {
	Loc
	Elts []Expression `json:"elts" yaml:"elts"`
}

// DictItem is one entry of a dict display. Key is nil for a **mapping unpack.
type DictItem struct {
	Loc
	Key   Expression `json:"key" yaml:"key"`
	Value Expression `json:"value" yaml:"value"`
}

// Dict is a {k: v} display.
type Dict struct {
	Loc
	Items []*DictItem `json:"items" yaml:"items"`
}

// BinaryOp covers arithmetic, bitwise, boolean and comparison operators.
type BinaryOp struct {
	Loc
	Left  Expression     `json:"left" yaml:"left"`
	Op    BinaryOperator `json:"op" yaml:"op"`
	Right Expression     `json:"right" yaml:"right"`
}

// UnaryOp is a prefix operator application.
type UnaryOp struct {
	Loc
	Op      UnaryOperator `json:"op" yaml:"op"`
	Operand Expression    `json:"operand" yaml:"operand"`
}

// Starred is *value, as a target, a call argument or a display element.
type Starred struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
}

// DoubleStarred is **value in a call or a dict display.
type DoubleStarred struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
}

// NamedExpr is target := value.
type NamedExpr struct {
	Loc
	Target Expression `json:"target" yaml:"target"`
	Value  Expression `json:"value" yaml:"value"`
}

// Attribute is value.attr.
type Attribute struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
	Attr  string     `json:"attr" yaml:"attr"`
}

// Subscript is value[index]. A slice index is a *Slice, several indices a *Tuple.
type Subscript struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
	Index Expression `json:"index" yaml:"index"`
}

// Slice is lower:upper:step inside a subscript. Missing parts are nil.
type Slice struct {
	Loc
	Lower Expression `json:"lower" yaml:"lower"`
	Upper Expression `json:"upper" yaml:"upper"`
	Step  Expression `json:"step" yaml:"step"`
}

// Keyword is a name=value call argument.
type Keyword struct {
	Loc
	Arg   string     `json:"arg" yaml:"arg"`
	Value Expression `json:"value" yaml:"value"`
}

// Call is func(args). Args holds positional, starred, keyword and double-starred arguments in order.
type Call struct {
	Loc
	Func Expression   `json:"func" yaml:"func"`
	Args []Expression `json:"args" yaml:"args"`
}

// Lambda is lambda params: body.
type Lambda struct {
	Loc
	Params []*Parameter `json:"params" yaml:"params"`
	Body   Expression   `json:"body" yaml:"body"`
}

// IfExp is body if test else orelse.
type IfExp struct {
	Loc
	Test   Expression `json:"test" yaml:"test"`
	Body   Expression `json:"body" yaml:"body"`
	OrElse Expression `json:"orelse" yaml:"orelse"`
}

// Yield is yield [value].
type Yield struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
}

// YieldFrom is yield from value.
type YieldFrom struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
}

// Comprehension is one for clause of a comprehension with its if filters.
type Comprehension struct {
	Loc
	Target  Expression   `json:"target" yaml:"target"`
	Iter    Expression   `json:"iter" yaml:"iter"`
	Ifs     []Expression `json:"ifs" yaml:"ifs"`
	IsAsync bool         `json:"is_async,omitempty" yaml:"is_async,omitempty"`
}

// ListComp is [elt for ...].
type ListComp struct {
	Loc
	Elt        Expression       `json:"elt" yaml:"elt"`
	Generators []*Comprehension `json:"generators" yaml:"generators"`
}

// SetComp is {elt for ...}.
type SetComp struct {
	Loc
	Elt        Expression       `json:"elt" yaml:"elt"`
	Generators []*Comprehension `json:"generators" yaml:"generators"`
}

// DictComp is {key: value for ...}.
type DictComp struct {
	Loc
	Key        Expression       `json:"key" yaml:"key"`
	Value      Expression       `json:"value" yaml:"value"`
	Generators []*Comprehension `json:"generators" yaml:"generators"`
}

// GeneratorExp is (elt for ...).
type GeneratorExp struct {
	Loc
	Elt        Expression       `json:"elt" yaml:"elt"`
	Generators []*Comprehension `json:"generators" yaml:"generators"`
}

func (*Name) exprNode()          {}
func (*StringLit) exprNode()     {}
func (*NumberLit) exprNode()     {}
func (*BoolLit) exprNode()       {}
func (*NoneLit) exprNode()       {}
func (*EllipsisLit) exprNode()   {}
func (*Tuple) exprNode()         {}
func (*List) exprNode()          {}
func (*Set) exprNode()           {}
func (*Dict) exprNode()          {}
func (*BinaryOp) exprNode()      {}
func (*UnaryOp) exprNode()       {}
func (*Starred) exprNode()       {}
func (*DoubleStarred) exprNode() {}
func (*NamedExpr) exprNode()     {}
func (*Attribute) exprNode()     {}
func (*Subscript) exprNode()     {}
func (*Slice) exprNode()         {}
func (*Keyword) exprNode()       {}
func (*Call) exprNode()          {}
func (*Lambda) exprNode()        {}
func (*IfExp) exprNode()         {}
func (*Yield) exprNode()         {}
func (*YieldFrom) exprNode()     {}
func (*ListComp) exprNode()      {}
func (*SetComp) exprNode()       {}
func (*DictComp) exprNode()      {}
func (*GeneratorExp) exprNode()  {}
