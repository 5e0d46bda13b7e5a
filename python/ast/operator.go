package ast

// BinaryOperator identifies the operation of a BinaryOp.
type BinaryOperator string

const (
	Add      BinaryOperator = "+"
	Sub      BinaryOperator = "-"
	Mult     BinaryOperator = "*"
	MatMult  BinaryOperator = "@"
	Div      BinaryOperator = "/"
	FloorDiv BinaryOperator = "//"
	Mod      BinaryOperator = "%"
	Pow      BinaryOperator = "**"
	LShift   BinaryOperator = "<<"
	RShift   BinaryOperator = ">>"
	BitAnd   BinaryOperator = "&"
	BitOr    BinaryOperator = "|"
	BitXor   BinaryOperator = "^"
	And      BinaryOperator = "and"
	Or       BinaryOperator = "or"
	Eq       BinaryOperator = "=="
	NotEq    BinaryOperator = "!="
	Lt       BinaryOperator = "<"
	LtE      BinaryOperator = "<="
	Gt       BinaryOperator = ">"
	GtE      BinaryOperator = ">="
	In       BinaryOperator = "in"
	NotIn    BinaryOperator = "not in"
	Is       BinaryOperator = "is"
	IsNot    BinaryOperator = "is not"
)

// UnaryOperator identifies the operation of a UnaryOp.
type UnaryOperator string

const (
	UAdd   UnaryOperator = "+"
	USub   UnaryOperator = "-"
	Invert UnaryOperator = "~"
	Not    UnaryOperator = "not"
	Await  UnaryOperator = "await"
)
