package parser

// Allowed is the capability set a call site passes to the expression engine.
// Each bit enables one expression form or operator family, so one recursive
// engine serves contexts with different grammars.
type Allowed uint32

const (
	AllowName Allowed = 1 << iota
	AllowString
	AllowNumber
	AllowConstant // True, False, None, ...
	AllowParen
	AllowList
	AllowBrace
	AllowTupleNoParens
	AllowAssign
	AllowWalrus
	AllowYield
	AllowLambda
	AllowStarred
	AllowDoubleStarred
	AllowUnary
	AllowBinary
	AllowPostfix
	AllowIfElse
	AllowAwait
)

const (
	atoms = AllowName | AllowString | AllowNumber | AllowConstant |
		AllowParen | AllowList | AllowBrace

	// AllowAll is the full expression grammar used for a bare expression statement.
	AllowAll = atoms | AllowTupleNoParens | AllowAssign | AllowYield | AllowLambda |
		AllowStarred | AllowUnary | AllowBinary | AllowPostfix | AllowIfElse | AllowAwait

	// element is one item of a display, an argument or a subscript: no bare
	// tuples, no assignment, walrus allowed.
	element = (AllowAll | AllowWalrus) &^ (AllowTupleNoParens | AllowAssign | AllowYield)

	// target is the grammar of for targets and with/except as-targets.
	target = AllowName | AllowParen | AllowList | AllowStarred | AllowPostfix | AllowTupleNoParens

	// condition is an if/while test: walrus is legal unparenthesized there.
	condition = (AllowAll | AllowWalrus) &^ (AllowTupleNoParens | AllowAssign | AllowYield | AllowStarred)
)

// Has reports whether every bit of flag is set.
func (a Allowed) Has(flag Allowed) bool {
	return a&flag == flag
}

// With returns a copy with flags added.
func (a Allowed) With(flags Allowed) Allowed {
	return a | flags
}

// Without returns a copy with flags removed.
func (a Allowed) Without(flags Allowed) Allowed {
	return a &^ flags
}
