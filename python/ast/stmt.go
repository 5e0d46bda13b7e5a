package ast

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
}

// Assign is t1 = t2 = ... = value.
type Assign struct {
	Loc
	Targets []Expression `json:"targets" yaml:"targets"`
	Value   Expression   `json:"value" yaml:"value"`
}

// AugAssign is target op= value. Op is the operator without the '='.
type AugAssign struct {
	Loc
	Target Expression     `json:"target" yaml:"target"`
	Op     BinaryOperator `json:"op" yaml:"op"`
	Value  Expression     `json:"value" yaml:"value"`
}

// AnnAssign is target: annotation [= value].
type AnnAssign struct {
	Loc
	Target     Expression `json:"target" yaml:"target"`
	Annotation Expression `json:"annotation" yaml:"annotation"`
	Value      Expression `json:"value" yaml:"value"`
}

// ParamKind distinguishes plain, *args and **kwargs parameters.
type ParamKind string

const (
	ParamNormal ParamKind = "normal"
	ParamVarArg ParamKind = "vararg"
	ParamKwArg  ParamKind = "kwarg"
)

// Parameter is one entry of a def or lambda parameter list.
type Parameter struct {
	Loc
	Name           string     `json:"name" yaml:"name"`
	Kind           ParamKind  `json:"kind" yaml:"kind"`
	Annotation     Expression `json:"annotation" yaml:"annotation"`
	Default        Expression `json:"default" yaml:"default"`
	PositionalOnly bool       `json:"positional_only,omitempty" yaml:"positional_only,omitempty"`
	KeywordOnly    bool       `json:"keyword_only,omitempty" yaml:"keyword_only,omitempty"`
}

// FunctionDef is a (possibly async, possibly decorated) def statement.
type FunctionDef struct {
	Loc
	Name       string       `json:"name" yaml:"name"`
	NameSpan   Loc          `json:"name_span" yaml:"name_span"`
	Params     []*Parameter `json:"params" yaml:"params"`
	Returns    Expression   `json:"returns" yaml:"returns"`
	Body       *Block       `json:"body" yaml:"body"`
	Decorators []Expression `json:"decorators" yaml:"decorators"`
	IsAsync    bool         `json:"is_async,omitempty" yaml:"is_async,omitempty"`
}

// ClassDef is a (possibly decorated) class statement.
// Bases holds positional bases and keyword arguments such as metaclass=.
type ClassDef struct {
	Loc
	Name       string       `json:"name" yaml:"name"`
	NameSpan   Loc          `json:"name_span" yaml:"name_span"`
	Bases      []Expression `json:"bases" yaml:"bases"`
	Body       *Block       `json:"body" yaml:"body"`
	Decorators []Expression `json:"decorators" yaml:"decorators"`
}

// ElifClause is one elif arm of an if statement.
type ElifClause struct {
	Loc
	Test Expression `json:"test" yaml:"test"`
	Body *Block     `json:"body" yaml:"body"`
}

// If is if/elif/else. OrElse is nil without an else arm.
type If struct {
	Loc
	Test   Expression    `json:"test" yaml:"test"`
	Body   *Block        `json:"body" yaml:"body"`
	Elifs  []*ElifClause `json:"elifs" yaml:"elifs"`
	OrElse *Block        `json:"orelse" yaml:"orelse"`
}

// While is while/else.
type While struct {
	Loc
	Test   Expression `json:"test" yaml:"test"`
	Body   *Block     `json:"body" yaml:"body"`
	OrElse *Block     `json:"orelse" yaml:"orelse"`
}

// For is (async) for/else.
type For struct {
	Loc
	Target  Expression `json:"target" yaml:"target"`
	Iter    Expression `json:"iter" yaml:"iter"`
	Body    *Block     `json:"body" yaml:"body"`
	OrElse  *Block     `json:"orelse" yaml:"orelse"`
	IsAsync bool       `json:"is_async,omitempty" yaml:"is_async,omitempty"`
}

// WithItem is one context manager of a with statement.
type WithItem struct {
	Loc
	ContextExpr  Expression `json:"context_expr" yaml:"context_expr"`
	OptionalVars Expression `json:"optional_vars" yaml:"optional_vars"`
}

// With is an (async) with statement.
type With struct {
	Loc
	Items   []*WithItem `json:"items" yaml:"items"`
	Body    *Block      `json:"body" yaml:"body"`
	IsAsync bool        `json:"is_async,omitempty" yaml:"is_async,omitempty"`
}

// ExceptHandler is one except (or except*) clause.
type ExceptHandler struct {
	Loc
	Type   Expression `json:"type" yaml:"type"`
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Body   *Block     `json:"body" yaml:"body"`
	IsStar bool       `json:"is_star,omitempty" yaml:"is_star,omitempty"`
}

// Try is try/except/else/finally.
type Try struct {
	Loc
	Body      *Block           `json:"body" yaml:"body"`
	Handlers  []*ExceptHandler `json:"handlers" yaml:"handlers"`
	OrElse    *Block           `json:"orelse" yaml:"orelse"`
	Finalbody *Block           `json:"finalbody" yaml:"finalbody"`
}

// Return is return [value].
type Return struct {
	Loc
	Value Expression `json:"value" yaml:"value"`
}

// Raise is raise [exc [from cause]].
type Raise struct {
	Loc
	Exc   Expression `json:"exc" yaml:"exc"`
	Cause Expression `json:"cause" yaml:"cause"`
}

// Del is del targets.
type Del struct {
	Loc
	Targets []Expression `json:"targets" yaml:"targets"`
}

// Assert is assert test [, msg].
type Assert struct {
	Loc
	Test Expression `json:"test" yaml:"test"`
	Msg  Expression `json:"msg" yaml:"msg"`
}

// Alias is a dotted name with an optional as-name in an import.
type Alias struct {
	Loc
	Name   string `json:"name" yaml:"name"`
	AsName string `json:"asname,omitempty" yaml:"asname,omitempty"`
}

// Import is import a.b [as c], ...
type Import struct {
	Loc
	Names []*Alias `json:"names" yaml:"names"`
}

// ImportFrom is from [dots]module import names. Level counts leading dots.
type ImportFrom struct {
	Loc
	Module   string   `json:"module,omitempty" yaml:"module,omitempty"`
	Level    int      `json:"level" yaml:"level"`
	Names    []*Alias `json:"names" yaml:"names"`
	Wildcard bool     `json:"wildcard,omitempty" yaml:"wildcard,omitempty"`
}

// Global is global names.
type Global struct {
	Loc
	Names []string `json:"names" yaml:"names"`
}

// Nonlocal is nonlocal names.
type Nonlocal struct {
	Loc
	Names []string `json:"names" yaml:"names"`
}

// Pass is pass.
type Pass struct{ Loc }

// Break is break.
type Break struct{ Loc }

// Continue is continue.
type Continue struct{ Loc }

// MatchCase is case pattern [if guard]: body.
// Patterns are kept as expressions; AsName holds a trailing "as name" capture.
type MatchCase struct {
	Loc
	Pattern Expression `json:"pattern" yaml:"pattern"`
	AsName  string     `json:"asname,omitempty" yaml:"asname,omitempty"`
	Guard   Expression `json:"guard" yaml:"guard"`
	Body    *Block     `json:"body" yaml:"body"`
}

// Match is match subject: cases.
type Match struct {
	Loc
	Subject Expression   `json:"subject" yaml:"subject"`
	Cases   []*MatchCase `json:"cases" yaml:"cases"`
}

func (*ExprStmt) stmtNode()    {}
func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*AnnAssign) stmtNode()   {}
func (*FunctionDef) stmtNode() {}
func (*ClassDef) stmtNode()    {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*With) stmtNode()        {}
func (*Try) stmtNode()         {}
func (*Return) stmtNode()      {}
func (*Raise) stmtNode()       {}
func (*Del) stmtNode()         {}
func (*Assert) stmtNode()      {}
func (*Import) stmtNode()      {}
func (*ImportFrom) stmtNode()  {}
func (*Global) stmtNode()      {}
func (*Nonlocal) stmtNode()    {}
func (*Pass) stmtNode()        {}
func (*Break) stmtNode()       {}
func (*Continue) stmtNode()    {}
func (*Match) stmtNode()       {}
