package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) (*ast.Module, diagnostic.List) {
	t.Helper()
	var (
		module *ast.Module
		diags  diagnostic.List
	)
	require.NotPanics(t, func() { module, diags = Parse(source) })
	require.NotNil(t, module)
	return module, diags
}

func parseClean(t *testing.T, source string) *ast.Module {
	t.Helper()
	module, diags := parse(t, source)
	require.Empty(t, diags, "unexpected diagnostics:\n%s", diags)
	return module
}

func only[T ast.Statement](t *testing.T, module *ast.Module) T {
	t.Helper()
	require.Len(t, module.Body, 1)
	stmt, ok := module.Body[0].(T)
	require.True(t, ok, "got %T", module.Body[0])
	return stmt
}

// sexpr renders an expression as a prefix form so precedence is visible.
func sexpr(e ast.Expression) string {
	switch n := e.(type) {
	case nil:
		return "_"
	case *ast.Name:
		return n.ID
	case *ast.NumberLit:
		return n.Value
	case *ast.StringLit:
		return fmt.Sprintf("%q", n.Value)
	case *ast.BoolLit:
		return fmt.Sprint(n.Value)
	case *ast.NoneLit:
		return "None"
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s)", n.Op, sexpr(n.Left), sexpr(n.Right))
	case *ast.UnaryOp:
		return fmt.Sprintf("(%s %s)", n.Op, sexpr(n.Operand))
	case *ast.IfExp:
		return fmt.Sprintf("(if %s %s %s)", sexpr(n.Test), sexpr(n.Body), sexpr(n.OrElse))
	case *ast.NamedExpr:
		return fmt.Sprintf("(:= %s %s)", sexpr(n.Target), sexpr(n.Value))
	case *ast.Attribute:
		return fmt.Sprintf("(. %s %s)", sexpr(n.Value), n.Attr)
	case *ast.Subscript:
		return fmt.Sprintf("([] %s %s)", sexpr(n.Value), sexpr(n.Index))
	case *ast.Slice:
		return fmt.Sprintf("(: %s %s %s)", sexpr(n.Lower), sexpr(n.Upper), sexpr(n.Step))
	case *ast.Starred:
		return "*" + sexpr(n.Value)
	case *ast.DoubleStarred:
		return "**" + sexpr(n.Value)
	case *ast.Keyword:
		return n.Arg + "=" + sexpr(n.Value)
	case *ast.Call:
		return fmt.Sprintf("(call %s)", strings.Join(append([]string{sexpr(n.Func)}, list(n.Args)...), " "))
	case *ast.Tuple:
		return fmt.Sprintf("(tuple %s)", strings.Join(list(n.Elts), " "))
	case *ast.List:
		return fmt.Sprintf("[%s]", strings.Join(list(n.Elts), " "))
	case *ast.Lambda:
		names := make([]string, len(n.Params))
		for i, prm := range n.Params {
			names[i] = prm.Name
		}
		return fmt.Sprintf("(lambda %s %s)", strings.Join(names, ","), sexpr(n.Body))
	}
	return ast.TypeName(e)
}

func list(exprs []ast.Expression) []string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = sexpr(e)
	}
	return out
}

func TestAssignParenthesizedTuple(t *testing.T) {
	module := parseClean(t, "x = (1, 2, 3)\n")
	assign := only[*ast.Assign](t, module)

	require.Len(t, assign.Targets, 1)
	assert.Equal(t, "x", sexpr(assign.Targets[0]))

	tuple, ok := assign.Value.(*ast.Tuple)
	require.True(t, ok, "got %T", assign.Value)
	assert.Equal(t, []string{"1", "2", "3"}, list(tuple.Elts))
	assert.Equal(t, "1:5-1:13", tuple.Span().String())
	assert.Equal(t, "1:1-1:13", assign.Span().String())
}

func TestDestructuringTargets(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"(x, y) = (1, 2, 3)\n", "Tuple"},
		{"[x, y] = (1, 2, 3)\n", "List"},
		{"x.y = (1, 2, 3)\n", "Attribute"},
		{"x[y] = (1, 2, 3)\n", "Subscript"},
		{"(x, *y) = (1, 2, 3)\n", "Tuple"},
		{"x, y = 1, 2\n", "Tuple"},
		{"*a, b = c\n", "Tuple"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assign := only[*ast.Assign](t, parseClean(t, tt.source))
			require.Len(t, assign.Targets, 1)
			assert.Equal(t, tt.want, ast.TypeName(assign.Targets[0]))
		})
	}
}

func TestChainedAssignment(t *testing.T) {
	assign := only[*ast.Assign](t, parseClean(t, "a = b = 1\n"))
	assert.Equal(t, []string{"a", "b"}, list(assign.Targets))
	assert.Equal(t, "1", sexpr(assign.Value))
}

func TestInvalidAssignmentTargets(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{"1 = x\n", "cannot assign to literal"},
		{"f() = x\n", "cannot assign to function call"},
		{"a + b = c\n", "cannot assign to expression"},
		{"(a, 1) = c\n", "cannot assign to literal"},
		{"f() += 1\n", "function call is an illegal expression for augmented assignment"},
		{"del 1\n", "cannot delete literal"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, diags := parse(t, tt.source)
			require.Len(t, diags, 1, "%s", diags)
			assert.Equal(t, diagnostic.KindSyntax, diags[0].Kind)
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}
}

func TestFunctionDefEndToEnd(t *testing.T) {
	module := parseClean(t, "def f(x, y=1):\n    return x + y\n")
	fn := only[*ast.FunctionDef](t, module)

	assert.Equal(t, "f", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "x", fn.Params[0].Name)
	assert.Nil(t, fn.Params[0].Default)
	assert.Equal(t, "y", fn.Params[1].Name)
	assert.Equal(t, "1", sexpr(fn.Params[1].Default))

	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.Return)
	require.True(t, ok, "got %T", fn.Body.Stmts[0])
	binop, ok := ret.Value.(*ast.BinaryOp)
	require.True(t, ok, "got %T", ret.Value)
	assert.Equal(t, ast.Add, binop.Op)
	assert.Equal(t, "(+ x y)", sexpr(binop))
}

func TestWalrusAtStatementStart(t *testing.T) {
	module, diags := parse(t, ":= 1\nx = 2\n")
	require.Len(t, diags, 1)
	assert.Equal(t, diagnostic.KindSyntax, diags[0].Kind)

	require.Len(t, module.Body, 2)
	assert.IsType(t, &ast.Invalid{}, module.Body[0])
	assert.IsType(t, &ast.Assign{}, module.Body[1])
}

func TestUnparenthesizedWalrusStatement(t *testing.T) {
	module, diags := parse(t, "x := 1\ny = 2\n")
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "':='")
	assert.Len(t, module.Body, 2)
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"a - b - c", "(- (- a b) c)"},
		{"2 ** 3 ** 4", "(** 2 (** 3 4))"},
		{"-x ** 2", "(- (** x 2))"},
		{"~x + 1", "(+ (~ x) 1)"},
		{"not a and b", "(and (not a) b)"},
		{"a or b and c", "(or a (and b c))"},
		{"a not in b", "(not in a b)"},
		{"a is not b", "(is not a b)"},
		{"a | b ^ c & d << e", "(| a (^ b (& c (<< d e))))"},
		{"a @ b // c % d", "(% (// (@ a b) c) d)"},
		{"a if b else c if d else e", "(if b a (if d c e))"},
		{"await x ** 2", "(** (await x) 2)"},
		{"f(x)[0].y", "(. ([] (call f x) 0) y)"},
		{"lambda x, y: x + y", "(lambda x,y (+ x y))"},
		{"lambda: a if b else c", "(lambda  (if b a c))"},
		{"x := 1 + 2", "(:= x (+ 1 2))"},
		{"a[1:2, ::3]", "([] a (tuple (: 1 2 _) (: _ _ 3)))"},
		{"f(a, b=1, *c, **d)", "(call f a b=1 *c **d)"},
		{"1, 2", "(tuple 1 2)"},
		{"(1,)", "(tuple 1)"},
		{"()", "(tuple )"},
		{"[1, *a]", "[1 *a]"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr, diags := ParseExpression(tt.source)
			require.Empty(t, diags, "%s", diags)
			assert.Equal(t, tt.want, sexpr(expr))
		})
	}
}

func TestParenthesizedExpressionKeepsInnerSpan(t *testing.T) {
	expr, diags := ParseExpression("(a)")
	require.Empty(t, diags)
	assert.Equal(t, "1:2-1:2", expr.Span().String())
}

func TestDisplaysAndComprehensions(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"{}", "Dict"},
		{"{1: 2, **rest}", "Dict"},
		{"{1, 2}", "Set"},
		{"[x for x in y if x]", "ListComp"},
		{"{x for x in y}", "SetComp"},
		{"{k: v for k, v in items}", "DictComp"},
		{"(x for x in y)", "GeneratorExp"},
		{"[x async for x in y for z in x]", "ListComp"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			expr, diags := ParseExpression(tt.source)
			require.Empty(t, diags, "%s", diags)
			assert.Equal(t, tt.want, ast.TypeName(expr))
		})
	}

	expr, _ := ParseExpression("{k: v for k, v in items if k if v}")
	comp := expr.(*ast.DictComp)
	require.Len(t, comp.Generators, 1)
	assert.Equal(t, "(tuple k v)", sexpr(comp.Generators[0].Target))
	assert.Len(t, comp.Generators[0].Ifs, 2)

	expr, _ = ParseExpression("f(x for x in y)")
	call := expr.(*ast.Call)
	require.Len(t, call.Args, 1)
	assert.IsType(t, &ast.GeneratorExp{}, call.Args[0])
}

func TestDoubleStarInsideParens(t *testing.T) {
	_, diags := ParseExpression("(**a)")
	assert.NotEmpty(t, diags)
}

func TestCompoundStatements(t *testing.T) {
	source := `if a:
    pass
elif b:
    pass
else:
    pass
while x:
    break
else:
    continue
for i, j in pairs:
    pass
else:
    pass
with open(p) as f, lock:
    pass
with (open(p) as f, lock):
    pass
try:
    pass
except ValueError as e:
    pass
except (A, B):
    pass
else:
    pass
finally:
    pass
class C(Base, metaclass=M):
    x: int = 1
@decorator
@other(arg)
async def g(a, /, b, *, c, **kw) -> int:
    await h()
`
	module := parseClean(t, source)
	var names []string
	for _, stmt := range module.Body {
		names = append(names, ast.TypeName(stmt))
	}
	assert.Equal(t, []string{"If", "While", "For", "With", "With", "Try", "ClassDef", "FunctionDef"}, names)

	ifStmt := module.Body[0].(*ast.If)
	assert.Len(t, ifStmt.Elifs, 1)
	assert.NotNil(t, ifStmt.OrElse)

	with := module.Body[4].(*ast.With)
	require.Len(t, with.Items, 2)
	assert.Equal(t, "f", sexpr(with.Items[0].OptionalVars))

	try := module.Body[5].(*ast.Try)
	assert.Len(t, try.Handlers, 2)
	assert.Equal(t, "e", try.Handlers[0].Name)
	assert.NotNil(t, try.OrElse)
	assert.NotNil(t, try.Finalbody)

	class := module.Body[6].(*ast.ClassDef)
	assert.Equal(t, []string{"Base", "metaclass=M"}, list(class.Bases))
	assert.IsType(t, &ast.AnnAssign{}, class.Body.Stmts[0])

	fn := module.Body[7].(*ast.FunctionDef)
	assert.True(t, fn.IsAsync)
	assert.Len(t, fn.Decorators, 2)
	assert.Equal(t, "int", sexpr(fn.Returns))
	require.Len(t, fn.Params, 4)
	assert.True(t, fn.Params[0].PositionalOnly)
	assert.False(t, fn.Params[1].PositionalOnly)
	assert.True(t, fn.Params[2].KeywordOnly)
	assert.Equal(t, ast.ParamKwArg, fn.Params[3].Kind)
	assert.Equal(t, "1:1-34:13", module.Span().String())
}

func TestInlineBlock(t *testing.T) {
	module := parseClean(t, "if x: a = 1; b = 2\nc\n")
	require.Len(t, module.Body, 2)
	ifStmt := module.Body[0].(*ast.If)
	assert.Len(t, ifStmt.Body.Stmts, 2)
}

func TestSimpleStatements(t *testing.T) {
	source := `import os, a.b as c
from . import x
from ..pkg.mod import (y, z as w,)
from m import *
global g, h
nonlocal n
raise E from cause
del a, b[0]
assert x, "message"
return
x += 1
y: list[int]
`
	module := parseClean(t, source)
	var names []string
	for _, stmt := range module.Body {
		names = append(names, ast.TypeName(stmt))
	}
	assert.Equal(t, []string{
		"Import", "ImportFrom", "ImportFrom", "ImportFrom", "Global", "Nonlocal",
		"Raise", "Del", "Assert", "Return", "AugAssign", "AnnAssign",
	}, names)

	imp := module.Body[0].(*ast.Import)
	require.Len(t, imp.Names, 2)
	assert.Equal(t, "a.b", imp.Names[1].Name)
	assert.Equal(t, "c", imp.Names[1].AsName)

	rel := module.Body[2].(*ast.ImportFrom)
	assert.Equal(t, 2, rel.Level)
	assert.Equal(t, "pkg.mod", rel.Module)
	assert.Len(t, rel.Names, 2)
	assert.True(t, module.Body[3].(*ast.ImportFrom).Wildcard)

	assert.Len(t, module.Body[7].(*ast.Del).Targets, 2)
	assert.Equal(t, ast.Add, module.Body[10].(*ast.AugAssign).Op)
}

func TestMatchStatement(t *testing.T) {
	source := `match command:
    case [x, y]:
        pass
    case Point(x=0) | None if flag:
        pass
    case {"k": v} as whole:
        pass
    case _:
        pass
`
	match := only[*ast.Match](t, parseClean(t, source))
	assert.Equal(t, "command", sexpr(match.Subject))
	require.Len(t, match.Cases, 4)
	assert.Equal(t, "flag", sexpr(match.Cases[1].Guard))
	assert.Equal(t, "whole", match.Cases[2].AsName)
	assert.Equal(t, "_", sexpr(match.Cases[3].Pattern))
}

func TestMatchAsIdentifier(t *testing.T) {
	module := parseClean(t, "match = 1\nmatch.x(2)\nmatch(a)\n")
	require.Len(t, module.Body, 3)
	assert.IsType(t, &ast.Assign{}, module.Body[0])
	assert.IsType(t, &ast.ExprStmt{}, module.Body[1])
	assert.IsType(t, &ast.ExprStmt{}, module.Body[2])
}

func TestIndentationDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		source string
		stmts  int
	}{
		{"unexpected indent", "x = 1\n    y = 2\nz = 3\n", 3},
		{"missing indented block", "if x:\npass\n", 1},
		{"block at end of file", "def f():\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, diags := parse(t, tt.source)
			require.Len(t, diags, 1, "%s", diags)
			assert.Equal(t, diagnostic.KindIndentation, diags[0].Kind)
			assert.Len(t, module.Body, tt.stmts)
		})
	}
}

func TestStrayIndentInsideBlock(t *testing.T) {
	module, diags := parse(t, "x = 0\n    if a:\n        b = 1\n    c = 2\nd = 3\n")
	require.Len(t, diags, 1, "%s", diags)
	assert.Equal(t, diagnostic.KindIndentation, diags[0].Kind)

	require.Len(t, module.Body, 4)
	assert.IsType(t, &ast.Assign{}, module.Body[0])
	ifStmt, ok := module.Body[1].(*ast.If)
	require.True(t, ok, "got %T", module.Body[1])
	require.Len(t, ifStmt.Body.Stmts, 1)
	assert.Equal(t, "b", sexpr(ifStmt.Body.Stmts[0].(*ast.Assign).Targets[0]))
	assert.Equal(t, "c", sexpr(module.Body[2].(*ast.Assign).Targets[0]))
	assert.Equal(t, "d", sexpr(module.Body[3].(*ast.Assign).Targets[0]))
}

func TestStrayIndentInsideFunction(t *testing.T) {
	module, diags := parse(t, "def f():\n    a = 1\n        b = 2\n    c = 3\nd = 4\n")
	require.Len(t, diags, 1, "%s", diags)
	assert.Equal(t, diagnostic.KindIndentation, diags[0].Kind)

	require.Len(t, module.Body, 2)
	fn, ok := module.Body[0].(*ast.FunctionDef)
	require.True(t, ok, "got %T", module.Body[0])
	assert.Len(t, fn.Body.Stmts, 3)
	assert.IsType(t, &ast.Assign{}, module.Body[1])
}

func TestUnparenthesizedComprehensionTarget(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"list", "[x, y for x in z]\n", "did you forget parentheses around the comprehension target?"},
		{"set", "{x, y for x in z}\n", "did you forget parentheses around the comprehension target?"},
		{"generator", "(x, y for x in z)\n", "tuple is not allowed inside generator comprehension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, diags := parse(t, tt.source+"w = 1\n")
			require.Len(t, diags, 1, "%s", diags)
			assert.Equal(t, tt.message, diags[0].Message)

			require.Len(t, module.Body, 2)
			var elt ast.Expression
			switch e := module.Body[0].(*ast.ExprStmt).Value.(type) {
			case *ast.ListComp:
				elt = e.Elt
			case *ast.SetComp:
				elt = e.Elt
			case *ast.GeneratorExp:
				elt = e.Elt
			default:
				t.Fatalf("got %T", e)
			}
			require.IsType(t, &ast.Tuple{}, elt)
			assert.Len(t, elt.(*ast.Tuple).Elts, 2)
			assert.Equal(t, elt.Span(), diags[0].Span)
			assert.IsType(t, &ast.Assign{}, module.Body[1])
		})
	}
}

func TestStarredInsideParens(t *testing.T) {
	for _, source := range []string{"(*a)\n", "x = (*a)\n"} {
		t.Run(source, func(t *testing.T) {
			_, diags := parse(t, source)
			require.Len(t, diags, 1, "%s", diags)
			assert.Equal(t, "cannot use starred expression inside parenthesis", diags[0].Message)
		})
	}
	parseClean(t, "x = (*a,)\n(*a, b) = c\n")
}

func TestCallArgumentOrder(t *testing.T) {
	tests := []struct {
		source  string
		message string
	}{
		{"f(x=1, 2)\n", "positional argument follows keyword argument"},
		{"f(**k, 2)\n", "positional argument follows keyword argument unpacking"},
		{"f(**k, *a)\n", "iterable argument unpacking follows keyword argument unpacking"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, diags := parse(t, tt.source)
			require.Len(t, diags, 1, "%s", diags)
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}
	parseClean(t, "f(a, *b, c=1, *d, **e, g=2)\n")
}

func TestSyntaxRecovery(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{"tuple annotation", "a, b: int = 1, 2\n", "only single target (not tuple) can be annotated"},
		{"try without handlers", "try:\n    pass\nx = 1\n", "expected 'except' or 'finally' block"},
		{"orphan else", "else:\n    pass\n", "invalid syntax: 'else' without a matching statement"},
		{"default before plain", "def f(a=1, b):\n    pass\n", "non-default argument follows default argument"},
		{"slash first", "def f(/, a):\n    pass\n", "at least one argument must precede /"},
		{"two stars", "def f(*a, *b):\n    pass\n", "* argument may appear only once"},
		{"bare star", "def f(a, *):\n    pass\n", "named arguments must follow bare *"},
		{"junk after statement", "x = 1 2\n", "invalid syntax: unexpected number '2'"},
		{"unclosed call", "f(a\n", "invalid syntax: expected ')', found end of file"},
		{"missing else", "a if b\n", "invalid syntax: expected 'else' after 'if' expression, found newline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := parse(t, tt.source)
			require.NotEmpty(t, diags)
			var messages []string
			for _, d := range diags {
				messages = append(messages, d.Message)
			}
			assert.Contains(t, messages, tt.message)
		})
	}
}

func TestRecoveryKeepsLaterStatements(t *testing.T) {
	module, diags := parse(t, "x = = 1\ny = 2\ndef f(:\n    pass\nz = 3\n")
	assert.NotEmpty(t, diags)

	var assigns []string
	ast.Walk(module, func(n ast.Node) bool {
		if a, ok := n.(*ast.Assign); ok {
			assigns = append(assigns, sexpr(a.Targets[0]))
		}
		return true
	})
	assert.Contains(t, assigns, "y")
	assert.Contains(t, assigns, "z")
}

func TestGarbageNeverPanics(t *testing.T) {
	inputs := []string{
		"", "\n\n", ")", "((((", "]]]]", "def", "class", "if", "@", "async", "lambda",
		"x = (", "[1, 2", "{1: ", "f(**", "a[::", "import", "from", "from . import (",
		"match x:\n", "match x:\n    case", "try:", "with (a as b", "    \n  x\n y\n",
		"x = yield", "for in :", "del", "raise from", "not", "await", "*", "**", ":=",
		"!@#$%^&*", "'unterminated", "\"\"\"doc", "0b", "1e", "x.", "x.1", "else", "elif x",
		"def f(a, b", "def f(*, **):", "class C(:", "lambda *:", "case = 1",
	}
	for _, source := range inputs {
		t.Run(fmt.Sprintf("%q", source), func(t *testing.T) {
			parse(t, source)
			require.NotPanics(t, func() { ParseExpression(source) })
		})
	}
}

func TestEveryPrefixParses(t *testing.T) {
	source := "@dec\nclass A(B):\n    def m(self, *args, k=1, **kw):\n        return [x for x in args if x] or {k: kw}\n"
	for i := range source {
		parse(t, source[:i])
	}
}

func TestParseExpressionRejectsTrailingTokens(t *testing.T) {
	_, diags := ParseExpression("a b")
	assert.NotEmpty(t, diags)

	_, diags = ParseExpression("a = 1")
	assert.NotEmpty(t, diags)
}

func TestLexerDiagnosticsComeFirst(t *testing.T) {
	_, diags := parse(t, "x = 0b2\ny = (\n")
	require.GreaterOrEqual(t, len(diags), 2)
	assert.Equal(t, 1, diags[0].Span.RowStart)
}
