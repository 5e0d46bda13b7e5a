package display

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// RenderTree renders a syntax tree as an indented outline, one node per line
// with its span.
func RenderTree(root ast.Node) (string, error) {
	var items pterm.LeveledList
	collect(root, 0, &items)
	if len(items) == 0 {
		return "", nil
	}
	return pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(items)).Srender()
}

func collect(n ast.Node, level int, items *pterm.LeveledList) {
	*items = append(*items, pterm.LeveledListItem{Level: level, Text: NodeLabel(n)})
	for _, child := range ast.Children(n) {
		collect(child, level+1, items)
	}
}

// NodeLabel describes a node on one line: its type, the detail that tells
// nodes of that type apart, and its span.
func NodeLabel(n ast.Node) string {
	label := ast.TypeName(n)
	if detail := nodeDetail(n); detail != "" {
		label += " " + detail
	}
	return label + " " + pterm.Gray(n.Span().String())
}

func nodeDetail(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Name:
		return n.ID
	case *ast.StringLit:
		return n.Prefix + strconv.Quote(n.Value)
	case *ast.NumberLit:
		return fmt.Sprintf("%s (%s)", n.Value, n.Kind)
	case *ast.BoolLit:
		if n.Value {
			return "True"
		}
		return "False"
	case *ast.BinaryOp:
		return string(n.Op)
	case *ast.UnaryOp:
		return string(n.Op)
	case *ast.AugAssign:
		return string(n.Op) + "="
	case *ast.Attribute:
		return "." + n.Attr
	case *ast.Keyword:
		return n.Arg + "="
	case *ast.Parameter:
		return paramLabel(n)
	case *ast.FunctionDef:
		if n.IsAsync {
			return "async " + n.Name
		}
		return n.Name
	case *ast.ClassDef:
		return n.Name
	case *ast.Alias:
		if n.AsName != "" {
			return n.Name + " as " + n.AsName
		}
		return n.Name
	case *ast.ImportFrom:
		module := strings.Repeat(".", n.Level) + n.Module
		if n.Wildcard {
			return module + " *"
		}
		return module
	case *ast.Global:
		return strings.Join(n.Names, ", ")
	case *ast.Nonlocal:
		return strings.Join(n.Names, ", ")
	case *ast.ExceptHandler:
		if n.Name != "" {
			return "as " + n.Name
		}
	case *ast.MatchCase:
		if n.AsName != "" {
			return "as " + n.AsName
		}
	}
	return ""
}

func paramLabel(p *ast.Parameter) string {
	switch p.Kind {
	case ast.ParamVarArg:
		return "*" + p.Name
	case ast.ParamKwArg:
		return "**" + p.Name
	}
	return p.Name
}

// FormatToken renders one token as "row:col-row:col Kind value".
func FormatToken(tok token.Token) string {
	line := fmt.Sprintf("%-15s %-14s", tok.Span, tok.Kind)
	switch tok.Kind {
	case token.Identifier, token.Number:
		line += " " + tok.Value
	case token.String:
		line += " " + tok.Prefix + strconv.Quote(tok.Value)
	case token.Invalid:
		line += " " + strconv.Quote(tok.Value)
	}
	return strings.TrimRight(line, " ")
}
