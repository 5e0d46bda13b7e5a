package lsp

import (
	"strings"

	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// DocumentSymbol is one entry of the document outline.
type DocumentSymbol struct {
	Name           string           `json:"name"`
	Detail         string           `json:"detail,omitempty"`
	Kind           int              `json:"kind"`
	Range          Range            `json:"range"`
	SelectionRange Range            `json:"selectionRange"`
	Children       []DocumentSymbol `json:"children,omitempty"`
}

// symbolsIn builds the outline of a statement list. Compound statements are
// entered so definitions under if/try/with still show up; function bodies are not.
func symbolsIn(stmts []ast.Statement, lines *LineIndex, inClass bool) []DocumentSymbol {
	var out []DocumentSymbol
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDef:
			if s.Name == "" {
				continue
			}
			kind := SymbolKindFunction
			if inClass {
				kind = SymbolKindMethod
			}
			out = append(out, DocumentSymbol{
				Name:           s.Name,
				Detail:         FunctionSignature(s, lines),
				Kind:           kind,
				Range:          lines.Range(s.Span()),
				SelectionRange: lines.Range(s.NameSpan.Span()),
			})

		case *ast.ClassDef:
			if s.Name == "" {
				continue
			}
			sym := DocumentSymbol{
				Name:           s.Name,
				Detail:         ClassSignature(s, lines),
				Kind:           SymbolKindClass,
				Range:          lines.Range(s.Span()),
				SelectionRange: lines.Range(s.NameSpan.Span()),
			}
			if s.Body != nil {
				sym.Children = symbolsIn(s.Body.Stmts, lines, true)
			}
			out = append(out, sym)

		case *ast.Assign:
			for _, target := range s.Targets {
				out = append(out, variableSymbols(target, lines, inClass)...)
			}
		case *ast.AnnAssign:
			out = append(out, variableSymbols(s.Target, lines, inClass)...)

		default:
			for _, block := range nestedBlocks(stmt) {
				out = append(out, symbolsIn(block.Stmts, lines, inClass)...)
			}
		}
	}
	return out
}

func variableSymbols(target ast.Expression, lines *LineIndex, inClass bool) []DocumentSymbol {
	kind := SymbolKindVariable
	if inClass {
		kind = SymbolKindField
	}
	var out []DocumentSymbol
	for _, name := range targetNames(target) {
		r := lines.Range(name.Span())
		out = append(out, DocumentSymbol{Name: name.ID, Kind: kind, Range: r, SelectionRange: r})
	}
	return out
}

// targetNames returns the plain names bound by an assignment target,
// unpacking tuples, lists and starred elements.
func targetNames(e ast.Expression) []*ast.Name {
	switch e := e.(type) {
	case *ast.Name:
		return []*ast.Name{e}
	case *ast.Tuple:
		var out []*ast.Name
		for _, elt := range e.Elts {
			out = append(out, targetNames(elt)...)
		}
		return out
	case *ast.List:
		var out []*ast.Name
		for _, elt := range e.Elts {
			out = append(out, targetNames(elt)...)
		}
		return out
	case *ast.Starred:
		return targetNames(e.Value)
	}
	return nil
}

// nestedBlocks lists the blocks of a compound statement other than a def or class.
func nestedBlocks(stmt ast.Statement) []*ast.Block {
	var blocks []*ast.Block
	add := func(b *ast.Block) {
		if b != nil {
			blocks = append(blocks, b)
		}
	}
	switch s := stmt.(type) {
	case *ast.If:
		add(s.Body)
		for _, elif := range s.Elifs {
			add(elif.Body)
		}
		add(s.OrElse)
	case *ast.While:
		add(s.Body)
		add(s.OrElse)
	case *ast.For:
		add(s.Body)
		add(s.OrElse)
	case *ast.With:
		add(s.Body)
	case *ast.Try:
		add(s.Body)
		for _, h := range s.Handlers {
			add(h.Body)
		}
		add(s.OrElse)
		add(s.Finalbody)
	case *ast.Match:
		for _, c := range s.Cases {
			add(c.Body)
		}
	}
	return blocks
}

// FunctionSignature renders the header line of a def from its source text,
// e.g. "def f(a, /, b: int = 1, *, c, **kw) -> str".
func FunctionSignature(fn *ast.FunctionDef, lines *LineIndex) string {
	var b strings.Builder
	if fn.IsAsync {
		b.WriteString("async ")
	}
	b.WriteString("def ")
	b.WriteString(fn.Name)
	b.WriteByte('(')

	var parts []string
	sawStar := false
	for i, p := range fn.Params {
		if p.KeywordOnly && !sawStar {
			parts = append(parts, "*")
			sawStar = true
		}
		if p.Kind == ast.ParamVarArg {
			sawStar = true
		}
		parts = append(parts, paramText(p, lines))
		if p.PositionalOnly && (i+1 == len(fn.Params) || !fn.Params[i+1].PositionalOnly) {
			parts = append(parts, "/")
		}
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteByte(')')

	if fn.Returns != nil {
		b.WriteString(" -> ")
		b.WriteString(exprText(fn.Returns, lines))
	}
	return b.String()
}

func paramText(p *ast.Parameter, lines *LineIndex) string {
	var b strings.Builder
	switch p.Kind {
	case ast.ParamVarArg:
		b.WriteByte('*')
	case ast.ParamKwArg:
		b.WriteString("**")
	}
	b.WriteString(p.Name)
	if p.Annotation != nil {
		b.WriteString(": ")
		b.WriteString(exprText(p.Annotation, lines))
	}
	if p.Default != nil {
		if p.Annotation != nil {
			b.WriteString(" = ")
		} else {
			b.WriteByte('=')
		}
		b.WriteString(exprText(p.Default, lines))
	}
	return b.String()
}

// ClassSignature renders "class Name(Base, ...)".
func ClassSignature(cls *ast.ClassDef, lines *LineIndex) string {
	if len(cls.Bases) == 0 {
		return "class " + cls.Name
	}
	bases := make([]string, len(cls.Bases))
	for i, base := range cls.Bases {
		bases[i] = exprText(base, lines)
	}
	return "class " + cls.Name + "(" + strings.Join(bases, ", ") + ")"
}

// exprText returns the source of an expression with line breaks collapsed.
func exprText(e ast.Expression, lines *LineIndex) string {
	return strings.Join(strings.Fields(lines.Text(e.Span())), " ")
}

// definition is a name bound by a def, a class or a module-level assignment.
type definition struct {
	node     ast.Node
	nameSpan token.Span
}

// definitions indexes the first binding of each name. Defs and classes are
// found at any depth; assignments only at module level.
func definitions(module *ast.Module) map[string]definition {
	defs := make(map[string]definition)
	if module == nil {
		return defs
	}
	ast.Walk(module, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FunctionDef:
			if _, seen := defs[n.Name]; !seen && n.Name != "" {
				defs[n.Name] = definition{node: n, nameSpan: n.NameSpan.Span()}
			}
		case *ast.ClassDef:
			if _, seen := defs[n.Name]; !seen && n.Name != "" {
				defs[n.Name] = definition{node: n, nameSpan: n.NameSpan.Span()}
			}
		}
		return true
	})
	for _, stmt := range module.Body {
		var targets []ast.Expression
		switch s := stmt.(type) {
		case *ast.Assign:
			targets = s.Targets
		case *ast.AnnAssign:
			targets = []ast.Expression{s.Target}
		}
		for _, target := range targets {
			for _, name := range targetNames(target) {
				if _, seen := defs[name.ID]; !seen {
					defs[name.ID] = definition{node: name, nameSpan: name.Span()}
				}
			}
		}
	}
	return defs
}
