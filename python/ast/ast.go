// Package ast defines the syntax tree produced by the parser.
//
// Every node carries its own span. Failed constructs are represented by
// Invalid nodes so the tree keeps its shape for callers that walk it.
package ast

import "github.com/LaBatata101/python-lsp/python/token"

// Node is implemented by every tree node.
type Node interface {
	Span() token.Span
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Statement is a node that appears in a block.
type Statement interface {
	Node
	stmtNode()
}

// Loc is embedded by nodes to carry their span.
type Loc struct {
	Range token.Span `json:"span" yaml:"span"`
}

func (l Loc) Span() token.Span { return l.Range }

// At builds a Loc for span.
func At(span token.Span) Loc { return Loc{Range: span} }

// Module is the root of a parsed file.
type Module struct {
	Loc
	Body []Statement `json:"body" yaml:"body"`
}

// Block is the indented body of a compound statement.
type Block struct {
	Loc
	Stmts []Statement `json:"stmts" yaml:"stmts"`
}

// Invalid stands in for an expression or statement that failed to parse.
type Invalid struct {
	Loc
}

func (*Invalid) exprNode() {}
func (*Invalid) stmtNode() {}
