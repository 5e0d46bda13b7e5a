// Package python is the entry point to the sith front end: it tokenizes and
// parses Python source into a syntax tree plus diagnostics.
//
// All three functions are pure and safe to call concurrently on different
// inputs. None of them returns an error: problems in the source are reported
// as diagnostics next to a best-effort result.
package python

import (
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/LaBatata101/python-lsp/python/lexer"
	"github.com/LaBatata101/python-lsp/python/parser"
	"github.com/LaBatata101/python-lsp/python/token"
)

// Tokenize scans source into tokens. The sequence always ends with Eof.
func Tokenize(source string) ([]token.Token, diagnostic.List) {
	return lexer.Tokenize(source)
}

// Parse parses a whole module. Lexical diagnostics come first, followed by
// syntax diagnostics in source order of discovery.
func Parse(source string) (*ast.Module, diagnostic.List) {
	return parser.Parse(source)
}

// ParseExpression parses source as exactly one expression.
func ParseExpression(source string) (ast.Expression, diagnostic.List) {
	return parser.ParseExpression(source)
}

// Result bundles everything one pass over a document produces.
type Result struct {
	Tokens      []token.Token
	Module      *ast.Module
	Diagnostics diagnostic.List
}

// Analyze tokenizes once and parses the resulting tokens, keeping both.
// Callers that need tokens and tree together (the language service, the
// CLI's --tokens flag) use it to avoid scanning twice.
func Analyze(source string) Result {
	tokens, lexDiags := lexer.Tokenize(source)
	module, parseDiags := parser.New(tokens).ParseModule()

	var diags diagnostic.List
	diags.Extend(lexDiags...)
	diags.Extend(parseDiags...)
	return Result{Tokens: tokens, Module: module, Diagnostics: diags}
}
