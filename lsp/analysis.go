package lsp

import (
	"time"

	"github.com/LaBatata101/python-lsp/python"
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/LaBatata101/python-lsp/python/token"
)

// Analysis is the cached result of parsing one version of a document.
// It is never mutated after analyze returns; a new version gets a new Analysis.
type Analysis struct {
	Version     int32
	Tokens      []token.Token
	Module      *ast.Module
	Diagnostics diagnostic.List
	Lines       *LineIndex
	Duration    time.Duration
}

func analyze(version int32, text string) *Analysis {
	start := time.Now()
	res := python.Analyze(text)
	return &Analysis{
		Version:     version,
		Tokens:      res.Tokens,
		Module:      res.Module,
		Diagnostics: res.Diagnostics,
		Lines:       NewLineIndex(text),
		Duration:    time.Since(start),
	}
}

// TokenAt returns the index of the token covering the 1-based row and column,
// or -1. Layout tokens are never returned.
func (a *Analysis) TokenAt(row, column int) int {
	for i, tok := range a.Tokens {
		if tok.Kind.IsStructural() {
			continue
		}
		if tok.Span.RowStart > row {
			break
		}
		if tok.Span.Contains(row, column) {
			return i
		}
	}
	return -1
}
