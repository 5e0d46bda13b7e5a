// Package lsp provides the language intelligence behind the editor server:
// an open-document session and a service that turns parse results into
// diagnostics, semantic tokens, an outline, hovers and definitions.
//
// Positions here are already in protocol units (zero-based lines, UTF-16
// columns); the server package only maps these types onto the wire types.
package lsp

import (
	"fmt"
	"sort"
	"sync"

	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/token"
)

// Options tune what the service reports. They can change while the server runs.
type Options struct {
	MaxDiagnostics int  // zero means unlimited
	SemanticTokens bool // false disables semantic highlighting
}

// Service answers language queries against document snapshots.
type Service struct {
	mu   sync.RWMutex
	opts Options
}

// NewService creates a language service.
func NewService(opts Options) *Service {
	return &Service{opts: opts}
}

// SetOptions replaces the options for subsequent requests.
func (s *Service) SetOptions(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.mu.Unlock()
}

// Options returns the current options.
func (s *Service) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// Severity levels, numbered as the editor protocol numbers them.
const (
	SeverityError   = 1
	SeverityWarning = 2
)

// Diagnostic is a parse problem positioned for the editor.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Code     string `json:"code"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// Diagnostics converts the document's parse diagnostics, truncated to the
// configured maximum.
func (s *Service) Diagnostics(doc *Document) []Diagnostic {
	a := doc.Analysis
	limit := s.Options().MaxDiagnostics

	out := make([]Diagnostic, 0, len(a.Diagnostics))
	for _, d := range a.Diagnostics {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, Diagnostic{
			Range:    a.Lines.Range(d.Span),
			Severity: SeverityError,
			Code:     string(d.Kind),
			Source:   DiagnosticSource,
			Message:  d.Message,
		})
	}
	return out
}

// semanticToken is one highlighted range on a single line.
type semanticToken struct {
	line, start, length uint32
	tokenType           uint32
}

// SemanticTokens returns the document's tokens delta-encoded as 5-tuples of
// (deltaLine, deltaStart, length, tokenType, modifiers). It returns nil when
// semantic highlighting is disabled.
func (s *Service) SemanticTokens(doc *Document) []uint32 {
	if !s.Options().SemanticTokens {
		return nil
	}
	a := doc.Analysis
	roles := classify(a.Module)

	var tokens []semanticToken
	pendingParam := false
	for _, tok := range a.Tokens {
		key := startOf(tok.Span)
		if roles.paramStarts[key] {
			if tok.Kind.IsName() {
				tokens = appendSplit(tokens, a.Lines, tok.Span, TokenTypeParameter)
				continue
			}
			// *args and **kwargs: the name follows the star
			pendingParam = true
		} else if pendingParam && tok.Kind.IsName() {
			pendingParam = false
			tokens = appendSplit(tokens, a.Lines, tok.Span, TokenTypeParameter)
			continue
		}

		tokenType, ok := roles.tokenType(tok, key)
		if !ok {
			continue
		}
		tokens = appendSplit(tokens, a.Lines, tok.Span, tokenType)
	}
	return encodeSemanticTokens(tokens)
}

type position struct{ row, column int }

func startOf(span token.Span) position {
	return position{span.RowStart, span.ColumnStart}
}

// roles holds what the tree knows about individual name tokens.
type roles struct {
	names        map[position]uint32 // def and class names
	softKeywords map[position]bool   // match/case in statement position
	paramStarts  map[position]bool
	functions    map[string]bool
	classes      map[string]bool
}

func classify(module *ast.Module) *roles {
	r := &roles{
		names:        make(map[position]uint32),
		softKeywords: make(map[position]bool),
		paramStarts:  make(map[position]bool),
		functions:    make(map[string]bool),
		classes:      make(map[string]bool),
	}
	if module == nil {
		return r
	}

	ast.Walk(module, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FunctionDef:
			r.names[startOf(n.NameSpan.Span())] = TokenTypeFunction
			r.functions[n.Name] = true
		case *ast.ClassDef:
			r.names[startOf(n.NameSpan.Span())] = TokenTypeClass
			r.classes[n.Name] = true
		case *ast.Parameter:
			r.paramStarts[startOf(n.Span())] = true
		case *ast.Match:
			r.softKeywords[startOf(n.Span())] = true
		case *ast.MatchCase:
			r.softKeywords[startOf(n.Span())] = true
		}
		return true
	})

	// References resolve against every def in the document regardless of
	// scope, so they need the full set first.
	ast.Walk(module, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.Call:
			if name, ok := n.Func.(*ast.Name); ok {
				key := startOf(name.Span())
				if _, known := r.names[key]; !known {
					if r.classes[name.ID] {
						r.names[key] = TokenTypeClass
					} else {
						r.names[key] = TokenTypeFunction
					}
				}
			}
		case *ast.Name:
			key := startOf(n.Span())
			if _, known := r.names[key]; known {
				break
			}
			switch {
			case r.classes[n.ID]:
				r.names[key] = TokenTypeClass
			case r.functions[n.ID]:
				r.names[key] = TokenTypeFunction
			}
		}
		return true
	})
	return r
}

func (r *roles) tokenType(tok token.Token, key position) (uint32, bool) {
	switch {
	case tok.Kind.IsKeyword():
		return TokenTypeKeyword, true
	case tok.Kind.IsSoftKeyword() && (tok.Kind == token.Match || tok.Kind == token.Case) && r.softKeywords[key]:
		return TokenTypeKeyword, true
	case tok.Kind.IsName():
		if t, ok := r.names[key]; ok {
			return t, true
		}
		return TokenTypeVariable, true
	case tok.Kind == token.String:
		return TokenTypeString, true
	case tok.Kind == token.Number:
		return TokenTypeNumber, true
	case tok.Kind.IsOperator():
		return TokenTypeOperator, true
	}
	return 0, false
}

// appendSplit adds one semantic token per source line the span covers.
func appendSplit(out []semanticToken, lines *LineIndex, span token.Span, tokenType uint32) []semanticToken {
	for row := span.RowStart; row <= span.RowEnd; row++ {
		startCol := 0
		if row == span.RowStart {
			startCol = span.ColumnStart - 1
		}
		endCol := len([]rune(lines.Line(row)))
		if row == span.RowEnd {
			endCol = span.ColumnEnd
		}
		start := lines.UTF16Column(row, startCol)
		end := lines.UTF16Column(row, endCol)
		if end <= start {
			continue
		}
		out = append(out, semanticToken{
			line:      uint32(row - 1),
			start:     start,
			length:    end - start,
			tokenType: tokenType,
		})
	}
	return out
}

// encodeSemanticTokens converts absolute positions into the protocol's
// relative encoding.
func encodeSemanticTokens(tokens []semanticToken) []uint32 {
	sort.SliceStable(tokens, func(i, j int) bool {
		if tokens[i].line != tokens[j].line {
			return tokens[i].line < tokens[j].line
		}
		return tokens[i].start < tokens[j].start
	})

	data := make([]uint32, 0, len(tokens)*5)
	var prevLine, prevStart uint32
	for _, t := range tokens {
		deltaLine := t.line - prevLine
		deltaStart := t.start
		if deltaLine == 0 {
			deltaStart = t.start - prevStart
		}
		data = append(data, deltaLine, deltaStart, t.length, t.tokenType, 0)
		prevLine = t.line
		prevStart = t.start
	}
	return data
}

// DocumentSymbols returns the outline: functions, classes with their methods
// and fields, and module-level variables.
func (s *Service) DocumentSymbols(doc *Document) []DocumentSymbol {
	a := doc.Analysis
	if a.Module == nil {
		return nil
	}
	return symbolsIn(a.Module.Body, a.Lines, false)
}

// Hover is the text shown for the token under the cursor, in markdown.
type Hover struct {
	Contents string `json:"contents"`
	Range    Range  `json:"range"`
}

// Hover describes the token at pos. Names of functions and classes defined in
// the document show their signature. It returns nil between tokens.
func (s *Service) Hover(doc *Document, pos Position) *Hover {
	a := doc.Analysis
	row, column := a.Lines.CharColumn(pos)
	i := a.TokenAt(row, column+1)
	if i < 0 {
		return nil
	}
	tok := a.Tokens[i]

	contents := describeToken(tok)
	if tok.Kind.IsName() {
		if def, ok := definitions(a.Module)[tok.Value]; ok {
			switch n := def.node.(type) {
			case *ast.FunctionDef:
				contents = "```python\n" + FunctionSignature(n, a.Lines) + "\n```"
			case *ast.ClassDef:
				contents = "```python\n" + ClassSignature(n, a.Lines) + "\n```"
			}
		}
	}
	return &Hover{Contents: contents, Range: a.Lines.Range(tok.Span)}
}

func describeToken(tok token.Token) string {
	switch {
	case tok.Kind == token.Number:
		return fmt.Sprintf("%s literal `%s`", tok.NumberKind, tok.Value)
	case tok.Kind == token.String:
		return "string literal"
	case tok.Kind.IsKeyword(), tok.Kind.IsSoftKeyword():
		return fmt.Sprintf("keyword `%s`", tok.Kind)
	case tok.Kind.IsName():
		return fmt.Sprintf("identifier `%s`", tok.Value)
	case tok.Kind.IsOperator():
		return fmt.Sprintf("operator `%s`", tok.Kind)
	case tok.Kind == token.Invalid:
		return fmt.Sprintf("invalid token `%s`", tok.Value)
	}
	return fmt.Sprintf("`%s`", tok.Kind)
}

// Location points at a range in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// Definition finds where the name at pos is bound in the same document: a
// def, a class or a module-level assignment.
func (s *Service) Definition(doc *Document, pos Position) *Location {
	a := doc.Analysis
	row, column := a.Lines.CharColumn(pos)
	i := a.TokenAt(row, column+1)
	if i < 0 || !a.Tokens[i].Kind.IsName() {
		return nil
	}
	def, ok := definitions(a.Module)[a.Tokens[i].Value]
	if !ok {
		return nil
	}
	return &Location{URI: doc.URI, Range: a.Lines.Range(def.nameSpan)}
}
