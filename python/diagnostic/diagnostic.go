// Package diagnostic holds the error records produced while tokenizing and
// parsing. Diagnostics are data: every stage appends to a List and keeps going.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/python/token"
)

// Kind categorizes a diagnostic
type Kind string

const (
	KindSyntax       Kind = "syntax"        // Malformed token or construct
	KindIndentation  Kind = "indentation"   // Inconsistent or missing block structure
	KindInvalidToken Kind = "invalid-token" // Character with no lexical meaning outside a literal
)

// Title returns the Python-style error class name for the kind.
func (k Kind) Title() string {
	switch k {
	case KindIndentation:
		return "IndentationError"
	case KindInvalidToken:
		return "InvalidTokenError"
	default:
		return "SyntaxError"
	}
}

// Diagnostic is one problem found in the source.
type Diagnostic struct {
	Kind    Kind       `json:"kind" yaml:"kind"`
	Message string     `json:"message" yaml:"message"`
	Span    token.Span `json:"span" yaml:"span"`
}

// New builds a diagnostic with a formatted message.
func New(kind Kind, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Kind.Title(), d.Message, d.Span)
}

// Error lets a Diagnostic travel as an error when a caller needs one.
func (d Diagnostic) Error() string {
	return d.String()
}

// List accumulates diagnostics. The zero value is ready to use and a nil
// List means no problems were found.
type List []Diagnostic

// Add appends a diagnostic with a formatted message.
func (l *List) Add(kind Kind, span token.Span, format string, args ...any) {
	*l = append(*l, New(kind, span, format, args...))
}

// Syntax appends a syntax diagnostic.
func (l *List) Syntax(span token.Span, format string, args ...any) {
	l.Add(KindSyntax, span, format, args...)
}

// Indentation appends an indentation diagnostic.
func (l *List) Indentation(span token.Span, format string, args ...any) {
	l.Add(KindIndentation, span, format, args...)
}

// Extend concatenates other onto l.
func (l *List) Extend(other ...Diagnostic) {
	*l = append(*l, other...)
}

// Count returns how many diagnostics of the given kind are in the list.
func (l List) Count(kind Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Err folds the list into a single error, or nil when the list is empty.
// Each diagnostic becomes a detail on the returned error.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	err := errors.Newf("%d problem(s) found: %s", len(l), l[0])
	for _, d := range l {
		err = errors.WithDetail(err, d.String())
	}
	return err
}

func (l List) String() string {
	lines := make([]string, len(l))
	for i, d := range l {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
