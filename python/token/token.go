// Package token defines the lexical vocabulary shared by the lexer, the parser
// and the language service: token kinds, tokens, positions and spans.
package token

import "fmt"

// Token is one lexical unit. Tokens are immutable once produced.
//
// Value holds the identifier name, the number lexeme, the string contents
// (without quotes or prefix, adjacent literals concatenated) or the offending
// character of an Invalid token. Start and End are byte offsets into the
// source, End exclusive.
type Token struct {
	Kind       Kind       `json:"kind"`
	Value      string     `json:"value,omitempty"`
	NumberKind NumberKind `json:"number_kind,omitempty"`
	Prefix     string     `json:"prefix,omitempty"`
	Span       Span       `json:"span"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool {
	return t.Kind == k
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, Number:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
	case String:
		return fmt.Sprintf("String(%s%q)", t.Prefix, t.Value)
	case Invalid:
		return fmt.Sprintf("Invalid(%q)", t.Value)
	}
	return t.Kind.String()
}

// Describe renders the token the way diagnostics quote it.
func (t Token) Describe() string {
	switch t.Kind {
	case Eof:
		return "end of file"
	case NewLine:
		return "newline"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case Identifier:
		return fmt.Sprintf("identifier '%s'", t.Value)
	case Number:
		return fmt.Sprintf("number '%s'", t.Value)
	case String:
		return "string literal"
	case Invalid:
		return fmt.Sprintf("'%s'", t.Value)
	}
	return fmt.Sprintf("'%s'", t.Kind)
}
