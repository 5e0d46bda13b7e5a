package lexer

import (
	"strings"

	"github.com/LaBatata101/python-lsp/python/token"
)

// validStringPrefix reports whether p is a legal string literal prefix.
// Matching is case-insensitive and two-letter prefixes may come in either order.
func validStringPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "", "r", "u", "f", "b", "fr", "rf", "br", "rb":
		return true
	}
	return false
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

// prefixLength returns how many characters of string prefix sit under the
// cursor immediately before a quote, or -1 when no string literal starts here.
func (l *Lexer) prefixLength() int {
	for n := 0; n <= 2; n++ {
		if !isQuote(l.cur.Peek(n)) {
			continue
		}
		var b strings.Builder
		for i := 0; i < n; i++ {
			b.WriteRune(l.cur.Peek(i))
		}
		if validStringPrefix(b.String()) {
			return n
		}
		return -1
	}
	return -1
}

// lexString scans one string literal, starting at its prefix or opening quote,
// then keeps absorbing adjacent literals into the same token.
func (l *Lexer) lexString() {
	start := l.cur.Position()
	var value strings.Builder
	prefix := ""
	end := start

	for first := true; ; first = false {
		n := l.prefixLength()
		if n < 0 {
			break
		}
		partStart := l.cur.Position().Offset
		l.cur.Advance(n)
		p, _ := l.cur.Slice(partStart, l.cur.Position().Offset)
		if first {
			prefix = p
		}

		l.quoted(&value)
		end = l.cur.Position()

		saved := l.cur
		l.skipBetweenStrings()
		if l.prefixLength() < 0 {
			l.cur = saved
			break
		}
	}

	l.emit(token.Token{
		Kind:   token.String,
		Value:  value.String(),
		Prefix: prefix,
		Span:   token.NewSpan(start, end),
		Start:  start.Offset,
		End:    end.Offset,
	})
}

// quoted consumes one quoted body, opening and closing quotes included,
// appending the raw contents to value. An unterminated literal is reported
// and whatever was consumed is kept.
func (l *Lexer) quoted(value *strings.Builder) {
	start := l.cur.Position()
	quote := l.cur.Current()
	triple := l.cur.Peek(1) == quote && l.cur.Peek(2) == quote
	width := 1
	if triple {
		width = 3
	}
	l.cur.Advance(width)
	bodyStart := l.cur.Position().Offset

	closed := false
	for !l.cur.IsEOF() {
		r := l.cur.Current()
		if r == '\\' {
			l.cur.Advance(1)
			if eol := l.cur.EOLSize(); eol > 0 {
				l.cur.Advance(eol)
			} else {
				l.cur.Advance(1)
			}
			continue
		}
		if !triple && (r == '\n' || r == '\r') {
			break
		}
		if r == quote && (!triple || (l.cur.Peek(1) == quote && l.cur.Peek(2) == quote)) {
			body, _ := l.cur.Slice(bodyStart, l.cur.Position().Offset)
			value.WriteString(body)
			l.cur.Advance(width)
			closed = true
			break
		}
		l.cur.Advance(1)
	}

	if !closed {
		body, _ := l.cur.Slice(bodyStart, l.cur.Position().Offset)
		value.WriteString(body)
		msg := "unterminated string literal"
		if triple {
			msg = "unterminated triple-quoted string literal"
		}
		l.diags.Syntax(token.NewSpan(start, l.cur.Position()), "%s", msg)
	}
}

// skipBetweenStrings skips what may separate two adjacent string literals:
// blanks, comments and explicit line continuations, plus line breaks while
// inside brackets.
func (l *Lexer) skipBetweenStrings() {
	for !l.cur.IsEOF() {
		switch r := l.cur.Current(); {
		case r == ' ' || r == '\t' || r == '\f':
			l.cur.Advance(1)
		case r == '#':
			l.cur.SkipToEOL()
		case r == '\\' && (l.cur.Peek(1) == '\n' || l.cur.Peek(1) == '\r'):
			l.cur.Advance(1)
			l.cur.Advance(l.cur.EOLSize())
		case l.nesting > 0 && (r == '\n' || r == '\r'):
			l.cur.Advance(l.cur.EOLSize())
		default:
			return
		}
	}
}
