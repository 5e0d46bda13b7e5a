// Package lexer turns Python source text into a flat token sequence.
//
// Block structure is encoded with Indent, Dedent and NewLine tokens interleaved
// with the content tokens. The lexer never stops on malformed input: every
// problem becomes a diagnostic and scanning continues with the next character.
package lexer

import (
	"unicode"

	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/LaBatata101/python-lsp/python/token"
)

const tabSize = 8

// Lexer owns the scanning state for one source buffer.
// A Lexer must not be shared between goroutines or reused for another source.
type Lexer struct {
	cur     Cursor
	tokens  []token.Token
	diags   diagnostic.List
	indents []int
	nesting int
}

// New creates a lexer for source.
func New(source string) *Lexer {
	return &Lexer{
		cur:     NewCursor(source),
		indents: []int{0},
	}
}

// Tokenize scans source and returns its tokens and diagnostics.
// The token slice always ends with Eof; the diagnostics are nil when the source is clean.
func Tokenize(source string) ([]token.Token, diagnostic.List) {
	return New(source).Tokenize()
}

// Tokenize runs the scan loop to the end of the source.
func (l *Lexer) Tokenize() ([]token.Token, diagnostic.List) {
	lineStart := true
	for !l.cur.IsEOF() {
		if lineStart {
			lineStart = false
			width := l.skipIndentation()
			if l.cur.IsEOF() {
				break
			}
			if l.cur.Current() == '#' {
				l.cur.SkipToEOL()
			}
			if eol := l.cur.EOLSize(); eol > 0 && l.nesting == 0 {
				l.cur.Advance(eol)
				lineStart = true
				continue
			}
			if l.cur.IsEOF() {
				break
			}
			if l.nesting == 0 {
				l.indentation(width)
			}
		}
		lineStart = l.next()
	}

	pos := l.cur.Position()
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emitLayout(token.Dedent, pos)
	}
	span := token.NewSpan(pos, pos)
	l.emit(token.Token{Kind: token.Eof, Span: span, Start: pos.Offset, End: pos.Offset})

	return l.tokens, l.diags
}

// next scans one token (or skips one piece of trivia) and reports whether a
// new logical line starts afterwards.
func (l *Lexer) next() bool {
	start := l.cur.Position()
	r := l.cur.Current()

	switch {
	case isIDStart(r):
		if l.prefixLength() > 0 {
			l.lexString()
		} else {
			l.lexIdentifier()
		}
	case isDecimal(r):
		l.lexNumber()
	case isQuote(r):
		l.lexString()
	case r == '.':
		switch {
		case isDecimal(l.cur.Peek(1)):
			l.lexNumber()
		case l.cur.Peek(1) == '.' && l.cur.Peek(2) == '.':
			l.single(token.Ellipsis, 3)
		default:
			l.single(token.Dot, 1)
		}
	case r == '(' || r == '[' || r == '{':
		l.nesting++
		l.single(brackets[r], 1)
	case r == ')' || r == ']' || r == '}':
		if l.nesting > 0 {
			l.nesting--
		}
		l.single(brackets[r], 1)
	case r == ',':
		l.single(token.Comma, 1)
	case r == ';':
		l.single(token.SemiColon, 1)
	case r == ' ' || r == '\t' || r == '\f':
		l.cur.Advance(1)
	case r == '\n' || r == '\r':
		eol := l.cur.EOLSize()
		if l.nesting > 0 {
			l.cur.Advance(eol)
			return false
		}
		l.cur.Advance(eol)
		l.emitAt(token.NewLine, start, token.NewSpan(start, token.Position{Row: start.Row, Column: start.Column + 1}))
		return true
	case r == '\\':
		l.cur.Advance(1)
		if eol := l.cur.EOLSize(); eol > 0 {
			l.cur.Advance(eol)
			return false
		}
		l.diags.Syntax(token.NewSpan(start, l.cur.Position()), "unexpected character after line continuation character")
	case r == '#':
		l.cur.SkipToEOL()
	default:
		if !l.lexOperator() {
			l.cur.Advance(1)
			l.diags.Syntax(token.NewSpan(start, l.cur.Position()), "invalid character '%c' in source", r)
		}
	}
	return false
}

// indentation resolves the leading width of a logical line against the indent stack.
func (l *Lexer) indentation(width int) {
	pos := l.cur.Position()
	top := l.indents[len(l.indents)-1]

	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emitLayout(token.Indent, pos)
	case width < top:
		for len(l.indents) > 1 && width < l.indents[len(l.indents)-1] {
			l.indents = l.indents[:len(l.indents)-1]
			l.emitLayout(token.Dedent, pos)
		}
		if l.indents[len(l.indents)-1] != width {
			span := token.NewSpan(token.Position{Row: pos.Row}, pos)
			l.diags.Indentation(span, "unindent does not match any outer indentation level")
		}
	}
}

// skipIndentation consumes leading blanks and returns their width.
// Tabs advance to the next multiple of eight and a form feed resets the count.
func (l *Lexer) skipIndentation() int {
	width := 0
	for {
		switch l.cur.Current() {
		case ' ':
			width++
		case '\t':
			width = (width/tabSize + 1) * tabSize
		case '\f':
			width = 0
		default:
			return width
		}
		l.cur.Advance(1)
	}
}

func (l *Lexer) lexIdentifier() {
	start := l.cur.Position()
	l.cur.AdvanceWhile(isIDContinue)
	end := l.cur.Position()
	name, _ := l.cur.Slice(start.Offset, end.Offset)
	l.emit(token.Token{
		Kind:  token.LookupIdent(name),
		Value: name,
		Span:  token.NewSpan(start, end),
		Start: start.Offset,
		End:   end.Offset,
	})
}

var brackets = map[rune]token.Kind{
	'(': token.LeftParen,
	')': token.RightParen,
	'[': token.LeftBracket,
	']': token.RightBracket,
	'{': token.LeftBrace,
	'}': token.RightBrace,
}

var operators = map[string]token.Kind{
	"+":   token.Plus,
	"-":   token.Minus,
	"*":   token.Asterisk,
	"**":  token.Exponent,
	"/":   token.Slash,
	"//":  token.FloorDivision,
	"%":   token.Modulo,
	"@":   token.At,
	"<<":  token.LeftShift,
	">>":  token.RightShift,
	"&":   token.BitwiseAnd,
	"|":   token.BitwiseOr,
	"^":   token.BitwiseXor,
	"~":   token.BitwiseNot,
	":=":  token.Walrus,
	"<":   token.LessThan,
	">":   token.GreaterThan,
	"<=":  token.LessThanOrEqual,
	">=":  token.GreaterThanOrEqual,
	"==":  token.Equals,
	"!=":  token.NotEquals,
	"+=":  token.PlusEqual,
	"-=":  token.MinusEqual,
	"*=":  token.AsteriskEqual,
	"/=":  token.SlashEqual,
	"//=": token.FloorDivisionEqual,
	"%=":  token.ModuloEqual,
	"@=":  token.AtEqual,
	"&=":  token.BitwiseAndEqual,
	"|=":  token.BitwiseOrEqual,
	"^=":  token.BitwiseXorEqual,
	"<<=": token.LeftShiftEqual,
	">>=": token.RightShiftEqual,
	"**=": token.ExponentEqual,
	":":   token.Colon,
	"=":   token.Assign,
	"->":  token.RightArrow,
}

// lexOperator matches the longest operator (up to three characters) under the cursor.
// A lone '!' becomes an Invalid token.
func (l *Lexer) lexOperator() bool {
	start := l.cur.Position()
	for n := 3; n > 0; n-- {
		var buf [3]rune
		for i := 0; i < n; i++ {
			buf[i] = l.cur.Peek(i)
		}
		if kind, ok := operators[string(buf[:n])]; ok {
			l.single(kind, n)
			return true
		}
	}

	if l.cur.Current() == '!' {
		l.cur.Advance(1)
		end := l.cur.Position()
		span := token.NewSpan(start, end)
		l.emit(token.Token{Kind: token.Invalid, Value: "!", Span: span, Start: start.Offset, End: end.Offset})
		l.diags.Add(diagnostic.KindInvalidToken, span, "invalid token '!'")
		return true
	}
	return false
}

// single emits a fixed token of width n characters.
func (l *Lexer) single(kind token.Kind, n int) {
	start := l.cur.Position()
	l.cur.Advance(n)
	end := l.cur.Position()
	l.emit(token.Token{Kind: kind, Span: token.NewSpan(start, end), Start: start.Offset, End: end.Offset})
}

// emitLayout emits an Indent or Dedent anchored at the start of the current row.
func (l *Lexer) emitLayout(kind token.Kind, pos token.Position) {
	span := token.Span{RowStart: pos.Row, RowEnd: pos.Row, ColumnStart: 1, ColumnEnd: 1}
	l.emit(token.Token{Kind: kind, Span: span, Start: pos.Offset, End: pos.Offset})
}

func (l *Lexer) emitAt(kind token.Kind, start token.Position, span token.Span) {
	l.emit(token.Token{Kind: kind, Span: span, Start: start.Offset, End: l.cur.Position().Offset})
}

func (l *Lexer) emit(t token.Token) {
	l.tokens = append(l.tokens, t)
}

func isIDStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIDContinue(r rune) bool {
	return isIDStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}
