package lexer

import (
	"unicode/utf8"

	"github.com/LaBatata101/python-lsp/python/token"
)

// eof is returned by Cursor lookups past the end of the source.
const eof rune = -1

// Cursor is a character-addressable view over the source with row/column tracking.
// It is a small value type, so a copy is a saved position that can be restored.
type Cursor struct {
	source string
	pos    token.Position
}

// NewCursor creates a cursor at row 1, column 0.
func NewCursor(source string) Cursor {
	return Cursor{source: source, pos: token.Position{Row: 1}}
}

// Current returns the character under the cursor or eof.
func (c *Cursor) Current() rune {
	return c.Peek(0)
}

// Peek returns the character offset characters ahead without consuming anything.
func (c *Cursor) Peek(offset int) rune {
	i := c.pos.Offset
	for ; offset > 0; offset-- {
		if i >= len(c.source) {
			return eof
		}
		_, size := utf8.DecodeRuneInString(c.source[i:])
		i += size
	}
	if i >= len(c.source) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(c.source[i:])
	return r
}

// Advance consumes n characters. Consuming a line break moves to the next row.
func (c *Cursor) Advance(n int) {
	for ; n > 0 && !c.IsEOF(); n-- {
		r, size := utf8.DecodeRuneInString(c.source[c.pos.Offset:])
		c.pos.Offset += size
		switch {
		case r == '\n':
			c.pos.Row++
			c.pos.Column = 0
		case r == '\r':
			// "\r\n" counts as one line break, taken on the '\n'
			if c.Current() != '\n' {
				c.pos.Row++
				c.pos.Column = 0
			}
		default:
			c.pos.Column++
		}
	}
}

// AdvanceWhile consumes characters while pred holds and returns how many were consumed.
func (c *Cursor) AdvanceWhile(pred func(rune) bool) int {
	n := 0
	for !c.IsEOF() && pred(c.Current()) {
		c.Advance(1)
		n++
	}
	return n
}

// IsEOF reports whether the whole source has been consumed.
func (c *Cursor) IsEOF() bool {
	return c.pos.Offset >= len(c.source)
}

// Position returns the current position.
func (c *Cursor) Position() token.Position {
	return c.pos
}

// Slice returns source[start:end] by byte offset, or false when out of bounds.
func (c *Cursor) Slice(start, end int) (string, bool) {
	if start < 0 || end > len(c.source) || start > end {
		return "", false
	}
	return c.source[start:end], true
}

// EOLSize returns the width in characters of the line break under the cursor, 0 if none.
func (c *Cursor) EOLSize() int {
	switch c.Current() {
	case '\n':
		return 1
	case '\r':
		if c.Peek(1) == '\n' {
			return 2
		}
		return 1
	}
	return 0
}

// SkipToEOL consumes everything up to, but not including, the next line break.
func (c *Cursor) SkipToEOL() {
	c.AdvanceWhile(func(r rune) bool { return r != '\n' && r != '\r' })
}
