package lsp

import (
	"strings"
	"unicode/utf8"

	"github.com/LaBatata101/python-lsp/python/token"
)

// Position is a zero-based line and UTF-16 code unit offset, the unit the
// editor protocol counts in.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open Position range.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// LineIndex converts between the parser's character columns and protocol
// positions. Lines are split on \r\n, \r and \n, the same breaks the lexer
// counts rows on.
type LineIndex struct {
	lines []string
}

// NewLineIndex splits text into lines.
func NewLineIndex(text string) *LineIndex {
	var lines []string
	for {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	return &LineIndex{lines: lines}
}

// LineCount returns the number of lines, counting an empty last line.
func (li *LineIndex) LineCount() int {
	return len(li.lines)
}

// Line returns the text of the 1-based row, or "" past the end.
func (li *LineIndex) Line(row int) string {
	if row < 1 || row > len(li.lines) {
		return ""
	}
	return li.lines[row-1]
}

// UTF16Column converts a 0-based character column on a 1-based row into
// UTF-16 code units. Columns past the end of the line count one unit each.
func (li *LineIndex) UTF16Column(row, column int) uint32 {
	var units uint32
	for _, r := range li.Line(row) {
		if column <= 0 {
			return units
		}
		units += utf16Len(r)
		column--
	}
	if column > 0 {
		units += uint32(column)
	}
	return units
}

// CharColumn converts a protocol position into a 1-based row and a 0-based
// character column. A position inside a surrogate pair maps to its character.
func (li *LineIndex) CharColumn(pos Position) (row, column int) {
	row = int(pos.Line) + 1
	remaining := pos.Character
	for _, r := range li.Line(row) {
		n := utf16Len(r)
		if remaining < n {
			return row, column
		}
		remaining -= n
		column++
	}
	return row, column + int(remaining)
}

// Range converts a span into a protocol range. The span's end column is the
// last character, so the exclusive protocol end sits right after it.
func (li *LineIndex) Range(span token.Span) Range {
	return Range{
		Start: Position{
			Line:      uint32(max(span.RowStart-1, 0)),
			Character: li.UTF16Column(span.RowStart, span.ColumnStart-1),
		},
		End: Position{
			Line:      uint32(max(span.RowEnd-1, 0)),
			Character: li.UTF16Column(span.RowEnd, span.ColumnEnd),
		},
	}
}

// Text returns the source covered by span, lines joined with "\n".
func (li *LineIndex) Text(span token.Span) string {
	if span.IsZero() {
		return ""
	}
	var b strings.Builder
	for row := span.RowStart; row <= span.RowEnd; row++ {
		runes := []rune(li.Line(row))
		start, end := 0, len(runes)
		if row == span.RowStart {
			start = min(max(span.ColumnStart-1, 0), len(runes))
		}
		if row == span.RowEnd {
			end = min(span.ColumnEnd, len(runes))
		}
		if row > span.RowStart {
			b.WriteByte('\n')
		}
		if start < end {
			b.WriteString(string(runes[start:end]))
		}
	}
	return b.String()
}

func utf16Len(r rune) uint32 {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
