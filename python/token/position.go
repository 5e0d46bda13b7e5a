package token

import "fmt"

// Position is a single location in source text.
// Row is 1-based, Column is 0-based (counted in characters), Offset is the byte index.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Span is a start/end range in source text.
// Columns are 1-based: ColumnStart is the first character and ColumnEnd the last.
type Span struct {
	RowStart    int `json:"row_start" yaml:"row_start"`
	RowEnd      int `json:"row_end" yaml:"row_end"`
	ColumnStart int `json:"column_start" yaml:"column_start"`
	ColumnEnd   int `json:"column_end" yaml:"column_end"`
}

// NewSpan converts two cursor positions into a Span.
// The end position is exclusive, so a one-character token at column 0 spans columns 1..1.
func NewSpan(start, end Position) Span {
	s := Span{
		RowStart:    start.Row,
		RowEnd:      end.Row,
		ColumnStart: start.Column + 1,
		ColumnEnd:   end.Column,
	}
	if s.RowEnd < s.RowStart {
		s.RowEnd = s.RowStart
	}
	if s.RowStart == s.RowEnd && s.ColumnEnd < s.ColumnStart {
		s.ColumnEnd = s.ColumnStart
	}
	return s
}

// Join returns the span from the start of s to the end of other.
func (s Span) Join(other Span) Span {
	joined := Span{
		RowStart:    s.RowStart,
		ColumnStart: s.ColumnStart,
		RowEnd:      other.RowEnd,
		ColumnEnd:   other.ColumnEnd,
	}
	if joined.RowEnd < joined.RowStart ||
		(joined.RowEnd == joined.RowStart && joined.ColumnEnd < joined.ColumnStart) {
		return s
	}
	return joined
}

// Contains reports whether the 1-based row and column fall inside the span.
func (s Span) Contains(row, column int) bool {
	if row < s.RowStart || row > s.RowEnd {
		return false
	}
	if row == s.RowStart && column < s.ColumnStart {
		return false
	}
	if row == s.RowEnd && column > s.ColumnEnd {
		return false
	}
	return true
}

// IsZero reports whether the span was never set.
func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.RowStart, s.ColumnStart, s.RowEnd, s.ColumnEnd)
}
