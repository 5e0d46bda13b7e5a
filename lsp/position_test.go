package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LaBatata101/python-lsp/python/token"
)

func TestLineIndexSplitsAllLineBreaks(t *testing.T) {
	li := NewLineIndex("a\r\nb\rc\n")
	assert.Equal(t, 4, li.LineCount())
	assert.Equal(t, "a", li.Line(1))
	assert.Equal(t, "b", li.Line(2))
	assert.Equal(t, "c", li.Line(3))
	assert.Equal(t, "", li.Line(4))
	assert.Equal(t, "", li.Line(9))
}

func TestUTF16Column(t *testing.T) {
	li := NewLineIndex("a😀b")

	tests := []struct {
		column int
		want   uint32
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{3, 4},
		{5, 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, li.UTF16Column(1, tt.column), "column %d", tt.column)
	}
}

func TestCharColumn(t *testing.T) {
	li := NewLineIndex("a😀b\nxy")

	row, col := li.CharColumn(Position{Line: 0, Character: 3})
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	_, col = li.CharColumn(Position{Line: 0, Character: 2})
	assert.Equal(t, 1, col, "inside a surrogate pair")

	row, col = li.CharColumn(Position{Line: 1, Character: 1})
	assert.Equal(t, 2, row)
	assert.Equal(t, 1, col)
}

func TestRangeIsExclusiveAndUTF16(t *testing.T) {
	li := NewLineIndex("a😀b")
	r := li.Range(token.Span{RowStart: 1, RowEnd: 1, ColumnStart: 3, ColumnEnd: 3})
	assert.Equal(t, Range{Start: Position{0, 3}, End: Position{0, 4}}, r)
}

func TestText(t *testing.T) {
	li := NewLineIndex("x = foo(1,\n  2)\n")
	span := token.Span{RowStart: 1, RowEnd: 2, ColumnStart: 5, ColumnEnd: 4}
	assert.Equal(t, "foo(1,\n  2)", li.Text(span))
	assert.Equal(t, "", li.Text(token.Span{}))
}
