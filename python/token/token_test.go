package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSpan(t *testing.T) {
	tests := []struct {
		name  string
		start Position
		end   Position
		want  Span
	}{
		{
			name:  "single character",
			start: Position{Row: 1, Column: 0},
			end:   Position{Row: 1, Column: 1, Offset: 1},
			want:  Span{RowStart: 1, RowEnd: 1, ColumnStart: 1, ColumnEnd: 1},
		},
		{
			name:  "multi line",
			start: Position{Row: 1, Column: 4},
			end:   Position{Row: 3, Column: 3},
			want:  Span{RowStart: 1, RowEnd: 3, ColumnStart: 5, ColumnEnd: 3},
		},
		{
			name:  "zero width is clamped",
			start: Position{Row: 2, Column: 7},
			end:   Position{Row: 2, Column: 7},
			want:  Span{RowStart: 2, RowEnd: 2, ColumnStart: 8, ColumnEnd: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewSpan(tt.start, tt.end)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.RowStart, got.RowEnd)
			if got.RowStart == got.RowEnd {
				assert.LessOrEqual(t, got.ColumnStart, got.ColumnEnd)
			}
		})
	}
}

func TestSpanJoinAndContains(t *testing.T) {
	a := Span{RowStart: 1, RowEnd: 1, ColumnStart: 1, ColumnEnd: 3}
	b := Span{RowStart: 2, RowEnd: 2, ColumnStart: 5, ColumnEnd: 9}

	joined := a.Join(b)
	assert.Equal(t, Span{RowStart: 1, RowEnd: 2, ColumnStart: 1, ColumnEnd: 9}, joined)
	assert.Equal(t, b, b.Join(a).Join(b), "joining backwards keeps the receiver")

	assert.True(t, joined.Contains(1, 1))
	assert.True(t, joined.Contains(2, 9))
	assert.True(t, joined.Contains(1, 40))
	assert.False(t, joined.Contains(2, 10))
	assert.False(t, joined.Contains(3, 1))
	assert.Equal(t, "1:1-2:9", joined.String())
}

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident string
		want  Kind
	}{
		{"def", Def},
		{"None", None},
		{"nonlocal", Nonlocal},
		{"match", Match},
		{"case", Case},
		{"_", Underscore},
		{"define", Identifier},
		{"none", Identifier},
		{"__init__", Identifier},
	}

	for _, tt := range tests {
		t.Run(tt.ident, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupIdent(tt.ident))
		})
	}
}

func TestKindClassification(t *testing.T) {
	assert.True(t, Yield.IsKeyword())
	assert.True(t, True.IsKeyword())
	assert.False(t, Match.IsKeyword())
	assert.True(t, Match.IsSoftKeyword())
	assert.True(t, Underscore.IsName())
	assert.True(t, Identifier.IsName())
	assert.False(t, Def.IsName())
	assert.True(t, ExponentEqual.IsAugAssign())
	assert.True(t, ExponentEqual.IsOperator())
	assert.False(t, Assign.IsAugAssign())
	assert.True(t, Dedent.IsStructural())
	assert.Equal(t, "//=", FloorDivisionEqual.String())
	assert.Equal(t, "Unknown", Kind(-1).String())
}

func TestTokenDescribe(t *testing.T) {
	assert.Equal(t, "end of file", Token{Kind: Eof}.Describe())
	assert.Equal(t, "identifier 'x'", Token{Kind: Identifier, Value: "x"}.Describe())
	assert.Equal(t, "')'", Token{Kind: RightParen}.Describe())
	assert.Equal(t, "Number(0x1f)", Token{Kind: Number, Value: "0x1f", NumberKind: NumberHex}.String())
}
