package diagnostic

import (
	"testing"

	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/python/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAccumulates(t *testing.T) {
	var l List
	assert.Nil(t, l)
	assert.NoError(t, l.Err())

	span := token.Span{RowStart: 1, RowEnd: 1, ColumnStart: 1, ColumnEnd: 4}
	l.Syntax(span, "unterminated string literal")
	l.Indentation(span, "expected an indented block")
	l.Add(KindInvalidToken, span, "invalid character '%s'", "!")

	require.Len(t, l, 3)
	assert.Equal(t, 1, l.Count(KindSyntax))
	assert.Equal(t, 1, l.Count(KindIndentation))
	assert.Equal(t, 1, l.Count(KindInvalidToken))
	assert.Equal(t, "invalid character '!'", l[2].Message)

	var other List
	other.Extend(l...)
	assert.Equal(t, l, other)
}

func TestListErr(t *testing.T) {
	var l List
	span := token.Span{RowStart: 2, RowEnd: 2, ColumnStart: 5, ColumnEnd: 5}
	l.Syntax(span, "missing rhs")
	l.Syntax(span, "expected ')'")

	err := l.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problem(s) found")
	details := errors.GetAllDetails(err)
	assert.Len(t, details, 2)
}

func TestKindTitle(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSyntax, "SyntaxError"},
		{KindIndentation, "IndentationError"},
		{KindInvalidToken, "InvalidTokenError"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Title())
		})
	}
}

func TestDiagnosticString(t *testing.T) {
	d := New(KindSyntax, token.Span{RowStart: 1, RowEnd: 1, ColumnStart: 1, ColumnEnd: 2}, "invalid %s literal", "decimal")
	assert.Equal(t, "SyntaxError: invalid decimal literal (1:1-1:2)", d.String())
	assert.Equal(t, d.String(), d.Error())
}
