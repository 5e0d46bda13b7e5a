package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/python"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/LaBatata101/python-lsp/python/token"
)

func TestMain(m *testing.M) {
	pterm.DisableStyling()
	m.Run()
}

func span(row, start, end int) token.Span {
	return token.Span{RowStart: row, RowEnd: row, ColumnStart: start, ColumnEnd: end}
}

func TestFormatDiagnostic(t *testing.T) {
	lines := []string{"x = 1", "y = = 2"}
	d := diagnostic.New(diagnostic.KindSyntax, span(2, 5, 5), "invalid syntax: expected expression, found '='")

	want := strings.Join([]string{
		"SyntaxError: invalid syntax: expected expression, found '='",
		"  --> app.py:2:5",
		"   |",
		" 2 | y = = 2",
		"   |     ^",
		"",
	}, "\n")
	assert.Equal(t, want, FormatDiagnostic("app.py", lines, d))
}

func TestFormatDiagnosticOutsideSource(t *testing.T) {
	d := diagnostic.New(diagnostic.KindIndentation, span(9, 1, 1), "unexpected indent")
	out := FormatDiagnostic("a.py", []string{"pass"}, d)
	assert.Equal(t, "IndentationError: unexpected indent\n  --> a.py:9:1\n", out)
}

func TestUnderline(t *testing.T) {
	tests := []struct {
		name string
		line string
		span token.Span
		want string
	}{
		{"single column", "abc", span(1, 2, 2), " ^"},
		{"range", "foo(bar)", span(1, 5, 7), "    ^^^"},
		{"tabs are kept", "\tx = $", span(1, 6, 6), "\t    ^"},
		{"multi-row runs to end of line", "call(1,", token.Span{RowStart: 1, RowEnd: 3, ColumnStart: 5, ColumnEnd: 2}, "    ^^^"},
		{"past end of line", "ab", span(1, 3, 3), "  ^"},
		{"characters not bytes", "é = $", span(1, 5, 5), "    ^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diagnostic.Diagnostic{Span: tt.span}
			assert.Equal(t, tt.want, underline(tt.line, d))
		})
	}
}

func TestRenderDiagnosticsFromParse(t *testing.T) {
	src := "def f(:\n    pass\n"
	_, diags := python.Parse(src)
	require.NotEmpty(t, diags)

	var buf bytes.Buffer
	RenderDiagnostics(&buf, "f.py", src, diags)
	assert.Contains(t, buf.String(), "SyntaxError:")
	assert.Contains(t, buf.String(), " 1 | def f(:")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, Summary{Files: 3})
	assert.Contains(t, buf.String(), "3 files checked, no problems found")

	buf.Reset()
	RenderSummary(&buf, Summary{Files: 1, FilesFailed: 1, Diagnostics: 1})
	assert.Contains(t, buf.String(), "1 problem in 1 of 1 file")
}

func TestRenderTree(t *testing.T) {
	module, diags := python.Parse("def f(*args):\n    return x.y + 1\n")
	require.Empty(t, diags)

	out, err := RenderTree(module)
	require.NoError(t, err)
	for _, want := range []string{"Module", "FunctionDef f", "Parameter *args", "Return", "BinaryOp +", "Attribute .y", "Name x", "NumberLit 1 (decimal)"} {
		assert.Contains(t, out, want)
	}
}

func TestFormatToken(t *testing.T) {
	tokens, _ := python.Tokenize("name = rb'x'\n")
	require.GreaterOrEqual(t, len(tokens), 3)

	assert.Equal(t, "1:1-1:4         Identifier     name", FormatToken(tokens[0]))
	assert.Equal(t, "1:6-1:6         =", FormatToken(tokens[1]))
	assert.True(t, strings.HasSuffix(FormatToken(tokens[2]), `rb"x"`))
}

func TestOutput(t *testing.T) {
	v := map[string]any{"files": 2, "ok": true}

	var buf bytes.Buffer
	require.NoError(t, Output(&buf, FormatJSON, v))
	assert.JSONEq(t, `{"files": 2, "ok": true}`, buf.String())

	buf.Reset()
	require.NoError(t, Output(&buf, FormatYAML, v))
	assert.Equal(t, "files: 2\nok: true\n", buf.String())

	err := Output(&buf, "xml", v)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestOutputFormat(t *testing.T) {
	root := &cobra.Command{Use: "sith"}
	root.PersistentFlags().Bool("json", false, "")
	cmd := &cobra.Command{Use: "parse"}
	cmd.Flags().String("format", FormatText, "")
	root.AddCommand(cmd)

	assert.Equal(t, FormatText, OutputFormat(cmd))

	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.Equal(t, FormatJSON, OutputFormat(cmd))

	require.NoError(t, cmd.Flags().Set("format", FormatYAML))
	assert.Equal(t, FormatYAML, OutputFormat(cmd))

	assert.Equal(t, FormatText, OutputFormat(nil))
}
