package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/LaBatata101/python-lsp/python/diagnostic"
)

// RenderDiagnostics writes each diagnostic with the offending source line and
// a caret underline:
//
//	SyntaxError: invalid syntax: expected expression, found '='
//	  --> app.py:2:5
//	   |
//	 2 | y = = 2
//	   |     ^
func RenderDiagnostics(w io.Writer, path, source string, diags diagnostic.List) {
	lines := strings.Split(source, "\n")
	for _, d := range diags {
		fmt.Fprint(w, FormatDiagnostic(path, lines, d))
	}
}

// FormatDiagnostic renders one diagnostic against the already-split source lines.
func FormatDiagnostic(path string, lines []string, d diagnostic.Diagnostic) string {
	var b strings.Builder

	title := pterm.Red(d.Kind.Title() + ":")
	if d.Kind == diagnostic.KindIndentation {
		title = pterm.Yellow(d.Kind.Title() + ":")
	}
	fmt.Fprintf(&b, "%s %s\n", title, d.Message)
	fmt.Fprintf(&b, "  %s %s:%d:%d\n", pterm.Gray("-->"), path, d.Span.RowStart, d.Span.ColumnStart)

	row := d.Span.RowStart
	if row < 1 || row > len(lines) {
		return b.String()
	}
	line := strings.TrimRight(lines[row-1], "\r")

	gutter := strconv.Itoa(row)
	pad := strings.Repeat(" ", len(gutter))
	bar := pterm.Gray("|")

	fmt.Fprintf(&b, " %s %s\n", pad, bar)
	fmt.Fprintf(&b, " %s %s %s\n", pterm.LightCyan(gutter), bar, line)
	fmt.Fprintf(&b, " %s %s %s\n", pad, bar, pterm.Red(underline(line, d)))
	return b.String()
}

// underline builds the caret line for d on its first row. Tabs before the
// carets are kept so the carets line up under the source.
func underline(line string, d diagnostic.Diagnostic) string {
	runes := []rune(line)

	start := d.Span.ColumnStart - 1
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}

	end := d.Span.ColumnEnd
	if d.Span.RowEnd != d.Span.RowStart || end > len(runes) {
		end = len(runes)
	}
	width := end - start
	if width < 1 {
		width = 1
	}

	var b strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	b.WriteString(strings.Repeat("^", width))
	return b.String()
}

// Summary is the per-run outcome printed by `sith check`.
type Summary struct {
	Files       int `json:"files" yaml:"files"`
	FilesFailed int `json:"files_failed" yaml:"files_failed"`
	Diagnostics int `json:"diagnostics" yaml:"diagnostics"`
}

// RenderSummary writes a one-line success or failure message.
func RenderSummary(w io.Writer, s Summary) {
	if s.Diagnostics == 0 {
		fmt.Fprint(w, pterm.Success.Sprintfln("%d %s checked, no problems found", s.Files, plural(s.Files, "file")))
		return
	}
	fmt.Fprint(w, pterm.Error.Sprintfln("%d %s in %d of %d %s",
		s.Diagnostics, plural(s.Diagnostics, "problem"), s.FilesFailed, s.Files, plural(s.Files, "file")))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
