package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/display"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/python"
	"github.com/LaBatata101/python-lsp/python/ast"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
)

// ParseCmd prints the syntax tree of a file
var ParseCmd = &cobra.Command{
	Use:   "parse FILE|-",
	Short: "Print the syntax tree of a Python file",
	Long: `Parse a Python file and print its syntax tree.

The tree is printed even when the source has problems: invalid regions show
up as Invalid nodes and the diagnostics are printed after it.

Examples:
  sith parse app.py
  sith parse app.py --format yaml
  echo '1 + 2 * 3' | sith parse --expr -`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

var (
	parseFormat string
	parseExpr   bool
	parseTokens bool
)

func init() {
	ParseCmd.Flags().StringVar(&parseFormat, "format", display.FormatText, "Output format: text, json, yaml")
	ParseCmd.Flags().BoolVar(&parseExpr, "expr", false, "Parse the input as a single expression")
	ParseCmd.Flags().BoolVar(&parseTokens, "tokens", false, "Also print the tokens the tree was built from")
}

type parseOutput struct {
	Tree        map[string]any  `json:"tree" yaml:"tree"`
	Tokens      []string        `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	Diagnostics diagnostic.List `json:"diagnostics" yaml:"diagnostics"`
}

func runParse(cmd *cobra.Command, args []string) error {
	source, name, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	verbosity := Verbosity(cmd)
	showTokens := parseTokens || logger.ShouldOutput(verbosity, logger.OutputTokens)

	start := time.Now()
	var (
		root   ast.Node
		diags  diagnostic.List
		tokens []string
	)
	if parseExpr {
		expr, exprDiags := python.ParseExpression(source)
		if expr != nil {
			root = expr
		}
		diags = exprDiags
		if showTokens {
			toks, _ := python.Tokenize(source)
			for _, tok := range toks {
				tokens = append(tokens, display.FormatToken(tok))
			}
		}
	} else {
		result := python.Analyze(source)
		root, diags = result.Module, result.Diagnostics
		if showTokens {
			for _, tok := range result.Tokens {
				tokens = append(tokens, display.FormatToken(tok))
			}
		}
	}
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		logger.Debugw("Parsed",
			logger.FieldFile, name,
			logger.FieldDiagnostics, len(diags),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}

	out := cmd.OutOrStdout()
	switch format := display.OutputFormat(cmd); format {
	case display.FormatText:
		for _, line := range tokens {
			fmt.Fprintln(out, line)
		}
		if root != nil {
			tree, err := display.RenderTree(root)
			if err != nil {
				return err
			}
			fmt.Fprint(out, tree)
		}
		display.RenderDiagnostics(cmd.ErrOrStderr(), name, source, diags)
	default:
		if diags == nil {
			diags = diagnostic.List{}
		}
		payload := parseOutput{Tokens: tokens, Diagnostics: diags}
		if root != nil {
			payload.Tree = ast.Dump(root)
		}
		if err := display.Output(out, format, payload); err != nil {
			return err
		}
	}

	if len(diags) > 0 {
		return ErrProblemsFound
	}
	return nil
}
