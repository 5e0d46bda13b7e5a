package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/display"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/python"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
	"github.com/LaBatata101/python-lsp/python/token"
)

// TokenizeCmd prints the token stream of a file
var TokenizeCmd = &cobra.Command{
	Use:   "tokenize FILE|-",
	Short: "Print the tokens of a Python file",
	Long: `Scan a Python file and print one token per line:

  row:col-row:col Kind value

Layout tokens (NewLine, Indent, Dedent, Eof) are included. Lexical problems
are printed after the tokens and make the command exit non-zero.

Examples:
  sith tokenize app.py
  sith tokenize --json app.py
  printf 'x = 1\n' | sith tokenize -`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

type tokenizeOutput struct {
	Tokens      []token.Token   `json:"tokens"`
	Diagnostics diagnostic.List `json:"diagnostics"`
}

func runTokenize(cmd *cobra.Command, args []string) error {
	source, name, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	start := time.Now()
	tokens, diags := python.Tokenize(source)
	if logger.ShouldOutput(Verbosity(cmd), logger.OutputTiming) {
		logger.Debugw("Tokenized",
			logger.FieldFile, name,
			logger.FieldTokens, len(tokens),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}

	if display.ShouldOutputJSON(cmd) {
		if diags == nil {
			diags = diagnostic.List{}
		}
		if err := display.OutputJSON(cmd.OutOrStdout(), tokenizeOutput{Tokens: tokens, Diagnostics: diags}); err != nil {
			return err
		}
	} else {
		for _, tok := range tokens {
			fmt.Fprintln(cmd.OutOrStdout(), display.FormatToken(tok))
		}
		display.RenderDiagnostics(cmd.ErrOrStderr(), name, source, diags)
	}

	if len(diags) > 0 {
		return ErrProblemsFound
	}
	return nil
}
