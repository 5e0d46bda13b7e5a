package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/cmd/sith/commands"
	"github.com/LaBatata101/python-lsp/config"
	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/logger"
)

var rootCmd = &cobra.Command{
	Use:   "sith",
	Short: "sith - Python tokenizer, parser and language server",
	Long: `sith - Python tokenizer, parser and language server.

sith turns Python source into tokens and a syntax tree, reports every
syntax and indentation problem it finds without stopping at the first,
and serves the results to editors over the language server protocol.

Available commands:
  tokenize - Print the tokens of a file
  parse    - Print the syntax tree of a file
  check    - Report syntax problems in files and directories
  serve    - Start the language server
  config   - Show, create and validate configuration
  version  - Show version information

Examples:
  sith check .                      # Check every .py file below the current directory
  sith parse app.py --format json   # Dump the syntax tree as JSON
  echo 'x = (1 +' | sith tokenize - # Tokenize stdin
  sith serve --transport websocket  # Serve editors over WebSocket`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		config.SetConfigFile(path)

		verbosity := commands.Verbosity(cmd)
		cfg, loadErr := config.Load()
		if loadErr != nil {
			// config init must work even when the existing file is broken
			cfg = config.Default()
		}

		logger.SetTheme(cfg.Log.Theme)
		if err := logger.Initialize(cfg.Log.JSON, logger.EffectiveLevel(cfg.Log.Level, verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}

		if loadErr != nil {
			logger.Warnw("Falling back to built-in configuration", logger.FieldError, loadErr)
		} else if logger.ShouldOutput(verbosity, logger.OutputConfig) {
			logger.Debugw("Configuration loaded", logger.FieldCount, len(config.Files()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().String("config", "", "Config file to load on top of the discovered ones")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddCommand(commands.TokenizeCmd)
	rootCmd.AddCommand(commands.ParseCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Problems in the checked source were already printed
		if !errors.Is(err, commands.ErrProblemsFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			for _, hint := range errors.GetAllHints(err) {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}
}
