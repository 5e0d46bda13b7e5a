// Package commands implements the sith subcommands.
package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/config"
	"github.com/LaBatata101/python-lsp/errors"
)

// ErrProblemsFound is returned when the processed source had diagnostics.
// The diagnostics themselves have already been printed.
var ErrProblemsFound = errors.New("problems found")

// stdinName is how diagnostics refer to source read from stdin.
const stdinName = "<stdin>"

// Verbosity returns the -v count of the root command.
func Verbosity(cmd *cobra.Command) int {
	count, err := cmd.Root().PersistentFlags().GetCount("verbose")
	if err != nil {
		return 0
	}
	return count
}

// readSource reads a file, or stdin when arg is "-". It returns the source
// and the name diagnostics should use for it.
func readSource(cmd *cobra.Command, arg string) (string, string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", errors.Wrap(err, "failed to read stdin")
		}
		return string(data), stdinName, nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "%s", arg),
				"pass '-' to read from stdin")
		}
		return "", "", errors.Wrapf(err, "failed to read %s", arg)
	}
	return string(data), arg, nil
}

// loadConfig returns the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "failed to load config"),
			"run 'sith config validate' to see what is wrong")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
