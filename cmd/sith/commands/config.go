package commands

import (
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/config"
	"github.com/LaBatata101/python-lsp/display"
	"github.com/LaBatata101/python-lsp/errors"
)

// ConfigCmd groups the configuration subcommands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show, create and validate configuration",
	Long: `Display and manage sith configuration.

Configuration sources (later overrides earlier):
1. Built-in defaults
2. User config (~/.sith.toml or $XDG_CONFIG_HOME/sith/sith.toml)
3. [tool.sith] in pyproject.toml (searches up directories)
4. Project config (./sith.toml, searches up directories)
5. --config FILE
6. Environment variables (SITH_* prefix, e.g. SITH_SERVER_TRANSPORT)

Examples:
  sith config show                 # Show the effective configuration
  sith config show --format json   # ... as JSON
  sith config where                # Show which layer set each key
  sith config init                 # Write ./sith.toml with the defaults
  sith config validate             # Check the configuration`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each setting comes from",
	RunE:  runConfigWhere,
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write a config file with the default settings",
	Long:  "Write the built-in configuration to PATH (default ./sith.toml). An existing file is backed up and replaced only with --force.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long:  "Load every config layer, validate the result and warn about keys sith does not know.",
	RunE:  runConfigValidate,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Replace an existing file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format := configFormat
	if !cmd.Flags().Changed("format") && display.ShouldOutputJSON(cmd) {
		format = display.FormatJSON
	}

	out := cmd.OutOrStdout()
	switch format {
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# sith configuration\n%s", data)
		return nil
	case display.FormatJSON, display.FormatYAML:
		return display.Output(out, format, configView(cfg))
	}
	return errors.WithHint(
		errors.NewInvalidRequestError("unsupported format %q", format),
		"use one of toml, json, yaml")
}

// configView keys the configuration the way the TOML file does.
func configView(cfg *config.Config) map[string]any {
	view := map[string]any{
		"server": map[string]any{
			"transport":     cfg.Server.Transport,
			"address":       cfg.Server.Address,
			"max_documents": cfg.Server.MaxDocuments,
		},
		"diagnostics": map[string]any{
			"max_per_document": cfg.Diagnostics.MaxPerDocument,
			"semantic_tokens":  cfg.Diagnostics.SemanticTokens,
		},
		"log": map[string]any{
			"json":  cfg.Log.JSON,
			"level": cfg.Log.Level,
			"theme": cfg.Log.Theme,
		},
		"workspace": map[string]any{
			"exclude": cfg.Workspace.Exclude,
		},
	}
	if cfg.Requires != "" {
		view["requires"] = cfg.Requires
	}
	return view
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	intro, err := config.Introspect()
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), intro)
	}

	out := cmd.OutOrStdout()
	if len(intro.Files) == 0 {
		fmt.Fprintln(out, "No config files found, using built-in defaults")
	} else {
		fmt.Fprintln(out, "Config files (later overrides earlier):")
		for i, f := range intro.Files {
			fmt.Fprintf(out, "  %d. %s\n", i+1, f)
		}
	}
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source"}}
	for _, s := range intro.Settings {
		source := string(s.Source)
		if s.SourcePath != "" {
			source += " (" + s.SourcePath + ")"
		}
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), source})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render settings")
	}
	fmt.Fprintln(out, table)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigFileName
	if len(args) == 1 {
		path = args[0]
	}

	if err := config.WriteDefault(path, configForce); err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", abs)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	warn := pterm.Warning.WithWriter(out)
	for _, path := range config.Files() {
		if filepath.Base(path) == "pyproject.toml" {
			// Only [tool.sith] belongs to sith
			continue
		}
		unknown, err := config.CheckFile(path)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			warn.Printfln("%s: unknown key %q", path, key)
		}
	}

	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	pterm.Success.WithWriter(out).Println("Configuration is valid")
	return nil
}
