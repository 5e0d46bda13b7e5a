package config

import "github.com/spf13/viper"

// Default values
const (
	DefaultTransport      = TransportStdio
	DefaultAddress        = "127.0.0.1:2087"
	DefaultMaxDocuments   = 100
	DefaultLogLevel       = "warn"
	DefaultLogTheme       = "everforest"
	DefaultConfigFileName = "sith.toml"
)

// DefaultExcludes are skipped by `sith check` when walking directories.
var DefaultExcludes = []string{".git", ".venv", "venv", "__pycache__", "node_modules", ".tox"}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("requires", "")

	v.SetDefault("server.transport", DefaultTransport)
	v.SetDefault("server.address", DefaultAddress)
	v.SetDefault("server.max_documents", DefaultMaxDocuments)

	v.SetDefault("diagnostics.max_per_document", 0) // unlimited
	v.SetDefault("diagnostics.semantic_tokens", true)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.theme", DefaultLogTheme)

	v.SetDefault("workspace.exclude", DefaultExcludes)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport:    DefaultTransport,
			Address:      DefaultAddress,
			MaxDocuments: DefaultMaxDocuments,
		},
		Diagnostics: DiagnosticsConfig{SemanticTokens: true},
		Log:         LogConfig{Level: DefaultLogLevel, Theme: DefaultLogTheme},
		Workspace:   WorkspaceConfig{Exclude: append([]string(nil), DefaultExcludes...)},
	}
}
