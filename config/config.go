// Package config loads sith's layered configuration: built-in defaults,
// then TOML files (user, pyproject.toml [tool.sith], project sith.toml, an
// explicit --config path), then SITH_* environment variables.
package config

import "fmt"

// Config represents the sith configuration
type Config struct {
	Requires    string            `mapstructure:"requires" toml:"requires,omitempty"` // semver constraint on the running sith
	Server      ServerConfig      `mapstructure:"server" toml:"server"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics" toml:"diagnostics"`
	Log         LogConfig         `mapstructure:"log" toml:"log"`
	Workspace   WorkspaceConfig   `mapstructure:"workspace" toml:"workspace"`
}

// ServerConfig configures the editor-protocol server
type ServerConfig struct {
	Transport    string `mapstructure:"transport" toml:"transport"`         // stdio, tcp or websocket
	Address      string `mapstructure:"address" toml:"address"`             // listen address for tcp and websocket
	MaxDocuments int    `mapstructure:"max_documents" toml:"max_documents"` // open-document cap per session (0 = unlimited)
}

// DiagnosticsConfig configures what the language service reports
type DiagnosticsConfig struct {
	MaxPerDocument int  `mapstructure:"max_per_document" toml:"max_per_document"` // 0 = unlimited
	SemanticTokens bool `mapstructure:"semantic_tokens" toml:"semantic_tokens"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json"`
	Level string `mapstructure:"level" toml:"level"` // debug, info, warn, error
	Theme string `mapstructure:"theme" toml:"theme"` // console theme: everforest, gruvbox
}

// WorkspaceConfig configures file discovery for `sith check`
type WorkspaceConfig struct {
	Exclude []string `mapstructure:"exclude" toml:"exclude"` // path fragments to skip
}

// Transports accepted by server.transport
const (
	TransportStdio     = "stdio"
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Server: {Transport: %s, Address: %s}, Diagnostics: {MaxPerDocument: %d}, Log: {Level: %s}}",
		c.Server.Transport, c.Server.Address, c.Diagnostics.MaxPerDocument, c.Log.Level)
}
