package config

import (
	"net"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := version.Check(version.Version, c.Requires); err != nil {
		return err
	}

	switch c.Server.Transport {
	case TransportStdio:
	case TransportTCP, TransportWebSocket:
		if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
			return errors.WithHint(
				errors.Wrapf(err, "server.address %q is not host:port", c.Server.Address),
				"use a value such as 127.0.0.1:2087")
		}
	default:
		return errors.Newf("server.transport must be one of stdio, tcp, websocket, got %q", c.Server.Transport)
	}

	// 0 = unlimited, negative = invalid
	if c.Server.MaxDocuments < 0 {
		return errors.Newf("server.max_documents must be >= 0, got %d", c.Server.MaxDocuments)
	}
	if c.Diagnostics.MaxPerDocument < 0 {
		return errors.Newf("diagnostics.max_per_document must be >= 0, got %d", c.Diagnostics.MaxPerDocument)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrapf(err, "log.level")
	}

	switch c.Log.Theme {
	case "", "everforest", "gruvbox":
	default:
		return errors.Newf("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	return nil
}

// CheckFile decodes a sith.toml strictly and returns the keys it sets that
// sith does not know about. Unknown keys are warnings, not errors: viper
// ignores them, but they usually mean a typo.
func CheckFile(path string) ([]string, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return unknown, nil
}
