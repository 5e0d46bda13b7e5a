package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaBatata101/python-lsp/errors"
)

// isolate points HOME, XDG_CONFIG_HOME and the working directory at fresh
// temp directories so no real config file leaks into a test.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Chdir(project)

	SetConfigFile("")
	t.Cleanup(func() { SetConfigFile("") })
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user or project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFiles(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, TransportStdio, cfg.Server.Transport)
	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.Empty(t, Files())
}

func TestLoad_LayerPrecedence(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, ".sith.toml"), `
[server]
address = "127.0.0.1:9000"
transport = "websocket"

[log]
level = "info"
`)
	writeFile(t, filepath.Join(project, "pyproject.toml"), `
[project]
name = "demo"

[tool.sith.diagnostics]
max_per_document = 5
`)
	writeFile(t, filepath.Join(project, "sith.toml"), `
[server]
transport = "tcp"
`)
	t.Setenv("SITH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address, "user file value survives a project file touching the same table")
	assert.Equal(t, TransportTCP, cfg.Server.Transport, "project sith.toml wins over the user file")
	assert.Equal(t, 5, cfg.Diagnostics.MaxPerDocument, "pyproject [tool.sith] is read")
	assert.Equal(t, "debug", cfg.Log.Level, "environment wins over every file")
	assert.True(t, cfg.Diagnostics.SemanticTokens, "defaults fill the rest")

	files := Files()
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(project, "sith.toml"), files[2])

	assert.Equal(t, SourceProject, ConfigSources["server.transport"].Source)
	assert.Equal(t, SourceUser, ConfigSources["server.address"].Source)
	assert.Equal(t, SourcePyproject, ConfigSources["diagnostics.max_per_document"].Source)
}

func TestLoad_ProjectFileFoundFromSubdirectory(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "sith.toml"), "[server]\nmax_documents = 7\n")

	sub := filepath.Join(project, "pkg", "sub")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)
	Reset()

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Server.MaxDocuments)
}

func TestLoad_ExplicitFile(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "sith.toml"), "[log]\nlevel = \"info\"\n")
	explicit := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, explicit, "[log]\nlevel = \"error\"\n")

	SetConfigFile(explicit)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, SourceExplicit, ConfigSources["log.level"].Source)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	SetConfigFile(filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "sith config init")
}

func TestLoad_IsCached(t *testing.T) {
	isolate(t)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:   "version constraint passes on dev builds",
			mutate: func(c *Config) { c.Requires = ">= 99" },
		},
		{
			name:   "tcp with host:port",
			mutate: func(c *Config) { c.Server.Transport = TransportTCP },
		},
		{
			name:    "unknown transport",
			mutate:  func(c *Config) { c.Server.Transport = "pipe" },
			wantErr: "server.transport",
		},
		{
			name: "websocket without port",
			mutate: func(c *Config) {
				c.Server.Transport = TransportWebSocket
				c.Server.Address = "localhost"
			},
			wantErr: "server.address",
		},
		{
			name:   "stdio ignores address",
			mutate: func(c *Config) { c.Server.Address = "" },
		},
		{
			name:   "zero max documents is unlimited",
			mutate: func(c *Config) { c.Server.MaxDocuments = 0 },
		},
		{
			name:    "negative max documents",
			mutate:  func(c *Config) { c.Server.MaxDocuments = -1 },
			wantErr: "server.max_documents",
		},
		{
			name:    "negative diagnostics cap",
			mutate:  func(c *Config) { c.Diagnostics.MaxPerDocument = -3 },
			wantErr: "diagnostics.max_per_document",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "log.level",
		},
		{
			name:    "unknown theme",
			mutate:  func(c *Config) { c.Log.Theme = "solarized" },
			wantErr: "log.theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sith.toml")
	writeFile(t, path, `
[server]
transport = "tcp"
port = 2087

[lint]
enabled = true
`)

	unknown, err := CheckFile(path)
	require.NoError(t, err)
	assert.Contains(t, unknown, "server.port")
	assert.Contains(t, unknown, "lint.enabled")
	assert.NotContains(t, unknown, "server.transport")

	writeFile(t, path, "[server\n")
	_, err = CheckFile(path)
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sith.toml")

	require.NoError(t, WriteDefault(path, false))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	unknown, err := CheckFile(path)
	require.NoError(t, err)
	assert.Empty(t, unknown, "a generated file only contains known keys")

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, errors.FlattenHints(err), "--force")

	require.NoError(t, WriteDefault(path, true))
	assert.FileExists(t, path+".back1")
	require.NoError(t, WriteDefault(path, true))
	assert.FileExists(t, path+".back2")
}

func TestMarkSettingsFromSource(t *testing.T) {
	settings := map[string]interface{}{
		"server": map[string]interface{}{
			"transport": "tcp",
			"Address":   "127.0.0.1:1",
		},
		"top": 1,
	}

	sourceMap := make(map[string]SourceInfo)
	markSettingsFromSource(settings, "", SourceProject, "/repo/sith.toml", sourceMap)

	assert.Len(t, sourceMap, 3)
	assert.Equal(t, SourceProject, sourceMap["server.transport"].Source)
	assert.Equal(t, "/repo/sith.toml", sourceMap["server.address"].Path)
	assert.Equal(t, SourceProject, sourceMap["top"].Source)
}

func TestIntrospect(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "sith.toml"), "[server]\ntransport = \"tcp\"\n")
	t.Setenv("SITH_DIAGNOSTICS_MAX_PER_DOCUMENT", "9")

	info, err := Introspect()
	require.NoError(t, err)
	require.Len(t, info.Files, 1)

	byKey := make(map[string]SettingInfo)
	for _, s := range info.Settings {
		byKey[s.Key] = s
	}
	assert.Equal(t, SourceProject, byKey["server.transport"].Source)
	assert.Equal(t, SourceDefault, byKey["log.level"].Source)
	assert.Equal(t, SourceEnvironment, byKey["diagnostics.max_per_document"].Source)
	assert.Equal(t, "SITH_DIAGNOSTICS_MAX_PER_DOCUMENT", byKey["diagnostics.max_per_document"].SourcePath)
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/x/sith.toml.back1"))
	assert.True(t, isBackupFile("sith.toml.back3"))
	assert.False(t, isBackupFile("sith.toml"))
	assert.False(t, isBackupFile("sith.toml.backup"))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	_, project := isolate(t)
	path := filepath.Join(project, "sith.toml")
	writeFile(t, path, "[server]\nmax_documents = 1\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()
	w.SetDebounce(20 * time.Millisecond)

	reloaded := make(chan *Config, 4)
	w.OnReload(func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	w.Start()

	writeFile(t, path, "[server]\nmax_documents = 42\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 42, cfg.Server.MaxDocuments)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcherIgnoresOwnWrite(t *testing.T) {
	_, project := isolate(t)
	path := filepath.Join(project, "sith.toml")
	writeFile(t, path, "[server]\nmax_documents = 1\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()

	w.MarkOwnWrite()
	assert.True(t, w.checkOwnWrite())
	assert.False(t, w.checkOwnWrite(), "the flag is cleared after one write")
}

func TestNewWatcherRequiresPaths(t *testing.T) {
	_, err := NewWatcher()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}
