package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/LaBatata101/python-lsp/errors"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	explicitPath  string
	loadedFiles   []string

	// ConfigSources records which layer supplied each dotted key during the
	// last load. Keys missing from the map come from the built-in defaults.
	ConfigSources = map[string]SourceInfo{}
)

// SetConfigFile makes path the highest-precedence config file and drops any
// cached configuration. An empty path restores the normal search.
func SetConfigFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	explicitPath = path
	resetLocked()
}

// Load reads the sith configuration using Viper. The result is cached until
// Reset or SetConfigFile is called.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance behind the last Load.
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	v, err := initViper()
	if err != nil {
		// Fall back to defaults only; Load reports the error
		v = viper.New()
		SetDefaults(v)
	}
	return v
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults, without consulting other files or the environment.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	return cfg, nil
}

// Files returns the config files merged by the last load, lowest precedence first.
func Files() []string {
	mu.Lock()
	defer mu.Unlock()
	return append([]string(nil), loadedFiles...)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	resetLocked()
}

func resetLocked() {
	globalConfig = nil
	viperInstance = nil
	loadedFiles = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold mu.
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()

	// SITH_SERVER_ADDRESS overrides server.address, and so on
	v.SetEnvPrefix("SITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}

	viperInstance = v
	return v, nil
}

// configLayer is one candidate file in the search order.
type configLayer struct {
	path   string
	source ConfigSource
}

// searchPaths lists candidate files, lowest precedence first:
// ~/.sith.toml < $XDG_CONFIG_HOME/sith/sith.toml < pyproject.toml [tool.sith]
// < project sith.toml < explicit --config path.
func searchPaths() []configLayer {
	var layers []configLayer

	if home, err := os.UserHomeDir(); err == nil {
		layers = append(layers, configLayer{filepath.Join(home, ".sith.toml"), SourceUser})
	}

	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		if home, err := os.UserHomeDir(); err == nil {
			xdg = filepath.Join(home, ".config")
		}
	}
	if xdg != "" {
		layers = append(layers, configLayer{filepath.Join(xdg, "sith", DefaultConfigFileName), SourceUser})
	}

	if path := findProjectFile("pyproject.toml"); path != "" {
		layers = append(layers, configLayer{path, SourcePyproject})
	}
	if path := findProjectFile(DefaultConfigFileName); path != "" {
		layers = append(layers, configLayer{path, SourceProject})
	}
	if explicitPath != "" {
		layers = append(layers, configLayer{explicitPath, SourceExplicit})
	}
	return layers
}

// findProjectFile searches for name by walking up from the working directory.
// Returns the first path found, or empty string if none found.
func findProjectFile(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// mergeConfigFiles merges configuration files in precedence order.
// Missing files are skipped; an unreadable explicit file is an error.
func mergeConfigFiles(v *viper.Viper) error {
	for _, layer := range searchPaths() {
		if _, err := os.Stat(layer.path); err != nil {
			if layer.source == SourceExplicit {
				return errors.WithHint(
					errors.Wrapf(err, "config file %s", layer.path),
					"run 'sith config init' to create one")
			}
			continue
		}

		settings, err := readLayer(layer)
		if err != nil {
			if layer.source == SourceExplicit {
				return err
			}
			// A broken user or project file should not block startup
			continue
		}
		if len(settings) == 0 {
			continue
		}

		if err := v.MergeConfigMap(settings); err != nil {
			return errors.Wrapf(err, "failed to merge %s", layer.path)
		}
		markSettingsFromSource(settings, "", layer.source, layer.path, ConfigSources)
		loadedFiles = append(loadedFiles, layer.path)
	}
	return nil
}

// readLayer returns the settings one file contributes.
func readLayer(layer configLayer) (map[string]interface{}, error) {
	if layer.source == SourcePyproject {
		return readPyproject(layer.path)
	}

	tempViper := viper.New()
	tempViper.SetConfigFile(layer.path)
	tempViper.SetConfigType("toml")
	if err := tempViper.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", layer.path)
	}
	return tempViper.AllSettings(), nil
}

// pyproject is the part of pyproject.toml sith reads.
type pyproject struct {
	Tool struct {
		Sith map[string]interface{} `toml:"sith"`
	} `toml:"tool"`
}

// readPyproject extracts the [tool.sith] table of a pyproject.toml.
func readPyproject(path string) (map[string]interface{}, error) {
	var doc pyproject
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return doc.Tool.Sith, nil
}

// markSettingsFromSource records source for every leaf key in settings.
func markSettingsFromSource(settings map[string]interface{}, prefix string, source ConfigSource, path string, sourceMap map[string]SourceInfo) {
	for key, value := range settings {
		fullKey := strings.ToLower(key)
		if prefix != "" {
			fullKey = prefix + "." + fullKey
		}
		if nested, ok := value.(map[string]interface{}); ok {
			markSettingsFromSource(nested, fullKey, source, path, sourceMap)
			continue
		}
		sourceMap[fullKey] = SourceInfo{Source: source, Path: path}
	}
}
