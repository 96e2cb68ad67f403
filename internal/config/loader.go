package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the search directories.
const FileName = "terrain.yaml"

// Load loads the terrain configuration.
// Search order: customPath -> ~/.terrain/configs/terrain.yaml ->
// ./configs/terrain.yaml -> embedded default -> DefaultTerrainConfig.
// Only an explicit customPath can produce an error; the other sources are
// skipped when they are missing or malformed.
func Load(customPath string) (TerrainConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TerrainConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return TerrainConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if cfg, err := parse(defaultTerrainYAML); err == nil {
		return cfg, nil
	}
	return DefaultTerrainConfig(), nil
}

// parse decodes YAML on top of the hardcoded defaults so partial files
// only override what they mention, then validates the result.
func parse(data []byte) (TerrainConfig, error) {
	cfg := DefaultTerrainConfig()
	// Lists replace rather than merge
	cfg.Patterns = nil
	cfg.Materials = nil

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TerrainConfig{}, err
	}

	defaults := DefaultTerrainConfig()
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = defaults.Patterns
	}
	if len(cfg.Materials) == 0 {
		cfg.Materials = defaults.Materials
	}

	if err := cfg.Validate(); err != nil {
		return TerrainConfig{}, err
	}
	return cfg, nil
}

// Marshal encodes a configuration as YAML.
func Marshal(cfg TerrainConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// UserDir returns ~/.terrain, or empty if home is unavailable.
// Logs, the database and user configs live below it.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".terrain")
}
