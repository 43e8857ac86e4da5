package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadBlast loads the block puzzle configuration.
// Search order: customPath -> ~/.arcade/configs/blast.yaml -> ./configs/blast.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadBlast(customPath string) (BlastConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultBlastConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseBlast(data)
		if err != nil {
			return DefaultBlastConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("blast.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseBlast(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "blast.yaml")); err == nil {
		if cfg, err := parseBlast(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseBlast(defaultBlastYAML)
	if err != nil {
		return DefaultBlastConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseBlast decodes data over the defaults and normalizes the result.
func parseBlast(data []byte) (BlastConfig, error) {
	cfg := DefaultBlastConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Normalize()
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}
