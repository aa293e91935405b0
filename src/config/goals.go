package config

import (
	"fmt"
	"os"
	"path/filepath"

	"fire-server/src/models"

	"github.com/BurntSushi/toml"
)

// LoadGoals reads investment goals from a TOML file. A missing file yields
// the defaults; keys absent from the file keep their default values.
func LoadGoals(path string) (models.UserConfig, error) {
	cfg := models.DefaultUserConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading goals: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing goals: %w", err)
	}
	return cfg, nil
}

// SaveGoals writes goals to path, creating parent directories.
func SaveGoals(path string, cfg models.UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating goals dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating goals file: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
