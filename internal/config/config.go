package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config captures user-tunable behaviour for scanning, refreshing, and
// launching projects.
type Config struct {
	Version int        `yaml:"version" json:"version"`
	Scan    ScanConfig `yaml:"scan" json:"scan"`
	Refresh Refresh    `yaml:"refresh" json:"refresh"`
	Editors Editors    `yaml:"editors" json:"editors"`

	// DefaultProjectDir is where `flustudio create` puts new projects when
	// no location is given.
	DefaultProjectDir string `yaml:"default_project_dir" json:"default_project_dir"`
}

// ScanConfig controls project discovery.
type ScanConfig struct {
	Roots    []string `yaml:"roots" json:"roots"`
	MaxDepth int      `yaml:"max_depth" json:"max_depth"`
}

// Refresh controls the metadata refresh worker pool.
type Refresh struct {
	Parallelism int `yaml:"parallelism" json:"parallelism"`
}

// Editors holds optional editor executable paths.
type Editors struct {
	VSCode        string `yaml:"vscode" json:"vscode"`
	AndroidStudio string `yaml:"android_studio" json:"android_studio"`
}

// Default returns the baseline configuration.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Version: 1,
		Scan: ScanConfig{
			MaxDepth: 3,
		},
		Refresh: Refresh{
			Parallelism: 4,
		},
		DefaultProjectDir: filepath.Join(home, "flutter_projects"),
	}
}

// Load reads the configuration file, returning defaults when it is absent.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to path.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("prepare config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Scan.MaxDepth <= 0 {
		c.Scan.MaxDepth = 3
	}
	if c.Refresh.Parallelism <= 0 {
		c.Refresh.Parallelism = 4
	}
}
