package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mpm/internal/domain"

	"gopkg.in/yaml.v3"
)

// EnvCurseForgeAPIKey overrides the configured CurseForge API key when set
const EnvCurseForgeAPIKey = "CURSEFORGE_API_KEY"

// Config holds global application settings
type Config struct {
	CurseForgeAPIKey string `yaml:"curseforge_api_key,omitempty"`
	DefaultLoader    string `yaml:"default_loader"`
	Concurrency      int    `yaml:"concurrency"` // Mods resolved in parallel during conversion
	LogFile          string `yaml:"log_file,omitempty"`
}

// Load reads configuration from the given directory
func Load(configDir string) (*Config, error) {
	cfg := &Config{
		DefaultLoader: "fabric",
		Concurrency:   1,
	}

	configPath := filepath.Join(configDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		data = nil // Use defaults
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if key := os.Getenv(EnvCurseForgeAPIKey); key != "" {
		cfg.CurseForgeAPIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that have no sensible fallback
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", domain.ErrInvalidConfig, c.Concurrency)
	}
	return nil
}

// Save writes configuration to the given directory
func (c *Config) Save(configDir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
