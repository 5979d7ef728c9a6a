package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config models arbeitskorb.yml. The acting user is fixed per
// deployment; identity resolution belongs to the boundary outside this
// service.
type Config struct {
	User struct {
		Name string `yaml:"name"`
		Team string `yaml:"team"`
	} `yaml:"user"`
	Server struct {
		Listen   string `yaml:"listen"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
}

// Default returns the reference deployment config: the seeded fixture
// is built around Alice in Leistung-Team Nord.
func Default() *Config {
	var cfg Config
	cfg.User.Name = "Alice"
	cfg.User.Team = "Leistung-Team Nord"
	cfg.Server.Listen = "127.0.0.1:8080"
	cfg.Server.BasePath = "/api"
	return &cfg
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.User.Name == "" {
		return fmt.Errorf("config.user.name is required")
	}
	if c.User.Team == "" {
		return fmt.Errorf("config.user.team is required")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "arbeitskorb.yml")
}

// Load reads config from the workspace, failing if the file is absent.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes. Fields not
// set in the file keep their defaults.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
