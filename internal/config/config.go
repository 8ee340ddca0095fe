package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the glossa application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	Browse   BrowseConfig   `yaml:"browse"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig holds the sqlite location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MediaConfig holds the image storage root.
type MediaConfig struct {
	Root string `yaml:"root"`
}

// BrowseConfig holds browsing list settings.
type BrowseConfig struct {
	PollIntervalSec int `yaml:"poll_interval_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Load reads the YAML config at path, or returns defaults when path is
// empty or the file does not exist.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		path = os.Getenv("GLOSSA_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fill()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join("data", "glossa.db")},
		Media:    MediaConfig{Root: filepath.Join("data", "media")},
		Browse:   BrowseConfig{PollIntervalSec: 5},
		Logging:  LoggingConfig{Level: "info"},
	}
}

func (c *Config) fill() {
	d := defaults()
	if c.Database.Path == "" {
		c.Database.Path = d.Database.Path
	}
	if c.Media.Root == "" {
		c.Media.Root = d.Media.Root
	}
	if c.Browse.PollIntervalSec <= 0 {
		c.Browse.PollIntervalSec = d.Browse.PollIntervalSec
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// PollInterval returns the browsing refresh interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Browse.PollIntervalSec) * time.Second
}
