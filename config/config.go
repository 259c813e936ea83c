// Package config provides configuration loading and management for the
// ontology builder.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	NATS    NATSConfig    `yaml:"nats"`
	Import  ImportConfig  `yaml:"import"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is one of "memory", "sqlite", "nats".
	Backend string `yaml:"backend"`
	// Path is the SQLite database path (sqlite backend only).
	Path string `yaml:"path"`
}

// NATSConfig configures the NATS connection for the nats backend and
// graph publishing.
type NATSConfig struct {
	// URL is the NATS server URL (empty = no NATS features).
	URL string `yaml:"url"`
	// PublishGraph enables publishing merge results to the graph
	// ingestion stream.
	PublishGraph bool `yaml:"publish_graph"`
}

// ImportConfig tunes merge/import execution.
type ImportConfig struct {
	// Pace is the delay inserted between created entities, keeping a
	// calling UI responsive. Zero disables pacing.
	Pace time.Duration `yaml:"pace"`
	// WatchPattern selects files in watch mode.
	WatchPattern string `yaml:"watch_pattern"`
}

// MetricsConfig configures the metrics endpoint served in watch mode.
type MetricsConfig struct {
	// Addr is the listen address (empty = metrics disabled).
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "ontology.db",
		},
		NATS: NATSConfig{
			URL:          "",
			PublishGraph: false,
		},
		Import: ImportConfig{
			Pace:         25 * time.Millisecond,
			WatchPattern: "**/*.ttl",
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "nats":
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == "nats" && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required for the nats backend")
	}
	if c.Import.Pace < 0 {
		return fmt.Errorf("import.pace must not be negative")
	}
	return nil
}

// Merge overlays non-zero fields from other onto this config.
func (c *Config) Merge(other *Config) {
	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.Path != "" {
		c.Store.Path = other.Store.Path
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.PublishGraph {
		c.NATS.PublishGraph = true
	}
	if other.Import.Pace != 0 {
		c.Import.Pace = other.Import.Pace
	}
	if other.Import.WatchPattern != "" {
		c.Import.WatchPattern = other.Import.WatchPattern
	}
	if other.Metrics.Addr != "" {
		c.Metrics.Addr = other.Metrics.Addr
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
