package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	appDirName      = "ontology-builder"
	projectFileName = "ontology-builder.yaml"
)

// Loader handles layered configuration loading.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a configuration loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load resolves configuration in layers: defaults, then the user config
// file, then a project config file found by walking up from the current
// directory. Later layers override earlier ones.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	if userPath, err := userConfigPath(); err == nil {
		if loaded, err := LoadFromFile(userPath); err == nil {
			config.Merge(loaded)
			l.logger.Debug("loaded user config", slog.String("path", userPath))
		}
	}

	if projectPath, ok := findProjectConfig(); ok {
		loaded, err := LoadFromFile(projectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load project config %s: %w", projectPath, err)
		}
		config.Merge(loaded)
		l.logger.Debug("loaded project config", slog.String("path", projectPath))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// LoadFile loads a single explicit config file over defaults.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config := DefaultConfig()

	loaded, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	config.Merge(loaded)
	l.logger.Debug("loaded config", slog.String("path", path))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func userConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName, "config.yaml"), nil
}

// findProjectConfig walks up from the working directory looking for a
// project config file.
func findProjectConfig() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, projectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
