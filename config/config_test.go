package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected sqlite default backend, got %s", cfg.Store.Backend)
	}
	if cfg.Store.Path != "ontology.db" {
		t.Errorf("expected default db path, got %s", cfg.Store.Path)
	}
	if cfg.Import.WatchPattern != "**/*.ttl" {
		t.Errorf("expected default watch pattern, got %s", cfg.Import.WatchPattern)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "memory backend needs no path",
			modify:  func(c *Config) { c.Store.Backend = "memory"; c.Store.Path = "" },
			wantErr: false,
		},
		{
			name:    "sqlite without path",
			modify:  func(c *Config) { c.Store.Path = "" },
			wantErr: true,
		},
		{
			name:    "unknown backend",
			modify:  func(c *Config) { c.Store.Backend = "postgres" },
			wantErr: true,
		},
		{
			name:    "nats backend without url",
			modify:  func(c *Config) { c.Store.Backend = "nats" },
			wantErr: true,
		},
		{
			name: "nats backend with url",
			modify: func(c *Config) {
				c.Store.Backend = "nats"
				c.NATS.URL = "nats://localhost:4222"
			},
			wantErr: false,
		},
		{
			name:    "negative pace",
			modify:  func(c *Config) { c.Import.Pace = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Store:  StoreConfig{Backend: "memory"},
		Import: ImportConfig{Pace: 50 * time.Millisecond},
	})

	if base.Store.Backend != "memory" {
		t.Errorf("backend not overridden: %s", base.Store.Backend)
	}
	if base.Import.Pace != 50*time.Millisecond {
		t.Errorf("pace not overridden: %s", base.Import.Pace)
	}
	// Untouched fields keep their defaults.
	if base.Import.WatchPattern != "**/*.ttl" {
		t.Errorf("watch pattern should keep default: %s", base.Import.WatchPattern)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Store.Backend = "memory"
	cfg.NATS.URL = "nats://example:4222"
	cfg.Import.Pace = 100 * time.Millisecond

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Store.Backend != "memory" {
		t.Errorf("backend lost: %s", loaded.Store.Backend)
	}
	if loaded.NATS.URL != "nats://example:4222" {
		t.Errorf("url lost: %s", loaded.NATS.URL)
	}
	if loaded.Import.Pace != 100*time.Millisecond {
		t.Errorf("pace lost: %s", loaded.Import.Pace)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFileMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("store: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store:\n  backend: memory\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(nil).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("backend not applied: %s", cfg.Store.Backend)
	}
	// Defaults still present underneath.
	if cfg.Import.WatchPattern != "**/*.ttl" {
		t.Errorf("defaults lost: %s", cfg.Import.WatchPattern)
	}
}
