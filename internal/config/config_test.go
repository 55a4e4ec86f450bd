package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "armory-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Version != 1 {
		t.Errorf("Expected version 1, got %d", cfg.Version)
	}
	if cfg.DataDir != tmpDir {
		t.Errorf("Expected data dir %q, got %q", tmpDir, cfg.DataDir)
	}
	if cfg.Seed.DemoWeapons {
		t.Error("Expected demo weapons disabled by default")
	}
	if cfg.Logging.Format != "human" || cfg.Logging.Level != "info" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "armory-config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := DefaultConfig()
	cfg.DataDir = tmpDir
	cfg.Seed.DemoWeapons = true
	cfg.Backup.Compress = true
	cfg.Logging.Level = "debug"

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "config.json")); err != nil {
		t.Fatalf("Config file not written: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if !loaded.Seed.DemoWeapons {
		t.Error("Expected demo weapons enabled after reload")
	}
	if !loaded.Backup.Compress {
		t.Error("Expected backup compression enabled after reload")
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", loaded.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	cfg.Version = 2
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported version")
	}

	cfg = DefaultConfig()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error for unknown logging format")
	}
	configErr, ok := err.(*ConfigError)
	if !ok {
		t.Fatalf("Expected *ConfigError, got %T", err)
	}
	if configErr.Field != "logging.format" {
		t.Errorf("Expected field 'logging.format', got %q", configErr.Field)
	}
}
