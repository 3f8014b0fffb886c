package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	def := DefaultConfig()
	if *cfg != *def {
		t.Errorf("got %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadFrom_OverridesDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "host: ftp.example.com\nconnection_mode: active\nrate_limit: 65536\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Host != "ftp.example.com" {
		t.Errorf("host = %q", cfg.Host)
	}
	if cfg.ConnectionMode != "active" {
		t.Errorf("connection_mode = %q", cfg.ConnectionMode)
	}
	if cfg.RateLimit != 65536 {
		t.Errorf("rate_limit = %d", cfg.RateLimit)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Port != 21 {
		t.Errorf("port = %d, want default 21", cfg.Port)
	}
	if cfg.TransferMode != "auto" {
		t.Errorf("transfer_mode = %q, want default auto", cfg.TransferMode)
	}
}

func TestLoadFrom_BadYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("host: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom accepted malformed yaml")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Host = "10.0.0.5"
	cfg.User = "deploy"
	cfg.LogLevel = "debug"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}
