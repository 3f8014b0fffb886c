// Package config loads and persists the ftpcli configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Host is the default server to connect to when "open" is called
	// without arguments.
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// User pre-fills the login prompt. The password is never stored.
	User string `yaml:"user"`

	// ConnectionMode is "passive" or "active".
	ConnectionMode string `yaml:"connection_mode"`

	// TransferMode is "auto", "ascii" or "binary".
	TransferMode string `yaml:"transfer_mode"`

	// TimeoutSeconds bounds each control and data operation.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// IdleTimeoutSeconds enables keep-alive NOOPs when non-zero.
	IdleTimeoutSeconds int `yaml:"idle_timeout_seconds"`

	// RateLimit caps transfer bandwidth in bytes per second. Zero
	// disables throttling.
	RateLimit int64 `yaml:"rate_limit"`

	// LogLevel is "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Port:           21,
		ConnectionMode: "passive",
		TransferMode:   "auto",
		TimeoutSeconds: 30,
		LogLevel:       "warn",
	}
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ftpcli", "config.yaml")
}

// Load reads the config file, falling back to defaults when it does
// not exist. Fields absent from the file keep their default values.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
