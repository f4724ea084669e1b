package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults applied to values the config file leaves unset.
const (
	DefaultStorageDSN      = "crimetalk.db"
	DefaultAPIAddr         = "localhost:8080"
	DefaultRefreshSchedule = "@every 1h"
	DefaultLogLevel        = "info"

	RefreshOff = "off"
)

// FileConfig represents the structure of ~/.crimetalk/config.yaml.
type FileConfig struct {
	Storage struct {
		DSN string `yaml:"dsn"`
	} `yaml:"storage"`
	Site struct {
		BaseURL   string `yaml:"base_url"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"site"`
	Search struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"search"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Refresh struct {
		// Schedule is a cron spec; RefreshOff disables background refresh.
		Schedule string `yaml:"schedule"`
	} `yaml:"refresh"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// ConfigPath returns the location of the config file in the user's home
// directory.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".crimetalk", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.crimetalk/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from the given path with the same
// rules as LoadConfigFile.
func LoadConfigFileFrom(configPath string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// WithDefaults returns a copy of the config with unset values filled in.
// It is safe to call on a nil config.
func (c *FileConfig) WithDefaults() FileConfig {
	var cfg FileConfig
	if c != nil {
		cfg = *c
	}

	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = DefaultStorageDSN
	}
	if cfg.API.Addr == "" {
		cfg.API.Addr = DefaultAPIAddr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Refresh.Schedule == "" {
		cfg.Refresh.Schedule = DefaultRefreshSchedule
	}

	return cfg
}
