// Package config handles reading and writing ~/.sentinel/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure for config.yaml.
type Config struct {
	ListenAddr   string      `yaml:"listen_addr"`
	DatabasePath string      `yaml:"database_path"`
	Coach        CoachConfig `yaml:"coach"`

	// Identity of this machine, written by `sentinel setup`.
	AccountID string `yaml:"account_id"`
	DeviceID  string `yaml:"device_id"`
}

// CoachConfig holds the external text-generation API settings. An empty
// api_key disables generation; the canned fallback is used instead.
type CoachConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

const configDir = ".sentinel"
const configFile = "config.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8787",
		Coach: CoachConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
		},
	}
}

// Load reads config.yaml from the user's home directory, falling back to
// defaults when the file does not exist.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locating home directory: %w", err)
	}
	return LoadFrom(filepath.Join(homeDir, configDir, configFile))
}

// Path returns the default config file location.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

// LoadFrom reads the config at an explicit path. A missing file yields the
// defaults, not an error; malformed YAML is an error.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}
	return cfg, nil
}

// Write saves cfg to the given path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
