// Package config loads service settings from a yaml file with environment
// overrides. Every field has a usable default; a missing config file is not
// an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const configFile = "config.yml"

// Config holds process-wide settings. There is no other shared mutable state
// between requests.
type Config struct {
	Port           int    `yaml:"port"`
	Backend        string `yaml:"backend"` // native, ytdlp or scrape
	YtdlpPath      string `yaml:"ytdlp_path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	OutputDir      string `yaml:"output_dir"` // CLI download destination
	Quality        string `yaml:"quality"`
	LogJSON        bool   `yaml:"log_json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:           8000,
		Backend:        "native",
		TimeoutSeconds: 30,
		OutputDir:      ".",
		Quality:        "best",
	}
}

// Timeout returns the oracle invocation bound as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfigDir returns the directory holding the config file and history db.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tubeserve"), nil
}

// SavePath returns the config file location.
func SavePath() string {
	dir, err := ConfigDir()
	if err != nil {
		return configFile
	}
	return filepath.Join(dir, configFile)
}

// Exists reports whether a config file has been written.
func Exists() bool {
	_, err := os.Stat(SavePath())
	return err == nil
}

// LoadOrDefault reads the config file if present and applies environment
// overrides on top. It never fails; unreadable or malformed files fall back
// to defaults.
func LoadOrDefault() *Config {
	cfg := Default()
	if data, err := os.ReadFile(SavePath()); err == nil {
		if parsed, err := parse(data); err == nil {
			cfg = parsed
		}
	}
	applyEnv(cfg)
	return cfg
}

// Save writes the config file, creating the config directory if needed.
func Save(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, configFile), data, 0644)
}

// parse unmarshals yaml on top of the defaults, so omitted keys keep their
// default values.
func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from TUBESERVE_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("TUBESERVE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("TUBESERVE_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TUBESERVE_YTDLP_PATH"); v != "" {
		cfg.YtdlpPath = v
	}
	if v := os.Getenv("TUBESERVE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("TUBESERVE_QUALITY"); v != "" {
		cfg.Quality = v
	}
	if v := os.Getenv("TUBESERVE_LOG_JSON"); v != "" {
		cfg.LogJSON = v == "true" || v == "1"
	}
}
