// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores bzm-mcp configuration in the XDG config dir.
// Only non-secret settings are kept here; the API key lives in a key file,
// the environment, or the OS keychain.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"bzm-mcp/cli/internal/xdg"
)

const (
	// DefaultBaseURL is the platform's API root.
	DefaultBaseURL = "https://a.blazemeter.com/api/v4"
	// DefaultAppURL is the web application root used to build execution links.
	DefaultAppURL = "https://a.blazemeter.com"
)

// Environment variables that override file settings.
const (
	EnvAPIKeyFile = "BLAZEMETER_API_KEY"
	EnvBaseURL    = "BZM_MCP_BASE_URL"
	EnvLogLevel   = "BZM_MCP_LOG_LEVEL"
)

// Config holds non-sensitive settings.
type Config struct {
	LogLevel       string        `yaml:"log_level"`
	BaseURL        string        `yaml:"base_url"`
	AppURL         string        `yaml:"app_url"`
	APIKeyFile     string        `yaml:"api_key_file,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Upload         UploadConfig  `yaml:"upload"`
}

// UploadConfig bounds the asset upload fan-out.
type UploadConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		LogLevel:       "error",
		BaseURL:        DefaultBaseURL,
		AppURL:         DefaultAppURL,
		RequestTimeout: 60 * time.Second,
		Upload: UploadConfig{
			Concurrency: 8,
			Timeout:     10 * time.Minute,
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// overrides are applied last.
func Load() (Config, error) {
	p, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFile(p)
}

// LoadFile reads configuration from an explicit path.
func LoadFile(p string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&c)
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}
	c.fillDefaults()
	applyEnv(&c)
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// fillDefaults restores zero values a partial file left behind.
func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.AppURL == "" {
		c.AppURL = d.AppURL
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.Upload.Concurrency <= 0 {
		c.Upload.Concurrency = d.Upload.Concurrency
	}
	if c.Upload.Timeout <= 0 {
		c.Upload.Timeout = d.Upload.Timeout
	}
}

func applyEnv(c *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKeyFile)); v != "" {
		c.APIKeyFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
}
