// Package config loads legends settings from a YAML file with environment
// overrides. A missing file is not an error; every field has a default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderAuthURL is the sentinel endpoint shipped in sample configs.
// Pointing at it (or at nothing) selects demo mode.
const PlaceholderAuthURL = "https://example.supabase.co"

// Config holds all legends configuration.
type Config struct {
	Auth    AuthConfig    `yaml:"auth"`
	Site    SiteConfig    `yaml:"site"`
	Brief   BriefConfig   `yaml:"brief"`
	Logging LoggingConfig `yaml:"logging"`

	// Dir is the state directory (~/.legends). Not read from YAML.
	Dir string `yaml:"-"`
}

// AuthConfig configures the identity provider.
type AuthConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`

	// SignUpEstablishesSession makes a successful sign-up also sign the user
	// in. Off by default: sign-up only returns the new identity.
	SignUpEstablishesSession bool `yaml:"signup_establishes_session"`

	// RefreshMargin is how long before expiry the access token is refreshed.
	RefreshMargin time.Duration `yaml:"refresh_margin"`
	Timeout       time.Duration `yaml:"timeout"`

	// SessionFile overrides where the live session is persisted.
	SessionFile string `yaml:"session_file"`
}

// SiteConfig describes the web origin used for links sent by the provider.
type SiteConfig struct {
	URL string `yaml:"url"`
}

// BriefConfig configures the project brief generator.
type BriefConfig struct {
	TemplatePath string `yaml:"template_path"`
	DownloadDir  string `yaml:"download_dir"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Demo reports whether no real identity provider is configured.
func (a AuthConfig) Demo() bool {
	return a.URL == "" || a.URL == PlaceholderAuthURL
}

// ResetRedirectURL is where password reset emails send the user.
func (c Config) ResetRedirectURL() string {
	return c.Site.URL + "/reset-password"
}

// DefaultDir returns ~/.legends.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".legends"), nil
}

// Default returns the built-in configuration rooted at dir.
func Default(dir string) Config {
	return Config{
		Auth: AuthConfig{
			RefreshMargin: 60 * time.Second,
			Timeout:       30 * time.Second,
			SessionFile:   filepath.Join(dir, "session.json"),
		},
		Site:    SiteConfig{URL: "http://localhost:5173"},
		Brief:   BriefConfig{DownloadDir: "."},
		Logging: LoggingConfig{Level: "info", File: filepath.Join(dir, "legends.log")},
		Dir:     dir,
	}
}

// Load reads path (or dir/config.yaml when path is empty) over the defaults
// and applies environment overrides.
func Load(path string) (Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir, path, os.Getenv)
}

// LoadFrom is Load with an explicit state dir and environment lookup.
func LoadFrom(dir, path string, getenv func(string) string) (Config, error) {
	cfg := Default(dir)
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("config.Load: read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config.Load: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg, getenv)

	if cfg.Auth.RefreshMargin <= 0 {
		cfg.Auth.RefreshMargin = 60 * time.Second
	}
	if cfg.Auth.SessionFile == "" {
		cfg.Auth.SessionFile = filepath.Join(dir, "session.json")
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Auth.URL, "LEGENDS_AUTH_URL")
	set(&cfg.Auth.APIKey, "LEGENDS_AUTH_KEY")
	set(&cfg.Site.URL, "LEGENDS_SITE_URL")
	set(&cfg.Brief.DownloadDir, "LEGENDS_DOWNLOAD_DIR")
	set(&cfg.Brief.TemplatePath, "LEGENDS_BRIEF_TEMPLATE")
	set(&cfg.Logging.Level, "LEGENDS_LOG_LEVEL")
}
