package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(dir, "", noEnv)
	require.NoError(t, err)

	assert.True(t, cfg.Auth.Demo())
	assert.Equal(t, "http://localhost:5173", cfg.Site.URL)
	assert.Equal(t, 60*time.Second, cfg.Auth.RefreshMargin)
	assert.Equal(t, filepath.Join(dir, "session.json"), cfg.Auth.SessionFile)
	assert.Equal(t, filepath.Join(dir, "legends.log"), cfg.Logging.File)
	assert.Equal(t, ".", cfg.Brief.DownloadDir)
	assert.False(t, cfg.Auth.SignUpEstablishesSession)
}

func TestLoadFrom_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
auth:
  url: https://abc.supabase.co
  api_key: anon
  signup_establishes_session: true
  refresh_margin: 2m
site:
  url: https://legends.example
brief:
  download_dir: /tmp/briefs
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := LoadFrom(dir, "", noEnv)
	require.NoError(t, err)

	assert.False(t, cfg.Auth.Demo())
	assert.Equal(t, "anon", cfg.Auth.APIKey)
	assert.True(t, cfg.Auth.SignUpEstablishesSession)
	assert.Equal(t, 2*time.Minute, cfg.Auth.RefreshMargin)
	assert.Equal(t, "https://legends.example/reset-password", cfg.ResetRedirectURL())
	assert.Equal(t, "/tmp/briefs", cfg.Brief.DownloadDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth:\n  url: https://file.supabase.co\n"), 0o600))

	env := map[string]string{
		"LEGENDS_AUTH_URL": "https://env.supabase.co",
		"LEGENDS_SITE_URL": "https://site.example",
	}
	cfg, err := LoadFrom(dir, path, func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", cfg.Auth.URL)
	assert.Equal(t, "https://site.example", cfg.Site.URL)
}

func TestLoadFrom_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("auth: [unclosed"), 0o600))

	_, err := LoadFrom(dir, "", noEnv)
	assert.Error(t, err)
}

func TestAuthConfigDemo(t *testing.T) {
	tests := []struct {
		url  string
		demo bool
	}{
		{"", true},
		{PlaceholderAuthURL, true},
		{"https://real.supabase.co", false},
		{"http://localhost:9999", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.demo, AuthConfig{URL: tt.url}.Demo(), tt.url)
	}
}
