package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	loc, err := cfg.Analytics.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSDESK_SERVER_PORT", "9090")
	t.Setenv("NEWSDESK_DB_PATH", "/tmp/activity.db")
	t.Setenv("NEWSDESK_TRANSPORT_MODE", "stdio")
	t.Setenv("NEWSDESK_AUTH_ENABLED", "false")
	t.Setenv("NEWSDESK_AUTH_LOCAL_USER", "editor")
	t.Setenv("NEWSDESK_ANALYTICS_TIMEZONE", "Europe/Berlin")
	t.Setenv("NEWSDESK_CLIENT_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/activity.db", cfg.DB.Path)
	require.Equal(t, TransportStdio, cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
	require.Equal(t, "editor", cfg.Auth.LocalUser)
	require.Equal(t, 3*time.Second, cfg.Client.Timeout)

	loc, err := cfg.Analytics.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsdesk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
log:
  level: debug
client:
  base_url: https://news.example.com
  timeout: 30s
`), 0o600))
	t.Setenv("NEWSDESK_CONFIG_PATH", path)
	t.Setenv("NEWSDESK_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7000, cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "https://news.example.com", cfg.Client.BaseURL)
	require.Equal(t, 30*time.Second, cfg.Client.Timeout)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("NEWSDESK_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"transport", func(c *Config) { c.Transport.Mode = "grpc" }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"local user", func(c *Config) { c.Auth.Enabled = false; c.Auth.LocalUser = "" }},
		{"timezone", func(c *Config) { c.Analytics.Timezone = "Mars/Olympus" }},
		{"client timeout", func(c *Config) { c.Client.Timeout = 0 }},
		{"client url", func(c *Config) { c.Client.BaseURL = "not a url" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, Default().Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NEWSDESK_DB_PATH=from-dotenv.db\nNEWSDESK_LOG_LEVEL=debug\n"), 0o600))
	t.Chdir(dir)

	// Register cleanup for both keys, then clear them so .env can fill them.
	t.Setenv("NEWSDESK_DB_PATH", "")
	require.NoError(t, os.Unsetenv("NEWSDESK_DB_PATH"))
	t.Setenv("NEWSDESK_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-dotenv.db", cfg.DB.Path)
	require.Equal(t, "error", cfg.Log.Level, "variables already set win over .env")
}

func TestValidate_LocalUserOnlyRequiredWithoutAuth(t *testing.T) {
	cfg := Default()
	cfg.Auth.LocalUser = ""
	require.NoError(t, cfg.Validate())

	cfg.Auth.Enabled = false
	err := cfg.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "LocalUser")
}

func TestLoad_NormalizesLogLevel(t *testing.T) {
	t.Setenv("NEWSDESK_LOG_LEVEL", "DEBUG")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("NEWSDESK_DB_PATH='unterminated\n"), 0o600))
	t.Chdir(dir)

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), ".env")
}
