package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config defines server and client configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Client    ClientConfig    `yaml:"client"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

type DBConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

type TransportConfig struct {
	// Mode is "http" (REST API plus MCP on /mcp) or "stdio" (MCP only).
	Mode string `yaml:"mode" validate:"oneof=http stdio"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// LocalUser owns all activity when auth is disabled.
	LocalUser string `yaml:"local_user" validate:"required_if=Enabled false"`
}

type AnalyticsConfig struct {
	// Timezone is an IANA zone name; daily buckets and relative dates use it.
	Timezone string `yaml:"timezone"`
}

type ClientConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Location resolves the analytics timezone.
func (c AnalyticsConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid analytics timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "newsdesk.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		Auth: AuthConfig{
			Enabled:   true,
			LocalUser: "local",
		},
		Analytics: AnalyticsConfig{
			Timezone: "UTC",
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file and environment
// variables. A .env file in the working directory, if present, is loaded
// into the environment first without overriding variables already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Default()

	if path := os.Getenv("NEWSDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("NEWSDESK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("NEWSDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NEWSDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("NEWSDESK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("NEWSDESK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if mode := os.Getenv("NEWSDESK_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if enabled := os.Getenv("NEWSDESK_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NEWSDESK_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if localUser := os.Getenv("NEWSDESK_AUTH_LOCAL_USER"); localUser != "" {
		cfg.Auth.LocalUser = localUser
	}
	if tz := os.Getenv("NEWSDESK_ANALYTICS_TIMEZONE"); tz != "" {
		cfg.Analytics.Timezone = tz
	}
	if baseURL := os.Getenv("NEWSDESK_CLIENT_BASE_URL"); baseURL != "" {
		cfg.Client.BaseURL = baseURL
	}
	if token := os.Getenv("NEWSDESK_CLIENT_TOKEN"); token != "" {
		cfg.Client.Token = token
	}
	if timeout := os.Getenv("NEWSDESK_CLIENT_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid NEWSDESK_CLIENT_TIMEOUT: %w", err)
		}
		cfg.Client.Timeout = d
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values Load cannot fix up.
func (c Config) Validate() error {
	c.Log.Level = strings.ToLower(c.Log.Level)
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config %s=%v: must satisfy %s", fe.Namespace(), fe.Value(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Analytics.Location(); err != nil {
		return err
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
