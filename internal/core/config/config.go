package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the top-level application configuration.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Database    DatabaseConfig    `koanf:"database"`
	Geolocation GeolocationConfig `koanf:"geolocation"`
	Media       MediaConfig       `koanf:"media"`
	Auth        AuthConfig        `koanf:"auth"`
	CORS        CORSConfig        `koanf:"cors"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type GeolocationConfig struct {
	Endpoint string `koanf:"endpoint"`
	Timeout  string `koanf:"timeout"` // parsed and validated on startup
}

type MediaConfig struct {
	Endpoint string `koanf:"endpoint"`
	Folder   string `koanf:"folder"`
	Timeout  string `koanf:"timeout"`
}

type AuthConfig struct {
	// JWTSecret signs admin session tokens. Required.
	JWTSecret string `koanf:"jwt_secret"`

	// PasswordHash is the bcrypt hash of the admin password. Required.
	PasswordHash string `koanf:"password_hash"`
}

type CORSConfig struct {
	AllowedOrigin string `koanf:"allowed_origin"`
}

func (c GeolocationConfig) EffectiveTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

func (c MediaConfig) EffectiveTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if strings.TrimSpace(c.Geolocation.Endpoint) == "" {
		return fmt.Errorf("geolocation.endpoint is required")
	}
	if c.Geolocation.Timeout != "" {
		if _, err := time.ParseDuration(c.Geolocation.Timeout); err != nil {
			return fmt.Errorf("invalid geolocation.timeout %q: %w", c.Geolocation.Timeout, err)
		}
	}

	if strings.TrimSpace(c.Media.Endpoint) == "" {
		return fmt.Errorf("media.endpoint is required")
	}
	if c.Media.Timeout != "" {
		if _, err := time.ParseDuration(c.Media.Timeout); err != nil {
			return fmt.Errorf("invalid media.timeout %q: %w", c.Media.Timeout, err)
		}
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if strings.TrimSpace(c.Auth.PasswordHash) == "" {
		return fmt.Errorf("auth.password_hash is required")
	}

	return nil
}

// Load parses config from file + env and validates it. Environment
// variables use the STOREFRONT_ prefix with __ as the section separator,
// e.g. STOREFRONT_DATABASE__DSN.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 32,
		"server.mode":             "release",
		"database.type":           "postgres",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"geolocation.endpoint":    "http://ip-api.com/json",
		"geolocation.timeout":     "5s",
		"media.endpoint":          "",
		"media.folder":            "zmarties-products",
		"media.timeout":           "60s",
		"auth.jwt_secret":         "",
		"auth.password_hash":      "",
		"cors.allowed_origin":     "*",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "STOREFRONT_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
