// Package config loads application configuration from defaults, an optional
// YAML file, and JOBDESK_-prefixed environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	JWT      JWTConfig      `koanf:"jwt"`
	CORS     CORSConfig     `koanf:"cors"`
	Auth     AuthConfig     `koanf:"auth"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// JWTConfig contains token settings.
type JWTConfig struct {
	SecretKey            string        `koanf:"secret_key"`
	AccessTokenDuration  time.Duration `koanf:"access_token_duration"`
	RefreshTokenDuration time.Duration `koanf:"refresh_token_duration"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// AuthConfig contains settings for the login/register rate limiter.
type AuthConfig struct {
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`
	RateLimitBurst     int `koanf:"rate_limit_burst"`
}

const envPrefix = "JOBDESK_"

// Load reads configuration. path may be empty to skip the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(defaults(), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// JOBDESK_DATABASE_URL -> database.url
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.JWT.SecretKey == "" {
		return errors.New("jwt.secret_key is required")
	}
	return nil
}

func defaults() koanf.Provider {
	return confMapProvider{m: map[string]interface{}{
		"server.host":                  "0.0.0.0",
		"server.port":                  "8080",
		"server.metrics_port":          "9090",
		"server.read_timeout":          "15s",
		"server.read_header_timeout":   "5s",
		"server.write_timeout":         "15s",
		"server.idle_timeout":          "60s",
		"database.max_open_conns":      10,
		"database.max_idle_conns":      2,
		"database.conn_max_lifetime":   "30m",
		"database.connect_timeout":     "30s",
		"database.connect_attempts":    5,
		"log.level":                    "info",
		"log.format":                   "json",
		"jwt.access_token_duration":    "15m",
		"jwt.refresh_token_duration":   "720h",
		"cors.allowed_origins":         []string{"*"},
		"auth.rate_limit_per_minute":   10,
		"auth.rate_limit_burst":        5,
	}}
}

// confMapProvider is a flat-keyed in-memory koanf provider for defaults.
// Read unflattens the dotted keys into the nested shape koanf expects.
type confMapProvider struct {
	m map[string]interface{}
}

func (p confMapProvider) Read() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for key, v := range p.m {
		parts := strings.Split(key, ".")
		node := out
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return out, nil
}

func (p confMapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("confMapProvider does not support ReadBytes")
}
