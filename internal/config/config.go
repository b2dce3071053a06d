package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides, e.g. FLEET_SERVER__ADDR.
const EnvPrefix = "FLEET_"

// Config 应用配置
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Auth      AuthConfig      `json:"auth"`
	Status    StatusConfig    `json:"status"`
	RateLimit RateLimitConfig `json:"rateLimit"`
	Logging   LoggingConfig   `json:"logging"`
}

type ServerConfig struct {
	Addr string `json:"addr"`
	// Mode is passed to gin.SetMode: debug, release or test.
	Mode string `json:"mode"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

// AuthConfig holds token signing secrets and lifetimes.
type AuthConfig struct {
	AccessSecret  string        `json:"accessSecret"`
	RefreshSecret string        `json:"refreshSecret"`
	AccessTTL     time.Duration `json:"accessTTL"`
	RefreshTTL    time.Duration `json:"refreshTTL"`
	BcryptCost    int           `json:"bcryptCost"`
}

// StatusConfig controls how calendar dates map to time windows.
type StatusConfig struct {
	Timezone string `json:"timezone"`
}

type RateLimitConfig struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
}

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json or console
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Database: DatabaseConfig{
			Path: "./data/fleet.db",
		},
		// Signing secrets have no default and must come from the file or env.
		Auth: AuthConfig{
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
			BcryptCost: 12,
		},
		Status: StatusConfig{
			Timezone: "UTC",
		},
		RateLimit: RateLimitConfig{
			Requests: 20,
			Window:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 加载配置: defaults, then the optional YAML or JSON file, then FLEET_ env vars.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch ext := strings.ToLower(filepath.Ext(path)); ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps FLEET_RATE_LIMIT__WINDOW to rateLimit.window.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	parts := strings.Split(s, "__")
	for i, p := range parts {
		parts[i] = lowerCamel(p)
	}
	return strings.Join(parts, ".")
}

func lowerCamel(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i := 1; i < len(words); i++ {
		w := words[i]
		switch w {
		case "ttl":
			words[i] = "TTL"
		case "":
		default:
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, "")
}

// Validate checks values that would otherwise fail at first use.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.AccessSecret == "" {
		errs = append(errs, errors.New("auth.accessSecret must be set"))
	}
	if c.Auth.RefreshSecret == "" {
		errs = append(errs, errors.New("auth.refreshSecret must be set"))
	}
	if c.Auth.AccessSecret != "" && c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("auth.accessSecret and auth.refreshSecret must differ"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("auth token lifetimes must be positive"))
	}
	if _, err := time.LoadLocation(c.Status.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("status.timezone: %w", err))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rateLimit requests and window must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must be set"))
	}
	return errors.Join(errs...)
}

// Location returns the reference timezone for calendar dates.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Status.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
