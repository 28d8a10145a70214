package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/listview"
	"github.com/rpggio/listview/internal/domain/resource"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Transport TransportConfig `yaml:"transport"`
	Auth      AuthConfig      `yaml:"auth"`
	Views     ViewsConfig     `yaml:"views"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
}

// AuthConfig controls bearer token auth. With auth disabled every caller
// is the default principal.
type AuthConfig struct {
	Enabled      bool   `yaml:"enabled"`
	BootstrapKey string `yaml:"bootstrap_key"`
	Tenant       string `yaml:"tenant"`
	Username     string `yaml:"username"`
	Role         string `yaml:"role"`
}

// ViewsConfig tunes the list view service. Presets override the built-in
// defaults field by field.
type ViewsConfig struct {
	MaxViews int                               `yaml:"max_views"`
	Locale   string                            `yaml:"locale"`
	Presets  map[resource.Kind]listview.Preset `yaml:"presets"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "listview.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Auth: AuthConfig{
			Tenant: "default",
			Role:   string(access.RoleAdmin),
		},
		Views: ViewsConfig{
			MaxViews: 256,
			Locale:   "en",
		},
	}

	if path := os.Getenv("LISTVIEW_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("LISTVIEW_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("LISTVIEW_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid LISTVIEW_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("LISTVIEW_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("LISTVIEW_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("LISTVIEW_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if mode := os.Getenv("LISTVIEW_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if enabled := os.Getenv("LISTVIEW_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid LISTVIEW_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if key := os.Getenv("LISTVIEW_BOOTSTRAP_KEY"); key != "" {
		cfg.Auth.BootstrapKey = key
	}
	if tenant := os.Getenv("LISTVIEW_TENANT"); tenant != "" {
		cfg.Auth.Tenant = tenant
	}
	if role := os.Getenv("LISTVIEW_ROLE"); role != "" {
		cfg.Auth.Role = role
	}
	if maxViews := os.Getenv("LISTVIEW_MAX_VIEWS"); maxViews != "" {
		n, err := strconv.Atoi(maxViews)
		if err != nil {
			return fmt.Errorf("invalid LISTVIEW_MAX_VIEWS: %w", err)
		}
		cfg.Views.MaxViews = n
	}
	if locale := os.Getenv("LISTVIEW_LOCALE"); locale != "" {
		cfg.Views.Locale = locale
	}
	return nil
}

// Validate checks values that cannot be fixed by defaults.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "stdio", "http":
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	if c.Views.MaxViews <= 0 {
		return fmt.Errorf("views.max_views must be positive, got %d", c.Views.MaxViews)
	}
	if _, err := access.ParseRole(c.Auth.Role); err != nil {
		return fmt.Errorf("auth.role: %w", err)
	}
	for kind := range c.Views.Presets {
		if _, err := resource.ParseKind(string(kind)); err != nil {
			return fmt.Errorf("views.presets: %w", err)
		}
	}
	return nil
}

// DefaultPrincipal is the caller used when auth is disabled.
func (c Config) DefaultPrincipal() access.Principal {
	role, _ := access.ParseRole(c.Auth.Role)
	return access.Principal{
		TenantID: c.Auth.Tenant,
		Username: c.Auth.Username,
		Role:     role,
	}
}

// Presets returns the built-in presets with configured overrides applied.
func (c Config) Presets() map[resource.Kind]listview.Preset {
	return listview.MergePresets(listview.DefaultPresets(), c.Views.Presets)
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
