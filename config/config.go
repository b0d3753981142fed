// Package config loads runtime configuration from .env, CONFIGURATOR_* env
// vars, an optional config file and CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the service reads
const EnvPrefix = "CONFIGURATOR"

// CatalogConfig selects where catalog snapshots come from
type CatalogConfig struct {
	Source string `mapstructure:"source"` // "file" or "postgres"
	Dir    string `mapstructure:"dir"`
	Watch  bool   `mapstructure:"watch"`
}

// CartConfig points at the storefront cart endpoints
type CartConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WidgetConfig tunes the add-to-cart control
type WidgetConfig struct {
	TimeUnit      time.Duration `mapstructure:"time_unit"`
	IdleLabel     string        `mapstructure:"idle_label"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxMounted    int           `mapstructure:"max_mounted"`
}

// MoneyConfig selects the money formatter
type MoneyConfig struct {
	Currency string `mapstructure:"currency"`
	Symbol   string `mapstructure:"symbol"`
}

// Config holds all runtime configuration
type Config struct {
	Port        string        `mapstructure:"port"`
	DatabaseURL string        `mapstructure:"database_url"`
	Catalog     CatalogConfig `mapstructure:"catalog"`
	Cart        CartConfig    `mapstructure:"cart"`
	Widget      WidgetConfig  `mapstructure:"widget"`
	Money       MoneyConfig   `mapstructure:"money"`
	Verbose     bool          `mapstructure:"verbose"`
}

// SetDefaults registers built-in defaults on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.dir", "catalog")
	v.SetDefault("catalog.watch", true)
	v.SetDefault("cart.base_url", "http://localhost:9292")
	v.SetDefault("cart.timeout", 10*time.Second)
	v.SetDefault("widget.time_unit", time.Second)
	v.SetDefault("widget.idle_label", "Add to cart")
	v.SetDefault("widget.idle_ttl", 30*time.Minute)
	v.SetDefault("widget.sweep_interval", time.Minute)
	v.SetDefault("widget.max_mounted", 10000)
	v.SetDefault("money.currency", "")
	v.SetDefault("money.symbol", "$")
	v.SetDefault("verbose", false)
}

// BindEnv makes v read CONFIGURATOR_* variables, with nested keys joined by
// underscores (catalog.dir -> CONFIGURATOR_CATALOG_DIR)
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v into a Config and validates it
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no safe fallback
func (c Config) Validate() error {
	switch c.Catalog.Source {
	case "file":
		if c.Catalog.Dir == "" {
			return fmt.Errorf("catalog.dir is required for the file catalog source")
		}
	case "postgres":
	default:
		return fmt.Errorf("unknown catalog source %q (want file or postgres)", c.Catalog.Source)
	}
	if c.Cart.BaseURL == "" {
		return fmt.Errorf("cart.base_url is required")
	}
	if c.Widget.TimeUnit <= 0 {
		return fmt.Errorf("widget.time_unit must be positive")
	}
	if c.Widget.IdleTTL < 0 || c.Widget.MaxMounted < 0 {
		return fmt.Errorf("widget.idle_ttl and widget.max_mounted must not be negative")
	}
	return nil
}

// LoadEnvFile loads .env in development. In production variables are
// expected to be set directly. A missing file is not an error.
func LoadEnvFile(path string) (bool, error) {
	if os.Getenv("ENV") == "production" {
		return false, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	// Overload so .env values win over the inherited environment
	if err := godotenv.Overload(path); err != nil {
		return false, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return true, nil
}
