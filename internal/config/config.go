package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Backend  BackendConfig
	Auth     AuthConfig
	Location LocationConfig
	Database DatabaseConfig
}

// BackendConfig holds hosted-API settings.
type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// AuthConfig holds the saved session token.
type AuthConfig struct {
	Token string `mapstructure:"token"`
}

// LocationConfig holds the user's home coordinate and search radius.
type LocationConfig struct {
	Lat      float64 `mapstructure:"lat"`
	Lon      float64 `mapstructure:"lon"`
	RadiusKM float64 `mapstructure:"radius_km"`
}

// DatabaseConfig holds sqlite settings for the offline cache.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// SNUG_, e.g. SNUG_BACKEND_BASE_URL.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("backend.base_url", "http://localhost:8474")
	v.SetDefault("backend.api_key", "")
	v.SetDefault("backend.timeout_seconds", 10)
	v.SetDefault("auth.token", "")
	v.SetDefault("location.lat", 51.5074)
	v.SetDefault("location.lon", -0.1278)
	v.SetDefault("location.radius_km", 5.0)
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "snug", "snug.db"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SNUG_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "snug"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SNUG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. The session token is stored in plain text; the file lives under the
// user's own config directory.
func Save(cfg Config) error {
	path := os.Getenv("SNUG_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "snug", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("backend.base_url", cfg.Backend.BaseURL)
	v.Set("backend.api_key", cfg.Backend.APIKey)
	v.Set("backend.timeout_seconds", cfg.Backend.TimeoutSeconds)
	v.Set("auth.token", cfg.Auth.Token)
	v.Set("location.lat", cfg.Location.Lat)
	v.Set("location.lon", cfg.Location.Lon)
	v.Set("location.radius_km", cfg.Location.RadiusKM)
	v.Set("database.path", cfg.Database.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
