package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API  APIConfig
	UI   UIConfig
	Stub StubConfig
}

// APIConfig points the client at the shop backend.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	CDNURL         string `mapstructure:"cdn_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencyLabel string `mapstructure:"currency_label"`
}

// StubConfig configures the local stalld fixture server.
type StubConfig struct {
	Addr   string `mapstructure:"addr"`
	DBPath string `mapstructure:"db_path"`
}

// Load reads configuration from file and env. Env var overrides use
// prefix WEBSTALL_; the config file is TOML at $WEBSTALL_CONFIG or
// ~/.config/webstall/config.toml.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8081/api")
	v.SetDefault("api.cdn_url", "http://localhost:8081/content")
	v.SetDefault("api.timeout_seconds", 10)
	v.SetDefault("ui.currency_label", "synapses")
	v.SetDefault("stub.addr", ":8081")
	v.SetDefault("stub.db_path", filepath.Join(os.Getenv("HOME"), ".local", "share", "webstall", "stalld.db"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("WEBSTALL_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "webstall"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("WEBSTALL")
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
