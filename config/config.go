package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Source   SourceConfig
	Database DatabaseConfig
	Store    StoreConfig
	Alert    AlertConfig
	Display  DisplayConfig
}

// SourceConfig says where the catalogue document lives.
type SourceConfig struct {
	Location string
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StoreConfig selects the catalogue store strategy: "cached" or "remote".
type StoreConfig struct {
	Strategy string
}

// AlertConfig holds alert settings.
type AlertConfig struct {
	Duration time.Duration
}

// DisplayConfig holds presentation settings.
type DisplayConfig struct {
	Locale string
}

// Load reads configuration from file and env. Env var overrides use prefix SHOWCASE_.
func Load() (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("source.location", "data.json")
	v.SetDefault("database.path", filepath.Join(home, ".showcase", "catalogue.db"))
	v.SetDefault("store.strategy", "cached")
	v.SetDefault("alert.duration", "5s")
	v.SetDefault("display.locale", "pl")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SHOWCASE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "showcase"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHOWCASE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicitly named file that cannot be read is an error; a missing default file is not.
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path is the file Save writes to: $SHOWCASE_CONFIG, or the default location Load searches.
func Path() string {
	if path := os.Getenv("SHOWCASE_CONFIG"); path != "" {
		return path
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "showcase", "config.toml")
}

// Save writes the provided config to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("source.location", cfg.Source.Location)
	v.Set("database.path", cfg.Database.Path)
	v.Set("store.strategy", cfg.Store.Strategy)
	v.Set("alert.duration", cfg.Alert.Duration.String())
	v.Set("display.locale", cfg.Display.Locale)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
