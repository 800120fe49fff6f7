package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-regform/pkg/locale"
)

// Storage backends for the locale preference.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Locale  LocaleConfig  `mapstructure:"locale"`
	Log     LogConfig     `mapstructure:"log"`
	Schema  SchemaConfig  `mapstructure:"schema"`
}

// StorageConfig selects where the locale preference is persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// LocaleConfig holds the fallback used when neither storage nor the device
// yield a supported locale.
type LocaleConfig struct {
	Default string `mapstructure:"default"`
}

// LogConfig holds diagnostics settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchemaConfig optionally replaces the embedded registration schema with a
// component of an OpenAPI document.
type SchemaConfig struct {
	OpenAPI   string `mapstructure:"openapi"`
	Component string `mapstructure:"component"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// REGFORM_, e.g. REGFORM_STORAGE_BACKEND=sqlite. An explicit path must exist;
// the default location is optional.
func Load(path string) (Config, error) {
	v := viper.New()

	storagePath := ""
	if dir, err := userDir(); err == nil {
		storagePath = filepath.Join(dir, "preferences.yaml")
	}
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.path", storagePath)
	v.SetDefault("locale.default", string(locale.Default))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("schema.openapi", "")
	v.SetDefault("schema.component", "Registration")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if dir, err := userDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("REGFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			return fmt.Errorf("config: storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	if _, ok := locale.Parse(c.Locale.Default); !ok {
		return fmt.Errorf("config: unsupported locale.default %q", c.Locale.Default)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// DefaultLocale returns the configured fallback locale.
func (c Config) DefaultLocale() locale.Locale {
	l, ok := locale.Parse(c.Locale.Default)
	if !ok {
		return locale.Default
	}
	return l
}

// SlogLevel maps the configured level name to a slog level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return 0, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}

func userDir() (string, error) {
	path, err := locale.DefaultFilePath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
