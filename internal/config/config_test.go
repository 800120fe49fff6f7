package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/locale"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{
		Storage: StorageConfig{Backend: BackendFile, Path: filepath.Join(dir, "regform", "preferences.yaml")},
		Locale:  LocaleConfig{Default: "en"},
		Log:     LogConfig{Level: "info", Format: "text"},
		Schema:  SchemaConfig{Component: "Registration"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("REGFORM_LOG_LEVEL", "debug")

	path := filepath.Join(dir, "config.yaml")
	body := []byte("storage:\n  backend: sqlite\n  path: /tmp/regform.db\nlocale:\n  default: th\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Backend != BackendSQLite || cfg.Storage.Path != "/tmp/regform.db" {
		t.Fatalf("unexpected storage %#v", cfg.Storage)
	}
	if cfg.DefaultLocale() != locale.Thai {
		t.Fatalf("expected th, got %s", cfg.DefaultLocale())
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected env override to debug, got %v (%v)", level, err)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Storage: StorageConfig{Backend: BackendMemory},
		Locale:  LocaleConfig{Default: "en"},
		Log:     LogConfig{Level: "warn"},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config: %v", err)
	}

	cases := map[string]func(*Config){
		"unknown backend":   func(c *Config) { c.Storage.Backend = "redis" },
		"file without path": func(c *Config) { c.Storage.Backend = BackendFile },
		"unknown locale":    func(c *Config) { c.Locale.Default = "fr" },
		"bad level":         func(c *Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}
