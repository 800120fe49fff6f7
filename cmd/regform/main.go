package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/pkg/i18n"
	"github.com/goliatone/go-regform/pkg/locale"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/schema"
	"github.com/goliatone/go-regform/pkg/screen"
)

func main() {
	configPath := flag.String("config", "", "config file (defaults to <user config dir>/regform/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := newLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		if errors.Is(err, screen.ErrAborted) || errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		logger.Error("regform failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	storage, closeStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	store := locale.NewStore(storage,
		locale.WithLogger(logger),
		locale.WithFallback(cfg.DefaultLocale()),
	)
	current := store.Init(ctx)
	logger.Debug("locale resolved", "locale", current.String(), "backend", cfg.Storage.Backend)

	catalog, err := i18n.NewCatalog()
	if err != nil {
		return err
	}
	tr := i18n.NewTranslator(catalog, func() string { return store.Current().String() })

	opts := []screen.Option{screen.WithLogger(logger)}
	if cfg.Schema.OpenAPI != "" {
		raw, err := os.ReadFile(cfg.Schema.OpenAPI)
		if err != nil {
			return fmt.Errorf("read openapi document: %w", err)
		}
		compiled, err := registration.FromOpenAPI(ctx, raw, cfg.Schema.Component,
			schema.WithMessageTranslator(tr),
			schema.WithLogger(logger),
		)
		if err != nil {
			return err
		}
		opts = append(opts, screen.WithSchema(compiled))
	}

	sc, err := screen.New(store, tr, opts...)
	if err != nil {
		return err
	}
	res, err := sc.Run(ctx)
	if err != nil {
		return err
	}
	if res != nil {
		logger.Info("registration accepted", "receipt", res.Receipt, "email", res.Registration.Email)
	}
	return nil
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (locale.Storage, func(), error) {
	noop := func() {}
	switch cfg.Backend {
	case config.BackendMemory:
		return locale.NewMemoryStorage(), noop, nil
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, noop, fmt.Errorf("create storage dir: %w", err)
		}
		db, err := locale.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return locale.NewFileStorage(cfg.Path), noop, nil
	}
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
