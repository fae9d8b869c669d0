package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Birukzex/NCS/internal/api"
	"github.com/Birukzex/NCS/internal/config"
	"github.com/Birukzex/NCS/internal/review"
	"github.com/Birukzex/NCS/internal/session"
	"github.com/Birukzex/NCS/internal/store"
)

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back the most recent database migration and exit")
	flag.Parse()

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(&cfg.Logging)

	if *migrateDown {
		if err := rollbackMigration(&cfg.Store, logger); err != nil {
			logger.WithError(err).Fatal("Migration rollback failed")
		}
		return
	}

	st, err := newStore(&cfg.Store, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize session store")
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := session.NewManager(ctx, st, logger)

	reviewer, err := review.NewClient(review.Config{
		BaseURL:   cfg.Review.BaseURL,
		APIKey:    cfg.Review.APIKey,
		Model:     cfg.Review.Model,
		Timeout:   cfg.Review.Timeout,
		RateLimit: cfg.Review.RateLimit,
		CacheSize: cfg.Review.CacheSize,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create review client")
	}

	server := api.NewServer(&cfg.Server, sessions, reviewer, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// SIGHUP re-reads the config and re-applies the logging settings.
	// Listener, store and collaborator settings need a restart.
	hupChan := make(chan os.Signal, 1)
	signal.Notify(hupChan, syscall.SIGHUP)
	go func() {
		for range hupChan {
			if err := configManager.Reload(); err != nil {
				logger.WithError(err).Error("Configuration reload failed")
				continue
			}
			applyLogging(logger, &configManager.GetConfig().Logging)
			logger.Info("Configuration reloaded")
		}
	}()

	logger.WithFields(logrus.Fields{
		"host":    cfg.Server.Host,
		"port":    cfg.Server.Port,
		"backend": cfg.Store.Backend,
	}).Info("Starting NCS session engine")

	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the process logger from the logging configuration.
func newLogger(cfg *config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	applyLogging(logger, cfg)
	return logger
}

// applyLogging sets the level and formatter from the logging configuration.
func applyLogging(logger *logrus.Logger, cfg *config.LoggingConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// rollbackMigration rolls back the most recent postgres migration.
func rollbackMigration(cfg *config.StoreConfig, logger *logrus.Logger) error {
	if cfg.Backend != "postgres" {
		return fmt.Errorf("migrations apply to the postgres backend, not %s", cfg.Backend)
	}

	runner, err := store.NewMigrationRunner(cfg.Postgres.URL, cfg.Postgres.MigrationsPath, logger)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := runner.Down(); err != nil {
		return err
	}

	version, dirty, err := runner.Version()
	if err != nil {
		logger.WithError(err).Warn("Could not read migration version after rollback")
		return nil
	}
	logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Migration rolled back")
	return nil
}

// newStore builds the configured persistence backend. The postgres backend
// runs pending schema migrations before first use.
func newStore(cfg *config.StoreConfig, logger *logrus.Logger) (store.Store, error) {
	switch cfg.Backend {
	case "sqlite":
		return store.NewSQLiteStore(cfg.SQLite.Path, cfg.Slot)
	case "postgres":
		runner, err := store.NewMigrationRunner(cfg.Postgres.URL, cfg.Postgres.MigrationsPath, logger)
		if err != nil {
			return nil, err
		}
		defer runner.Close()
		if err := runner.Up(); err != nil {
			return nil, err
		}
		return store.NewPostgresStoreFromURL(cfg.Postgres.URL, cfg.Slot)
	case "redis":
		return store.NewRedisStore(cfg.Redis.URL, cfg.Slot)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
