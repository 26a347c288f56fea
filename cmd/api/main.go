package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/asset-tracker/internal/config"
	"github.com/crucial707/asset-tracker/internal/db"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/crucial707/asset-tracker/internal/repo"
	"github.com/crucial707/asset-tracker/internal/scheduler"
	"github.com/crucial707/asset-tracker/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()
	setupLogging(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DBOptions().URL()); err != nil {
			slog.Error("failed to apply migrations", "error", err)
			os.Exit(1)
		}
	}

	database, err := db.Connect(ctx, cfg.DBOptions())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := seedAdmin(ctx, database, cfg); err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := scheduler.Run(ctx, cfg.StatusMetricsCron, repo.NewAssetRepo(database)); err != nil {
			slog.Error("status metrics scheduler stopped", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSEnabled(), "env", cfg.Env)
		if cfg.TLSEnabled() {
			errCh <- srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}

// setupLogging installs the default slog handler: JSON when format is "json", text otherwise.
func setupLogging(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

// seedAdmin creates the configured admin on an empty users table.
func seedAdmin(ctx context.Context, database *sql.DB, cfg config.Config) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	users := service.NewUserService(repo.NewUserRepo(database))
	created, err := users.EnsureAdmin(ctx, models.UserInput{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return err
	}
	if created {
		slog.Info("seeded admin user", "email", cfg.AdminEmail)
	}
	return nil
}
