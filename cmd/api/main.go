package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"vwds/config"
	"vwds/internal/auth"
	"vwds/internal/cache"
	"vwds/internal/handler"
	"vwds/internal/report"
	"vwds/internal/repository"
	"vwds/internal/service"
	"vwds/pkg/database"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	addr := pflag.String("addr", "", "listen address, overrides APP_PORT (e.g. :8080)")
	migrateOnly := pflag.Bool("migrate-only", false, "apply migrations and exit")
	rollback := pflag.Bool("rollback-last", false, "revert the most recent migration and exit")
	pflag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger, *addr, *migrateOnly, *rollback); err != nil {
		logger.Error("exiting", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func run(cfg *config.Config, logger *slog.Logger, addr string, migrateOnly, rollback bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "config", cfg.String())
	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case rollback:
		if err := database.RollbackLast(ctx, db, cfg.Database.Driver); err != nil {
			return err
		}
		logger.Info("rolled back last migration")
		return nil
	case migrateOnly:
		logger.Info("migrations applied")
		return nil
	}

	if err := service.NewUserService(repository.NewUserRepository(db)).EnsureAdmin(ctx, cfg.Admin, logger); err != nil {
		return err
	}

	var statsCache report.StatsCache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisStatsCache(ctx, cfg.Cache)
		if err != nil {
			logger.Warn("dashboard cache disabled", "err", err)
		} else {
			defer rc.Close()
			statsCache = rc
			logger.Info("dashboard cache enabled", "addr", cfg.Cache.RedisAddr, "ttl", cfg.Cache.StatsTTL)
		}
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	h := handler.NewHandler(cfg, db, tokens, statsCache, logger)

	if addr == "" {
		addr = ":" + cfg.Server.Port
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
