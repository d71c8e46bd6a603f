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

	"github.com/redis/go-redis/v9"

	"jobly/internal/api"
	"jobly/internal/auth"
	"jobly/internal/config"
	"jobly/internal/database"
	"jobly/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("api bootstrapping",
		slog.String("db_host", cfg.Database.Host),
		slog.Int("db_port", cfg.Database.Port),
		slog.String("db_name", cfg.Database.Name),
		slog.String("db_sslmode", cfg.Database.SSLMode),
	)

	pool, err := database.InitDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer pool.Close()
	logger.Info("database connection ready")

	if cfg.Database.ApplySchema {
		if err := database.ApplySchema(ctx, pool); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	// 登录限流在 Redis 不可用时放行，这里只告警不退出。
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, login rate limiting disabled until it recovers", slog.Any("error", err))
	}

	authService, err := auth.NewAuthService(cfg.Auth.SecretKey, cfg.Auth.TokenTTL, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("init auth service: %w", err)
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(
		router,
		api.StoresFrom(store.New(pool, authService)),
		authService,
		redisClient,
		cfg.Auth.LoginRateLimitPerHour,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http: %w", err)
	}
	return <-errCh
}
