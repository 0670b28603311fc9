package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tomaskrat/videotube/internal/app"
	"github.com/tomaskrat/videotube/internal/config"
	"github.com/tomaskrat/videotube/internal/database"
	"github.com/tomaskrat/videotube/internal/logging"
	"github.com/tomaskrat/videotube/internal/metrics"
	"github.com/tomaskrat/videotube/internal/password"
	"github.com/tomaskrat/videotube/internal/redis"
	"github.com/tomaskrat/videotube/internal/server"
	"github.com/tomaskrat/videotube/internal/token"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func setupTokenManager(cfg *config.Config, clock clockwork.Clock) *token.Manager {
	manager, err := token.NewManager(token.Config{
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
		RefreshTTL:    cfg.RefreshTokenTTL,
	}, clock)
	if err != nil {
		slog.Error("Failed to create token manager", "error", err)
		os.Exit(1)
	}
	return manager
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	userRepo := database.NewUserRepo(pool)
	subscriptionRepo := database.NewSubscriptionRepo(pool)
	videoRepo := database.NewVideoRepo(pool)

	tokenManager := setupTokenManager(cfg, clock)
	hasher, err := password.NewHasher(password.DefaultConfig())
	if err != nil {
		slog.Error("Failed to create password hasher", "error", err)
		os.Exit(1)
	}
	loginLimiter := redis.NewLoginLimiter(redisClient, cfg.LoginMaxFailures, cfg.LoginFailureWindow)

	authSvc := app.NewAuthService(userRepo, tokenManager, hasher, loginLimiter)
	profileSvc := app.NewProfileService(userRepo, subscriptionRepo, videoRepo)
	videoSvc := app.NewVideoService(userRepo, videoRepo)

	healthChecks := []server.HealthCheck{
		{Name: "postgres", Check: pool.Ping},
		{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	srv := server.NewServer(cfg, authSvc, profileSvc, videoSvc, metrics.NewRegistry(), healthChecks)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
