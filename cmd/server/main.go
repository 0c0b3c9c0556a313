package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fittogether/fittogether/internal/config"
	"github.com/fittogether/fittogether/internal/server"
	"github.com/fittogether/fittogether/internal/storage/postgres"
	"github.com/fittogether/fittogether/internal/throttle"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := server.NewLogger(cfg)
	slog.SetDefault(logger)

	ctx := context.Background()
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer store.Close()

	var limiter *throttle.Limiter
	if cfg.ThrottleEnabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		limiter = throttle.New(client, cfg.LoginMaxAttempts, cfg.LoginAttemptWindow)
	}

	srv, err := server.New(cfg, logger, store, store, limiter)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	go func() {
		logger.Info("fittogether backend listening", slog.String("addr", cfg.AppAddr))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
