package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carty/config"
	"carty/internal/cache"
	"carty/internal/database"
	"carty/internal/logger"
	"carty/internal/middleware"
	"carty/internal/router"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	l, err := logger.Init(cfg.Server.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer l.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		zap.L().Fatal("database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		zap.L().Fatal("migrate", zap.Error(err))
	}

	var limiter middleware.Limiter = middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	if cfg.Redis.Addr != "" {
		pool, err := cache.NewPool(&cfg.Redis)
		if err != nil {
			zap.L().Fatal("redis", zap.Error(err))
		}
		defer pool.Close()
		limiter = middleware.NewRedisRateLimiter(pool, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		zap.L().Info("[RateLimit] using redis", zap.String("addr", cfg.Redis.Addr))
	}

	engine, bg := router.Setup(cfg, db, router.NewGateway(cfg), limiter)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go bg.Subscriptions.RunExpiry(ctx, time.Hour)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		zap.L().Info("server listening", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("listen", zap.Error(err))
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("shutting down...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	bg.Notifications.Wait()
	zap.L().Info("server stopped")
}
