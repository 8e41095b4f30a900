package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"contactcalls/internal/config"
	"contactcalls/internal/store"
	"contactcalls/pkg/logger"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := store.Open(rootCtx, cfg.PostgresDSN(), store.PoolConfig{}, log)
	if err != nil {
		log.Error("database init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close(db) }()

	if err := store.Migrate(db); err != nil {
		log.Error("migration failed", "err", err)
		os.Exit(1)
	}

	if cfg.App.SeedDemoData {
		if err := store.Seed(db, log); err != nil {
			log.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	// Report caching is optional; without a redis addr the handlers fall
	// through to the database on every request.
	var rdb *redis.Client
	if cfg.Cache.Addr != "" {
		rdb, err = store.OpenRedis(rootCtx, store.RedisConfig{Addr: cfg.Cache.Addr})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer func() { _ = rdb.Close() }()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, db, rdb, cfg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}
